// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGtpcPort = "2123"
	DefaultGtpuPort = "2152"
	DefaultLogPath  = "/var/log/gtpmond/"
	DefaultLogName  = "gtpmond.log"
)

type Endpoint struct {
	Address string `yaml:"address"`
	Port    string `yaml:"port"`
}

type Log struct {
	Path  string `yaml:"path"`
	Name  string `yaml:"name"`
	Debug bool   `yaml:"debug"`
}

type Global struct {
	Gtpc    Endpoint `yaml:"gtpc"`
	Gtpu    Endpoint `yaml:"gtpu"`
	Metrics Endpoint `yaml:"metrics"`
	Log     Log      `yaml:"log"`
}

type Config struct {
	Global Global `yaml:"global"`
}

func ReadConfigFile(configFile string) (Config, error) {
	c := new(Config)

	f, err := os.Open(configFile)
	if err != nil {
		return *c, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return *c, err
	}
	c.setDefaults()
	return *c, nil
}

// setDefaults fills the ports and log location left empty. The metrics
// endpoint stays disabled unless configured.
func (c *Config) setDefaults() {
	if c.Global.Gtpc.Port == "" {
		c.Global.Gtpc.Port = DefaultGtpcPort
	}
	if c.Global.Gtpu.Port == "" {
		c.Global.Gtpu.Port = DefaultGtpuPort
	}
	if c.Global.Log.Path == "" {
		c.Global.Log.Path = DefaultLogPath
	}
	if c.Global.Log.Name == "" {
		c.Global.Log.Name = DefaultLogName
	}
}
