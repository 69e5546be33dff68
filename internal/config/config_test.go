// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gtpmond.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadConfigFile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Config
	}{
		{
			name: "Full",
			input: `global:
  gtpc:
    address: 192.0.2.1
    port: "12123"
  gtpu:
    address: 192.0.2.1
    port: "12152"
  metrics:
    address: 127.0.0.1
    port: "9100"
  log:
    path: /tmp/gtp/
    name: monitor.log
    debug: true
`,
			expected: Config{Global: Global{
				Gtpc:    Endpoint{Address: "192.0.2.1", Port: "12123"},
				Gtpu:    Endpoint{Address: "192.0.2.1", Port: "12152"},
				Metrics: Endpoint{Address: "127.0.0.1", Port: "9100"},
				Log:     Log{Path: "/tmp/gtp/", Name: "monitor.log", Debug: true},
			}},
		},
		{
			name: "Defaults",
			input: `global:
  gtpc:
    address: 0.0.0.0
`,
			expected: Config{Global: Global{
				Gtpc: Endpoint{Address: "0.0.0.0", Port: DefaultGtpcPort},
				Gtpu: Endpoint{Port: DefaultGtpuPort},
				Log:  Log{Path: DefaultLogPath, Name: DefaultLogName},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ReadConfigFile(writeConfig(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestReadConfigFile_Errors(t *testing.T) {
	_, err := ReadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ReadConfigFile(writeConfig(t, "global: [unterminated"))
	assert.Error(t, err)
}
