// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package server

import (
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/gtp/pkg/packet/gtpu"
	"github.com/nttcom/gtp/pkg/packet/gtpv2"
)

type Plane uint8

const (
	PlaneControl Plane = iota
	PlaneUser
)

func (p Plane) String() string {
	switch p {
	case PlaneControl:
		return "gtpc"
	case PlaneUser:
		return "gtpu"
	}
	return fmt.Sprintf("plane(%d)", uint8(p))
}

// ParsePlane accepts the short ("c", "u") and long ("gtpc", "gtpu") plane names.
func ParsePlane(s string) (Plane, error) {
	switch s {
	case "c", "gtpc":
		return PlaneControl, nil
	case "u", "gtpu":
		return PlaneUser, nil
	}
	return 0, fmt.Errorf("unknown plane %q", s)
}

// Datagram is one decoded GTP message of either plane.
type Datagram struct {
	Plane   Plane
	Type    string
	Message zapcore.ObjectMarshaler
}

func (d *Datagram) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("plane", d.Plane.String())
	enc.AddString("type", d.Type)
	return enc.AddObject("message", d.Message)
}

// Decode parses data as a single GTP-C (GTPv2) or GTP-U message.
func Decode(plane Plane, data []byte) (*Datagram, error) {
	switch plane {
	case PlaneControl:
		m, err := gtpv2.Parse(data)
		if err != nil {
			return nil, err
		}
		return &Datagram{Plane: plane, Type: m.MessageType().String(), Message: m}, nil
	case PlaneUser:
		m, err := gtpu.Parse(data)
		if err != nil {
			return nil, err
		}
		return &Datagram{Plane: plane, Type: m.MessageType().String(), Message: m}, nil
	}
	return nil, fmt.Errorf("unknown plane %s", plane)
}
