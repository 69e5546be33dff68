// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"encoding/binary"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/gtp/pkg/packet/gtputil"
)

const (
	Version uint8 = 2

	HeaderPiggybackBit uint8 = 0x10
	HeaderTEIDBit      uint8 = 0x08
	HeaderPriorityBit  uint8 = 0x04

	// octets preceding the length-counted part: flags, type and length
	HeaderPrefixLength      = 4
	HeaderLengthWithoutTEID = 8
	HeaderLengthWithTEID    = 12
	MaxSequenceNumber       = 0xffffff
)

// Header is the GTPv2-C message header (5.1).
type Header struct {
	Type           MessageType
	Piggyback      bool
	HasTEID        bool
	TEID           uint32
	HasPriority    bool
	Priority       uint8 // 4 bits
	Length         uint16
	SequenceNumber uint32 // 24 bits
}

// Len returns the encoded size of the header.
func (h *Header) Len() int {
	if h.HasTEID {
		return HeaderLengthWithTEID
	}
	return HeaderLengthWithoutTEID
}

func (h *Header) DecodeFromBytes(data []byte) error {
	if len(data) < HeaderLengthWithoutTEID {
		return ErrInvalidMessageFormat
	}
	if data[0]>>5 != Version {
		return ErrInvalidMessageFormat
	}
	hdr := Header{
		Type:        MessageType(data[1]),
		Piggyback:   gtputil.IsBitSet(data[0], HeaderPiggybackBit),
		HasTEID:     gtputil.IsBitSet(data[0], HeaderTEIDBit),
		HasPriority: gtputil.IsBitSet(data[0], HeaderPriorityBit),
		Length:      binary.BigEndian.Uint16(data[2:4]),
	}
	if len(data) < hdr.Len() || int(hdr.Length)+HeaderPrefixLength < hdr.Len() {
		return ErrInvalidMessageFormat
	}
	if int(hdr.Length)+HeaderPrefixLength > len(data) {
		return ErrInvalidMessageFormat
	}

	rest := data[HeaderPrefixLength:]
	if hdr.HasTEID {
		hdr.TEID = binary.BigEndian.Uint32(rest[0:4])
		rest = rest[4:]
	}
	hdr.SequenceNumber = gtputil.Uint24(rest[0:3])
	if hdr.HasPriority {
		hdr.Priority = rest[3] >> 4
	}
	*h = hdr
	return nil
}

// Serialize writes the header with the stored length.
func (h *Header) Serialize() []byte {
	flags := Version << 5
	flags = gtputil.SetBit(flags, HeaderPiggybackBit, h.Piggyback)
	flags = gtputil.SetBit(flags, HeaderTEIDBit, h.HasTEID)
	flags = gtputil.SetBit(flags, HeaderPriorityBit, h.HasPriority)

	b := make([]byte, 0, h.Len())
	b = append(b, flags, uint8(h.Type))
	b = binary.BigEndian.AppendUint16(b, h.Length)
	if h.HasTEID {
		b = binary.BigEndian.AppendUint32(b, h.TEID)
	}
	b = gtputil.AppendUint24(b, h.SequenceNumber)
	var last uint8
	if h.HasPriority {
		last = h.Priority << 4
	}
	return append(b, last)
}

func (h *Header) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", h.Type.String())
	enc.AddUint16("length", h.Length)
	if h.Piggyback {
		enc.AddBool("piggyback", h.Piggyback)
	}
	if h.HasTEID {
		enc.AddUint32("teid", h.TEID)
	}
	if h.HasPriority {
		enc.AddUint8("priority", h.Priority)
	}
	enc.AddUint32("sequenceNumber", h.SequenceNumber)
	return nil
}
