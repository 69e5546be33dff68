// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpu

import (
	"encoding/binary"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/gtp/pkg/packet/gtputil"
)

const (
	Version uint8 = 1

	HeaderProtocolTypeBit uint8 = 0x10
	HeaderExtensionBit    uint8 = 0x04
	HeaderSequenceBit     uint8 = 0x02
	HeaderNPDUNumberBit   uint8 = 0x01

	// mandatory part, the length field counts everything after it
	HeaderLength = 8
	// sequence number, N-PDU number and next extension header type
	HeaderOptionalLength = 4
)

const optionalFieldBits = HeaderExtensionBit | HeaderSequenceBit | HeaderNPDUNumberBit

// Header is the GTPv1-U header (TS 29.281 5.1) including its extension header chain.
type Header struct {
	Type              MessageType
	Length            uint16
	TEID              uint32
	HasSequenceNumber bool
	SequenceNumber    uint16
	HasNPDUNumber     bool
	NPDUNumber        uint8
	// HasExtensionHeaders keeps the E flag of a received header whose
	// chain was empty. A non-empty chain always sets the flag.
	HasExtensionHeaders bool
	ExtensionHeaders    []ExtensionHeader
}

func (h *Header) flags() uint8 {
	flags := Version<<5 | HeaderProtocolTypeBit
	flags = gtputil.SetBit(flags, HeaderExtensionBit, h.HasExtensionHeaders || len(h.ExtensionHeaders) > 0)
	flags = gtputil.SetBit(flags, HeaderSequenceBit, h.HasSequenceNumber)
	return gtputil.SetBit(flags, HeaderNPDUNumberBit, h.HasNPDUNumber)
}

// Len returns the encoded size of the header, extension headers included.
func (h *Header) Len() int {
	if h.flags()&optionalFieldBits == 0 {
		return HeaderLength
	}
	n := HeaderLength + HeaderOptionalLength
	for _, ext := range h.ExtensionHeaders {
		n += len(ext.Serialize())
	}
	return n
}

// decodeHeader decodes the header at the start of data and returns the
// offset of the message body.
func decodeHeader(data []byte) (Header, int, error) {
	if len(data) < HeaderLength {
		return Header{}, 0, ErrInvalidMessageFormat
	}
	flags := data[0]
	if flags>>5 != Version || !gtputil.IsBitSet(flags, HeaderProtocolTypeBit) {
		return Header{}, 0, ErrInvalidMessageFormat
	}
	hdr := Header{
		Type:   MessageType(data[1]),
		Length: binary.BigEndian.Uint16(data[2:4]),
		TEID:   binary.BigEndian.Uint32(data[4:8]),
	}
	end := HeaderLength + int(hdr.Length)
	if end > len(data) {
		return Header{}, 0, ErrInvalidMessageFormat
	}
	if flags&optionalFieldBits == 0 {
		return hdr, HeaderLength, nil
	}
	if end < HeaderLength+HeaderOptionalLength {
		return Header{}, 0, ErrInvalidMessageFormat
	}
	if gtputil.IsBitSet(flags, HeaderSequenceBit) {
		hdr.HasSequenceNumber = true
		hdr.SequenceNumber = binary.BigEndian.Uint16(data[8:10])
	}
	if gtputil.IsBitSet(flags, HeaderNPDUNumberBit) {
		hdr.HasNPDUNumber = true
		hdr.NPDUNumber = data[10]
	}
	offset := HeaderLength + HeaderOptionalLength - 1
	if !gtputil.IsBitSet(flags, HeaderExtensionBit) {
		return hdr, offset + 1, nil
	}
	hdrs, n, err := DecodeExtensionHeaders(data[offset:end])
	if err != nil {
		return Header{}, 0, err
	}
	hdr.HasExtensionHeaders = true
	hdr.ExtensionHeaders = hdrs
	return hdr, offset + n, nil
}

func (h *Header) DecodeFromBytes(data []byte) error {
	hdr, _, err := decodeHeader(data)
	if err != nil {
		return err
	}
	*h = hdr
	return nil
}

// Serialize writes the header with the stored length.
func (h *Header) Serialize() []byte {
	flags := h.flags()
	b := make([]byte, 0, h.Len())
	b = append(b, flags, uint8(h.Type))
	b = binary.BigEndian.AppendUint16(b, h.Length)
	b = binary.BigEndian.AppendUint32(b, h.TEID)
	if flags&optionalFieldBits == 0 {
		return b
	}
	b = binary.BigEndian.AppendUint16(b, h.SequenceNumber)
	b = append(b, h.NPDUNumber)
	return AppendExtensionHeaders(b, h.ExtensionHeaders)
}

func (h *Header) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", h.Type.String())
	enc.AddUint16("length", h.Length)
	enc.AddUint32("teid", h.TEID)
	if h.HasSequenceNumber {
		enc.AddUint16("sequenceNumber", h.SequenceNumber)
	}
	if h.HasNPDUNumber {
		enc.AddUint8("npduNumber", h.NPDUNumber)
	}
	if len(h.ExtensionHeaders) > 0 {
		return enc.AddArray("extensionHeaders", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
			for _, ext := range h.ExtensionHeaders {
				if err := arr.AppendObject(ext); err != nil {
					return err
				}
			}
			return nil
		}))
	}
	return nil
}
