// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpu

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/gtp/pkg/packet/gtputil"
)

type IEType uint8

// GTP-U IE types (TS 29.281 8.1). Types below 128 are TV encoded, the rest TLV.
const (
	IERecovery                IEType = 14
	IETEIDDataI               IEType = 16
	IEGSNAddress              IEType = 133
	IEExtensionHeaderTypeList IEType = 141
	IEPrivateExtension        IEType = 255
)

const tlvTypeBit = 0x80

var ieDescriptions = map[IEType]string{
	IERecovery:                "Recovery",
	IETEIDDataI:               "TEID Data I",
	IEGSNAddress:              "GTP-U Peer Address",
	IEExtensionHeaderTypeList: "Extension Header Type List",
	IEPrivateExtension:        "Private Extension",
}

func (t IEType) String() string {
	if desc, ok := ieDescriptions[t]; ok {
		return fmt.Sprintf("%s (%d)", desc, uint8(t))
	}
	return fmt.Sprintf("Unknown IE (%d)", uint8(t))
}

// value sizes of the TV IEs
var tvValueLengths = map[IEType]int{
	IERecovery:  1,
	IETEIDDataI: 4,
}

// IE is one GTP-U information element.
type IE interface {
	DecodeFromBytes(data []byte) error // data holds one complete IE
	Serialize() []byte
	MarshalLogObject(enc zapcore.ObjectEncoder) error
	Type() IEType
}

var ieMap = map[IEType]func() IE{
	IERecovery:                func() IE { return &Recovery{} },
	IETEIDDataI:               func() IE { return &TEIDDataI{} },
	IEGSNAddress:              func() IE { return &GSNAddress{} },
	IEExtensionHeaderTypeList: func() IE { return &ExtensionHeaderTypeList{} },
	IEPrivateExtension:        func() IE { return &PrivateExtension{} },
}

func invalidLength(t IEType) error {
	return &IEError{Type: t, Err: ErrInvalidLength}
}

func malformed(t IEType) error {
	return &IEError{Type: t, Err: ErrMalformedIE}
}

// ieHeaderLength returns the octets preceding the value of an IE of type t.
func ieHeaderLength(t IEType) int {
	switch {
	case t&tlvTypeBit == 0:
		return 1
	case t == IEExtensionHeaderTypeList:
		return 2
	default:
		return 3
	}
}

// ieLength returns the total length of the IE at the start of data.
// TV IEs of unknown type cannot be skipped and are rejected.
func ieLength(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrInvalidLength
	}
	t := IEType(data[0])
	hl := ieHeaderLength(t)
	if len(data) < hl {
		return 0, invalidLength(t)
	}
	var length int
	switch hl {
	case 1:
		size, ok := tvValueLengths[t]
		if !ok {
			return 0, malformed(t)
		}
		length = 1 + size
	case 2:
		length = 2 + int(data[1])
	default:
		length = 3 + int(binary.BigEndian.Uint16(data[1:3]))
	}
	if length > len(data) {
		return 0, invalidLength(t)
	}
	return length, nil
}

// ieValue returns the value of the IE of type t at the start of data.
func ieValue(data []byte, t IEType) ([]byte, error) {
	length, err := ieLength(data)
	if err != nil {
		return nil, err
	}
	if IEType(data[0]) != t {
		return nil, malformed(t)
	}
	return data[ieHeaderLength(t):length], nil
}

// serializeTLV writes a TLV IE with a two octet length.
func serializeTLV(t IEType, value []byte) []byte {
	b := make([]byte, 0, 3+len(value))
	b = append(b, uint8(t))
	b = binary.BigEndian.AppendUint16(b, uint16(len(value)))
	return append(b, value...)
}

// DecodeIEs decodes a sequence of IEs filling data completely.
func DecodeIEs(data []byte) ([]IE, error) {
	var ies []IE
	for len(data) > 0 {
		length, err := ieLength(data)
		if err != nil {
			return nil, err
		}
		t := IEType(data[0])
		var ie IE
		if newIE, ok := ieMap[t]; ok {
			ie = newIE()
		} else {
			ie = &UnknownIE{}
		}
		if err := ie.DecodeFromBytes(data[:length]); err != nil {
			return nil, fmt.Errorf("error decoding IE %s: %w", t, err)
		}
		ies = append(ies, ie)
		data = data[length:]
	}
	return ies, nil
}

// SerializeIEs concatenates the encoding of ies.
func SerializeIEs(ies []IE) []byte {
	b := []byte{}
	for _, ie := range ies {
		b = append(b, ie.Serialize()...)
	}
	return b
}

// Recovery (8.2). The restart counter is always sent as zero.
type Recovery struct {
	RestartCounter uint8
}

func (ie *Recovery) DecodeFromBytes(data []byte) error {
	value, err := ieValue(data, IERecovery)
	if err != nil {
		return err
	}
	ie.RestartCounter = value[0]
	return nil
}

func (ie *Recovery) Serialize() []byte {
	return []byte{uint8(IERecovery), ie.RestartCounter}
}

func (ie *Recovery) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("restartCounter", ie.RestartCounter)
	return nil
}

func (ie *Recovery) Type() IEType {
	return IERecovery
}

// TEIDDataI (8.3) names the tunnel an Error Indication refers to.
type TEIDDataI struct {
	TEID uint32
}

func (ie *TEIDDataI) DecodeFromBytes(data []byte) error {
	value, err := ieValue(data, IETEIDDataI)
	if err != nil {
		return err
	}
	ie.TEID = binary.BigEndian.Uint32(value)
	return nil
}

func (ie *TEIDDataI) Serialize() []byte {
	return append([]byte{uint8(IETEIDDataI)}, gtputil.Uint32ToByteSlice(ie.TEID)...)
}

func (ie *TEIDDataI) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("teid", ie.TEID)
	return nil
}

func (ie *TEIDDataI) Type() IEType {
	return IETEIDDataI
}

// GSNAddress is the GTP-U Peer Address (8.4), IPv4 or IPv6.
type GSNAddress struct {
	Address netip.Addr
}

func (ie *GSNAddress) DecodeFromBytes(data []byte) error {
	value, err := ieValue(data, IEGSNAddress)
	if err != nil {
		return err
	}
	addr, ok := netip.AddrFromSlice(value)
	if !ok {
		return malformed(IEGSNAddress)
	}
	ie.Address = addr
	return nil
}

func (ie *GSNAddress) Serialize() []byte {
	return serializeTLV(IEGSNAddress, ie.Address.AsSlice())
}

func (ie *GSNAddress) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("address", ie.Address.String())
	return nil
}

func (ie *GSNAddress) Type() IEType {
	return IEGSNAddress
}

// ExtensionHeaderTypeList (8.5) lists the extension headers a node supports.
// Its length field is a single octet.
type ExtensionHeaderTypeList struct {
	Types []ExtensionHeaderType
}

func (ie *ExtensionHeaderTypeList) DecodeFromBytes(data []byte) error {
	value, err := ieValue(data, IEExtensionHeaderTypeList)
	if err != nil {
		return err
	}
	ie.Types = make([]ExtensionHeaderType, 0, len(value))
	for _, t := range value {
		ie.Types = append(ie.Types, ExtensionHeaderType(t))
	}
	return nil
}

func (ie *ExtensionHeaderTypeList) Serialize() []byte {
	b := make([]byte, 0, 2+len(ie.Types))
	b = append(b, uint8(IEExtensionHeaderTypeList), uint8(len(ie.Types)))
	for _, t := range ie.Types {
		b = append(b, uint8(t))
	}
	return b
}

func (ie *ExtensionHeaderTypeList) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return enc.AddArray("types", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
		for _, t := range ie.Types {
			arr.AppendString(t.String())
		}
		return nil
	}))
}

func (ie *ExtensionHeaderTypeList) Type() IEType {
	return IEExtensionHeaderTypeList
}

type PrivateExtension struct {
	ExtensionID uint16
	Value       []byte
}

func (ie *PrivateExtension) DecodeFromBytes(data []byte) error {
	value, err := ieValue(data, IEPrivateExtension)
	if err != nil {
		return err
	}
	if len(value) < 2 {
		return malformed(IEPrivateExtension)
	}
	ie.ExtensionID = binary.BigEndian.Uint16(value[0:2])
	ie.Value = append([]byte{}, value[2:]...)
	return nil
}

func (ie *PrivateExtension) Serialize() []byte {
	return serializeTLV(IEPrivateExtension, gtputil.AppendByteSlices(gtputil.Uint16ToByteSlice(ie.ExtensionID), ie.Value))
}

func (ie *PrivateExtension) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint16("extensionId", ie.ExtensionID)
	enc.AddBinary("value", ie.Value)
	return nil
}

func (ie *PrivateExtension) Type() IEType {
	return IEPrivateExtension
}

// UnknownIE keeps a TLV IE outside the catalog so it can be re-encoded unchanged.
type UnknownIE struct {
	Typ   IEType
	Value []byte
}

func (ie *UnknownIE) DecodeFromBytes(data []byte) error {
	if len(data) == 0 {
		return ErrInvalidLength
	}
	value, err := ieValue(data, IEType(data[0]))
	if err != nil {
		return err
	}
	ie.Typ = IEType(data[0])
	ie.Value = append([]byte{}, value...)
	return nil
}

func (ie *UnknownIE) Serialize() []byte {
	return serializeTLV(ie.Typ, ie.Value)
}

func (ie *UnknownIE) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("type", uint8(ie.Typ))
	enc.AddBinary("value", ie.Value)
	return nil
}

func (ie *UnknownIE) Type() IEType {
	return ie.Typ
}
