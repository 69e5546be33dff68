// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpu

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/gtp/pkg/packet/gtputil"
)

type ExtensionHeaderType uint8

// Extension header types (TS 29.281 5.2.1)
const (
	ExtensionHeaderNoMore                ExtensionHeaderType = 0x00
	ExtensionHeaderServiceClassIndicator ExtensionHeaderType = 0x20
	ExtensionHeaderUDPPort               ExtensionHeaderType = 0x40
	ExtensionHeaderRANContainer          ExtensionHeaderType = 0x81
	ExtensionHeaderLongPDCPPDUNumber     ExtensionHeaderType = 0x82
	ExtensionHeaderNRRANContainer        ExtensionHeaderType = 0x84
	ExtensionHeaderPDUSessionContainer   ExtensionHeaderType = 0x85
	ExtensionHeaderPDCPPDUNumber         ExtensionHeaderType = 0xc0
)

var extensionHeaderDescriptions = map[ExtensionHeaderType]string{
	ExtensionHeaderNoMore:                "No More Extension Headers",
	ExtensionHeaderServiceClassIndicator: "Service Class Indicator",
	ExtensionHeaderUDPPort:               "UDP Port",
	ExtensionHeaderRANContainer:          "RAN Container",
	ExtensionHeaderLongPDCPPDUNumber:     "Long PDCP PDU Number",
	ExtensionHeaderNRRANContainer:        "NR RAN Container",
	ExtensionHeaderPDUSessionContainer:   "PDU Session Container",
	ExtensionHeaderPDCPPDUNumber:         "PDCP PDU Number",
}

func (t ExtensionHeaderType) String() string {
	if desc, ok := extensionHeaderDescriptions[t]; ok {
		return fmt.Sprintf("%s (0x%02x)", desc, uint8(t))
	}
	return fmt.Sprintf("Unknown Extension Header (0x%02x)", uint8(t))
}

// ExtensionWordLength is the unit of the extension header length field.
const ExtensionWordLength = 4

// ExtensionHeader is one link of the GTP-U extension header chain. A link
// starts with its type octet (carried in the preceding header as the next
// extension header type), then a length in 4-octet words counted from the
// type octet, then the content. The octet following the content is the
// type of the next link.
type ExtensionHeader interface {
	DecodeFromBytes(data []byte) error // data holds one link, type octet included
	Serialize() []byte                 // type, length and content
	MarshalLogObject(enc zapcore.ObjectEncoder) error
	Type() ExtensionHeaderType
}

var extensionHeaderMap = map[ExtensionHeaderType]func() ExtensionHeader{
	ExtensionHeaderServiceClassIndicator: func() ExtensionHeader { return &ServiceClassIndicator{} },
	ExtensionHeaderUDPPort:               func() ExtensionHeader { return &UDPPort{} },
	ExtensionHeaderRANContainer:          func() ExtensionHeader { return &RANContainer{} },
	ExtensionHeaderLongPDCPPDUNumber:     func() ExtensionHeader { return &LongPDCPPDUNumber{} },
	ExtensionHeaderNRRANContainer:        func() ExtensionHeader { return &NRRANContainer{} },
	ExtensionHeaderPDUSessionContainer:   func() ExtensionHeader { return &PDUSessionContainer{} },
	ExtensionHeaderPDCPPDUNumber:         func() ExtensionHeader { return &PDCPPDUNumber{} },
}

// linkLength validates the link at the start of data and returns its size.
func linkLength(data []byte) (int, error) {
	if len(data) < 2 {
		if len(data) == 1 {
			return 0, &ExtensionHeaderError{Type: ExtensionHeaderType(data[0]), Err: ErrInvalidLength}
		}
		return 0, ErrInvalidLength
	}
	t := ExtensionHeaderType(data[0])
	length := int(data[1]) * ExtensionWordLength
	if length == 0 || length > len(data) {
		return 0, &ExtensionHeaderError{Type: t, Err: ErrInvalidLength}
	}
	return length, nil
}

// extensionContent returns the content of the link of type t at the start of data.
func extensionContent(data []byte, t ExtensionHeaderType) ([]byte, error) {
	length, err := linkLength(data)
	if err != nil {
		return nil, err
	}
	if ExtensionHeaderType(data[0]) != t {
		return nil, &ExtensionHeaderError{Type: t, Err: ErrMalformedExtensionHeader}
	}
	return data[2:length], nil
}

// fixedExtensionContent is extensionContent for kinds with a fixed content size.
func fixedExtensionContent(data []byte, t ExtensionHeaderType, size int) ([]byte, error) {
	content, err := extensionContent(data, t)
	if err != nil {
		return nil, err
	}
	if len(content) != size {
		return nil, &ExtensionHeaderError{Type: t, Err: ErrMalformedExtensionHeader}
	}
	return content, nil
}

// serializeExtension writes a link, zero padding the content to whole words.
func serializeExtension(t ExtensionHeaderType, content []byte) []byte {
	n := 2 + len(content)
	if r := n % ExtensionWordLength; r != 0 {
		n += ExtensionWordLength - r
	}
	b := make([]byte, n)
	b[0] = uint8(t)
	b[1] = uint8(n / ExtensionWordLength)
	copy(b[2:], content)
	return b
}

// DecodeExtensionHeaders decodes the chain whose first type octet is data[0].
// It returns the links and the number of octets consumed, including the
// terminating zero type. The chain also ends when data is used up right
// after a link.
func DecodeExtensionHeaders(data []byte) ([]ExtensionHeader, int, error) {
	var hdrs []ExtensionHeader
	offset := 0
	for offset < len(data) {
		t := ExtensionHeaderType(data[offset])
		if t == ExtensionHeaderNoMore {
			return hdrs, offset + 1, nil
		}
		length, err := linkLength(data[offset:])
		if err != nil {
			return nil, 0, err
		}
		var hdr ExtensionHeader
		if newHeader, ok := extensionHeaderMap[t]; ok {
			hdr = newHeader()
		} else {
			hdr = &UnknownExtensionHeader{}
		}
		if err := hdr.DecodeFromBytes(data[offset : offset+length]); err != nil {
			return nil, 0, err
		}
		hdrs = append(hdrs, hdr)
		offset += length
	}
	return hdrs, offset, nil
}

// AppendExtensionHeaders appends hdrs and the terminating zero type to b.
func AppendExtensionHeaders(b []byte, hdrs []ExtensionHeader) []byte {
	for _, hdr := range hdrs {
		b = append(b, hdr.Serialize()...)
	}
	return append(b, uint8(ExtensionHeaderNoMore))
}

// UDPPort carries the source port of a GTP-U message that triggered an Error Indication.
type UDPPort struct {
	Port uint16
}

func (h *UDPPort) DecodeFromBytes(data []byte) error {
	content, err := fixedExtensionContent(data, ExtensionHeaderUDPPort, 2)
	if err != nil {
		return err
	}
	h.Port = binary.BigEndian.Uint16(content)
	return nil
}

func (h *UDPPort) Serialize() []byte {
	return serializeExtension(ExtensionHeaderUDPPort, gtputil.Uint16ToByteSlice(h.Port))
}

func (h *UDPPort) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint16("port", h.Port)
	return nil
}

func (h *UDPPort) Type() ExtensionHeaderType {
	return ExtensionHeaderUDPPort
}

type PDCPPDUNumber struct {
	Number uint16
}

func (h *PDCPPDUNumber) DecodeFromBytes(data []byte) error {
	content, err := fixedExtensionContent(data, ExtensionHeaderPDCPPDUNumber, 2)
	if err != nil {
		return err
	}
	h.Number = binary.BigEndian.Uint16(content)
	return nil
}

func (h *PDCPPDUNumber) Serialize() []byte {
	return serializeExtension(ExtensionHeaderPDCPPDUNumber, gtputil.Uint16ToByteSlice(h.Number))
}

func (h *PDCPPDUNumber) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint16("pdcpPDUNumber", h.Number)
	return nil
}

func (h *PDCPPDUNumber) Type() ExtensionHeaderType {
	return ExtensionHeaderPDCPPDUNumber
}

const longPDCPPDUNumberMask = 0x03ffff

// LongPDCPPDUNumber is an 18 bit PDCP sequence number followed by three spare octets.
type LongPDCPPDUNumber struct {
	Number uint32
}

func (h *LongPDCPPDUNumber) DecodeFromBytes(data []byte) error {
	content, err := fixedExtensionContent(data, ExtensionHeaderLongPDCPPDUNumber, 6)
	if err != nil {
		return err
	}
	h.Number = gtputil.Uint24(content) & longPDCPPDUNumberMask
	return nil
}

func (h *LongPDCPPDUNumber) Serialize() []byte {
	content := gtputil.AppendUint24(make([]byte, 0, 6), h.Number&longPDCPPDUNumberMask)
	return serializeExtension(ExtensionHeaderLongPDCPPDUNumber, append(content, 0, 0, 0))
}

func (h *LongPDCPPDUNumber) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("pdcpPDUNumber", h.Number)
	return nil
}

func (h *LongPDCPPDUNumber) Type() ExtensionHeaderType {
	return ExtensionHeaderLongPDCPPDUNumber
}

type ServiceClassIndicator struct {
	Value uint8
}

func (h *ServiceClassIndicator) DecodeFromBytes(data []byte) error {
	content, err := fixedExtensionContent(data, ExtensionHeaderServiceClassIndicator, 2)
	if err != nil {
		return err
	}
	h.Value = content[0]
	return nil
}

func (h *ServiceClassIndicator) Serialize() []byte {
	return serializeExtension(ExtensionHeaderServiceClassIndicator, []byte{h.Value, 0x00})
}

func (h *ServiceClassIndicator) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("sci", h.Value)
	return nil
}

func (h *ServiceClassIndicator) Type() ExtensionHeaderType {
	return ExtensionHeaderServiceClassIndicator
}

// RANContainer transports an Iu/S1 RAN container (TS 25.415) verbatim.
type RANContainer struct {
	Container []byte
}

func (h *RANContainer) DecodeFromBytes(data []byte) error {
	content, err := extensionContent(data, ExtensionHeaderRANContainer)
	if err != nil {
		return err
	}
	h.Container = append([]byte{}, content...)
	return nil
}

func (h *RANContainer) Serialize() []byte {
	return serializeExtension(ExtensionHeaderRANContainer, h.Container)
}

func (h *RANContainer) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBinary("container", h.Container)
	return nil
}

func (h *RANContainer) Type() ExtensionHeaderType {
	return ExtensionHeaderRANContainer
}

// NRRANContainer transports an NR user plane protocol frame (TS 38.425).
type NRRANContainer struct {
	Container []byte
}

func (h *NRRANContainer) DecodeFromBytes(data []byte) error {
	content, err := extensionContent(data, ExtensionHeaderNRRANContainer)
	if err != nil {
		return err
	}
	h.Container = append([]byte{}, content...)
	return nil
}

func (h *NRRANContainer) Serialize() []byte {
	return serializeExtension(ExtensionHeaderNRRANContainer, h.Container)
}

func (h *NRRANContainer) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBinary("container", h.Container)
	return nil
}

func (h *NRRANContainer) Type() ExtensionHeaderType {
	return ExtensionHeaderNRRANContainer
}

// PDU session information types (TS 38.415)
const (
	PDUTypeDLPDUSessionInformation uint8 = 0
	PDUTypeULPDUSessionInformation uint8 = 1
)

// PDUSessionContainer carries PDU session user plane information. The
// container is kept as received; PDUType and QFI read its leading fields.
type PDUSessionContainer struct {
	Container []byte
}

// NewPDUSessionContainer returns the minimal container for pduType and qfi.
func NewPDUSessionContainer(pduType, qfi uint8) *PDUSessionContainer {
	return &PDUSessionContainer{Container: []byte{pduType << 4, qfi & 0x3f}}
}

func (h *PDUSessionContainer) PDUType() uint8 {
	if len(h.Container) < 1 {
		return 0
	}
	return h.Container[0] >> 4
}

func (h *PDUSessionContainer) QFI() uint8 {
	if len(h.Container) < 2 {
		return 0
	}
	return h.Container[1] & 0x3f
}

func (h *PDUSessionContainer) DecodeFromBytes(data []byte) error {
	content, err := extensionContent(data, ExtensionHeaderPDUSessionContainer)
	if err != nil {
		return err
	}
	h.Container = append([]byte{}, content...)
	return nil
}

func (h *PDUSessionContainer) Serialize() []byte {
	return serializeExtension(ExtensionHeaderPDUSessionContainer, h.Container)
}

func (h *PDUSessionContainer) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("pduType", h.PDUType())
	enc.AddUint8("qfi", h.QFI())
	enc.AddBinary("container", h.Container)
	return nil
}

func (h *PDUSessionContainer) Type() ExtensionHeaderType {
	return ExtensionHeaderPDUSessionContainer
}

// UnknownExtensionHeader keeps a link of an unrecognised type. It is
// written back with the stored length, which must match Value.
type UnknownExtensionHeader struct {
	Typ    ExtensionHeaderType
	Length uint8 // in 4-octet words
	Value  []byte
}

func (h *UnknownExtensionHeader) DecodeFromBytes(data []byte) error {
	length, err := linkLength(data)
	if err != nil {
		return err
	}
	h.Typ = ExtensionHeaderType(data[0])
	h.Length = data[1]
	h.Value = append([]byte{}, data[2:length]...)
	return nil
}

func (h *UnknownExtensionHeader) Serialize() []byte {
	b := make([]byte, 0, 2+len(h.Value))
	b = append(b, uint8(h.Typ), h.Length)
	return append(b, h.Value...)
}

func (h *UnknownExtensionHeader) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("type", uint8(h.Typ))
	enc.AddUint8("length", h.Length)
	enc.AddBinary("value", h.Value)
	return nil
}

func (h *UnknownExtensionHeader) Type() ExtensionHeaderType {
	return h.Typ
}
