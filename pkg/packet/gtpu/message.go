// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

// Package gtpu implements the GTPv1-U header, extension header chain and
// signalling messages of 3GPP TS 29.281.
package gtpu

import (
	"fmt"
	"math"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/gtp/pkg/packet/gtputil"
)

type MessageType uint8

const (
	MessageTypeEchoRequest                           MessageType = 1
	MessageTypeEchoResponse                          MessageType = 2
	MessageTypeErrorIndication                       MessageType = 26
	MessageTypeSupportedExtensionHeadersNotification MessageType = 31
	MessageTypeEndMarker                             MessageType = 254
	MessageTypeGPDU                                  MessageType = 255
)

var messageTypeDescriptions = map[MessageType]string{
	MessageTypeEchoRequest:                           "Echo Request",
	MessageTypeEchoResponse:                          "Echo Response",
	MessageTypeErrorIndication:                       "Error Indication",
	MessageTypeSupportedExtensionHeadersNotification: "Supported Extension Headers Notification",
	MessageTypeEndMarker:                             "End Marker",
	MessageTypeGPDU:                                  "G-PDU",
}

func (t MessageType) String() string {
	if desc, ok := messageTypeDescriptions[t]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown Message (%d)", uint8(t))
}

// Message is a typed GTP-U message. The body is everything after the
// header and its extension headers: IEs for signalling messages, the
// T-PDU for a G-PDU.
type Message interface {
	MessageType() MessageType
	MessageHeader() *Header
	// DecodeBody populates the message from its body. On error the
	// message is left untouched.
	DecodeBody(body []byte) error
	SerializeBody() []byte
	MarshalLogObject(enc zapcore.ObjectEncoder) error
}

var messageMap = map[MessageType]func() Message{
	MessageTypeEchoRequest:                           func() Message { return &EchoRequest{} },
	MessageTypeEchoResponse:                          func() Message { return &EchoResponse{} },
	MessageTypeErrorIndication:                       func() Message { return &ErrorIndication{} },
	MessageTypeSupportedExtensionHeadersNotification: func() Message { return &SupportedExtensionHeadersNotification{} },
	MessageTypeEndMarker:                             func() Message { return &EndMarker{} },
	MessageTypeGPDU:                                  func() Message { return &GPDU{} },
}

// Marshal encodes m. The header length is computed from the encoded body
// and stored back into the message header.
func Marshal(m Message) ([]byte, error) {
	h := m.MessageHeader()
	h.Type = m.MessageType()
	hdr := *h
	hdr.Length = 0

	b := hdr.Serialize()
	b = append(b, m.SerializeBody()...)
	length := len(b) - HeaderLength
	if length > math.MaxUint16 {
		return nil, ErrInvalidLength
	}
	gtputil.PatchUint16(b, 2, uint16(length))
	h.Length = uint16(length)
	return b, nil
}

// Unmarshal decodes data into m. The message type in data must match m.
// Bytes beyond the declared length are ignored.
func Unmarshal(data []byte, m Message) error {
	h, offset, err := decodeHeader(data)
	if err != nil {
		return err
	}
	if h.Type != m.MessageType() {
		return fmt.Errorf("%w: got %s, want %s", ErrIncorrectMessageType, h.Type, m.MessageType())
	}
	if err := m.DecodeBody(data[offset : HeaderLength+int(h.Length)]); err != nil {
		return err
	}
	*m.MessageHeader() = h
	return nil
}

// Parse decodes data into the message type named by its header.
// Types without a typed view are returned as *UnknownMessage.
func Parse(data []byte) (Message, error) {
	var h Header
	if err := h.DecodeFromBytes(data); err != nil {
		return nil, err
	}
	var m Message
	if newMessage, ok := messageMap[h.Type]; ok {
		m = newMessage()
	} else {
		m = &UnknownMessage{Header: Header{Type: h.Type}}
	}
	if err := Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", h.Type, err)
	}
	return m, nil
}

// UnknownMessage keeps a message without a typed view and its raw body.
type UnknownMessage struct {
	Header Header
	Body   []byte
}

func (m *UnknownMessage) MessageType() MessageType {
	return m.Header.Type
}

func (m *UnknownMessage) MessageHeader() *Header {
	return &m.Header
}

func (m *UnknownMessage) DecodeBody(body []byte) error {
	m.Body = append([]byte{}, body...)
	return nil
}

func (m *UnknownMessage) SerializeBody() []byte {
	return m.Body
}

func (m *UnknownMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	enc.AddBinary("body", m.Body)
	return nil
}

// signallingHeader returns the header of a path or tunnel management
// message, which always carries a sequence number.
func signallingHeader(t MessageType, teid uint32, seq uint16) Header {
	return Header{
		Type:              t,
		TEID:              teid,
		HasSequenceNumber: true,
		SequenceNumber:    seq,
	}
}

func addPrivateExtension(enc zapcore.ObjectEncoder, ie *PrivateExtension) {
	if ie != nil {
		_ = enc.AddObject("privateExtension", ie)
	}
}
