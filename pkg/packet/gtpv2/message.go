// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

// Package gtpv2 implements the GTPv2-C message and information element codec
// of 3GPP TS 29.274.
package gtpv2

import (
	"fmt"
	"math"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/gtp/pkg/packet/gtputil"
)

type MessageType uint8

const (
	MessageTypeEchoRequest                   MessageType = 1
	MessageTypeEchoResponse                  MessageType = 2
	MessageTypeVersionNotSupportedIndication MessageType = 3
	MessageTypeCreateSessionRequest          MessageType = 32
	MessageTypeCreateSessionResponse         MessageType = 33
	MessageTypeModifyBearerRequest           MessageType = 34
	MessageTypeModifyBearerResponse          MessageType = 35
	MessageTypeDeleteSessionRequest          MessageType = 36
	MessageTypeDeleteSessionResponse         MessageType = 37
	MessageTypeBearerResourceCommand         MessageType = 68
	MessageTypeBearerResourceFailureInd      MessageType = 69
	MessageTypeCreateBearerRequest           MessageType = 95
	MessageTypeCreateBearerResponse          MessageType = 96
	MessageTypeDeleteBearerRequest           MessageType = 99
	MessageTypeDeleteBearerResponse          MessageType = 100
)

var messageTypeDescriptions = map[MessageType]string{
	MessageTypeEchoRequest:                   "Echo Request",
	MessageTypeEchoResponse:                  "Echo Response",
	MessageTypeVersionNotSupportedIndication: "Version Not Supported Indication",
	MessageTypeCreateSessionRequest:          "Create Session Request",
	MessageTypeCreateSessionResponse:         "Create Session Response",
	MessageTypeModifyBearerRequest:           "Modify Bearer Request",
	MessageTypeModifyBearerResponse:          "Modify Bearer Response",
	MessageTypeDeleteSessionRequest:          "Delete Session Request",
	MessageTypeDeleteSessionResponse:         "Delete Session Response",
	MessageTypeBearerResourceCommand:         "Bearer Resource Command",
	MessageTypeBearerResourceFailureInd:      "Bearer Resource Failure Indication",
	MessageTypeCreateBearerRequest:           "Create Bearer Request",
	MessageTypeCreateBearerResponse:          "Create Bearer Response",
	MessageTypeDeleteBearerRequest:           "Delete Bearer Request",
	MessageTypeDeleteBearerResponse:          "Delete Bearer Response",
}

func (t MessageType) String() string {
	if desc, ok := messageTypeDescriptions[t]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown Message (%d)", uint8(t))
}

// Message is a typed GTPv2-C message.
type Message interface {
	MessageType() MessageType
	MessageHeader() *Header
	// IEs flattens the message in encoding order.
	IEs() []IE
	// SetIEs populates the message from decoded IEs. On error the message
	// is left untouched.
	SetIEs(ies []IE) error
	MarshalLogObject(enc zapcore.ObjectEncoder) error
}

var messageMap = map[MessageType]func() Message{
	MessageTypeEchoRequest:                   func() Message { return &EchoRequest{} },
	MessageTypeEchoResponse:                  func() Message { return &EchoResponse{} },
	MessageTypeVersionNotSupportedIndication: func() Message { return &VersionNotSupportedIndication{} },
	MessageTypeCreateSessionRequest:          func() Message { return &CreateSessionRequest{} },
	MessageTypeCreateSessionResponse:         func() Message { return &CreateSessionResponse{} },
	MessageTypeModifyBearerRequest:           func() Message { return &ModifyBearerRequest{} },
	MessageTypeModifyBearerResponse:          func() Message { return &ModifyBearerResponse{} },
	MessageTypeDeleteSessionRequest:          func() Message { return &DeleteSessionRequest{} },
	MessageTypeDeleteSessionResponse:         func() Message { return &DeleteSessionResponse{} },
	MessageTypeBearerResourceCommand:         func() Message { return &BearerResourceCommand{} },
	MessageTypeBearerResourceFailureInd:      func() Message { return &BearerResourceFailureInd{} },
	MessageTypeCreateBearerRequest:           func() Message { return &CreateBearerRequest{} },
	MessageTypeCreateBearerResponse:          func() Message { return &CreateBearerResponse{} },
	MessageTypeDeleteBearerRequest:           func() Message { return &DeleteBearerRequest{} },
	MessageTypeDeleteBearerResponse:          func() Message { return &DeleteBearerResponse{} },
}

// Marshal encodes m. The header length is computed from the encoded IEs
// and stored back into the message header.
func Marshal(m Message) ([]byte, error) {
	h := m.MessageHeader()
	h.Type = m.MessageType()
	hdr := *h
	hdr.Length = 0

	b := hdr.Serialize()
	for _, ie := range m.IEs() {
		b = append(b, ie.Serialize()...)
	}
	length := len(b) - HeaderPrefixLength
	if length > math.MaxUint16 {
		return nil, ErrInvalidLength
	}
	gtputil.PatchUint16(b, 2, uint16(length))
	h.Length = uint16(length)
	return b, nil
}

// decodeMessage returns the header and the IEs of the message in data.
// Bytes beyond the declared length are ignored.
func decodeMessage(data []byte) (Header, []IE, error) {
	var h Header
	if err := h.DecodeFromBytes(data); err != nil {
		return h, nil, err
	}
	ies, err := DecodeIEs(data[h.Len() : HeaderPrefixLength+int(h.Length)])
	if err != nil {
		return h, nil, err
	}
	return h, ies, nil
}

// Unmarshal decodes data into m. The message type in data must match m.
func Unmarshal(data []byte, m Message) error {
	var h Header
	if err := h.DecodeFromBytes(data); err != nil {
		return err
	}
	if h.Type != m.MessageType() {
		return fmt.Errorf("%w: got %s, want %s", ErrIncorrectMessageType, h.Type, m.MessageType())
	}
	h, ies, err := decodeMessage(data)
	if err != nil {
		return err
	}
	if err := m.SetIEs(ies); err != nil {
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

// UnknownMessage keeps a message without a typed view together with all of its IEs.
type UnknownMessage struct {
	Header Header
	IEList []IE
}

func (m *UnknownMessage) MessageType() MessageType {
	return m.Header.Type
}

func (m *UnknownMessage) MessageHeader() *Header {
	return &m.Header
}

func (m *UnknownMessage) IEs() []IE {
	return m.IEList
}

func (m *UnknownMessage) SetIEs(ies []IE) error {
	m.IEList = ies
	return nil
}

func (m *UnknownMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	addIEArray(enc, "ies", m.IEList)
	return nil
}

// newHeader returns the header of a message sent on an established tunnel.
func newHeader(t MessageType, teid, seq uint32) Header {
	return Header{
		Type:           t,
		HasTEID:        true,
		TEID:           teid,
		SequenceNumber: seq & MaxSequenceNumber,
	}
}
