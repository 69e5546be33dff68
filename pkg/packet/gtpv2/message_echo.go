// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"go.uber.org/zap/zapcore"
)

// Echo Request (7.1.1)
type EchoRequest struct {
	Header              Header
	Recovery            Recovery
	SendingNodeFeatures *NodeFeatures
	PrivateExtensions   []*PrivateExtension
}

// NewEchoRequest returns an Echo Request. Echo messages carry no TEID.
func NewEchoRequest(seq uint32, restartCounter uint8) *EchoRequest {
	return &EchoRequest{
		Header:   Header{Type: MessageTypeEchoRequest, SequenceNumber: seq & MaxSequenceNumber},
		Recovery: Recovery{RestartCounter: restartCounter},
	}
}

func (m *EchoRequest) MessageType() MessageType {
	return MessageTypeEchoRequest
}

func (m *EchoRequest) MessageHeader() *Header {
	return &m.Header
}

func (m *EchoRequest) IEs() []IE {
	ies := []IE{&m.Recovery}
	ies = appendOptional(ies, m.SendingNodeFeatures)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *EchoRequest) SetIEs(ies []IE) error {
	msg := EchoRequest{Header: m.Header}
	mandatory := newMandatoryIEs(IERecovery)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *Recovery:
			if ie.Ins == 0 && mandatory.take(0) {
				msg.Recovery = *ie
			}
		case *NodeFeatures:
			if ie.Ins == 0 {
				setOnce(&msg.SendingNodeFeatures, ie)
			}
		case *PrivateExtension:
			msg.PrivateExtensions = append(msg.PrivateExtensions, ie)
		}
	}
	if err := mandatory.check(); err != nil {
		return err
	}
	*m = msg
	return nil
}

func (m *EchoRequest) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	_ = enc.AddObject("recovery", &m.Recovery)
	addIEObject(enc, "sendingNodeFeatures", m.SendingNodeFeatures)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}

// Echo Response (7.1.2)
type EchoResponse struct {
	Header              Header
	Recovery            Recovery
	SendingNodeFeatures *NodeFeatures
	PrivateExtensions   []*PrivateExtension
}

// NewEchoResponse answers req with the local restart counter.
func NewEchoResponse(req *EchoRequest, restartCounter uint8) *EchoResponse {
	return &EchoResponse{
		Header:   Header{Type: MessageTypeEchoResponse, SequenceNumber: req.Header.SequenceNumber},
		Recovery: Recovery{RestartCounter: restartCounter},
	}
}

func (m *EchoResponse) MessageType() MessageType {
	return MessageTypeEchoResponse
}

func (m *EchoResponse) MessageHeader() *Header {
	return &m.Header
}

func (m *EchoResponse) IEs() []IE {
	ies := []IE{&m.Recovery}
	ies = appendOptional(ies, m.SendingNodeFeatures)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *EchoResponse) SetIEs(ies []IE) error {
	msg := EchoResponse{Header: m.Header}
	mandatory := newMandatoryIEs(IERecovery)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *Recovery:
			if ie.Ins == 0 && mandatory.take(0) {
				msg.Recovery = *ie
			}
		case *NodeFeatures:
			if ie.Ins == 0 {
				setOnce(&msg.SendingNodeFeatures, ie)
			}
		case *PrivateExtension:
			msg.PrivateExtensions = append(msg.PrivateExtensions, ie)
		}
	}
	if err := mandatory.check(); err != nil {
		return err
	}
	*m = msg
	return nil
}

func (m *EchoResponse) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	_ = enc.AddObject("recovery", &m.Recovery)
	addIEObject(enc, "sendingNodeFeatures", m.SendingNodeFeatures)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}

// Version Not Supported Indication (7.1.3) has no IEs.
type VersionNotSupportedIndication struct {
	Header Header
}

func NewVersionNotSupportedIndication(seq uint32) *VersionNotSupportedIndication {
	return &VersionNotSupportedIndication{
		Header: Header{Type: MessageTypeVersionNotSupportedIndication, SequenceNumber: seq & MaxSequenceNumber},
	}
}

func (m *VersionNotSupportedIndication) MessageType() MessageType {
	return MessageTypeVersionNotSupportedIndication
}

func (m *VersionNotSupportedIndication) MessageHeader() *Header {
	return &m.Header
}

func (m *VersionNotSupportedIndication) IEs() []IE {
	return nil
}

func (m *VersionNotSupportedIndication) SetIEs(ies []IE) error {
	return nil
}

func (m *VersionNotSupportedIndication) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return enc.AddObject("header", &m.Header)
}
