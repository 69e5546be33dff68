// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpu

import (
	"go.uber.org/zap/zapcore"
)

// Echo Request (7.2.1)
type EchoRequest struct {
	Header           Header
	PrivateExtension *PrivateExtension
}

func NewEchoRequest(seq uint16) *EchoRequest {
	return &EchoRequest{Header: signallingHeader(MessageTypeEchoRequest, 0, seq)}
}

func (m *EchoRequest) MessageType() MessageType {
	return MessageTypeEchoRequest
}

func (m *EchoRequest) MessageHeader() *Header {
	return &m.Header
}

func (m *EchoRequest) DecodeBody(body []byte) error {
	ies, err := DecodeIEs(body)
	if err != nil {
		return err
	}
	msg := EchoRequest{Header: m.Header}
	for _, ie := range ies {
		if ie, ok := ie.(*PrivateExtension); ok {
			setOnce(&msg.PrivateExtension, ie)
		}
	}
	*m = msg
	return nil
}

func (m *EchoRequest) SerializeBody() []byte {
	if m.PrivateExtension == nil {
		return nil
	}
	return m.PrivateExtension.Serialize()
}

func (m *EchoRequest) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	addPrivateExtension(enc, m.PrivateExtension)
	return nil
}

// Echo Response (7.2.2)
type EchoResponse struct {
	Header           Header
	Recovery         Recovery
	PrivateExtension *PrivateExtension
}

// NewEchoResponse answers req. The restart counter of GTP-U is always zero.
func NewEchoResponse(req *EchoRequest) *EchoResponse {
	return &EchoResponse{Header: signallingHeader(MessageTypeEchoResponse, 0, req.Header.SequenceNumber)}
}

func (m *EchoResponse) MessageType() MessageType {
	return MessageTypeEchoResponse
}

func (m *EchoResponse) MessageHeader() *Header {
	return &m.Header
}

func (m *EchoResponse) DecodeBody(body []byte) error {
	ies, err := DecodeIEs(body)
	if err != nil {
		return err
	}
	msg := EchoResponse{Header: m.Header}
	mandatory := newMandatoryIEs(IERecovery)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *Recovery:
			if mandatory.take(0) {
				msg.Recovery = *ie
			}
		case *PrivateExtension:
			setOnce(&msg.PrivateExtension, ie)
		}
	}
	if err := mandatory.check(); err != nil {
		return err
	}
	*m = msg
	return nil
}

func (m *EchoResponse) SerializeBody() []byte {
	ies := []IE{&m.Recovery}
	if m.PrivateExtension != nil {
		ies = append(ies, m.PrivateExtension)
	}
	return SerializeIEs(ies)
}

func (m *EchoResponse) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	_ = enc.AddObject("recovery", &m.Recovery)
	addPrivateExtension(enc, m.PrivateExtension)
	return nil
}

// Supported Extension Headers Notification (7.2.3)
type SupportedExtensionHeadersNotification struct {
	Header                  Header
	ExtensionHeaderTypeList ExtensionHeaderTypeList
}

func NewSupportedExtensionHeadersNotification(seq uint16, types ...ExtensionHeaderType) *SupportedExtensionHeadersNotification {
	return &SupportedExtensionHeadersNotification{
		Header:                  signallingHeader(MessageTypeSupportedExtensionHeadersNotification, 0, seq),
		ExtensionHeaderTypeList: ExtensionHeaderTypeList{Types: types},
	}
}

func (m *SupportedExtensionHeadersNotification) MessageType() MessageType {
	return MessageTypeSupportedExtensionHeadersNotification
}

func (m *SupportedExtensionHeadersNotification) MessageHeader() *Header {
	return &m.Header
}

func (m *SupportedExtensionHeadersNotification) DecodeBody(body []byte) error {
	ies, err := DecodeIEs(body)
	if err != nil {
		return err
	}
	msg := SupportedExtensionHeadersNotification{Header: m.Header}
	mandatory := newMandatoryIEs(IEExtensionHeaderTypeList)
	for _, ie := range ies {
		if ie, ok := ie.(*ExtensionHeaderTypeList); ok && mandatory.take(0) {
			msg.ExtensionHeaderTypeList = *ie
		}
	}
	if err := mandatory.check(); err != nil {
		return err
	}
	*m = msg
	return nil
}

func (m *SupportedExtensionHeadersNotification) SerializeBody() []byte {
	return m.ExtensionHeaderTypeList.Serialize()
}

// Supports reports whether t is in the notified list.
func (m *SupportedExtensionHeadersNotification) Supports(t ExtensionHeaderType) bool {
	for _, supported := range m.ExtensionHeaderTypeList.Types {
		if supported == t {
			return true
		}
	}
	return false
}

func (m *SupportedExtensionHeadersNotification) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	_ = enc.AddObject("extensionHeaderTypeList", &m.ExtensionHeaderTypeList)
	return nil
}
