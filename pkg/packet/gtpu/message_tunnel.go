// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpu

import (
	"net/netip"

	"go.uber.org/zap/zapcore"
)

// Error Indication (7.3.1)
type ErrorIndication struct {
	Header           Header
	TEIDDataI        TEIDDataI
	PeerAddress      GSNAddress
	PrivateExtension *PrivateExtension
}

// NewErrorIndication reports a G-PDU received for the unknown tunnel teid.
// srcPort is the UDP source port of that G-PDU; zero omits the UDP Port
// extension header.
func NewErrorIndication(seq uint16, teid uint32, peer netip.Addr, srcPort uint16) *ErrorIndication {
	m := &ErrorIndication{
		Header:      signallingHeader(MessageTypeErrorIndication, 0, seq),
		TEIDDataI:   TEIDDataI{TEID: teid},
		PeerAddress: GSNAddress{Address: peer},
	}
	if srcPort != 0 {
		m.Header.HasExtensionHeaders = true
		m.Header.ExtensionHeaders = []ExtensionHeader{&UDPPort{Port: srcPort}}
	}
	return m
}

func (m *ErrorIndication) MessageType() MessageType {
	return MessageTypeErrorIndication
}

func (m *ErrorIndication) MessageHeader() *Header {
	return &m.Header
}

func (m *ErrorIndication) DecodeBody(body []byte) error {
	ies, err := DecodeIEs(body)
	if err != nil {
		return err
	}
	msg := ErrorIndication{Header: m.Header}
	mandatory := newMandatoryIEs(IETEIDDataI, IEGSNAddress)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *TEIDDataI:
			if mandatory.take(0) {
				msg.TEIDDataI = *ie
			}
		case *GSNAddress:
			if mandatory.take(1) {
				msg.PeerAddress = *ie
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

func (m *ErrorIndication) SerializeBody() []byte {
	ies := []IE{&m.TEIDDataI, &m.PeerAddress}
	if m.PrivateExtension != nil {
		ies = append(ies, m.PrivateExtension)
	}
	return SerializeIEs(ies)
}

func (m *ErrorIndication) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	_ = enc.AddObject("teidDataI", &m.TEIDDataI)
	_ = enc.AddObject("peerAddress", &m.PeerAddress)
	addPrivateExtension(enc, m.PrivateExtension)
	return nil
}

// End Marker (7.3.2) closes the downlink of a tunnel during a handover.
type EndMarker struct {
	Header           Header
	PrivateExtension *PrivateExtension
}

func NewEndMarker(teid uint32) *EndMarker {
	return &EndMarker{Header: Header{Type: MessageTypeEndMarker, TEID: teid}}
}

func (m *EndMarker) MessageType() MessageType {
	return MessageTypeEndMarker
}

func (m *EndMarker) MessageHeader() *Header {
	return &m.Header
}

func (m *EndMarker) DecodeBody(body []byte) error {
	ies, err := DecodeIEs(body)
	if err != nil {
		return err
	}
	msg := EndMarker{Header: m.Header}
	for _, ie := range ies {
		if ie, ok := ie.(*PrivateExtension); ok {
			setOnce(&msg.PrivateExtension, ie)
		}
	}
	*m = msg
	return nil
}

func (m *EndMarker) SerializeBody() []byte {
	if m.PrivateExtension == nil {
		return nil
	}
	return m.PrivateExtension.Serialize()
}

func (m *EndMarker) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	addPrivateExtension(enc, m.PrivateExtension)
	return nil
}

// GPDU carries a user packet (T-PDU) on the tunnel named by the header TEID.
type GPDU struct {
	Header  Header
	Payload []byte
}

func NewGPDU(teid uint32, payload []byte, exts ...ExtensionHeader) *GPDU {
	return &GPDU{
		Header: Header{
			Type:                MessageTypeGPDU,
			TEID:                teid,
			HasExtensionHeaders: len(exts) > 0,
			ExtensionHeaders:    exts,
		},
		Payload: payload,
	}
}

func (m *GPDU) MessageType() MessageType {
	return MessageTypeGPDU
}

func (m *GPDU) MessageHeader() *Header {
	return &m.Header
}

func (m *GPDU) DecodeBody(body []byte) error {
	m.Payload = append([]byte{}, body...)
	return nil
}

func (m *GPDU) SerializeBody() []byte {
	return m.Payload
}

func (m *GPDU) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	enc.AddInt("payloadLength", len(m.Payload))
	return nil
}
