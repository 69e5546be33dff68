// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"go.uber.org/zap/zapcore"
)

// Bearer Resource Command (7.2.5)
type BearerResourceCommand struct {
	Header                     Header
	LinkedEBI                  EPSBearerID
	PTI                        PTI
	FlowQoS                    *FlowQoS
	TAD                        *TAD
	RATType                    *RATType
	ServingNetwork             *ServingNetwork
	ULI                        *ULI
	EBI                        *EPSBearerID // instance 1
	Indication                 *Indication
	S4USGSNFTEID               *FTEID // instance 0
	S12RNCFTEID                *FTEID // instance 1
	PCO                        *PCO
	SignallingPriority         *SignallingPriorityIndication
	OverloadControlInformation []*OverloadControlInformation // MME/S4-SGSN and SGW
	NBIFOMContainer            *FContainer
	EPCO                       *EPCO
	SenderFTEIDControlPlane    *FTEID // instance 2
	PrivateExtensions          []*PrivateExtension
}

const bearerResourceOverloadInstances = 2

func NewBearerResourceCommand(teid, seq uint32, linkedEBI, pti uint8) *BearerResourceCommand {
	return &BearerResourceCommand{
		Header:    newHeader(MessageTypeBearerResourceCommand, teid, seq),
		LinkedEBI: EPSBearerID{Value: linkedEBI},
		PTI:       PTI{Value: pti},
	}
}

func (m *BearerResourceCommand) MessageType() MessageType {
	return MessageTypeBearerResourceCommand
}

func (m *BearerResourceCommand) MessageHeader() *Header {
	return &m.Header
}

func (m *BearerResourceCommand) IEs() []IE {
	ies := []IE{&m.LinkedEBI, &m.PTI}
	ies = appendOptional(ies, m.FlowQoS)
	ies = appendOptional(ies, m.TAD)
	ies = appendOptional(ies, m.RATType)
	ies = appendOptional(ies, m.ServingNetwork)
	ies = appendOptional(ies, m.ULI)
	ies = appendOptional(ies, m.EBI)
	ies = appendOptional(ies, m.Indication)
	ies = appendOptional(ies, m.S4USGSNFTEID)
	ies = appendOptional(ies, m.S12RNCFTEID)
	ies = appendOptional(ies, m.PCO)
	ies = appendOptional(ies, m.SignallingPriority)
	ies = appendRepeated(ies, m.OverloadControlInformation)
	ies = appendOptional(ies, m.NBIFOMContainer)
	ies = appendOptional(ies, m.EPCO)
	ies = appendOptional(ies, m.SenderFTEIDControlPlane)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *BearerResourceCommand) SetIEs(ies []IE) error {
	msg := BearerResourceCommand{Header: m.Header}
	mandatory := newMandatoryIEs(IEEPSBearerID, IEProcedureTransactionID)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *EPSBearerID:
			switch ie.Ins {
			case 0:
				if mandatory.take(0) {
					msg.LinkedEBI = *ie
				}
			case 1:
				setOnce(&msg.EBI, ie)
			}
		case *PTI:
			if ie.Ins == 0 && mandatory.take(1) {
				msg.PTI = *ie
			}
		case *FlowQoS:
			if ie.Ins == 0 {
				setOnce(&msg.FlowQoS, ie)
			}
		case *TAD:
			if ie.Ins == 0 {
				setOnce(&msg.TAD, ie)
			}
		case *RATType:
			if ie.Ins == 0 {
				setOnce(&msg.RATType, ie)
			}
		case *ServingNetwork:
			if ie.Ins == 0 {
				setOnce(&msg.ServingNetwork, ie)
			}
		case *ULI:
			if ie.Ins == 0 {
				setOnce(&msg.ULI, ie)
			}
		case *Indication:
			if ie.Ins == 0 {
				setOnce(&msg.Indication, ie)
			}
		case *FTEID:
			switch ie.Ins {
			case 0:
				setOnce(&msg.S4USGSNFTEID, ie)
			case 1:
				setOnce(&msg.S12RNCFTEID, ie)
			case 2:
				setOnce(&msg.SenderFTEIDControlPlane, ie)
			}
		case *PCO:
			if ie.Ins == 0 {
				setOnce(&msg.PCO, ie)
			}
		case *SignallingPriorityIndication:
			if ie.Ins == 0 {
				setOnce(&msg.SignallingPriority, ie)
			}
		case *OverloadControlInformation:
			if ie.Ins < bearerResourceOverloadInstances {
				msg.OverloadControlInformation = append(msg.OverloadControlInformation, ie)
			}
		case *FContainer:
			if ie.Ins == 0 {
				setOnce(&msg.NBIFOMContainer, ie)
			}
		case *EPCO:
			if ie.Ins == 0 {
				setOnce(&msg.EPCO, ie)
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

func (m *BearerResourceCommand) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	_ = enc.AddObject("linkedEBI", &m.LinkedEBI)
	_ = enc.AddObject("pti", &m.PTI)
	addIEObject(enc, "flowQoS", m.FlowQoS)
	addIEObject(enc, "tad", m.TAD)
	addIEObject(enc, "ratType", m.RATType)
	addIEObject(enc, "servingNetwork", m.ServingNetwork)
	addIEObject(enc, "uli", m.ULI)
	addIEObject(enc, "ebi", m.EBI)
	addIEObject(enc, "indication", m.Indication)
	addIEObject(enc, "s4uSGSNFTEID", m.S4USGSNFTEID)
	addIEObject(enc, "s12RNCFTEID", m.S12RNCFTEID)
	addIEObject(enc, "pco", m.PCO)
	addIEObject(enc, "signallingPriority", m.SignallingPriority)
	addIEArray(enc, "overloadControlInformation", m.OverloadControlInformation)
	addIEObject(enc, "nbifomContainer", m.NBIFOMContainer)
	addIEObject(enc, "epco", m.EPCO)
	addIEObject(enc, "senderFTEIDControlPlane", m.SenderFTEIDControlPlane)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}

// Bearer Resource Failure Indication (7.2.6)
type BearerResourceFailureInd struct {
	Header                     Header
	Cause                      Cause
	LinkedEBI                  EPSBearerID
	PTI                        PTI
	Indication                 *Indication
	OverloadControlInformation []*OverloadControlInformation // PGW and SGW
	Recovery                   *Recovery
	NBIFOMContainer            *FContainer
	PrivateExtensions          []*PrivateExtension
}

func NewBearerResourceFailureInd(teid, seq uint32, cause, linkedEBI, pti uint8) *BearerResourceFailureInd {
	return &BearerResourceFailureInd{
		Header:    newHeader(MessageTypeBearerResourceFailureInd, teid, seq),
		Cause:     Cause{Value: cause},
		LinkedEBI: EPSBearerID{Value: linkedEBI},
		PTI:       PTI{Value: pti},
	}
}

func (m *BearerResourceFailureInd) MessageType() MessageType {
	return MessageTypeBearerResourceFailureInd
}

func (m *BearerResourceFailureInd) MessageHeader() *Header {
	return &m.Header
}

func (m *BearerResourceFailureInd) IEs() []IE {
	ies := []IE{&m.Cause, &m.LinkedEBI, &m.PTI}
	ies = appendOptional(ies, m.Indication)
	ies = appendRepeated(ies, m.OverloadControlInformation)
	ies = appendOptional(ies, m.Recovery)
	ies = appendOptional(ies, m.NBIFOMContainer)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *BearerResourceFailureInd) SetIEs(ies []IE) error {
	msg := BearerResourceFailureInd{Header: m.Header}
	mandatory := newMandatoryIEs(IECause, IEEPSBearerID, IEProcedureTransactionID)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *Cause:
			if ie.Ins == 0 && mandatory.take(0) {
				msg.Cause = *ie
			}
		case *EPSBearerID:
			if ie.Ins == 0 && mandatory.take(1) {
				msg.LinkedEBI = *ie
			}
		case *PTI:
			if ie.Ins == 0 && mandatory.take(2) {
				msg.PTI = *ie
			}
		case *Indication:
			if ie.Ins == 0 {
				setOnce(&msg.Indication, ie)
			}
		case *OverloadControlInformation:
			if ie.Ins < bearerResourceOverloadInstances {
				msg.OverloadControlInformation = append(msg.OverloadControlInformation, ie)
			}
		case *Recovery:
			if ie.Ins == 0 {
				setOnce(&msg.Recovery, ie)
			}
		case *FContainer:
			if ie.Ins == 0 {
				setOnce(&msg.NBIFOMContainer, ie)
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

func (m *BearerResourceFailureInd) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	_ = enc.AddObject("cause", &m.Cause)
	_ = enc.AddObject("linkedEBI", &m.LinkedEBI)
	_ = enc.AddObject("pti", &m.PTI)
	addIEObject(enc, "indication", m.Indication)
	addIEArray(enc, "overloadControlInformation", m.OverloadControlInformation)
	addIEObject(enc, "recovery", m.Recovery)
	addIEObject(enc, "nbifomContainer", m.NBIFOMContainer)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}
