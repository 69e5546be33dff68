// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"go.uber.org/zap/zapcore"
)

// FQCSIDs are the FQ-CSIDs a message may carry, one per node role.
type FQCSIDs struct {
	MME  *FQCSID // instance 0
	SGW  *FQCSID // instance 1
	EPDG *FQCSID // instance 2
	TWAN *FQCSID // instance 3
}

func (c *FQCSIDs) set(ie *FQCSID) {
	switch ie.Ins {
	case 0:
		setOnce(&c.MME, ie)
	case 1:
		setOnce(&c.SGW, ie)
	case 2:
		setOnce(&c.EPDG, ie)
	case 3:
		setOnce(&c.TWAN, ie)
	}
}

func (c *FQCSIDs) appendTo(ies []IE) []IE {
	ies = appendOptional(ies, c.MME)
	ies = appendOptional(ies, c.SGW)
	ies = appendOptional(ies, c.EPDG)
	return appendOptional(ies, c.TWAN)
}

func (c *FQCSIDs) addTo(enc zapcore.ObjectEncoder) {
	addIEObject(enc, "mmeFQCSID", c.MME)
	addIEObject(enc, "sgwFQCSID", c.SGW)
	addIEObject(enc, "epdgFQCSID", c.EPDG)
	addIEObject(enc, "twanFQCSID", c.TWAN)
}

// MME/S4-SGSN, SGW and TWAN/ePDG overload control information
const nodeOverloadInstances = 3

// Create Bearer Request (7.2.3)
type CreateBearerRequest struct {
	Header                     Header
	PTI                        *PTI
	LinkedEBI                  EPSBearerID
	PCO                        *PCO
	BearerContexts             []*BearerContext
	FQCSIDs                    GatewayFQCSIDs
	Indication                 *Indication
	OverloadControlInformation []*OverloadControlInformation
	NBIFOMContainer            *FContainer
	PrivateExtensions          []*PrivateExtension
}

func NewCreateBearerRequest(teid, seq uint32, lebi uint8, bearers ...*BearerContext) *CreateBearerRequest {
	return &CreateBearerRequest{
		Header:         newHeader(MessageTypeCreateBearerRequest, teid, seq),
		LinkedEBI:      EPSBearerID{Value: lebi},
		BearerContexts: bearers,
	}
}

func (m *CreateBearerRequest) MessageType() MessageType {
	return MessageTypeCreateBearerRequest
}

func (m *CreateBearerRequest) MessageHeader() *Header {
	return &m.Header
}

func (m *CreateBearerRequest) IEs() []IE {
	ies := appendOptional(nil, m.PTI)
	ies = append(ies, &m.LinkedEBI)
	ies = appendOptional(ies, m.PCO)
	ies = appendRepeated(ies, m.BearerContexts)
	ies = m.FQCSIDs.appendTo(ies)
	ies = appendOptional(ies, m.Indication)
	ies = appendRepeated(ies, m.OverloadControlInformation)
	ies = appendOptional(ies, m.NBIFOMContainer)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *CreateBearerRequest) SetIEs(ies []IE) error {
	msg := CreateBearerRequest{Header: m.Header}
	mandatory := newMandatoryIEs(IEEPSBearerID, IEBearerContext)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *PTI:
			if ie.Ins == 0 {
				setOnce(&msg.PTI, ie)
			}
		case *EPSBearerID:
			if ie.Ins == 0 && mandatory.take(0) {
				msg.LinkedEBI = *ie
			}
		case *PCO:
			if ie.Ins == 0 {
				setOnce(&msg.PCO, ie)
			}
		case *BearerContext:
			if ie.Ins == 0 {
				mandatory.take(1)
				msg.BearerContexts = append(msg.BearerContexts, ie)
			}
		case *FQCSID:
			msg.FQCSIDs.set(ie)
		case *Indication:
			if ie.Ins == 0 {
				setOnce(&msg.Indication, ie)
			}
		case *OverloadControlInformation:
			if ie.Ins < gatewayOverloadInstances {
				msg.OverloadControlInformation = append(msg.OverloadControlInformation, ie)
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

func (m *CreateBearerRequest) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	addIEObject(enc, "pti", m.PTI)
	_ = enc.AddObject("linkedEBI", &m.LinkedEBI)
	addIEObject(enc, "pco", m.PCO)
	addIEArray(enc, "bearerContexts", m.BearerContexts)
	m.FQCSIDs.addTo(enc)
	addIEObject(enc, "indication", m.Indication)
	addIEArray(enc, "overloadControlInformation", m.OverloadControlInformation)
	addIEObject(enc, "nbifomContainer", m.NBIFOMContainer)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}

// Create Bearer Response (7.2.4)
type CreateBearerResponse struct {
	Header                     Header
	Cause                      Cause
	BearerContexts             []*BearerContext
	Recovery                   *Recovery
	FQCSIDs                    FQCSIDs
	PCO                        *PCO
	UETimeZone                 *UETimeZone
	ULI                        *ULI
	TWANIdentifier             *TWANIdentifier // instance 0
	OverloadControlInformation []*OverloadControlInformation
	PresenceReportingAreaInfo  *PresenceReportingAreaInfo
	MMEIdentifier              *IPAddress               // instance 0
	WLANLocationInformation    *TWANIdentifier          // instance 1
	WLANLocationTimestamp      *TWANIdentifierTimestamp // instance 1
	UELocalIPAddress           *IPAddress               // instance 1
	UEUDPPort                  *PortNumber              // instance 0
	NBIFOMContainer            *FContainer
	UETCPPort                  *PortNumber // instance 1
	PrivateExtensions          []*PrivateExtension
}

func NewCreateBearerResponse(teid, seq uint32, cause uint8) *CreateBearerResponse {
	return &CreateBearerResponse{
		Header: newHeader(MessageTypeCreateBearerResponse, teid, seq),
		Cause:  Cause{Value: cause},
	}
}

func (m *CreateBearerResponse) MessageType() MessageType {
	return MessageTypeCreateBearerResponse
}

func (m *CreateBearerResponse) MessageHeader() *Header {
	return &m.Header
}

func (m *CreateBearerResponse) IEs() []IE {
	ies := []IE{&m.Cause}
	ies = appendRepeated(ies, m.BearerContexts)
	ies = appendOptional(ies, m.Recovery)
	ies = m.FQCSIDs.appendTo(ies)
	ies = appendOptional(ies, m.PCO)
	ies = appendOptional(ies, m.UETimeZone)
	ies = appendOptional(ies, m.ULI)
	ies = appendOptional(ies, m.TWANIdentifier)
	ies = appendRepeated(ies, m.OverloadControlInformation)
	ies = appendOptional(ies, m.PresenceReportingAreaInfo)
	ies = appendOptional(ies, m.MMEIdentifier)
	ies = appendOptional(ies, m.WLANLocationInformation)
	ies = appendOptional(ies, m.WLANLocationTimestamp)
	ies = appendOptional(ies, m.UELocalIPAddress)
	ies = appendOptional(ies, m.UEUDPPort)
	ies = appendOptional(ies, m.NBIFOMContainer)
	ies = appendOptional(ies, m.UETCPPort)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *CreateBearerResponse) SetIEs(ies []IE) error {
	msg := CreateBearerResponse{Header: m.Header}
	mandatory := newMandatoryIEs(IECause, IEBearerContext)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *Cause:
			if ie.Ins == 0 && mandatory.take(0) {
				msg.Cause = *ie
			}
		case *BearerContext:
			if ie.Ins == 0 {
				mandatory.take(1)
				msg.BearerContexts = append(msg.BearerContexts, ie)
			}
		case *Recovery:
			if ie.Ins == 0 {
				setOnce(&msg.Recovery, ie)
			}
		case *FQCSID:
			msg.FQCSIDs.set(ie)
		case *PCO:
			if ie.Ins == 0 {
				setOnce(&msg.PCO, ie)
			}
		case *UETimeZone:
			if ie.Ins == 0 {
				setOnce(&msg.UETimeZone, ie)
			}
		case *ULI:
			if ie.Ins == 0 {
				setOnce(&msg.ULI, ie)
			}
		case *TWANIdentifier:
			switch ie.Ins {
			case 0:
				setOnce(&msg.TWANIdentifier, ie)
			case 1:
				setOnce(&msg.WLANLocationInformation, ie)
			}
		case *OverloadControlInformation:
			if ie.Ins < nodeOverloadInstances {
				msg.OverloadControlInformation = append(msg.OverloadControlInformation, ie)
			}
		case *PresenceReportingAreaInfo:
			if ie.Ins == 0 {
				setOnce(&msg.PresenceReportingAreaInfo, ie)
			}
		case *IPAddress:
			switch ie.Ins {
			case 0:
				setOnce(&msg.MMEIdentifier, ie)
			case 1:
				setOnce(&msg.UELocalIPAddress, ie)
			}
		case *TWANIdentifierTimestamp:
			if ie.Ins == 1 {
				setOnce(&msg.WLANLocationTimestamp, ie)
			}
		case *PortNumber:
			switch ie.Ins {
			case 0:
				setOnce(&msg.UEUDPPort, ie)
			case 1:
				setOnce(&msg.UETCPPort, ie)
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

func (m *CreateBearerResponse) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	_ = enc.AddObject("cause", &m.Cause)
	addIEArray(enc, "bearerContexts", m.BearerContexts)
	addIEObject(enc, "recovery", m.Recovery)
	m.FQCSIDs.addTo(enc)
	addIEObject(enc, "pco", m.PCO)
	addIEObject(enc, "ueTimeZone", m.UETimeZone)
	addIEObject(enc, "uli", m.ULI)
	addIEObject(enc, "twanIdentifier", m.TWANIdentifier)
	addIEArray(enc, "overloadControlInformation", m.OverloadControlInformation)
	addIEObject(enc, "presenceReportingAreaInfo", m.PresenceReportingAreaInfo)
	addIEObject(enc, "mmeIdentifier", m.MMEIdentifier)
	addIEObject(enc, "wlanLocationInformation", m.WLANLocationInformation)
	addIEObject(enc, "wlanLocationTimestamp", m.WLANLocationTimestamp)
	addIEObject(enc, "ueLocalIPAddress", m.UELocalIPAddress)
	addIEObject(enc, "ueUDPPort", m.UEUDPPort)
	addIEObject(enc, "nbifomContainer", m.NBIFOMContainer)
	addIEObject(enc, "ueTCPPort", m.UETCPPort)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}

// Delete Bearer Request (7.2.9.2). Carries either the linked EBI, to delete
// the whole PDN connection, or the EBIs of the dedicated bearers to delete.
type DeleteBearerRequest struct {
	Header                     Header
	LinkedEBI                  *EPSBearerID   // instance 0
	EBIs                       []*EPSBearerID // instance 1
	FailedBearerContexts       []*BearerContext
	PTI                        *PTI
	PCO                        *PCO
	FQCSIDs                    GatewayFQCSIDs
	Cause                      *Cause
	Indication                 *Indication
	OverloadControlInformation []*OverloadControlInformation
	NBIFOMContainer            *FContainer
	EPCO                       *EPCO
	PrivateExtensions          []*PrivateExtension
}

func NewDeleteBearerRequest(teid, seq uint32, ebis ...uint8) *DeleteBearerRequest {
	m := &DeleteBearerRequest{Header: newHeader(MessageTypeDeleteBearerRequest, teid, seq)}
	for _, ebi := range ebis {
		m.EBIs = append(m.EBIs, &EPSBearerID{Ins: 1, Value: ebi})
	}
	return m
}

func (m *DeleteBearerRequest) MessageType() MessageType {
	return MessageTypeDeleteBearerRequest
}

func (m *DeleteBearerRequest) MessageHeader() *Header {
	return &m.Header
}

func (m *DeleteBearerRequest) IEs() []IE {
	ies := appendOptional(nil, m.LinkedEBI)
	ies = appendRepeated(ies, m.EBIs)
	ies = appendRepeated(ies, m.FailedBearerContexts)
	ies = appendOptional(ies, m.PTI)
	ies = appendOptional(ies, m.PCO)
	ies = m.FQCSIDs.appendTo(ies)
	ies = appendOptional(ies, m.Cause)
	ies = appendOptional(ies, m.Indication)
	ies = appendRepeated(ies, m.OverloadControlInformation)
	ies = appendOptional(ies, m.NBIFOMContainer)
	ies = appendOptional(ies, m.EPCO)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *DeleteBearerRequest) SetIEs(ies []IE) error {
	msg := DeleteBearerRequest{Header: m.Header}
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *EPSBearerID:
			switch ie.Ins {
			case 0:
				setOnce(&msg.LinkedEBI, ie)
			case 1:
				msg.EBIs = append(msg.EBIs, ie)
			}
		case *BearerContext:
			if ie.Ins == 0 {
				msg.FailedBearerContexts = append(msg.FailedBearerContexts, ie)
			}
		case *PTI:
			if ie.Ins == 0 {
				setOnce(&msg.PTI, ie)
			}
		case *PCO:
			if ie.Ins == 0 {
				setOnce(&msg.PCO, ie)
			}
		case *FQCSID:
			msg.FQCSIDs.set(ie)
		case *Cause:
			if ie.Ins == 0 {
				setOnce(&msg.Cause, ie)
			}
		case *Indication:
			if ie.Ins == 0 {
				setOnce(&msg.Indication, ie)
			}
		case *OverloadControlInformation:
			if ie.Ins < gatewayOverloadInstances {
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
	*m = msg
	return nil
}

func (m *DeleteBearerRequest) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	addIEObject(enc, "linkedEBI", m.LinkedEBI)
	addIEArray(enc, "ebis", m.EBIs)
	addIEArray(enc, "failedBearerContexts", m.FailedBearerContexts)
	addIEObject(enc, "pti", m.PTI)
	addIEObject(enc, "pco", m.PCO)
	m.FQCSIDs.addTo(enc)
	addIEObject(enc, "cause", m.Cause)
	addIEObject(enc, "indication", m.Indication)
	addIEArray(enc, "overloadControlInformation", m.OverloadControlInformation)
	addIEObject(enc, "nbifomContainer", m.NBIFOMContainer)
	addIEObject(enc, "epco", m.EPCO)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}

// Delete Bearer Response (7.2.10). Only the Cause is mandatory: bearer
// contexts are absent when the whole PDN connection is being deleted.
type DeleteBearerResponse struct {
	Header                       Header
	Cause                        Cause
	LinkedEBI                    *EPSBearerID
	BearerContexts               []*BearerContext
	Recovery                     *Recovery
	FQCSIDs                      FQCSIDs
	PCO                          *PCO
	UETimeZone                   *UETimeZone
	ULI                          *ULI
	ULITimestamp                 *ULITimestamp
	TWANIdentifier               *TWANIdentifier          // instance 0
	TWANIdentifierTimestamp      *TWANIdentifierTimestamp // instance 0
	OverloadControlInformation   []*OverloadControlInformation
	MMEIdentifier                *IPAddress               // instance 0
	WLANLocationInformation      *TWANIdentifier          // instance 1
	WLANLocationTimestamp        *TWANIdentifierTimestamp // instance 1
	UELocalIPAddress             *IPAddress               // instance 1
	UEUDPPort                    *PortNumber              // instance 0
	NBIFOMContainer              *FContainer
	UETCPPort                    *PortNumber // instance 1
	SecondaryRATUsageDataReports []*SecondaryRATUsageDataReport
	PrivateExtensions            []*PrivateExtension
}

func NewDeleteBearerResponse(teid, seq uint32, cause uint8) *DeleteBearerResponse {
	return &DeleteBearerResponse{
		Header: newHeader(MessageTypeDeleteBearerResponse, teid, seq),
		Cause:  Cause{Value: cause},
	}
}

func (m *DeleteBearerResponse) MessageType() MessageType {
	return MessageTypeDeleteBearerResponse
}

func (m *DeleteBearerResponse) MessageHeader() *Header {
	return &m.Header
}

func (m *DeleteBearerResponse) IEs() []IE {
	ies := []IE{&m.Cause}
	ies = appendOptional(ies, m.LinkedEBI)
	ies = appendRepeated(ies, m.BearerContexts)
	ies = appendOptional(ies, m.Recovery)
	ies = m.FQCSIDs.appendTo(ies)
	ies = appendOptional(ies, m.PCO)
	ies = appendOptional(ies, m.UETimeZone)
	ies = appendOptional(ies, m.ULI)
	ies = appendOptional(ies, m.ULITimestamp)
	ies = appendOptional(ies, m.TWANIdentifier)
	ies = appendOptional(ies, m.TWANIdentifierTimestamp)
	ies = appendRepeated(ies, m.OverloadControlInformation)
	ies = appendOptional(ies, m.MMEIdentifier)
	ies = appendOptional(ies, m.WLANLocationInformation)
	ies = appendOptional(ies, m.WLANLocationTimestamp)
	ies = appendOptional(ies, m.UELocalIPAddress)
	ies = appendOptional(ies, m.UEUDPPort)
	ies = appendOptional(ies, m.NBIFOMContainer)
	ies = appendOptional(ies, m.UETCPPort)
	ies = appendRepeated(ies, m.SecondaryRATUsageDataReports)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *DeleteBearerResponse) SetIEs(ies []IE) error {
	msg := DeleteBearerResponse{Header: m.Header}
	mandatory := newMandatoryIEs(IECause)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *Cause:
			if ie.Ins == 0 && mandatory.take(0) {
				msg.Cause = *ie
			}
		case *EPSBearerID:
			if ie.Ins == 0 {
				setOnce(&msg.LinkedEBI, ie)
			}
		case *BearerContext:
			if ie.Ins == 0 {
				msg.BearerContexts = append(msg.BearerContexts, ie)
			}
		case *Recovery:
			if ie.Ins == 0 {
				setOnce(&msg.Recovery, ie)
			}
		case *FQCSID:
			msg.FQCSIDs.set(ie)
		case *PCO:
			if ie.Ins == 0 {
				setOnce(&msg.PCO, ie)
			}
		case *UETimeZone:
			if ie.Ins == 0 {
				setOnce(&msg.UETimeZone, ie)
			}
		case *ULI:
			if ie.Ins == 0 {
				setOnce(&msg.ULI, ie)
			}
		case *ULITimestamp:
			if ie.Ins == 0 {
				setOnce(&msg.ULITimestamp, ie)
			}
		case *TWANIdentifier:
			switch ie.Ins {
			case 0:
				setOnce(&msg.TWANIdentifier, ie)
			case 1:
				setOnce(&msg.WLANLocationInformation, ie)
			}
		case *TWANIdentifierTimestamp:
			switch ie.Ins {
			case 0:
				setOnce(&msg.TWANIdentifierTimestamp, ie)
			case 1:
				setOnce(&msg.WLANLocationTimestamp, ie)
			}
		case *OverloadControlInformation:
			if ie.Ins < nodeOverloadInstances {
				msg.OverloadControlInformation = append(msg.OverloadControlInformation, ie)
			}
		case *IPAddress:
			switch ie.Ins {
			case 0:
				setOnce(&msg.MMEIdentifier, ie)
			case 1:
				setOnce(&msg.UELocalIPAddress, ie)
			}
		case *PortNumber:
			switch ie.Ins {
			case 0:
				setOnce(&msg.UEUDPPort, ie)
			case 1:
				setOnce(&msg.UETCPPort, ie)
			}
		case *FContainer:
			if ie.Ins == 0 {
				setOnce(&msg.NBIFOMContainer, ie)
			}
		case *SecondaryRATUsageDataReport:
			if ie.Ins == 0 {
				msg.SecondaryRATUsageDataReports = append(msg.SecondaryRATUsageDataReports, ie)
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

func (m *DeleteBearerResponse) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	_ = enc.AddObject("cause", &m.Cause)
	addIEObject(enc, "linkedEBI", m.LinkedEBI)
	addIEArray(enc, "bearerContexts", m.BearerContexts)
	addIEObject(enc, "recovery", m.Recovery)
	m.FQCSIDs.addTo(enc)
	addIEObject(enc, "pco", m.PCO)
	addIEObject(enc, "ueTimeZone", m.UETimeZone)
	addIEObject(enc, "uli", m.ULI)
	addIEObject(enc, "uliTimestamp", m.ULITimestamp)
	addIEObject(enc, "twanIdentifier", m.TWANIdentifier)
	addIEObject(enc, "twanIdentifierTimestamp", m.TWANIdentifierTimestamp)
	addIEArray(enc, "overloadControlInformation", m.OverloadControlInformation)
	addIEObject(enc, "mmeIdentifier", m.MMEIdentifier)
	addIEObject(enc, "wlanLocationInformation", m.WLANLocationInformation)
	addIEObject(enc, "wlanLocationTimestamp", m.WLANLocationTimestamp)
	addIEObject(enc, "ueLocalIPAddress", m.UELocalIPAddress)
	addIEObject(enc, "ueUDPPort", m.UEUDPPort)
	addIEObject(enc, "nbifomContainer", m.NBIFOMContainer)
	addIEObject(enc, "ueTCPPort", m.UETCPPort)
	addIEArray(enc, "secondaryRATUsageDataReports", m.SecondaryRATUsageDataReports)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}
