// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"go.uber.org/zap/zapcore"
)

// PGW (instance 0) and SGW (instance 1) overload control information
const gatewayOverloadInstances = 2

// GatewayFQCSIDs are the FQ-CSIDs of the PGW and the SGW.
type GatewayFQCSIDs struct {
	PGW *FQCSID // instance 0
	SGW *FQCSID // instance 1
}

func (c *GatewayFQCSIDs) set(ie *FQCSID) {
	switch ie.Ins {
	case 0:
		setOnce(&c.PGW, ie)
	case 1:
		setOnce(&c.SGW, ie)
	}
}

func (c *GatewayFQCSIDs) appendTo(ies []IE) []IE {
	ies = appendOptional(ies, c.PGW)
	return appendOptional(ies, c.SGW)
}

func (c *GatewayFQCSIDs) addTo(enc zapcore.ObjectEncoder) {
	addIEObject(enc, "pgwFQCSID", c.PGW)
	addIEObject(enc, "sgwFQCSID", c.SGW)
}

// Create Session Request (7.2.1)
type CreateSessionRequest struct {
	Header                       Header
	IMSI                         *IMSI
	MSISDN                       *MSISDN
	MEI                          *MEI
	ULI                          *ULI // instance 0
	ServingNetwork               *ServingNetwork
	RATType                      RATType
	Indication                   *Indication
	SenderFTEIDControlPlane      FTEID  // instance 0
	PGWS5S8FTEIDControlPlane     *FTEID // instance 1
	APN                          AccessPointName
	SelectionMode                *SelectionMode
	PDNType                      *PDNType
	PAA                          *PAA
	MaximumAPNRestriction        *APNRestriction
	APNAMBR                      *AMBR
	LinkedEBI                    *EPSBearerID
	PCO                          *PCO
	BearerContextsToBeCreated    []*BearerContext // instance 0
	BearerContextsToBeRemoved    []*BearerContext // instance 1
	Recovery                     *Recovery
	FQCSIDs                      FQCSIDs
	UETimeZone                   *UETimeZone
	ChargingCharacteristics      *ChargingCharacteristics
	SignallingPriorityIndication *SignallingPriorityIndication
	UELocalIPAddress             *IPAddress  // instance 0
	UEUDPPort                    *PortNumber // instance 0
	APCO                         *APCO
	HeNBLocalIPAddress           *IPAddress  // instance 1
	HeNBUDPPort                  *PortNumber // instance 1
	MMEIdentifier                *IPAddress  // instance 2
	TWANIdentifier               *TWANIdentifier
	EPDGIPAddress                *IPAddress // instance 3
	PresenceReportingAreaInfo    *PresenceReportingAreaInfo
	OverloadControlInformation   []*OverloadControlInformation
	MaximumWaitTime              *EPCTimer
	WLANLocationTimestamp        *TWANIdentifierTimestamp
	NBIFOMContainer              *FContainer
	EPCO                         *EPCO
	UETCPPort                    *PortNumber // instance 2
	ULIForSGW                    *ULI        // instance 1
	PrivateExtensions            []*PrivateExtension
}

// NewCreateSessionRequest opens a PDN connection. The header TEID is zero
// since the peer has not allocated one yet.
func NewCreateSessionRequest(seq uint32, rat RAT, sender FTEID, apn string, bearers ...*BearerContext) *CreateSessionRequest {
	sender.Ins = 0
	return &CreateSessionRequest{
		Header:                    newHeader(MessageTypeCreateSessionRequest, 0, seq),
		RATType:                   RATType{RAT: rat},
		SenderFTEIDControlPlane:   sender,
		APN:                       AccessPointName{Name: apn},
		BearerContextsToBeCreated: bearers,
	}
}

func (m *CreateSessionRequest) MessageType() MessageType {
	return MessageTypeCreateSessionRequest
}

func (m *CreateSessionRequest) MessageHeader() *Header {
	return &m.Header
}

func (m *CreateSessionRequest) IEs() []IE {
	ies := appendOptional(nil, m.IMSI)
	ies = appendOptional(ies, m.MSISDN)
	ies = appendOptional(ies, m.MEI)
	ies = appendOptional(ies, m.ULI)
	ies = appendOptional(ies, m.ServingNetwork)
	ies = append(ies, &m.RATType)
	ies = appendOptional(ies, m.Indication)
	ies = append(ies, &m.SenderFTEIDControlPlane)
	ies = appendOptional(ies, m.PGWS5S8FTEIDControlPlane)
	ies = append(ies, &m.APN)
	ies = appendOptional(ies, m.SelectionMode)
	ies = appendOptional(ies, m.PDNType)
	ies = appendOptional(ies, m.PAA)
	ies = appendOptional(ies, m.MaximumAPNRestriction)
	ies = appendOptional(ies, m.APNAMBR)
	ies = appendOptional(ies, m.LinkedEBI)
	ies = appendOptional(ies, m.PCO)
	ies = appendRepeated(ies, m.BearerContextsToBeCreated)
	ies = appendRepeated(ies, m.BearerContextsToBeRemoved)
	ies = appendOptional(ies, m.Recovery)
	ies = m.FQCSIDs.appendTo(ies)
	ies = appendOptional(ies, m.UETimeZone)
	ies = appendOptional(ies, m.ChargingCharacteristics)
	ies = appendOptional(ies, m.SignallingPriorityIndication)
	ies = appendOptional(ies, m.UELocalIPAddress)
	ies = appendOptional(ies, m.UEUDPPort)
	ies = appendOptional(ies, m.APCO)
	ies = appendOptional(ies, m.HeNBLocalIPAddress)
	ies = appendOptional(ies, m.HeNBUDPPort)
	ies = appendOptional(ies, m.MMEIdentifier)
	ies = appendOptional(ies, m.TWANIdentifier)
	ies = appendOptional(ies, m.EPDGIPAddress)
	ies = appendOptional(ies, m.PresenceReportingAreaInfo)
	ies = appendRepeated(ies, m.OverloadControlInformation)
	ies = appendOptional(ies, m.MaximumWaitTime)
	ies = appendOptional(ies, m.WLANLocationTimestamp)
	ies = appendOptional(ies, m.NBIFOMContainer)
	ies = appendOptional(ies, m.EPCO)
	ies = appendOptional(ies, m.UETCPPort)
	ies = appendOptional(ies, m.ULIForSGW)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *CreateSessionRequest) SetIEs(ies []IE) error {
	msg := CreateSessionRequest{Header: m.Header}
	mandatory := newMandatoryIEs(IERATType, IEFullyQualifiedTEID, IEAccessPointName, IEBearerContext)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *IMSI:
			if ie.Ins == 0 {
				setOnce(&msg.IMSI, ie)
			}
		case *MSISDN:
			if ie.Ins == 0 {
				setOnce(&msg.MSISDN, ie)
			}
		case *MEI:
			if ie.Ins == 0 {
				setOnce(&msg.MEI, ie)
			}
		case *ULI:
			switch ie.Ins {
			case 0:
				setOnce(&msg.ULI, ie)
			case 1:
				setOnce(&msg.ULIForSGW, ie)
			}
		case *ServingNetwork:
			if ie.Ins == 0 {
				setOnce(&msg.ServingNetwork, ie)
			}
		case *RATType:
			if ie.Ins == 0 && mandatory.take(0) {
				msg.RATType = *ie
			}
		case *Indication:
			if ie.Ins == 0 {
				setOnce(&msg.Indication, ie)
			}
		case *FTEID:
			switch ie.Ins {
			case 0:
				if mandatory.take(1) {
					msg.SenderFTEIDControlPlane = *ie
				}
			case 1:
				setOnce(&msg.PGWS5S8FTEIDControlPlane, ie)
			}
		case *AccessPointName:
			if ie.Ins == 0 && mandatory.take(2) {
				msg.APN = *ie
			}
		case *SelectionMode:
			if ie.Ins == 0 {
				setOnce(&msg.SelectionMode, ie)
			}
		case *PDNType:
			if ie.Ins == 0 {
				setOnce(&msg.PDNType, ie)
			}
		case *PAA:
			if ie.Ins == 0 {
				setOnce(&msg.PAA, ie)
			}
		case *APNRestriction:
			if ie.Ins == 0 {
				setOnce(&msg.MaximumAPNRestriction, ie)
			}
		case *AMBR:
			if ie.Ins == 0 {
				setOnce(&msg.APNAMBR, ie)
			}
		case *EPSBearerID:
			if ie.Ins == 0 {
				setOnce(&msg.LinkedEBI, ie)
			}
		case *PCO:
			if ie.Ins == 0 {
				setOnce(&msg.PCO, ie)
			}
		case *BearerContext:
			switch ie.Ins {
			case 0:
				mandatory.take(3)
				msg.BearerContextsToBeCreated = append(msg.BearerContextsToBeCreated, ie)
			case 1:
				msg.BearerContextsToBeRemoved = append(msg.BearerContextsToBeRemoved, ie)
			}
		case *Recovery:
			if ie.Ins == 0 {
				setOnce(&msg.Recovery, ie)
			}
		case *FQCSID:
			msg.FQCSIDs.set(ie)
		case *UETimeZone:
			if ie.Ins == 0 {
				setOnce(&msg.UETimeZone, ie)
			}
		case *ChargingCharacteristics:
			if ie.Ins == 0 {
				setOnce(&msg.ChargingCharacteristics, ie)
			}
		case *SignallingPriorityIndication:
			if ie.Ins == 0 {
				setOnce(&msg.SignallingPriorityIndication, ie)
			}
		case *IPAddress:
			switch ie.Ins {
			case 0:
				setOnce(&msg.UELocalIPAddress, ie)
			case 1:
				setOnce(&msg.HeNBLocalIPAddress, ie)
			case 2:
				setOnce(&msg.MMEIdentifier, ie)
			case 3:
				setOnce(&msg.EPDGIPAddress, ie)
			}
		case *PortNumber:
			switch ie.Ins {
			case 0:
				setOnce(&msg.UEUDPPort, ie)
			case 1:
				setOnce(&msg.HeNBUDPPort, ie)
			case 2:
				setOnce(&msg.UETCPPort, ie)
			}
		case *APCO:
			if ie.Ins == 0 {
				setOnce(&msg.APCO, ie)
			}
		case *TWANIdentifier:
			if ie.Ins == 0 {
				setOnce(&msg.TWANIdentifier, ie)
			}
		case *PresenceReportingAreaInfo:
			if ie.Ins == 0 {
				setOnce(&msg.PresenceReportingAreaInfo, ie)
			}
		case *OverloadControlInformation:
			if ie.Ins < nodeOverloadInstances {
				msg.OverloadControlInformation = append(msg.OverloadControlInformation, ie)
			}
		case *EPCTimer:
			if ie.Ins == 0 {
				setOnce(&msg.MaximumWaitTime, ie)
			}
		case *TWANIdentifierTimestamp:
			if ie.Ins == 0 {
				setOnce(&msg.WLANLocationTimestamp, ie)
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

func (m *CreateSessionRequest) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	addIEObject(enc, "imsi", m.IMSI)
	addIEObject(enc, "msisdn", m.MSISDN)
	addIEObject(enc, "mei", m.MEI)
	addIEObject(enc, "uli", m.ULI)
	addIEObject(enc, "servingNetwork", m.ServingNetwork)
	_ = enc.AddObject("ratType", &m.RATType)
	addIEObject(enc, "indication", m.Indication)
	_ = enc.AddObject("senderFTEIDControlPlane", &m.SenderFTEIDControlPlane)
	addIEObject(enc, "pgwS5S8FTEIDControlPlane", m.PGWS5S8FTEIDControlPlane)
	_ = enc.AddObject("apn", &m.APN)
	addIEObject(enc, "selectionMode", m.SelectionMode)
	addIEObject(enc, "pdnType", m.PDNType)
	addIEObject(enc, "paa", m.PAA)
	addIEObject(enc, "maximumAPNRestriction", m.MaximumAPNRestriction)
	addIEObject(enc, "apnAMBR", m.APNAMBR)
	addIEObject(enc, "linkedEBI", m.LinkedEBI)
	addIEObject(enc, "pco", m.PCO)
	addIEArray(enc, "bearerContextsToBeCreated", m.BearerContextsToBeCreated)
	addIEArray(enc, "bearerContextsToBeRemoved", m.BearerContextsToBeRemoved)
	addIEObject(enc, "recovery", m.Recovery)
	m.FQCSIDs.addTo(enc)
	addIEObject(enc, "ueTimeZone", m.UETimeZone)
	addIEObject(enc, "chargingCharacteristics", m.ChargingCharacteristics)
	addIEObject(enc, "signallingPriorityIndication", m.SignallingPriorityIndication)
	addIEObject(enc, "ueLocalIPAddress", m.UELocalIPAddress)
	addIEObject(enc, "ueUDPPort", m.UEUDPPort)
	addIEObject(enc, "apco", m.APCO)
	addIEObject(enc, "henbLocalIPAddress", m.HeNBLocalIPAddress)
	addIEObject(enc, "henbUDPPort", m.HeNBUDPPort)
	addIEObject(enc, "mmeIdentifier", m.MMEIdentifier)
	addIEObject(enc, "twanIdentifier", m.TWANIdentifier)
	addIEObject(enc, "epdgIPAddress", m.EPDGIPAddress)
	addIEObject(enc, "presenceReportingAreaInfo", m.PresenceReportingAreaInfo)
	addIEArray(enc, "overloadControlInformation", m.OverloadControlInformation)
	addIEObject(enc, "maximumWaitTime", m.MaximumWaitTime)
	addIEObject(enc, "wlanLocationTimestamp", m.WLANLocationTimestamp)
	addIEObject(enc, "nbifomContainer", m.NBIFOMContainer)
	addIEObject(enc, "epco", m.EPCO)
	addIEObject(enc, "ueTCPPort", m.UETCPPort)
	addIEObject(enc, "uliForSGW", m.ULIForSGW)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}

// Create Session Response (7.2.2)
type CreateSessionResponse struct {
	Header                         Header
	Cause                          Cause
	SenderFTEIDControlPlane        *FTEID // instance 0
	PGWS5S8FTEIDControlPlane       *FTEID // instance 1
	PAA                            *PAA
	APNRestriction                 *APNRestriction
	APNAMBR                        *AMBR
	LinkedEBI                      *EPSBearerID
	PCO                            *PCO
	BearerContextsCreated          []*BearerContext // instance 0
	BearerContextsMarkedForRemoval []*BearerContext // instance 1
	Recovery                       *Recovery
	ChargingGatewayAddress         *IPAddress
	FQCSIDs                        GatewayFQCSIDs
	PGWBackOffTime                 *EPCTimer
	APCO                           *APCO
	Indication                     *Indication
	OverloadControlInformation     []*OverloadControlInformation
	NBIFOMContainer                *FContainer
	PDNConnectionChargingID        *ChargingID
	EPCO                           *EPCO
	PrivateExtensions              []*PrivateExtension
}

func NewCreateSessionResponse(teid, seq uint32, cause uint8) *CreateSessionResponse {
	return &CreateSessionResponse{
		Header: newHeader(MessageTypeCreateSessionResponse, teid, seq),
		Cause:  Cause{Value: cause},
	}
}

func (m *CreateSessionResponse) MessageType() MessageType {
	return MessageTypeCreateSessionResponse
}

func (m *CreateSessionResponse) MessageHeader() *Header {
	return &m.Header
}

func (m *CreateSessionResponse) IEs() []IE {
	ies := []IE{&m.Cause}
	ies = appendOptional(ies, m.SenderFTEIDControlPlane)
	ies = appendOptional(ies, m.PGWS5S8FTEIDControlPlane)
	ies = appendOptional(ies, m.PAA)
	ies = appendOptional(ies, m.APNRestriction)
	ies = appendOptional(ies, m.APNAMBR)
	ies = appendOptional(ies, m.LinkedEBI)
	ies = appendOptional(ies, m.PCO)
	ies = appendRepeated(ies, m.BearerContextsCreated)
	ies = appendRepeated(ies, m.BearerContextsMarkedForRemoval)
	ies = appendOptional(ies, m.Recovery)
	ies = appendOptional(ies, m.ChargingGatewayAddress)
	ies = m.FQCSIDs.appendTo(ies)
	ies = appendOptional(ies, m.PGWBackOffTime)
	ies = appendOptional(ies, m.APCO)
	ies = appendOptional(ies, m.Indication)
	ies = appendRepeated(ies, m.OverloadControlInformation)
	ies = appendOptional(ies, m.NBIFOMContainer)
	ies = appendOptional(ies, m.PDNConnectionChargingID)
	ies = appendOptional(ies, m.EPCO)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *CreateSessionResponse) SetIEs(ies []IE) error {
	msg := CreateSessionResponse{Header: m.Header}
	mandatory := newMandatoryIEs(IECause)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *Cause:
			if ie.Ins == 0 && mandatory.take(0) {
				msg.Cause = *ie
			}
		case *FTEID:
			switch ie.Ins {
			case 0:
				setOnce(&msg.SenderFTEIDControlPlane, ie)
			case 1:
				setOnce(&msg.PGWS5S8FTEIDControlPlane, ie)
			}
		case *PAA:
			if ie.Ins == 0 {
				setOnce(&msg.PAA, ie)
			}
		case *APNRestriction:
			if ie.Ins == 0 {
				setOnce(&msg.APNRestriction, ie)
			}
		case *AMBR:
			if ie.Ins == 0 {
				setOnce(&msg.APNAMBR, ie)
			}
		case *EPSBearerID:
			if ie.Ins == 0 {
				setOnce(&msg.LinkedEBI, ie)
			}
		case *PCO:
			if ie.Ins == 0 {
				setOnce(&msg.PCO, ie)
			}
		case *BearerContext:
			switch ie.Ins {
			case 0:
				msg.BearerContextsCreated = append(msg.BearerContextsCreated, ie)
			case 1:
				msg.BearerContextsMarkedForRemoval = append(msg.BearerContextsMarkedForRemoval, ie)
			}
		case *Recovery:
			if ie.Ins == 0 {
				setOnce(&msg.Recovery, ie)
			}
		case *IPAddress:
			if ie.Ins == 0 {
				setOnce(&msg.ChargingGatewayAddress, ie)
			}
		case *FQCSID:
			msg.FQCSIDs.set(ie)
		case *EPCTimer:
			if ie.Ins == 0 {
				setOnce(&msg.PGWBackOffTime, ie)
			}
		case *APCO:
			if ie.Ins == 0 {
				setOnce(&msg.APCO, ie)
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
		case *ChargingID:
			if ie.Ins == 0 {
				setOnce(&msg.PDNConnectionChargingID, ie)
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

func (m *CreateSessionResponse) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	_ = enc.AddObject("cause", &m.Cause)
	addIEObject(enc, "senderFTEIDControlPlane", m.SenderFTEIDControlPlane)
	addIEObject(enc, "pgwS5S8FTEIDControlPlane", m.PGWS5S8FTEIDControlPlane)
	addIEObject(enc, "paa", m.PAA)
	addIEObject(enc, "apnRestriction", m.APNRestriction)
	addIEObject(enc, "apnAMBR", m.APNAMBR)
	addIEObject(enc, "linkedEBI", m.LinkedEBI)
	addIEObject(enc, "pco", m.PCO)
	addIEArray(enc, "bearerContextsCreated", m.BearerContextsCreated)
	addIEArray(enc, "bearerContextsMarkedForRemoval", m.BearerContextsMarkedForRemoval)
	addIEObject(enc, "recovery", m.Recovery)
	addIEObject(enc, "chargingGatewayAddress", m.ChargingGatewayAddress)
	m.FQCSIDs.addTo(enc)
	addIEObject(enc, "pgwBackOffTime", m.PGWBackOffTime)
	addIEObject(enc, "apco", m.APCO)
	addIEObject(enc, "indication", m.Indication)
	addIEArray(enc, "overloadControlInformation", m.OverloadControlInformation)
	addIEObject(enc, "nbifomContainer", m.NBIFOMContainer)
	addIEObject(enc, "pdnConnectionChargingID", m.PDNConnectionChargingID)
	addIEObject(enc, "epco", m.EPCO)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}

// Modify Bearer Request (7.2.7). Every IE is conditional.
type ModifyBearerRequest struct {
	Header                          Header
	MEI                             *MEI
	ULI                             *ULI // instance 0
	ServingNetwork                  *ServingNetwork
	RATType                         *RATType
	Indication                      *Indication
	SenderFTEIDControlPlane         *FTEID
	APNAMBR                         *AMBR
	DelayDownlinkPacketNotification *DelayValue
	BearerContextsToBeModified      []*BearerContext // instance 0
	BearerContextsToBeRemoved       []*BearerContext // instance 1
	Recovery                        *Recovery
	UETimeZone                      *UETimeZone
	FQCSIDs                         FQCSIDs
	UELocalIPAddress                *IPAddress  // instance 0
	UEUDPPort                       *PortNumber // instance 0
	HeNBLocalIPAddress              *IPAddress  // instance 1
	HeNBUDPPort                     *PortNumber // instance 1
	MMEIdentifier                   *IPAddress  // instance 2
	PresenceReportingAreaInfo       *PresenceReportingAreaInfo
	OverloadControlInformation      []*OverloadControlInformation
	IMSI                            *IMSI
	ULIForSGW                       *ULI // instance 1
	WLANLocationInformation         *TWANIdentifier
	WLANLocationTimestamp           *TWANIdentifierTimestamp
	SecondaryRATUsageDataReports    []*SecondaryRATUsageDataReport
	PrivateExtensions               []*PrivateExtension
}

func NewModifyBearerRequest(teid, seq uint32, bearers ...*BearerContext) *ModifyBearerRequest {
	return &ModifyBearerRequest{
		Header:                     newHeader(MessageTypeModifyBearerRequest, teid, seq),
		BearerContextsToBeModified: bearers,
	}
}

func (m *ModifyBearerRequest) MessageType() MessageType {
	return MessageTypeModifyBearerRequest
}

func (m *ModifyBearerRequest) MessageHeader() *Header {
	return &m.Header
}

func (m *ModifyBearerRequest) IEs() []IE {
	ies := appendOptional(nil, m.MEI)
	ies = appendOptional(ies, m.ULI)
	ies = appendOptional(ies, m.ServingNetwork)
	ies = appendOptional(ies, m.RATType)
	ies = appendOptional(ies, m.Indication)
	ies = appendOptional(ies, m.SenderFTEIDControlPlane)
	ies = appendOptional(ies, m.APNAMBR)
	ies = appendOptional(ies, m.DelayDownlinkPacketNotification)
	ies = appendRepeated(ies, m.BearerContextsToBeModified)
	ies = appendRepeated(ies, m.BearerContextsToBeRemoved)
	ies = appendOptional(ies, m.Recovery)
	ies = appendOptional(ies, m.UETimeZone)
	ies = m.FQCSIDs.appendTo(ies)
	ies = appendOptional(ies, m.UELocalIPAddress)
	ies = appendOptional(ies, m.UEUDPPort)
	ies = appendOptional(ies, m.HeNBLocalIPAddress)
	ies = appendOptional(ies, m.HeNBUDPPort)
	ies = appendOptional(ies, m.MMEIdentifier)
	ies = appendOptional(ies, m.PresenceReportingAreaInfo)
	ies = appendRepeated(ies, m.OverloadControlInformation)
	ies = appendOptional(ies, m.IMSI)
	ies = appendOptional(ies, m.ULIForSGW)
	ies = appendOptional(ies, m.WLANLocationInformation)
	ies = appendOptional(ies, m.WLANLocationTimestamp)
	ies = appendRepeated(ies, m.SecondaryRATUsageDataReports)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *ModifyBearerRequest) SetIEs(ies []IE) error {
	msg := ModifyBearerRequest{Header: m.Header}
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *MEI:
			if ie.Ins == 0 {
				setOnce(&msg.MEI, ie)
			}
		case *ULI:
			switch ie.Ins {
			case 0:
				setOnce(&msg.ULI, ie)
			case 1:
				setOnce(&msg.ULIForSGW, ie)
			}
		case *ServingNetwork:
			if ie.Ins == 0 {
				setOnce(&msg.ServingNetwork, ie)
			}
		case *RATType:
			if ie.Ins == 0 {
				setOnce(&msg.RATType, ie)
			}
		case *Indication:
			if ie.Ins == 0 {
				setOnce(&msg.Indication, ie)
			}
		case *FTEID:
			if ie.Ins == 0 {
				setOnce(&msg.SenderFTEIDControlPlane, ie)
			}
		case *AMBR:
			if ie.Ins == 0 {
				setOnce(&msg.APNAMBR, ie)
			}
		case *DelayValue:
			if ie.Ins == 0 {
				setOnce(&msg.DelayDownlinkPacketNotification, ie)
			}
		case *BearerContext:
			switch ie.Ins {
			case 0:
				msg.BearerContextsToBeModified = append(msg.BearerContextsToBeModified, ie)
			case 1:
				msg.BearerContextsToBeRemoved = append(msg.BearerContextsToBeRemoved, ie)
			}
		case *Recovery:
			if ie.Ins == 0 {
				setOnce(&msg.Recovery, ie)
			}
		case *UETimeZone:
			if ie.Ins == 0 {
				setOnce(&msg.UETimeZone, ie)
			}
		case *FQCSID:
			msg.FQCSIDs.set(ie)
		case *IPAddress:
			switch ie.Ins {
			case 0:
				setOnce(&msg.UELocalIPAddress, ie)
			case 1:
				setOnce(&msg.HeNBLocalIPAddress, ie)
			case 2:
				setOnce(&msg.MMEIdentifier, ie)
			}
		case *PortNumber:
			switch ie.Ins {
			case 0:
				setOnce(&msg.UEUDPPort, ie)
			case 1:
				setOnce(&msg.HeNBUDPPort, ie)
			}
		case *PresenceReportingAreaInfo:
			if ie.Ins == 0 {
				setOnce(&msg.PresenceReportingAreaInfo, ie)
			}
		case *OverloadControlInformation:
			if ie.Ins < nodeOverloadInstances {
				msg.OverloadControlInformation = append(msg.OverloadControlInformation, ie)
			}
		case *IMSI:
			if ie.Ins == 0 {
				setOnce(&msg.IMSI, ie)
			}
		case *TWANIdentifier:
			if ie.Ins == 0 {
				setOnce(&msg.WLANLocationInformation, ie)
			}
		case *TWANIdentifierTimestamp:
			if ie.Ins == 0 {
				setOnce(&msg.WLANLocationTimestamp, ie)
			}
		case *SecondaryRATUsageDataReport:
			if ie.Ins == 0 {
				msg.SecondaryRATUsageDataReports = append(msg.SecondaryRATUsageDataReports, ie)
			}
		case *PrivateExtension:
			msg.PrivateExtensions = append(msg.PrivateExtensions, ie)
		}
	}
	*m = msg
	return nil
}

func (m *ModifyBearerRequest) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	addIEObject(enc, "mei", m.MEI)
	addIEObject(enc, "uli", m.ULI)
	addIEObject(enc, "servingNetwork", m.ServingNetwork)
	addIEObject(enc, "ratType", m.RATType)
	addIEObject(enc, "indication", m.Indication)
	addIEObject(enc, "senderFTEIDControlPlane", m.SenderFTEIDControlPlane)
	addIEObject(enc, "apnAMBR", m.APNAMBR)
	addIEObject(enc, "delayDownlinkPacketNotification", m.DelayDownlinkPacketNotification)
	addIEArray(enc, "bearerContextsToBeModified", m.BearerContextsToBeModified)
	addIEArray(enc, "bearerContextsToBeRemoved", m.BearerContextsToBeRemoved)
	addIEObject(enc, "recovery", m.Recovery)
	addIEObject(enc, "ueTimeZone", m.UETimeZone)
	m.FQCSIDs.addTo(enc)
	addIEObject(enc, "ueLocalIPAddress", m.UELocalIPAddress)
	addIEObject(enc, "ueUDPPort", m.UEUDPPort)
	addIEObject(enc, "henbLocalIPAddress", m.HeNBLocalIPAddress)
	addIEObject(enc, "henbUDPPort", m.HeNBUDPPort)
	addIEObject(enc, "mmeIdentifier", m.MMEIdentifier)
	addIEObject(enc, "presenceReportingAreaInfo", m.PresenceReportingAreaInfo)
	addIEArray(enc, "overloadControlInformation", m.OverloadControlInformation)
	addIEObject(enc, "imsi", m.IMSI)
	addIEObject(enc, "uliForSGW", m.ULIForSGW)
	addIEObject(enc, "wlanLocationInformation", m.WLANLocationInformation)
	addIEObject(enc, "wlanLocationTimestamp", m.WLANLocationTimestamp)
	addIEArray(enc, "secondaryRATUsageDataReports", m.SecondaryRATUsageDataReports)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}

// Modify Bearer Response (7.2.8)
type ModifyBearerResponse struct {
	Header                         Header
	Cause                          Cause
	MSISDN                         *MSISDN
	LinkedEBI                      *EPSBearerID
	APNRestriction                 *APNRestriction
	PCO                            *PCO
	BearerContextsModified         []*BearerContext // instance 0
	BearerContextsMarkedForRemoval []*BearerContext // instance 1
	ChargingGatewayAddress         *IPAddress
	FQCSIDs                        GatewayFQCSIDs
	Recovery                       *Recovery
	Indication                     *Indication
	OverloadControlInformation     []*OverloadControlInformation
	PDNConnectionChargingID        *ChargingID
	PrivateExtensions              []*PrivateExtension
}

func NewModifyBearerResponse(teid, seq uint32, cause uint8) *ModifyBearerResponse {
	return &ModifyBearerResponse{
		Header: newHeader(MessageTypeModifyBearerResponse, teid, seq),
		Cause:  Cause{Value: cause},
	}
}

func (m *ModifyBearerResponse) MessageType() MessageType {
	return MessageTypeModifyBearerResponse
}

func (m *ModifyBearerResponse) MessageHeader() *Header {
	return &m.Header
}

func (m *ModifyBearerResponse) IEs() []IE {
	ies := []IE{&m.Cause}
	ies = appendOptional(ies, m.MSISDN)
	ies = appendOptional(ies, m.LinkedEBI)
	ies = appendOptional(ies, m.APNRestriction)
	ies = appendOptional(ies, m.PCO)
	ies = appendRepeated(ies, m.BearerContextsModified)
	ies = appendRepeated(ies, m.BearerContextsMarkedForRemoval)
	ies = appendOptional(ies, m.ChargingGatewayAddress)
	ies = m.FQCSIDs.appendTo(ies)
	ies = appendOptional(ies, m.Recovery)
	ies = appendOptional(ies, m.Indication)
	ies = appendRepeated(ies, m.OverloadControlInformation)
	ies = appendOptional(ies, m.PDNConnectionChargingID)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *ModifyBearerResponse) SetIEs(ies []IE) error {
	msg := ModifyBearerResponse{Header: m.Header}
	mandatory := newMandatoryIEs(IECause)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *Cause:
			if ie.Ins == 0 && mandatory.take(0) {
				msg.Cause = *ie
			}
		case *MSISDN:
			if ie.Ins == 0 {
				setOnce(&msg.MSISDN, ie)
			}
		case *EPSBearerID:
			if ie.Ins == 0 {
				setOnce(&msg.LinkedEBI, ie)
			}
		case *APNRestriction:
			if ie.Ins == 0 {
				setOnce(&msg.APNRestriction, ie)
			}
		case *PCO:
			if ie.Ins == 0 {
				setOnce(&msg.PCO, ie)
			}
		case *BearerContext:
			switch ie.Ins {
			case 0:
				msg.BearerContextsModified = append(msg.BearerContextsModified, ie)
			case 1:
				msg.BearerContextsMarkedForRemoval = append(msg.BearerContextsMarkedForRemoval, ie)
			}
		case *IPAddress:
			if ie.Ins == 0 {
				setOnce(&msg.ChargingGatewayAddress, ie)
			}
		case *FQCSID:
			msg.FQCSIDs.set(ie)
		case *Recovery:
			if ie.Ins == 0 {
				setOnce(&msg.Recovery, ie)
			}
		case *Indication:
			if ie.Ins == 0 {
				setOnce(&msg.Indication, ie)
			}
		case *OverloadControlInformation:
			if ie.Ins < gatewayOverloadInstances {
				msg.OverloadControlInformation = append(msg.OverloadControlInformation, ie)
			}
		case *ChargingID:
			if ie.Ins == 0 {
				setOnce(&msg.PDNConnectionChargingID, ie)
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

func (m *ModifyBearerResponse) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	_ = enc.AddObject("cause", &m.Cause)
	addIEObject(enc, "msisdn", m.MSISDN)
	addIEObject(enc, "linkedEBI", m.LinkedEBI)
	addIEObject(enc, "apnRestriction", m.APNRestriction)
	addIEObject(enc, "pco", m.PCO)
	addIEArray(enc, "bearerContextsModified", m.BearerContextsModified)
	addIEArray(enc, "bearerContextsMarkedForRemoval", m.BearerContextsMarkedForRemoval)
	addIEObject(enc, "chargingGatewayAddress", m.ChargingGatewayAddress)
	m.FQCSIDs.addTo(enc)
	addIEObject(enc, "recovery", m.Recovery)
	addIEObject(enc, "indication", m.Indication)
	addIEArray(enc, "overloadControlInformation", m.OverloadControlInformation)
	addIEObject(enc, "pdnConnectionChargingID", m.PDNConnectionChargingID)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}

// Delete Session Request (7.2.9.1). Every IE is conditional.
type DeleteSessionRequest struct {
	Header                       Header
	Cause                        *Cause
	LinkedEBI                    *EPSBearerID
	ULI                          *ULI
	Indication                   *Indication
	PCO                          *PCO
	SenderFTEIDControlPlane      *FTEID
	UETimeZone                   *UETimeZone
	ULITimestamp                 *ULITimestamp
	TWANIdentifier               *TWANIdentifier          // instance 0
	TWANIdentifierTimestamp      *TWANIdentifierTimestamp // instance 0
	OverloadControlInformation   []*OverloadControlInformation
	WLANLocationInformation      *TWANIdentifier          // instance 1
	WLANLocationTimestamp        *TWANIdentifierTimestamp // instance 1
	UELocalIPAddress             *IPAddress
	UEUDPPort                    *PortNumber // instance 0
	EPCO                         *EPCO
	UETCPPort                    *PortNumber // instance 1
	SecondaryRATUsageDataReports []*SecondaryRATUsageDataReport
	PrivateExtensions            []*PrivateExtension
}

// NewDeleteSessionRequest deletes the PDN connection whose default bearer is lebi.
func NewDeleteSessionRequest(teid, seq uint32, lebi uint8) *DeleteSessionRequest {
	return &DeleteSessionRequest{
		Header:    newHeader(MessageTypeDeleteSessionRequest, teid, seq),
		LinkedEBI: &EPSBearerID{Value: lebi},
	}
}

func (m *DeleteSessionRequest) MessageType() MessageType {
	return MessageTypeDeleteSessionRequest
}

func (m *DeleteSessionRequest) MessageHeader() *Header {
	return &m.Header
}

func (m *DeleteSessionRequest) IEs() []IE {
	ies := appendOptional(nil, m.Cause)
	ies = appendOptional(ies, m.LinkedEBI)
	ies = appendOptional(ies, m.ULI)
	ies = appendOptional(ies, m.Indication)
	ies = appendOptional(ies, m.PCO)
	ies = appendOptional(ies, m.SenderFTEIDControlPlane)
	ies = appendOptional(ies, m.UETimeZone)
	ies = appendOptional(ies, m.ULITimestamp)
	ies = appendOptional(ies, m.TWANIdentifier)
	ies = appendOptional(ies, m.TWANIdentifierTimestamp)
	ies = appendRepeated(ies, m.OverloadControlInformation)
	ies = appendOptional(ies, m.WLANLocationInformation)
	ies = appendOptional(ies, m.WLANLocationTimestamp)
	ies = appendOptional(ies, m.UELocalIPAddress)
	ies = appendOptional(ies, m.UEUDPPort)
	ies = appendOptional(ies, m.EPCO)
	ies = appendOptional(ies, m.UETCPPort)
	ies = appendRepeated(ies, m.SecondaryRATUsageDataReports)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *DeleteSessionRequest) SetIEs(ies []IE) error {
	msg := DeleteSessionRequest{Header: m.Header}
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *Cause:
			if ie.Ins == 0 {
				setOnce(&msg.Cause, ie)
			}
		case *EPSBearerID:
			if ie.Ins == 0 {
				setOnce(&msg.LinkedEBI, ie)
			}
		case *ULI:
			if ie.Ins == 0 {
				setOnce(&msg.ULI, ie)
			}
		case *Indication:
			if ie.Ins == 0 {
				setOnce(&msg.Indication, ie)
			}
		case *PCO:
			if ie.Ins == 0 {
				setOnce(&msg.PCO, ie)
			}
		case *FTEID:
			if ie.Ins == 0 {
				setOnce(&msg.SenderFTEIDControlPlane, ie)
			}
		case *UETimeZone:
			if ie.Ins == 0 {
				setOnce(&msg.UETimeZone, ie)
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
			if ie.Ins == 0 {
				setOnce(&msg.UELocalIPAddress, ie)
			}
		case *PortNumber:
			switch ie.Ins {
			case 0:
				setOnce(&msg.UEUDPPort, ie)
			case 1:
				setOnce(&msg.UETCPPort, ie)
			}
		case *EPCO:
			if ie.Ins == 0 {
				setOnce(&msg.EPCO, ie)
			}
		case *SecondaryRATUsageDataReport:
			if ie.Ins == 0 {
				msg.SecondaryRATUsageDataReports = append(msg.SecondaryRATUsageDataReports, ie)
			}
		case *PrivateExtension:
			msg.PrivateExtensions = append(msg.PrivateExtensions, ie)
		}
	}
	*m = msg
	return nil
}

func (m *DeleteSessionRequest) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	addIEObject(enc, "cause", m.Cause)
	addIEObject(enc, "linkedEBI", m.LinkedEBI)
	addIEObject(enc, "uli", m.ULI)
	addIEObject(enc, "indication", m.Indication)
	addIEObject(enc, "pco", m.PCO)
	addIEObject(enc, "senderFTEIDControlPlane", m.SenderFTEIDControlPlane)
	addIEObject(enc, "ueTimeZone", m.UETimeZone)
	addIEObject(enc, "uliTimestamp", m.ULITimestamp)
	addIEObject(enc, "twanIdentifier", m.TWANIdentifier)
	addIEObject(enc, "twanIdentifierTimestamp", m.TWANIdentifierTimestamp)
	addIEArray(enc, "overloadControlInformation", m.OverloadControlInformation)
	addIEObject(enc, "wlanLocationInformation", m.WLANLocationInformation)
	addIEObject(enc, "wlanLocationTimestamp", m.WLANLocationTimestamp)
	addIEObject(enc, "ueLocalIPAddress", m.UELocalIPAddress)
	addIEObject(enc, "ueUDPPort", m.UEUDPPort)
	addIEObject(enc, "epco", m.EPCO)
	addIEObject(enc, "ueTCPPort", m.UETCPPort)
	addIEArray(enc, "secondaryRATUsageDataReports", m.SecondaryRATUsageDataReports)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}

// Delete Session Response (7.2.10.1)
type DeleteSessionResponse struct {
	Header                     Header
	Cause                      Cause
	Recovery                   *Recovery
	PCO                        *PCO
	Indication                 *Indication
	OverloadControlInformation []*OverloadControlInformation
	EPCO                       *EPCO
	PrivateExtensions          []*PrivateExtension
}

func NewDeleteSessionResponse(teid, seq uint32, cause uint8) *DeleteSessionResponse {
	return &DeleteSessionResponse{
		Header: newHeader(MessageTypeDeleteSessionResponse, teid, seq),
		Cause:  Cause{Value: cause},
	}
}

func (m *DeleteSessionResponse) MessageType() MessageType {
	return MessageTypeDeleteSessionResponse
}

func (m *DeleteSessionResponse) MessageHeader() *Header {
	return &m.Header
}

func (m *DeleteSessionResponse) IEs() []IE {
	ies := []IE{&m.Cause}
	ies = appendOptional(ies, m.Recovery)
	ies = appendOptional(ies, m.PCO)
	ies = appendOptional(ies, m.Indication)
	ies = appendRepeated(ies, m.OverloadControlInformation)
	ies = appendOptional(ies, m.EPCO)
	return appendRepeated(ies, m.PrivateExtensions)
}

func (m *DeleteSessionResponse) SetIEs(ies []IE) error {
	msg := DeleteSessionResponse{Header: m.Header}
	mandatory := newMandatoryIEs(IECause)
	for _, ie := range ies {
		switch ie := ie.(type) {
		case *Cause:
			if ie.Ins == 0 && mandatory.take(0) {
				msg.Cause = *ie
			}
		case *Recovery:
			if ie.Ins == 0 {
				setOnce(&msg.Recovery, ie)
			}
		case *PCO:
			if ie.Ins == 0 {
				setOnce(&msg.PCO, ie)
			}
		case *Indication:
			if ie.Ins == 0 {
				setOnce(&msg.Indication, ie)
			}
		case *OverloadControlInformation:
			if ie.Ins < gatewayOverloadInstances {
				msg.OverloadControlInformation = append(msg.OverloadControlInformation, ie)
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

func (m *DeleteSessionResponse) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	_ = enc.AddObject("header", &m.Header)
	_ = enc.AddObject("cause", &m.Cause)
	addIEObject(enc, "recovery", m.Recovery)
	addIEObject(enc, "pco", m.PCO)
	addIEObject(enc, "indication", m.Indication)
	addIEArray(enc, "overloadControlInformation", m.OverloadControlInformation)
	addIEObject(enc, "epco", m.EPCO)
	addIEArray(enc, "privateExtensions", m.PrivateExtensions)
	return nil
}
