// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/gtp/pkg/packet/gtputil"
)

type IEType uint8

// GTPv2-C IE types (3GPP TS 29.274 8.1)
const (
	IEIMSI                          IEType = 1
	IECause                         IEType = 2
	IERecovery                      IEType = 3
	IEAccessPointName               IEType = 71
	IEAggregateMaximumBitRate       IEType = 72
	IEEPSBearerID                   IEType = 73
	IEIPAddress                     IEType = 74
	IEMEI                           IEType = 75
	IEMSISDN                        IEType = 76
	IEIndication                    IEType = 77
	IEProtocolConfigurationOptions  IEType = 78
	IEPDNAddressAllocation          IEType = 79
	IEBearerQoS                     IEType = 80
	IEFlowQoS                       IEType = 81
	IERATType                       IEType = 82
	IEServingNetwork                IEType = 83
	IEBearerTFT                     IEType = 84
	IETrafficAggregateDescription   IEType = 85
	IEUserLocationInformation       IEType = 86
	IEFullyQualifiedTEID            IEType = 87
	IEDelayValue                    IEType = 92
	IEBearerContext                 IEType = 93
	IEChargingID                    IEType = 94
	IEChargingCharacteristics       IEType = 95
	IEBearerFlags                   IEType = 97
	IEPDNType                       IEType = 99
	IEProcedureTransactionID        IEType = 100
	IEUETimeZone                    IEType = 114
	IECompleteRequestMessage        IEType = 116
	IEFContainer                    IEType = 118
	IEPortNumber                    IEType = 126
	IEAPNRestriction                IEType = 127
	IESelectionMode                 IEType = 128
	IEFullyQualifiedCSID            IEType = 132
	IENodeFeatures                  IEType = 152
	IEEPCTimer                      IEType = 156
	IESignallingPriorityIndication  IEType = 157
	IEAdditionalPCO                 IEType = 163
	IETWANIdentifier                IEType = 169
	IEULITimestamp                  IEType = 170
	IEPresenceReportingAreaInfo     IEType = 178
	IETWANIdentifierTimestamp       IEType = 179
	IEOverloadControlInformation    IEType = 180
	IEMetric                        IEType = 182
	IESequenceNumber                IEType = 183
	IEPagingAndServiceInformation   IEType = 186
	IEExtendedPCO                   IEType = 197
	IESecondaryRATUsageDataReport   IEType = 201
	IEMaximumPacketLossRate         IEType = 203
	IEPrivateExtension              IEType = 255
)

var ieDescriptions = map[IEType]string{
	IEIMSI:                         "IMSI",
	IECause:                        "Cause",
	IERecovery:                     "Recovery",
	IEAccessPointName:              "APN",
	IEAggregateMaximumBitRate:      "AMBR",
	IEEPSBearerID:                  "EBI",
	IEIPAddress:                    "IP Address",
	IEMEI:                          "MEI",
	IEMSISDN:                       "MSISDN",
	IEIndication:                   "Indication",
	IEProtocolConfigurationOptions: "PCO",
	IEPDNAddressAllocation:         "PAA",
	IEBearerQoS:                    "Bearer QoS",
	IEFlowQoS:                      "Flow QoS",
	IERATType:                      "RAT Type",
	IEServingNetwork:               "Serving Network",
	IEBearerTFT:                    "Bearer TFT",
	IETrafficAggregateDescription:  "TAD",
	IEUserLocationInformation:      "ULI",
	IEFullyQualifiedTEID:           "F-TEID",
	IEDelayValue:                   "Delay Value",
	IEBearerContext:                "Bearer Context",
	IEChargingID:                   "Charging ID",
	IEChargingCharacteristics:      "Charging Characteristics",
	IEBearerFlags:                  "Bearer Flags",
	IEPDNType:                      "PDN Type",
	IEProcedureTransactionID:       "PTI",
	IEUETimeZone:                   "UE Time Zone",
	IECompleteRequestMessage:       "Complete Request Message",
	IEFContainer:                   "F-Container",
	IEPortNumber:                   "Port Number",
	IEAPNRestriction:               "APN Restriction",
	IESelectionMode:                "Selection Mode",
	IEFullyQualifiedCSID:           "FQ-CSID",
	IENodeFeatures:                 "Node Features",
	IEEPCTimer:                     "EPC Timer",
	IESignallingPriorityIndication: "Signalling Priority Indication",
	IEAdditionalPCO:                "APCO",
	IETWANIdentifier:               "TWAN Identifier",
	IEULITimestamp:                 "ULI Timestamp",
	IEPresenceReportingAreaInfo:    "Presence Reporting Area Information",
	IETWANIdentifierTimestamp:      "TWAN Identifier Timestamp",
	IEOverloadControlInformation:   "Overload Control Information",
	IEMetric:                       "Metric",
	IESequenceNumber:               "Sequence Number",
	IEPagingAndServiceInformation:  "Paging and Service Information",
	IEExtendedPCO:                  "ePCO",
	IESecondaryRATUsageDataReport:  "Secondary RAT Usage Data Report",
	IEMaximumPacketLossRate:        "Maximum Packet Loss Rate",
	IEPrivateExtension:             "Private Extension",
}

func (t IEType) String() string {
	if desc, ok := ieDescriptions[t]; ok {
		return fmt.Sprintf("%s (%d)", desc, uint8(t))
	}
	return fmt.Sprintf("Unknown IE (%d)", uint8(t))
}

// IE header length (type + length + spare/instance)
const IEHeaderLength = 4

// IE is one GTPv2-C information element.
type IE interface {
	DecodeFromBytes(data []byte) error // data holds one complete IE, header included
	Serialize() []byte
	MarshalLogObject(enc zapcore.ObjectEncoder) error
	Type() IEType
	Instance() uint8
}

var ieMap = map[IEType]func() IE{
	IEIMSI:                         func() IE { return &IMSI{} },
	IECause:                        func() IE { return &Cause{} },
	IERecovery:                     func() IE { return &Recovery{} },
	IEAccessPointName:              func() IE { return &AccessPointName{} },
	IEAggregateMaximumBitRate:      func() IE { return &AMBR{} },
	IEEPSBearerID:                  func() IE { return &EPSBearerID{} },
	IEIPAddress:                    func() IE { return &IPAddress{} },
	IEMEI:                          func() IE { return &MEI{} },
	IEMSISDN:                       func() IE { return &MSISDN{} },
	IEIndication:                   func() IE { return &Indication{} },
	IEProtocolConfigurationOptions: func() IE { return &PCO{} },
	IEPDNAddressAllocation:         func() IE { return &PAA{} },
	IEBearerQoS:                    func() IE { return &BearerQoS{} },
	IEFlowQoS:                      func() IE { return &FlowQoS{} },
	IERATType:                      func() IE { return &RATType{} },
	IEServingNetwork:               func() IE { return &ServingNetwork{} },
	IEBearerTFT:                    func() IE { return &BearerTFT{} },
	IETrafficAggregateDescription:  func() IE { return &TAD{} },
	IEUserLocationInformation:      func() IE { return &ULI{} },
	IEFullyQualifiedTEID:           func() IE { return &FTEID{} },
	IEDelayValue:                   func() IE { return &DelayValue{} },
	IEBearerContext:                func() IE { return &BearerContext{} },
	IEChargingID:                   func() IE { return &ChargingID{} },
	IEChargingCharacteristics:      func() IE { return &ChargingCharacteristics{} },
	IEBearerFlags:                  func() IE { return &BearerFlags{} },
	IEPDNType:                      func() IE { return &PDNType{} },
	IEProcedureTransactionID:       func() IE { return &PTI{} },
	IEUETimeZone:                   func() IE { return &UETimeZone{} },
	IECompleteRequestMessage:       func() IE { return &CompleteRequestMessage{} },
	IEFContainer:                   func() IE { return &FContainer{} },
	IEPortNumber:                   func() IE { return &PortNumber{} },
	IEAPNRestriction:               func() IE { return &APNRestriction{} },
	IESelectionMode:                func() IE { return &SelectionMode{} },
	IEFullyQualifiedCSID:           func() IE { return &FQCSID{} },
	IENodeFeatures:                 func() IE { return &NodeFeatures{} },
	IEEPCTimer:                     func() IE { return &EPCTimer{} },
	IESignallingPriorityIndication: func() IE { return &SignallingPriorityIndication{} },
	IEAdditionalPCO:                func() IE { return &APCO{} },
	IETWANIdentifier:               func() IE { return &TWANIdentifier{} },
	IEULITimestamp:                 func() IE { return &ULITimestamp{} },
	IEPresenceReportingAreaInfo:    func() IE { return &PresenceReportingAreaInfo{} },
	IETWANIdentifierTimestamp:      func() IE { return &TWANIdentifierTimestamp{} },
	IEOverloadControlInformation:   func() IE { return &OverloadControlInformation{} },
	IEMetric:                       func() IE { return &Metric{} },
	IESequenceNumber:               func() IE { return &SequenceNumber{} },
	IEPagingAndServiceInformation:  func() IE { return &PagingAndServiceInformation{} },
	IEExtendedPCO:                  func() IE { return &EPCO{} },
	IESecondaryRATUsageDataReport:  func() IE { return &SecondaryRATUsageDataReport{} },
	IEMaximumPacketLossRate:        func() IE { return &MaximumPacketLossRate{} },
	IEPrivateExtension:             func() IE { return &PrivateExtension{} },
}

// decodeIEHeader validates the IE at the start of data and returns its
// instance and value. Bytes following the IE are ignored.
func decodeIEHeader(data []byte, t IEType) (uint8, []byte, error) {
	if len(data) < IEHeaderLength {
		return 0, nil, invalidLength(t)
	}
	if IEType(data[0]) != t {
		return 0, nil, malformed(t)
	}
	length := int(binary.BigEndian.Uint16(data[1:3]))
	if !gtputil.Fits(data, IEHeaderLength, length) {
		return 0, nil, invalidLength(t)
	}
	return data[3] & 0x0f, data[IEHeaderLength : IEHeaderLength+length], nil
}

// decodeFixedIE is decodeIEHeader for IEs whose value has exactly size octets.
func decodeFixedIE(data []byte, t IEType, size int) (uint8, []byte, error) {
	ins, value, err := decodeIEHeader(data, t)
	if err != nil {
		return 0, nil, err
	}
	if len(value) != size {
		return 0, nil, malformed(t)
	}
	return ins, value, nil
}

// SerializeIE writes the IE header with a zero length, lets appendValue
// write the value and then patches the length. Grouped IEs serialize their
// children from within appendValue.
func SerializeIE(t IEType, ins uint8, appendValue func(b []byte) []byte) []byte {
	b := make([]byte, IEHeaderLength, IEHeaderLength+32)
	b[0] = uint8(t)
	b[3] = ins & 0x0f
	b = appendValue(b)
	gtputil.PatchUint16(b, 1, uint16(len(b)-IEHeaderLength))
	return b
}

// ieLength returns the total length of the IE at the start of data.
func ieLength(data []byte) (int, error) {
	if len(data) < IEHeaderLength {
		if len(data) > 0 {
			return 0, invalidLength(IEType(data[0]))
		}
		return 0, ErrInvalidLength
	}
	length := IEHeaderLength + int(binary.BigEndian.Uint16(data[1:3]))
	if length > len(data) {
		return 0, invalidLength(IEType(data[0]))
	}
	return length, nil
}

// DecodeIE decodes the IE at the start of data. Types outside the catalog
// are returned as *UnknownIE.
func DecodeIE(data []byte) (IE, error) {
	length, err := ieLength(data)
	if err != nil {
		return nil, err
	}
	data = data[:length]

	ieType := IEType(data[0])
	if createIE, found := ieMap[ieType]; found {
		ie := createIE()
		if err := ie.DecodeFromBytes(data); err != nil {
			return nil, fmt.Errorf("error decoding IE %s: %w", ieType, err)
		}
		return ie, nil
	}

	ie := &UnknownIE{}
	if err := ie.DecodeFromBytes(data); err != nil {
		return nil, fmt.Errorf("error decoding undefined IE %s: %w", ieType, err)
	}
	return ie, nil
}

// DecodeIEs decodes a sequence of IEs filling data completely.
func DecodeIEs(data []byte) ([]IE, error) {
	var ies []IE

	for len(data) > 0 {
		length, err := ieLength(data)
		if err != nil {
			return nil, err
		}

		ie, err := DecodeIE(data[:length])
		if err != nil {
			return nil, err
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

// UnknownIE keeps an IE outside the catalog so it can be re-encoded unchanged.
type UnknownIE struct {
	Typ   IEType
	Spare uint8 // high nibble of the instance octet (CR flag and spare bits)
	Ins   uint8
	Value []byte
}

func (ie *UnknownIE) DecodeFromBytes(data []byte) error {
	if len(data) < IEHeaderLength {
		return ErrInvalidLength
	}
	ins, value, err := decodeIEHeader(data, IEType(data[0]))
	if err != nil {
		return err
	}
	ie.Typ = IEType(data[0])
	ie.Spare = data[3] >> 4
	ie.Ins = ins
	ie.Value = append([]byte{}, value...)
	return nil
}

func (ie *UnknownIE) Serialize() []byte {
	b := SerializeIE(ie.Typ, ie.Ins, func(b []byte) []byte {
		return append(b, ie.Value...)
	})
	b[3] |= ie.Spare << 4
	return b
}

func (ie *UnknownIE) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("type", uint8(ie.Typ))
	enc.AddUint8("instance", ie.Ins)
	enc.AddBinary("value", ie.Value)
	return nil
}

func (ie *UnknownIE) Type() IEType {
	return ie.Typ
}

func (ie *UnknownIE) Instance() uint8 {
	return ie.Ins
}
