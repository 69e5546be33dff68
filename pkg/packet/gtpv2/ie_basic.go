// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"encoding/binary"
	"net/netip"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/gtp/pkg/packet/gtputil"
)

// Cause (8.4)
const (
	CauseValueLength                 = 2
	CauseWithOffendingIELength       = 6
	CausePCEBit                uint8 = 0x04
	CauseBCEBit                uint8 = 0x02
	CauseCSBit                 uint8 = 0x01
)

// Cause values used across the catalog
const (
	CauseReactivationRequested         uint8 = 8
	CauseRequestAccepted               uint8 = 16
	CauseRequestAcceptedPartially      uint8 = 17
	CauseContextNotFound               uint8 = 64
	CauseMandatoryIEMissing            uint8 = 70
	CauseNoResourcesAvailable          uint8 = 73
	CauseSemanticErrorInTFTOperation   uint8 = 74
	CauseSyntacticErrorInTFTOperation  uint8 = 75
	CauseSemanticErrorsInPacketFilter  uint8 = 76
	CauseSyntacticErrorsInPacketFilter uint8 = 77
	CauseServiceDenied                 uint8 = 89
	CauseUnableToPageUE                uint8 = 90
)

// OffendingIE identifies the IE a Cause refers to.
type OffendingIE struct {
	Type IEType
	Ins  uint8
}

type Cause struct {
	Ins         uint8
	Value       uint8
	PCE         bool // PDN Connection IE Error
	BCE         bool // Bearer Context IE Error
	CS          bool // Cause Source
	OffendingIE *OffendingIE
}

func (ie *Cause) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IECause)
	if err != nil {
		return err
	}
	if len(value) != CauseValueLength && len(value) != CauseWithOffendingIELength {
		return malformed(IECause)
	}
	ie.Ins = ins
	ie.Value = value[0]
	ie.PCE = gtputil.IsBitSet(value[1], CausePCEBit)
	ie.BCE = gtputil.IsBitSet(value[1], CauseBCEBit)
	ie.CS = gtputil.IsBitSet(value[1], CauseCSBit)
	ie.OffendingIE = nil
	if len(value) == CauseWithOffendingIELength {
		ie.OffendingIE = &OffendingIE{Type: IEType(value[2]), Ins: value[5] & 0x0f}
	}
	return nil
}

func (ie *Cause) Serialize() []byte {
	return SerializeIE(IECause, ie.Ins, func(b []byte) []byte {
		var flags uint8
		flags = gtputil.SetBit(flags, CausePCEBit, ie.PCE)
		flags = gtputil.SetBit(flags, CauseBCEBit, ie.BCE)
		flags = gtputil.SetBit(flags, CauseCSBit, ie.CS)
		b = append(b, ie.Value, flags)
		if ie.OffendingIE != nil {
			b = append(b, uint8(ie.OffendingIE.Type), 0x00, 0x00, ie.OffendingIE.Ins&0x0f)
		}
		return b
	})
}

func (ie *Cause) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("instance", ie.Ins)
	enc.AddUint8("value", ie.Value)
	enc.AddBool("pce", ie.PCE)
	enc.AddBool("bce", ie.BCE)
	enc.AddBool("cs", ie.CS)
	if ie.OffendingIE != nil {
		enc.AddString("offendingIE", ie.OffendingIE.Type.String())
	}
	return nil
}

func (ie *Cause) Type() IEType {
	return IECause
}

func (ie *Cause) Instance() uint8 {
	return ie.Ins
}

type Recovery struct {
	Ins            uint8
	RestartCounter uint8
}

func (ie *Recovery) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IERecovery, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.RestartCounter = value[0]
	return nil
}

func (ie *Recovery) Serialize() []byte {
	return SerializeIE(IERecovery, ie.Ins, func(b []byte) []byte {
		return append(b, ie.RestartCounter)
	})
}

func (ie *Recovery) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("restartCounter", ie.RestartCounter)
	return nil
}

func (ie *Recovery) Type() IEType {
	return IERecovery
}

func (ie *Recovery) Instance() uint8 {
	return ie.Ins
}

// EPSBearerID carries a 4-bit EPS bearer identity.
type EPSBearerID struct {
	Ins   uint8
	Value uint8
}

func (ie *EPSBearerID) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEEPSBearerID, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Value = value[0] & 0x0f
	return nil
}

func (ie *EPSBearerID) Serialize() []byte {
	return SerializeIE(IEEPSBearerID, ie.Ins, func(b []byte) []byte {
		return append(b, ie.Value&0x0f)
	})
}

func (ie *EPSBearerID) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("instance", ie.Ins)
	enc.AddUint8("ebi", ie.Value)
	return nil
}

func (ie *EPSBearerID) Type() IEType {
	return IEEPSBearerID
}

func (ie *EPSBearerID) Instance() uint8 {
	return ie.Ins
}

type PTI struct {
	Ins   uint8
	Value uint8
}

func (ie *PTI) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEProcedureTransactionID, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Value = value[0]
	return nil
}

func (ie *PTI) Serialize() []byte {
	return SerializeIE(IEProcedureTransactionID, ie.Ins, func(b []byte) []byte {
		return append(b, ie.Value)
	})
}

func (ie *PTI) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("pti", ie.Value)
	return nil
}

func (ie *PTI) Type() IEType {
	return IEProcedureTransactionID
}

func (ie *PTI) Instance() uint8 {
	return ie.Ins
}

// Indication keeps the flag octets as received. The number of octets grows
// with each release, so the value is not fixed size.
type Indication struct {
	Ins   uint8
	Flags []byte
}

// IsSet reports whether bit (0x80 = leftmost) of the given octet is set.
// Octets beyond the received ones read as zero.
func (ie *Indication) IsSet(octet int, bit uint8) bool {
	if octet < 0 || octet >= len(ie.Flags) {
		return false
	}
	return gtputil.IsBitSet(ie.Flags[octet], bit)
}

func (ie *Indication) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IEIndication)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Flags = append([]byte{}, value...)
	return nil
}

func (ie *Indication) Serialize() []byte {
	return SerializeIE(IEIndication, ie.Ins, func(b []byte) []byte {
		return append(b, ie.Flags...)
	})
}

func (ie *Indication) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBinary("flags", ie.Flags)
	return nil
}

func (ie *Indication) Type() IEType {
	return IEIndication
}

func (ie *Indication) Instance() uint8 {
	return ie.Ins
}

type RAT uint8

const (
	RATUTRAN         RAT = 1
	RATGERAN         RAT = 2
	RATWLAN          RAT = 3
	RATGAN           RAT = 4
	RATHSPAEvolution RAT = 5
	RATEUTRAN        RAT = 6
	RATVirtual       RAT = 7
	RATEUTRANNBIoT   RAT = 8
	RATLTEM          RAT = 9
	RATNR            RAT = 10
)

func (r RAT) String() string {
	switch r {
	case RATUTRAN:
		return "UTRAN"
	case RATGERAN:
		return "GERAN"
	case RATWLAN:
		return "WLAN"
	case RATGAN:
		return "GAN"
	case RATHSPAEvolution:
		return "HSPA Evolution"
	case RATEUTRAN:
		return "EUTRAN"
	case RATVirtual:
		return "Virtual"
	case RATEUTRANNBIoT:
		return "EUTRAN-NB-IoT"
	case RATLTEM:
		return "LTE-M"
	case RATNR:
		return "NR"
	default:
		return "Reserved"
	}
}

type RATType struct {
	Ins uint8
	RAT RAT
}

func (ie *RATType) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IERATType, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.RAT = RAT(value[0])
	return nil
}

func (ie *RATType) Serialize() []byte {
	return SerializeIE(IERATType, ie.Ins, func(b []byte) []byte {
		return append(b, uint8(ie.RAT))
	})
}

func (ie *RATType) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("rat", ie.RAT.String())
	return nil
}

func (ie *RATType) Type() IEType {
	return IERATType
}

func (ie *RATType) Instance() uint8 {
	return ie.Ins
}

type ChargingID struct {
	Ins   uint8
	Value uint32
}

func (ie *ChargingID) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEChargingID, 4)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Value = binary.BigEndian.Uint32(value)
	return nil
}

func (ie *ChargingID) Serialize() []byte {
	return SerializeIE(IEChargingID, ie.Ins, func(b []byte) []byte {
		return binary.BigEndian.AppendUint32(b, ie.Value)
	})
}

func (ie *ChargingID) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("chargingID", ie.Value)
	return nil
}

func (ie *ChargingID) Type() IEType {
	return IEChargingID
}

func (ie *ChargingID) Instance() uint8 {
	return ie.Ins
}

// Bearer Flags (8.32)
const (
	BearerFlagPPC  uint8 = 0x01 // Prohibit Payload Compression
	BearerFlagVB   uint8 = 0x02 // Voice Bearer
	BearerFlagVind uint8 = 0x04 // vSRVCC indicator
	BearerFlagASI  uint8 = 0x08 // Activity Status Indicator
)

type BearerFlags struct {
	Ins   uint8
	Flags uint8
}

func (ie *BearerFlags) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEBearerFlags, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Flags = value[0]
	return nil
}

func (ie *BearerFlags) Serialize() []byte {
	return SerializeIE(IEBearerFlags, ie.Ins, func(b []byte) []byte {
		return append(b, ie.Flags)
	})
}

func (ie *BearerFlags) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("ppc", gtputil.IsBitSet(ie.Flags, BearerFlagPPC))
	enc.AddBool("vb", gtputil.IsBitSet(ie.Flags, BearerFlagVB))
	enc.AddBool("vind", gtputil.IsBitSet(ie.Flags, BearerFlagVind))
	enc.AddBool("asi", gtputil.IsBitSet(ie.Flags, BearerFlagASI))
	return nil
}

func (ie *BearerFlags) Type() IEType {
	return IEBearerFlags
}

func (ie *BearerFlags) Instance() uint8 {
	return ie.Ins
}

// NodeFeatures lists the optional features a node supports (8.83).
type NodeFeatures struct {
	Ins      uint8
	Features uint8
}

func (ie *NodeFeatures) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IENodeFeatures, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Features = value[0]
	return nil
}

func (ie *NodeFeatures) Serialize() []byte {
	return SerializeIE(IENodeFeatures, ie.Ins, func(b []byte) []byte {
		return append(b, ie.Features)
	})
}

func (ie *NodeFeatures) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("features", ie.Features)
	return nil
}

func (ie *NodeFeatures) Type() IEType {
	return IENodeFeatures
}

func (ie *NodeFeatures) Instance() uint8 {
	return ie.Ins
}

const SPILowAccessPriorityBit uint8 = 0x01

type SignallingPriorityIndication struct {
	Ins  uint8
	LAPI bool
}

func (ie *SignallingPriorityIndication) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IESignallingPriorityIndication, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.LAPI = gtputil.IsBitSet(value[0], SPILowAccessPriorityBit)
	return nil
}

func (ie *SignallingPriorityIndication) Serialize() []byte {
	return SerializeIE(IESignallingPriorityIndication, ie.Ins, func(b []byte) []byte {
		return append(b, gtputil.SetBit(uint8(0), SPILowAccessPriorityBit, ie.LAPI))
	})
}

func (ie *SignallingPriorityIndication) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("lapi", ie.LAPI)
	return nil
}

func (ie *SignallingPriorityIndication) Type() IEType {
	return IESignallingPriorityIndication
}

func (ie *SignallingPriorityIndication) Instance() uint8 {
	return ie.Ins
}

type PortNumber struct {
	Ins  uint8
	Port uint16
}

func (ie *PortNumber) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEPortNumber, 2)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Port = binary.BigEndian.Uint16(value)
	return nil
}

func (ie *PortNumber) Serialize() []byte {
	return SerializeIE(IEPortNumber, ie.Ins, func(b []byte) []byte {
		return binary.BigEndian.AppendUint16(b, ie.Port)
	})
}

func (ie *PortNumber) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("instance", ie.Ins)
	enc.AddUint16("port", ie.Port)
	return nil
}

func (ie *PortNumber) Type() IEType {
	return IEPortNumber
}

func (ie *PortNumber) Instance() uint8 {
	return ie.Ins
}

// IPAddress holds either an IPv4 or an IPv6 address.
type IPAddress struct {
	Ins     uint8
	Address netip.Addr
}

func (ie *IPAddress) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IEIPAddress)
	if err != nil {
		return err
	}
	addr, ok := netip.AddrFromSlice(value)
	if !ok {
		return malformed(IEIPAddress)
	}
	ie.Ins = ins
	ie.Address = addr
	return nil
}

func (ie *IPAddress) Serialize() []byte {
	return SerializeIE(IEIPAddress, ie.Ins, func(b []byte) []byte {
		if !ie.Address.IsValid() {
			return b
		}
		return append(b, ie.Address.AsSlice()...)
	})
}

func (ie *IPAddress) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("instance", ie.Ins)
	enc.AddString("address", ie.Address.String())
	return nil
}

func (ie *IPAddress) Type() IEType {
	return IEIPAddress
}

func (ie *IPAddress) Instance() uint8 {
	return ie.Ins
}

type UETimeZone struct {
	Ins                uint8
	TimeZone           uint8 // as coded in TS 24.008 10.5.3.8
	DaylightSavingTime uint8
}

func (ie *UETimeZone) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEUETimeZone, 2)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.TimeZone = value[0]
	ie.DaylightSavingTime = value[1] & 0x03
	return nil
}

func (ie *UETimeZone) Serialize() []byte {
	return SerializeIE(IEUETimeZone, ie.Ins, func(b []byte) []byte {
		return append(b, ie.TimeZone, ie.DaylightSavingTime&0x03)
	})
}

func (ie *UETimeZone) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("timeZone", ie.TimeZone)
	enc.AddUint8("daylightSavingTime", ie.DaylightSavingTime)
	return nil
}

func (ie *UETimeZone) Type() IEType {
	return IEUETimeZone
}

func (ie *UETimeZone) Instance() uint8 {
	return ie.Ins
}

// ULITimestamp is the NTP seconds at which the ULI was last known.
type ULITimestamp struct {
	Ins       uint8
	Timestamp uint32
}

func (ie *ULITimestamp) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEULITimestamp, 4)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Timestamp = binary.BigEndian.Uint32(value)
	return nil
}

func (ie *ULITimestamp) Serialize() []byte {
	return SerializeIE(IEULITimestamp, ie.Ins, func(b []byte) []byte {
		return binary.BigEndian.AppendUint32(b, ie.Timestamp)
	})
}

func (ie *ULITimestamp) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("timestamp", ie.Timestamp)
	return nil
}

func (ie *ULITimestamp) Type() IEType {
	return IEULITimestamp
}

func (ie *ULITimestamp) Instance() uint8 {
	return ie.Ins
}

type TWANIdentifierTimestamp struct {
	Ins       uint8
	Timestamp uint32
}

func (ie *TWANIdentifierTimestamp) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IETWANIdentifierTimestamp, 4)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Timestamp = binary.BigEndian.Uint32(value)
	return nil
}

func (ie *TWANIdentifierTimestamp) Serialize() []byte {
	return SerializeIE(IETWANIdentifierTimestamp, ie.Ins, func(b []byte) []byte {
		return binary.BigEndian.AppendUint32(b, ie.Timestamp)
	})
}

func (ie *TWANIdentifierTimestamp) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("instance", ie.Ins)
	enc.AddUint32("timestamp", ie.Timestamp)
	return nil
}

func (ie *TWANIdentifierTimestamp) Type() IEType {
	return IETWANIdentifierTimestamp
}

func (ie *TWANIdentifierTimestamp) Instance() uint8 {
	return ie.Ins
}

type TimerUnit uint8

const (
	TimerUnit2Seconds  TimerUnit = 0
	TimerUnit1Minute   TimerUnit = 1
	TimerUnit10Minutes TimerUnit = 2
	TimerUnit1Hour     TimerUnit = 3
	TimerUnit10Hours   TimerUnit = 4
	TimerUnitInfinite  TimerUnit = 7
)

const (
	EPCTimerValueMask    uint8 = 0x1f
	EPCTimerUnitPosition       = 5
)

type EPCTimer struct {
	Ins   uint8
	Unit  TimerUnit
	Value uint8 // 5 bits
}

func (ie *EPCTimer) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEEPCTimer, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Unit = TimerUnit(value[0] >> EPCTimerUnitPosition)
	ie.Value = value[0] & EPCTimerValueMask
	return nil
}

func (ie *EPCTimer) Serialize() []byte {
	return SerializeIE(IEEPCTimer, ie.Ins, func(b []byte) []byte {
		return append(b, uint8(ie.Unit)<<EPCTimerUnitPosition|ie.Value&EPCTimerValueMask)
	})
}

func (ie *EPCTimer) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("unit", uint8(ie.Unit))
	enc.AddUint8("value", ie.Value)
	return nil
}

func (ie *EPCTimer) Type() IEType {
	return IEEPCTimer
}

func (ie *EPCTimer) Instance() uint8 {
	return ie.Ins
}

type Metric struct {
	Ins   uint8
	Value uint8 // percentage, 0-100
}

func (ie *Metric) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEMetric, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Value = value[0]
	return nil
}

func (ie *Metric) Serialize() []byte {
	return SerializeIE(IEMetric, ie.Ins, func(b []byte) []byte {
		return append(b, ie.Value)
	})
}

func (ie *Metric) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("metric", ie.Value)
	return nil
}

func (ie *Metric) Type() IEType {
	return IEMetric
}

func (ie *Metric) Instance() uint8 {
	return ie.Ins
}

type SequenceNumber struct {
	Ins   uint8
	Value uint32
}

func (ie *SequenceNumber) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IESequenceNumber, 4)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Value = binary.BigEndian.Uint32(value)
	return nil
}

func (ie *SequenceNumber) Serialize() []byte {
	return SerializeIE(IESequenceNumber, ie.Ins, func(b []byte) []byte {
		return binary.BigEndian.AppendUint32(b, ie.Value)
	})
}

func (ie *SequenceNumber) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("sqn", ie.Value)
	return nil
}

func (ie *SequenceNumber) Type() IEType {
	return IESequenceNumber
}

func (ie *SequenceNumber) Instance() uint8 {
	return ie.Ins
}

// AccessPointName is carried as length-prefixed labels and exposed in dotted form.
type AccessPointName struct {
	Ins  uint8
	Name string
}

func (ie *AccessPointName) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IEAccessPointName)
	if err != nil {
		return err
	}
	labels := []string{}
	for len(value) > 0 {
		n := int(value[0])
		if !gtputil.Fits(value, 1, n) {
			return malformed(IEAccessPointName)
		}
		labels = append(labels, string(value[1:1+n]))
		value = value[1+n:]
	}
	ie.Ins = ins
	ie.Name = strings.Join(labels, ".")
	return nil
}

func (ie *AccessPointName) Serialize() []byte {
	return SerializeIE(IEAccessPointName, ie.Ins, func(b []byte) []byte {
		if ie.Name == "" {
			return b
		}
		for _, label := range strings.Split(ie.Name, ".") {
			b = append(b, uint8(len(label)))
			b = append(b, label...)
		}
		return b
	})
}

func (ie *AccessPointName) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("apn", ie.Name)
	return nil
}

func (ie *AccessPointName) Type() IEType {
	return IEAccessPointName
}

func (ie *AccessPointName) Instance() uint8 {
	return ie.Ins
}
