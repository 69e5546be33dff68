// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"encoding/binary"
	"net/netip"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/gtp/pkg/packet/gtputil"
)

// F-TEID interface types (8.22)
const (
	InterfaceS1UENodeB    uint8 = 0
	InterfaceS1USGW       uint8 = 1
	InterfaceS12RNC       uint8 = 2
	InterfaceS12SGW       uint8 = 3
	InterfaceS5S8SGWGTPU  uint8 = 4
	InterfaceS5S8PGWGTPU  uint8 = 5
	InterfaceS5S8SGWGTPC  uint8 = 6
	InterfaceS5S8PGWGTPC  uint8 = 7
	InterfaceS11MMEGTPC   uint8 = 10
	InterfaceS11S4SGWGTPC uint8 = 11
	InterfaceS4SGSNGTPU   uint8 = 15
	InterfaceS4SGWGTPU    uint8 = 16
	InterfaceS11MMEGTPU   uint8 = 38
	InterfaceS11SGWGTPU   uint8 = 39
)

const (
	FTEIDV4Bit         uint8 = 0x80
	FTEIDV6Bit         uint8 = 0x40
	FTEIDInterfaceMask uint8 = 0x3f
	fteidMinimumLength       = 5
)

const (
	BearerQoSLength            = 22
	FlowQoSLength              = 21
	SecondaryRATUsageReportLen = 27
)

// FTEID is a fully qualified tunnel endpoint. Either address may be left
// zero; the V4/V6 flags follow address validity.
type FTEID struct {
	Ins           uint8
	InterfaceType uint8
	TEID          uint32
	IPv4          netip.Addr
	IPv6          netip.Addr
}

func (ie *FTEID) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IEFullyQualifiedTEID)
	if err != nil {
		return err
	}
	if len(value) < fteidMinimumLength {
		return malformed(IEFullyQualifiedTEID)
	}
	flags := value[0]
	want := fteidMinimumLength
	if gtputil.IsBitSet(flags, FTEIDV4Bit) {
		want += 4
	}
	if gtputil.IsBitSet(flags, FTEIDV6Bit) {
		want += 16
	}
	if len(value) != want {
		return malformed(IEFullyQualifiedTEID)
	}

	f := FTEID{
		Ins:           ins,
		InterfaceType: flags & FTEIDInterfaceMask,
		TEID:          binary.BigEndian.Uint32(value[1:5]),
	}
	rest := value[fteidMinimumLength:]
	if gtputil.IsBitSet(flags, FTEIDV4Bit) {
		f.IPv4 = netip.AddrFrom4([4]byte(rest[:4]))
		rest = rest[4:]
	}
	if gtputil.IsBitSet(flags, FTEIDV6Bit) {
		f.IPv6 = netip.AddrFrom16([16]byte(rest[:16]))
	}
	*ie = f
	return nil
}

func (ie *FTEID) Serialize() []byte {
	return SerializeIE(IEFullyQualifiedTEID, ie.Ins, func(b []byte) []byte {
		hasV4 := ie.IPv4.Is4()
		hasV6 := ie.IPv6.Is6()
		flags := ie.InterfaceType & FTEIDInterfaceMask
		flags = gtputil.SetBit(flags, FTEIDV4Bit, hasV4)
		flags = gtputil.SetBit(flags, FTEIDV6Bit, hasV6)
		b = append(b, flags)
		b = binary.BigEndian.AppendUint32(b, ie.TEID)
		if hasV4 {
			v4 := ie.IPv4.As4()
			b = append(b, v4[:]...)
		}
		if hasV6 {
			v6 := ie.IPv6.As16()
			b = append(b, v6[:]...)
		}
		return b
	})
}

func (ie *FTEID) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("instance", ie.Ins)
	enc.AddUint8("interfaceType", ie.InterfaceType)
	enc.AddUint32("teid", ie.TEID)
	if ie.IPv4.IsValid() {
		enc.AddString("ipv4", ie.IPv4.String())
	}
	if ie.IPv6.IsValid() {
		enc.AddString("ipv6", ie.IPv6.String())
	}
	return nil
}

func (ie *FTEID) Type() IEType {
	return IEFullyQualifiedTEID
}

func (ie *FTEID) Instance() uint8 {
	return ie.Ins
}

// Bit rates in kbps, 40 bits each on the wire.
type BitRates struct {
	MBRUplink   uint64
	MBRDownlink uint64
	GBRUplink   uint64
	GBRDownlink uint64
}

func (r *BitRates) decode(b []byte) {
	r.MBRUplink = gtputil.Uint40(b[0:5])
	r.MBRDownlink = gtputil.Uint40(b[5:10])
	r.GBRUplink = gtputil.Uint40(b[10:15])
	r.GBRDownlink = gtputil.Uint40(b[15:20])
}

func (r BitRates) appendTo(b []byte) []byte {
	b = gtputil.AppendUint40(b, r.MBRUplink)
	b = gtputil.AppendUint40(b, r.MBRDownlink)
	b = gtputil.AppendUint40(b, r.GBRUplink)
	return gtputil.AppendUint40(b, r.GBRDownlink)
}

func (r BitRates) addTo(enc zapcore.ObjectEncoder) {
	enc.AddUint64("mbrUplink", r.MBRUplink)
	enc.AddUint64("mbrDownlink", r.MBRDownlink)
	enc.AddUint64("gbrUplink", r.GBRUplink)
	enc.AddUint64("gbrDownlink", r.GBRDownlink)
}

const (
	BearerQoSPCIBit   uint8 = 0x40
	BearerQoSPLMask   uint8 = 0x3c
	BearerQoSPVIBit   uint8 = 0x01
	BearerQoSPLOffset       = 2
)

type BearerQoS struct {
	Ins                     uint8
	PreemptionCapability    bool // PCI
	PriorityLevel           uint8
	PreemptionVulnerability bool // PVI
	QCI                     uint8
	BitRates
}

func (ie *BearerQoS) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEBearerQoS, BearerQoSLength)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.PreemptionCapability = gtputil.IsBitSet(value[0], BearerQoSPCIBit)
	ie.PriorityLevel = (value[0] & BearerQoSPLMask) >> BearerQoSPLOffset
	ie.PreemptionVulnerability = gtputil.IsBitSet(value[0], BearerQoSPVIBit)
	ie.QCI = value[1]
	ie.BitRates.decode(value[2:])
	return nil
}

func (ie *BearerQoS) Serialize() []byte {
	return SerializeIE(IEBearerQoS, ie.Ins, func(b []byte) []byte {
		arp := (ie.PriorityLevel << BearerQoSPLOffset) & BearerQoSPLMask
		arp = gtputil.SetBit(arp, BearerQoSPCIBit, ie.PreemptionCapability)
		arp = gtputil.SetBit(arp, BearerQoSPVIBit, ie.PreemptionVulnerability)
		b = append(b, arp, ie.QCI)
		return ie.BitRates.appendTo(b)
	})
}

func (ie *BearerQoS) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("pci", ie.PreemptionCapability)
	enc.AddUint8("pl", ie.PriorityLevel)
	enc.AddBool("pvi", ie.PreemptionVulnerability)
	enc.AddUint8("qci", ie.QCI)
	ie.BitRates.addTo(enc)
	return nil
}

func (ie *BearerQoS) Type() IEType {
	return IEBearerQoS
}

func (ie *BearerQoS) Instance() uint8 {
	return ie.Ins
}

type FlowQoS struct {
	Ins uint8
	QCI uint8
	BitRates
}

func (ie *FlowQoS) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEFlowQoS, FlowQoSLength)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.QCI = value[0]
	ie.BitRates.decode(value[1:])
	return nil
}

func (ie *FlowQoS) Serialize() []byte {
	return SerializeIE(IEFlowQoS, ie.Ins, func(b []byte) []byte {
		return ie.BitRates.appendTo(append(b, ie.QCI))
	})
}

func (ie *FlowQoS) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("qci", ie.QCI)
	ie.BitRates.addTo(enc)
	return nil
}

func (ie *FlowQoS) Type() IEType {
	return IEFlowQoS
}

func (ie *FlowQoS) Instance() uint8 {
	return ie.Ins
}

// FQ-CSID node ID types
const (
	NodeIDIPv4    uint8 = 0
	NodeIDIPv6    uint8 = 1
	NodeIDMCCMNC  uint8 = 2 // MCC*1000+MNC in 20 bits, 12 bit ID
	fqcsidMaxCSID       = 15
)

// FQCSID is a node ID plus the connection set identifiers it allocated.
type FQCSID struct {
	Ins        uint8
	NodeIDType uint8
	NodeID     []byte
	CSIDs      []uint16
}

func fqcsidNodeIDLength(t uint8) int {
	switch t {
	case NodeIDIPv4, NodeIDMCCMNC:
		return 4
	case NodeIDIPv6:
		return 16
	default:
		return -1
	}
}

func (ie *FQCSID) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IEFullyQualifiedCSID)
	if err != nil {
		return err
	}
	if len(value) < 1 {
		return malformed(IEFullyQualifiedCSID)
	}
	nodeIDType := value[0] >> 4
	count := int(value[0] & 0x0f)
	idLen := fqcsidNodeIDLength(nodeIDType)
	if idLen < 0 || len(value) != 1+idLen+2*count {
		return malformed(IEFullyQualifiedCSID)
	}
	ie.Ins = ins
	ie.NodeIDType = nodeIDType
	ie.NodeID = append([]byte{}, value[1:1+idLen]...)
	ie.CSIDs = make([]uint16, 0, count)
	for i := 1 + idLen; i < len(value); i += 2 {
		ie.CSIDs = append(ie.CSIDs, binary.BigEndian.Uint16(value[i:i+2]))
	}
	return nil
}

func (ie *FQCSID) Serialize() []byte {
	return SerializeIE(IEFullyQualifiedCSID, ie.Ins, func(b []byte) []byte {
		csids := ie.CSIDs
		if len(csids) > fqcsidMaxCSID {
			csids = csids[:fqcsidMaxCSID]
		}
		b = append(b, ie.NodeIDType<<4|uint8(len(csids)))
		b = append(b, ie.NodeID...)
		for _, id := range csids {
			b = binary.BigEndian.AppendUint16(b, id)
		}
		return b
	})
}

func (ie *FQCSID) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("instance", ie.Ins)
	enc.AddUint8("nodeIDType", ie.NodeIDType)
	if addr, ok := netip.AddrFromSlice(ie.NodeID); ok && ie.NodeIDType != NodeIDMCCMNC {
		enc.AddString("nodeID", addr.String())
	} else {
		enc.AddBinary("nodeID", ie.NodeID)
	}
	return enc.AddArray("csids", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
		for _, id := range ie.CSIDs {
			arr.AppendUint16(id)
		}
		return nil
	}))
}

func (ie *FQCSID) Type() IEType {
	return IEFullyQualifiedCSID
}

func (ie *FQCSID) Instance() uint8 {
	return ie.Ins
}

const PagingPolicyPresentBit uint8 = 0x01

// PagingAndServiceInformation carries the paging policy of one bearer.
type PagingAndServiceInformation struct {
	Ins                   uint8
	EBI                   uint8
	PagingPolicyPresent   bool
	PagingPolicyIndicator uint8 // 6 bits
}

func (ie *PagingAndServiceInformation) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IEPagingAndServiceInformation)
	if err != nil {
		return err
	}
	if len(value) < 2 {
		return malformed(IEPagingAndServiceInformation)
	}
	present := gtputil.IsBitSet(value[1], PagingPolicyPresentBit)
	if (present && len(value) != 3) || (!present && len(value) != 2) {
		return malformed(IEPagingAndServiceInformation)
	}
	ie.Ins = ins
	ie.EBI = value[0] & 0x0f
	ie.PagingPolicyPresent = present
	ie.PagingPolicyIndicator = 0
	if present {
		ie.PagingPolicyIndicator = value[2] & 0x3f
	}
	return nil
}

func (ie *PagingAndServiceInformation) Serialize() []byte {
	return SerializeIE(IEPagingAndServiceInformation, ie.Ins, func(b []byte) []byte {
		b = append(b, ie.EBI&0x0f, gtputil.SetBit(uint8(0), PagingPolicyPresentBit, ie.PagingPolicyPresent))
		if ie.PagingPolicyPresent {
			b = append(b, ie.PagingPolicyIndicator&0x3f)
		}
		return b
	})
}

func (ie *PagingAndServiceInformation) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("ebi", ie.EBI)
	if ie.PagingPolicyPresent {
		enc.AddUint8("ppi", ie.PagingPolicyIndicator)
	}
	return nil
}

func (ie *PagingAndServiceInformation) Type() IEType {
	return IEPagingAndServiceInformation
}

func (ie *PagingAndServiceInformation) Instance() uint8 {
	return ie.Ins
}

const (
	MPLRUplinkBit   uint8 = 0x01
	MPLRDownlinkBit uint8 = 0x02
)

// MaximumPacketLossRate is in units of 0.1 percent.
type MaximumPacketLossRate struct {
	Ins         uint8
	HasUplink   bool
	Uplink      uint16
	HasDownlink bool
	Downlink    uint16
}

func (ie *MaximumPacketLossRate) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IEMaximumPacketLossRate)
	if err != nil {
		return err
	}
	if len(value) < 1 {
		return malformed(IEMaximumPacketLossRate)
	}
	m := MaximumPacketLossRate{
		Ins:         ins,
		HasUplink:   gtputil.IsBitSet(value[0], MPLRUplinkBit),
		HasDownlink: gtputil.IsBitSet(value[0], MPLRDownlinkBit),
	}
	want := 1
	if m.HasUplink {
		want += 2
	}
	if m.HasDownlink {
		want += 2
	}
	if len(value) != want {
		return malformed(IEMaximumPacketLossRate)
	}
	rest := value[1:]
	if m.HasUplink {
		m.Uplink = binary.BigEndian.Uint16(rest)
		rest = rest[2:]
	}
	if m.HasDownlink {
		m.Downlink = binary.BigEndian.Uint16(rest)
	}
	*ie = m
	return nil
}

func (ie *MaximumPacketLossRate) Serialize() []byte {
	return SerializeIE(IEMaximumPacketLossRate, ie.Ins, func(b []byte) []byte {
		var flags uint8
		flags = gtputil.SetBit(flags, MPLRUplinkBit, ie.HasUplink)
		flags = gtputil.SetBit(flags, MPLRDownlinkBit, ie.HasDownlink)
		b = append(b, flags)
		if ie.HasUplink {
			b = binary.BigEndian.AppendUint16(b, ie.Uplink)
		}
		if ie.HasDownlink {
			b = binary.BigEndian.AppendUint16(b, ie.Downlink)
		}
		return b
	})
}

func (ie *MaximumPacketLossRate) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if ie.HasUplink {
		enc.AddUint16("uplink", ie.Uplink)
	}
	if ie.HasDownlink {
		enc.AddUint16("downlink", ie.Downlink)
	}
	return nil
}

func (ie *MaximumPacketLossRate) Type() IEType {
	return IEMaximumPacketLossRate
}

func (ie *MaximumPacketLossRate) Instance() uint8 {
	return ie.Ins
}

const (
	SecondaryRATIRPGWBit uint8 = 0x01
	SecondaryRATIRSGWBit uint8 = 0x02
)

// SecondaryRATUsageDataReport reports data volume on a secondary RAT for one bearer.
type SecondaryRATUsageDataReport struct {
	Ins            uint8
	IRPGW          bool
	IRSGW          bool
	SecondaryRAT   uint8 // 0 NR, 1 unlicensed spectrum
	EBI            uint8
	StartTimestamp uint32
	EndTimestamp   uint32
	UsageDownlink  uint64
	UsageUplink    uint64
}

func (ie *SecondaryRATUsageDataReport) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IESecondaryRATUsageDataReport, SecondaryRATUsageReportLen)
	if err != nil {
		return err
	}
	*ie = SecondaryRATUsageDataReport{
		Ins:            ins,
		IRPGW:          gtputil.IsBitSet(value[0], SecondaryRATIRPGWBit),
		IRSGW:          gtputil.IsBitSet(value[0], SecondaryRATIRSGWBit),
		SecondaryRAT:   value[1],
		EBI:            value[2] & 0x0f,
		StartTimestamp: binary.BigEndian.Uint32(value[3:7]),
		EndTimestamp:   binary.BigEndian.Uint32(value[7:11]),
		UsageDownlink:  binary.BigEndian.Uint64(value[11:19]),
		UsageUplink:    binary.BigEndian.Uint64(value[19:27]),
	}
	return nil
}

func (ie *SecondaryRATUsageDataReport) Serialize() []byte {
	return SerializeIE(IESecondaryRATUsageDataReport, ie.Ins, func(b []byte) []byte {
		var flags uint8
		flags = gtputil.SetBit(flags, SecondaryRATIRPGWBit, ie.IRPGW)
		flags = gtputil.SetBit(flags, SecondaryRATIRSGWBit, ie.IRSGW)
		b = append(b, flags, ie.SecondaryRAT, ie.EBI&0x0f)
		b = binary.BigEndian.AppendUint32(b, ie.StartTimestamp)
		b = binary.BigEndian.AppendUint32(b, ie.EndTimestamp)
		b = binary.BigEndian.AppendUint64(b, ie.UsageDownlink)
		return binary.BigEndian.AppendUint64(b, ie.UsageUplink)
	})
}

func (ie *SecondaryRATUsageDataReport) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("irpgw", ie.IRPGW)
	enc.AddBool("irsgw", ie.IRSGW)
	enc.AddUint8("secondaryRAT", ie.SecondaryRAT)
	enc.AddUint8("ebi", ie.EBI)
	enc.AddUint32("startTimestamp", ie.StartTimestamp)
	enc.AddUint32("endTimestamp", ie.EndTimestamp)
	enc.AddUint64("usageDownlink", ie.UsageDownlink)
	enc.AddUint64("usageUplink", ie.UsageUplink)
	return nil
}

func (ie *SecondaryRATUsageDataReport) Type() IEType {
	return IESecondaryRATUsageDataReport
}

func (ie *SecondaryRATUsageDataReport) Instance() uint8 {
	return ie.Ins
}
