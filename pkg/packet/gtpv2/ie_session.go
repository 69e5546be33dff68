// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"encoding/binary"
	"net/netip"

	"go.uber.org/zap/zapcore"
)

// Digits is a TBCD coded digit string. An odd number of digits ends with
// the filler nibble 0xf.
type Digits struct {
	Ins    uint8
	Number string
}

func (d *Digits) decode(data []byte, t IEType) error {
	ins, value, err := decodeIEHeader(data, t)
	if err != nil {
		return err
	}
	number := make([]byte, 0, len(value)*2)
	for i, octet := range value {
		low, ok := decodeDigit(octet & 0x0f)
		if !ok {
			return malformed(t)
		}
		number = append(number, low)
		high := octet >> 4
		if high == 0x0f && i == len(value)-1 {
			break
		}
		digit, ok := decodeDigit(high)
		if !ok {
			return malformed(t)
		}
		number = append(number, digit)
	}
	d.Ins = ins
	d.Number = string(number)
	return nil
}

func (d *Digits) serialize(t IEType) []byte {
	return SerializeIE(t, d.Ins, func(b []byte) []byte {
		for i := 0; i < len(d.Number); i += 2 {
			b = append(b, plmnNibble(d.Number, i+1)<<4|plmnNibble(d.Number, i))
		}
		return b
	})
}

func (d *Digits) Instance() uint8 {
	return d.Ins
}

// IMSI (8.3)
type IMSI struct {
	Digits
}

func (ie *IMSI) DecodeFromBytes(data []byte) error {
	return ie.decode(data, IEIMSI)
}

func (ie *IMSI) Serialize() []byte {
	return ie.serialize(IEIMSI)
}

func (ie *IMSI) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("imsi", ie.Number)
	return nil
}

func (ie *IMSI) Type() IEType {
	return IEIMSI
}

// MSISDN (8.11)
type MSISDN struct {
	Digits
}

func (ie *MSISDN) DecodeFromBytes(data []byte) error {
	return ie.decode(data, IEMSISDN)
}

func (ie *MSISDN) Serialize() []byte {
	return ie.serialize(IEMSISDN)
}

func (ie *MSISDN) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("msisdn", ie.Number)
	return nil
}

func (ie *MSISDN) Type() IEType {
	return IEMSISDN
}

// MEI holds the IMEI or IMEISV of the UE (8.10).
type MEI struct {
	Digits
}

func (ie *MEI) DecodeFromBytes(data []byte) error {
	return ie.decode(data, IEMEI)
}

func (ie *MEI) Serialize() []byte {
	return ie.serialize(IEMEI)
}

func (ie *MEI) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("mei", ie.Number)
	return nil
}

func (ie *MEI) Type() IEType {
	return IEMEI
}

// AMBR is the aggregate maximum bit rate in kbps (8.7).
type AMBR struct {
	Ins      uint8
	Uplink   uint32
	Downlink uint32
}

func (ie *AMBR) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEAggregateMaximumBitRate, 8)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Uplink = binary.BigEndian.Uint32(value[0:4])
	ie.Downlink = binary.BigEndian.Uint32(value[4:8])
	return nil
}

func (ie *AMBR) Serialize() []byte {
	return SerializeIE(IEAggregateMaximumBitRate, ie.Ins, func(b []byte) []byte {
		b = binary.BigEndian.AppendUint32(b, ie.Uplink)
		return binary.BigEndian.AppendUint32(b, ie.Downlink)
	})
}

func (ie *AMBR) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("uplink", ie.Uplink)
	enc.AddUint32("downlink", ie.Downlink)
	return nil
}

func (ie *AMBR) Type() IEType {
	return IEAggregateMaximumBitRate
}

func (ie *AMBR) Instance() uint8 {
	return ie.Ins
}

type PDN uint8

const (
	PDNIPv4     PDN = 1
	PDNIPv6     PDN = 2
	PDNIPv4v6   PDN = 3
	PDNNonIP    PDN = 4
	PDNEthernet PDN = 5
)

const pdnTypeMask uint8 = 0x07

func (p PDN) String() string {
	switch p {
	case PDNIPv4:
		return "IPv4"
	case PDNIPv6:
		return "IPv6"
	case PDNIPv4v6:
		return "IPv4v6"
	case PDNNonIP:
		return "Non-IP"
	case PDNEthernet:
		return "Ethernet"
	default:
		return "Reserved"
	}
}

func (p PDN) hasIPv4() bool {
	return p == PDNIPv4 || p == PDNIPv4v6
}

func (p PDN) hasIPv6() bool {
	return p == PDNIPv6 || p == PDNIPv4v6
}

// PDNType (8.34)
type PDNType struct {
	Ins uint8
	PDN PDN
}

func (ie *PDNType) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEPDNType, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.PDN = PDN(value[0] & pdnTypeMask)
	return nil
}

func (ie *PDNType) Serialize() []byte {
	return SerializeIE(IEPDNType, ie.Ins, func(b []byte) []byte {
		return append(b, uint8(ie.PDN)&pdnTypeMask)
	})
}

func (ie *PDNType) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("pdnType", ie.PDN.String())
	return nil
}

func (ie *PDNType) Type() IEType {
	return IEPDNType
}

func (ie *PDNType) Instance() uint8 {
	return ie.Ins
}

// PAA is the PDN Address Allocation (8.14). IPv6Prefix is used for PDN
// types IPv6 and IPv4v6, IPv4 for IPv4 and IPv4v6. An unset address is
// encoded as all zeros, which asks the peer to allocate one.
type PAA struct {
	Ins        uint8
	PDN        PDN
	IPv6Prefix netip.Prefix
	IPv4       netip.Addr
}

func (ie *PAA) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IEPDNAddressAllocation)
	if err != nil {
		return err
	}
	if len(value) < 1 {
		return malformed(IEPDNAddressAllocation)
	}
	paa := PAA{Ins: ins, PDN: PDN(value[0] & pdnTypeMask)}
	rest := value[1:]
	if paa.PDN.hasIPv6() {
		if len(rest) < 17 || rest[0] > 128 {
			return malformed(IEPDNAddressAllocation)
		}
		paa.IPv6Prefix = netip.PrefixFrom(netip.AddrFrom16([16]byte(rest[1:17])), int(rest[0]))
		rest = rest[17:]
	}
	if paa.PDN.hasIPv4() {
		if len(rest) < 4 {
			return malformed(IEPDNAddressAllocation)
		}
		paa.IPv4 = netip.AddrFrom4([4]byte(rest[0:4]))
		rest = rest[4:]
	}
	if len(rest) != 0 {
		return malformed(IEPDNAddressAllocation)
	}
	*ie = paa
	return nil
}

func (ie *PAA) Serialize() []byte {
	return SerializeIE(IEPDNAddressAllocation, ie.Ins, func(b []byte) []byte {
		b = append(b, uint8(ie.PDN)&pdnTypeMask)
		if ie.PDN.hasIPv6() {
			bits, addr := 0, netip.IPv6Unspecified()
			if ie.IPv6Prefix.IsValid() && ie.IPv6Prefix.Addr().Is6() {
				bits, addr = ie.IPv6Prefix.Bits(), ie.IPv6Prefix.Addr()
			}
			b = append(b, uint8(bits))
			b = append(b, addr.AsSlice()...)
		}
		if ie.PDN.hasIPv4() {
			addr := netip.IPv4Unspecified()
			if ie.IPv4.Is4() {
				addr = ie.IPv4
			}
			b = append(b, addr.AsSlice()...)
		}
		return b
	})
}

func (ie *PAA) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("pdnType", ie.PDN.String())
	if ie.PDN.hasIPv6() {
		enc.AddString("ipv6Prefix", ie.IPv6Prefix.String())
	}
	if ie.PDN.hasIPv4() {
		enc.AddString("ipv4", ie.IPv4.String())
	}
	return nil
}

func (ie *PAA) Type() IEType {
	return IEPDNAddressAllocation
}

func (ie *PAA) Instance() uint8 {
	return ie.Ins
}

// Selection Mode (8.58)
const (
	SelectionModeVerified      uint8 = 0
	SelectionModeMSProvided    uint8 = 1
	SelectionModeNetwork       uint8 = 2
	SelectionModeSelectionMask uint8 = 0x03
)

type SelectionMode struct {
	Ins  uint8
	Mode uint8
}

func (ie *SelectionMode) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IESelectionMode, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Mode = value[0] & SelectionModeSelectionMask
	return nil
}

func (ie *SelectionMode) Serialize() []byte {
	return SerializeIE(IESelectionMode, ie.Ins, func(b []byte) []byte {
		return append(b, ie.Mode&SelectionModeSelectionMask)
	})
}

func (ie *SelectionMode) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("selectionMode", ie.Mode)
	return nil
}

func (ie *SelectionMode) Type() IEType {
	return IESelectionMode
}

func (ie *SelectionMode) Instance() uint8 {
	return ie.Ins
}

// APNRestriction (8.57)
type APNRestriction struct {
	Ins         uint8
	Restriction uint8
}

func (ie *APNRestriction) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEAPNRestriction, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Restriction = value[0]
	return nil
}

func (ie *APNRestriction) Serialize() []byte {
	return SerializeIE(IEAPNRestriction, ie.Ins, func(b []byte) []byte {
		return append(b, ie.Restriction)
	})
}

func (ie *APNRestriction) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("restriction", ie.Restriction)
	return nil
}

func (ie *APNRestriction) Type() IEType {
	return IEAPNRestriction
}

func (ie *APNRestriction) Instance() uint8 {
	return ie.Ins
}

// ChargingCharacteristics (8.30)
type ChargingCharacteristics struct {
	Ins   uint8
	Value uint16
}

func (ie *ChargingCharacteristics) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEChargingCharacteristics, 2)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Value = binary.BigEndian.Uint16(value)
	return nil
}

func (ie *ChargingCharacteristics) Serialize() []byte {
	return SerializeIE(IEChargingCharacteristics, ie.Ins, func(b []byte) []byte {
		return binary.BigEndian.AppendUint16(b, ie.Value)
	})
}

func (ie *ChargingCharacteristics) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint16("chargingCharacteristics", ie.Value)
	return nil
}

func (ie *ChargingCharacteristics) Type() IEType {
	return IEChargingCharacteristics
}

func (ie *ChargingCharacteristics) Instance() uint8 {
	return ie.Ins
}

// DelayValue is a delay in multiples of 50 milliseconds (8.27).
type DelayValue struct {
	Ins   uint8
	Delay uint8
}

func (ie *DelayValue) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEDelayValue, 1)
	if err != nil {
		return err
	}
	ie.Ins = ins
	ie.Delay = value[0]
	return nil
}

func (ie *DelayValue) Serialize() []byte {
	return SerializeIE(IEDelayValue, ie.Ins, func(b []byte) []byte {
		return append(b, ie.Delay)
	})
}

func (ie *DelayValue) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("delay", ie.Delay)
	return nil
}

func (ie *DelayValue) Type() IEType {
	return IEDelayValue
}

func (ie *DelayValue) Instance() uint8 {
	return ie.Ins
}
