// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"encoding/binary"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/gtp/pkg/packet/gtputil"
)

const PLMNLength = 3

// PLMN holds MCC and MNC as decimal digit strings. A two-digit MNC is
// encoded with the filler nibble 0xf.
type PLMN struct {
	MCC string
	MNC string
}

func decodeDigit(nibble uint8) (byte, bool) {
	if nibble > 9 {
		return 0, false
	}
	return '0' + nibble, true
}

func (p *PLMN) decode(b []byte) bool {
	if len(b) < PLMNLength {
		return false
	}
	nibbles := []uint8{b[0] & 0x0f, b[0] >> 4, b[1] & 0x0f}
	mcc := make([]byte, 0, 3)
	for _, n := range nibbles {
		d, ok := decodeDigit(n)
		if !ok {
			return false
		}
		mcc = append(mcc, d)
	}
	mnc := make([]byte, 0, 3)
	for _, n := range []uint8{b[2] & 0x0f, b[2] >> 4} {
		d, ok := decodeDigit(n)
		if !ok {
			return false
		}
		mnc = append(mnc, d)
	}
	if third := b[1] >> 4; third != 0x0f {
		d, ok := decodeDigit(third)
		if !ok {
			return false
		}
		mnc = append(mnc, d)
	}
	p.MCC = string(mcc)
	p.MNC = string(mnc)
	return true
}

func plmnNibble(s string, i int) uint8 {
	if i >= len(s) || s[i] < '0' || s[i] > '9' {
		return 0x0f
	}
	return s[i] - '0'
}

func (p PLMN) appendTo(b []byte) []byte {
	return append(b,
		plmnNibble(p.MCC, 1)<<4|plmnNibble(p.MCC, 0),
		plmnNibble(p.MNC, 2)<<4|plmnNibble(p.MCC, 2),
		plmnNibble(p.MNC, 1)<<4|plmnNibble(p.MNC, 0),
	)
}

func (p PLMN) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("mcc", p.MCC)
	enc.AddString("mnc", p.MNC)
	return nil
}

type ServingNetwork struct {
	Ins uint8
	PLMN
}

func (ie *ServingNetwork) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeFixedIE(data, IEServingNetwork, PLMNLength)
	if err != nil {
		return err
	}
	if !ie.PLMN.decode(value) {
		return malformed(IEServingNetwork)
	}
	ie.Ins = ins
	return nil
}

func (ie *ServingNetwork) Serialize() []byte {
	return SerializeIE(IEServingNetwork, ie.Ins, ie.PLMN.appendTo)
}

func (ie *ServingNetwork) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return ie.PLMN.MarshalLogObject(enc)
}

func (ie *ServingNetwork) Type() IEType {
	return IEServingNetwork
}

func (ie *ServingNetwork) Instance() uint8 {
	return ie.Ins
}

// ULI location kinds, in the order they appear on the wire (8.21)
const (
	ULICGIBit    uint8 = 0x01
	ULISAIBit    uint8 = 0x02
	ULIRAIBit    uint8 = 0x04
	ULITAIBit    uint8 = 0x08
	ULIECGIBit   uint8 = 0x10
	ULILAIBit    uint8 = 0x20
	ULIMeNBIBit  uint8 = 0x40
	ULIEMeNBIBit uint8 = 0x80
)

type CGI struct {
	PLMN
	LAC uint16
	CI  uint16
}

type SAI struct {
	PLMN
	LAC uint16
	SAC uint16
}

type RAI struct {
	PLMN
	LAC uint16
	RAC uint8
}

type TAI struct {
	PLMN
	TAC uint16
}

type ECGI struct {
	PLMN
	ECI uint32 // 28 bits
}

type LAI struct {
	PLMN
	LAC uint16
}

type MacroENodeBID struct {
	PLMN
	ID uint32 // 20 bits
}

type ExtendedMacroENodeBID struct {
	PLMN
	SMeNB bool // short macro eNodeB, 18 bit ID
	ID    uint32
}

// ULI carries any combination of location identities.
type ULI struct {
	Ins                   uint8
	CGI                   *CGI
	SAI                   *SAI
	RAI                   *RAI
	TAI                   *TAI
	ECGI                  *ECGI
	LAI                   *LAI
	MacroENodeBID         *MacroENodeBID
	ExtendedMacroENodeBID *ExtendedMacroENodeBID
}

// uliReader walks the ULI value; the first failure sticks.
type uliReader struct {
	b  []byte
	ok bool
}

func (r *uliReader) next(n int) []byte {
	if !r.ok || !gtputil.Fits(r.b, 0, n) {
		r.ok = false
		return nil
	}
	v := r.b[:n]
	r.b = r.b[n:]
	return v
}

func (r *uliReader) plmn() PLMN {
	var p PLMN
	if b := r.next(PLMNLength); b != nil && !p.decode(b) {
		r.ok = false
	}
	return p
}

func (r *uliReader) u16() uint16 {
	if b := r.next(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (ie *ULI) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IEUserLocationInformation)
	if err != nil {
		return err
	}
	if len(value) < 1 {
		return malformed(IEUserLocationInformation)
	}
	flags := value[0]
	r := &uliReader{b: value[1:], ok: true}
	uli := ULI{Ins: ins}

	if gtputil.IsBitSet(flags, ULICGIBit) {
		uli.CGI = &CGI{PLMN: r.plmn(), LAC: r.u16(), CI: r.u16()}
	}
	if gtputil.IsBitSet(flags, ULISAIBit) {
		uli.SAI = &SAI{PLMN: r.plmn(), LAC: r.u16(), SAC: r.u16()}
	}
	if gtputil.IsBitSet(flags, ULIRAIBit) {
		rai := &RAI{PLMN: r.plmn(), LAC: r.u16()}
		rai.RAC = uint8(r.u16() >> 8)
		uli.RAI = rai
	}
	if gtputil.IsBitSet(flags, ULITAIBit) {
		uli.TAI = &TAI{PLMN: r.plmn(), TAC: r.u16()}
	}
	if gtputil.IsBitSet(flags, ULIECGIBit) {
		ecgi := &ECGI{PLMN: r.plmn()}
		if b := r.next(4); b != nil {
			ecgi.ECI = binary.BigEndian.Uint32(b) & 0x0fffffff
		}
		uli.ECGI = ecgi
	}
	if gtputil.IsBitSet(flags, ULILAIBit) {
		uli.LAI = &LAI{PLMN: r.plmn(), LAC: r.u16()}
	}
	if gtputil.IsBitSet(flags, ULIMeNBIBit) {
		menb := &MacroENodeBID{PLMN: r.plmn()}
		if b := r.next(3); b != nil {
			menb.ID = gtputil.Uint24(b) & 0x0fffff
		}
		uli.MacroENodeBID = menb
	}
	if gtputil.IsBitSet(flags, ULIEMeNBIBit) {
		emenb := &ExtendedMacroENodeBID{PLMN: r.plmn()}
		if b := r.next(3); b != nil {
			emenb.SMeNB = gtputil.IsBitSet(b[0], 0x80)
			emenb.ID = gtputil.Uint24(b) & 0x1fffff
		}
		uli.ExtendedMacroENodeBID = emenb
	}
	if !r.ok || len(r.b) != 0 {
		return malformed(IEUserLocationInformation)
	}
	*ie = uli
	return nil
}

func (ie *ULI) flags() uint8 {
	var f uint8
	f = gtputil.SetBit(f, ULICGIBit, ie.CGI != nil)
	f = gtputil.SetBit(f, ULISAIBit, ie.SAI != nil)
	f = gtputil.SetBit(f, ULIRAIBit, ie.RAI != nil)
	f = gtputil.SetBit(f, ULITAIBit, ie.TAI != nil)
	f = gtputil.SetBit(f, ULIECGIBit, ie.ECGI != nil)
	f = gtputil.SetBit(f, ULILAIBit, ie.LAI != nil)
	f = gtputil.SetBit(f, ULIMeNBIBit, ie.MacroENodeBID != nil)
	f = gtputil.SetBit(f, ULIEMeNBIBit, ie.ExtendedMacroENodeBID != nil)
	return f
}

func (ie *ULI) Serialize() []byte {
	return SerializeIE(IEUserLocationInformation, ie.Ins, func(b []byte) []byte {
		b = append(b, ie.flags())
		if v := ie.CGI; v != nil {
			b = v.appendTo(b)
			b = binary.BigEndian.AppendUint16(b, v.LAC)
			b = binary.BigEndian.AppendUint16(b, v.CI)
		}
		if v := ie.SAI; v != nil {
			b = v.appendTo(b)
			b = binary.BigEndian.AppendUint16(b, v.LAC)
			b = binary.BigEndian.AppendUint16(b, v.SAC)
		}
		if v := ie.RAI; v != nil {
			b = v.appendTo(b)
			b = binary.BigEndian.AppendUint16(b, v.LAC)
			b = append(b, v.RAC, 0xff)
		}
		if v := ie.TAI; v != nil {
			b = v.appendTo(b)
			b = binary.BigEndian.AppendUint16(b, v.TAC)
		}
		if v := ie.ECGI; v != nil {
			b = v.appendTo(b)
			b = binary.BigEndian.AppendUint32(b, v.ECI&0x0fffffff)
		}
		if v := ie.LAI; v != nil {
			b = v.appendTo(b)
			b = binary.BigEndian.AppendUint16(b, v.LAC)
		}
		if v := ie.MacroENodeBID; v != nil {
			b = v.appendTo(b)
			b = gtputil.AppendUint24(b, v.ID&0x0fffff)
		}
		if v := ie.ExtendedMacroENodeBID; v != nil {
			b = v.appendTo(b)
			id := v.ID & 0x1fffff
			if v.SMeNB {
				id |= 0x800000
			}
			b = gtputil.AppendUint24(b, id)
		}
		return b
	})
}

func (ie *ULI) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("instance", ie.Ins)
	if v := ie.CGI; v != nil {
		_ = enc.AddObject("cgi", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
			_ = v.PLMN.MarshalLogObject(enc)
			enc.AddUint16("lac", v.LAC)
			enc.AddUint16("ci", v.CI)
			return nil
		}))
	}
	if v := ie.SAI; v != nil {
		_ = enc.AddObject("sai", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
			_ = v.PLMN.MarshalLogObject(enc)
			enc.AddUint16("lac", v.LAC)
			enc.AddUint16("sac", v.SAC)
			return nil
		}))
	}
	if v := ie.RAI; v != nil {
		_ = enc.AddObject("rai", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
			_ = v.PLMN.MarshalLogObject(enc)
			enc.AddUint16("lac", v.LAC)
			enc.AddUint8("rac", v.RAC)
			return nil
		}))
	}
	if v := ie.TAI; v != nil {
		_ = enc.AddObject("tai", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
			_ = v.PLMN.MarshalLogObject(enc)
			enc.AddUint16("tac", v.TAC)
			return nil
		}))
	}
	if v := ie.ECGI; v != nil {
		_ = enc.AddObject("ecgi", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
			_ = v.PLMN.MarshalLogObject(enc)
			enc.AddUint32("eci", v.ECI)
			return nil
		}))
	}
	if v := ie.LAI; v != nil {
		_ = enc.AddObject("lai", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
			_ = v.PLMN.MarshalLogObject(enc)
			enc.AddUint16("lac", v.LAC)
			return nil
		}))
	}
	if v := ie.MacroENodeBID; v != nil {
		_ = enc.AddObject("macroENodeBID", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
			_ = v.PLMN.MarshalLogObject(enc)
			enc.AddUint32("id", v.ID)
			return nil
		}))
	}
	if v := ie.ExtendedMacroENodeBID; v != nil {
		_ = enc.AddObject("extendedMacroENodeBID", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
			_ = v.PLMN.MarshalLogObject(enc)
			enc.AddBool("smenb", v.SMeNB)
			enc.AddUint32("id", v.ID)
			return nil
		}))
	}
	return nil
}

func (ie *ULI) Type() IEType {
	return IEUserLocationInformation
}

func (ie *ULI) Instance() uint8 {
	return ie.Ins
}
