// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"go.uber.org/zap/zapcore"
)

// decodeGroupedIE decodes the children of the grouped IE at the start of data.
func decodeGroupedIE(data []byte, t IEType) (uint8, []IE, error) {
	ins, value, err := decodeIEHeader(data, t)
	if err != nil {
		return 0, nil, err
	}
	children, err := DecodeIEs(value)
	if err != nil {
		return 0, nil, err
	}
	return ins, children, nil
}

func addIEArray[P IE](enc zapcore.ObjectEncoder, key string, ies []P) {
	if len(ies) == 0 {
		return
	}
	_ = enc.AddArray(key, zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
		for _, ie := range ies {
			if err := arr.AppendObject(ie); err != nil {
				return err
			}
		}
		return nil
	}))
}

func addIEObject[P interface {
	comparable
	IE
}](enc zapcore.ObjectEncoder, key string, ie P) {
	var zero P
	if ie == zero {
		return
	}
	_ = enc.AddObject(key, ie)
}

// BearerContext groups the IEs describing one bearer. Only the EBI is
// mandatory; which other children appear depends on the enclosing message.
type BearerContext struct {
	Ins                   uint8
	Cause                 *Cause
	EBI                   EPSBearerID
	FTEIDs                []*FTEID
	BearerQoS             *BearerQoS
	TFT                   *BearerTFT
	ChargingID            *ChargingID
	BearerFlags           *BearerFlags
	PCO                   *PCO
	APCO                  *APCO
	EPCO                  *EPCO
	MaximumPacketLossRate *MaximumPacketLossRate
}

func (ie *BearerContext) DecodeFromBytes(data []byte) error {
	ins, children, err := decodeGroupedIE(data, IEBearerContext)
	if err != nil {
		return err
	}
	bc := BearerContext{Ins: ins}
	mandatory := newMandatoryIEs(IEEPSBearerID)
	for _, child := range children {
		if _, ok := child.(*FTEID); !ok && child.Instance() != 0 {
			continue
		}
		switch c := child.(type) {
		case *EPSBearerID:
			if mandatory.take(0) {
				bc.EBI = *c
			}
		case *Cause:
			setOnce(&bc.Cause, c)
		case *FTEID:
			bc.FTEIDs = append(bc.FTEIDs, c)
		case *BearerQoS:
			setOnce(&bc.BearerQoS, c)
		case *BearerTFT:
			setOnce(&bc.TFT, c)
		case *ChargingID:
			setOnce(&bc.ChargingID, c)
		case *BearerFlags:
			setOnce(&bc.BearerFlags, c)
		case *PCO:
			setOnce(&bc.PCO, c)
		case *APCO:
			setOnce(&bc.APCO, c)
		case *EPCO:
			setOnce(&bc.EPCO, c)
		case *MaximumPacketLossRate:
			setOnce(&bc.MaximumPacketLossRate, c)
		}
	}
	if err := mandatory.check(); err != nil {
		return err
	}
	*ie = bc
	return nil
}

// Children returns the child IEs in encoding order.
func (ie *BearerContext) Children() []IE {
	ies := appendOptional(nil, ie.Cause)
	ies = append(ies, &ie.EBI)
	ies = appendRepeated(ies, ie.FTEIDs)
	ies = appendOptional(ies, ie.BearerQoS)
	ies = appendOptional(ies, ie.TFT)
	ies = appendOptional(ies, ie.ChargingID)
	ies = appendOptional(ies, ie.BearerFlags)
	ies = appendOptional(ies, ie.PCO)
	ies = appendOptional(ies, ie.APCO)
	ies = appendOptional(ies, ie.EPCO)
	return appendOptional(ies, ie.MaximumPacketLossRate)
}

func (ie *BearerContext) Serialize() []byte {
	return SerializeIE(IEBearerContext, ie.Ins, func(b []byte) []byte {
		for _, child := range ie.Children() {
			b = append(b, child.Serialize()...)
		}
		return b
	})
}

func (ie *BearerContext) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("instance", ie.Ins)
	_ = enc.AddObject("ebi", &ie.EBI)
	addIEObject(enc, "cause", ie.Cause)
	addIEArray(enc, "fteids", ie.FTEIDs)
	addIEObject(enc, "bearerQoS", ie.BearerQoS)
	addIEObject(enc, "tft", ie.TFT)
	addIEObject(enc, "chargingID", ie.ChargingID)
	addIEObject(enc, "bearerFlags", ie.BearerFlags)
	addIEObject(enc, "pco", ie.PCO)
	addIEObject(enc, "apco", ie.APCO)
	addIEObject(enc, "epco", ie.EPCO)
	addIEObject(enc, "maximumPacketLossRate", ie.MaximumPacketLossRate)
	return nil
}

func (ie *BearerContext) Type() IEType {
	return IEBearerContext
}

func (ie *BearerContext) Instance() uint8 {
	return ie.Ins
}

// OverloadControlInformation announces a node's overload state (8.111).
type OverloadControlInformation struct {
	Ins      uint8
	Sequence SequenceNumber
	Metric   Metric
	Validity EPCTimer
	APNs     []*AccessPointName
}

func (ie *OverloadControlInformation) DecodeFromBytes(data []byte) error {
	ins, children, err := decodeGroupedIE(data, IEOverloadControlInformation)
	if err != nil {
		return err
	}
	oci := OverloadControlInformation{Ins: ins}
	mandatory := newMandatoryIEs(IESequenceNumber, IEMetric, IEEPCTimer)
	for _, child := range children {
		if child.Instance() != 0 {
			continue
		}
		switch c := child.(type) {
		case *SequenceNumber:
			if mandatory.take(0) {
				oci.Sequence = *c
			}
		case *Metric:
			if mandatory.take(1) {
				oci.Metric = *c
			}
		case *EPCTimer:
			if mandatory.take(2) {
				oci.Validity = *c
			}
		case *AccessPointName:
			oci.APNs = append(oci.APNs, c)
		}
	}
	if err := mandatory.check(); err != nil {
		return err
	}
	*ie = oci
	return nil
}

func (ie *OverloadControlInformation) Children() []IE {
	ies := []IE{&ie.Sequence, &ie.Metric, &ie.Validity}
	return appendRepeated(ies, ie.APNs)
}

func (ie *OverloadControlInformation) Serialize() []byte {
	return SerializeIE(IEOverloadControlInformation, ie.Ins, func(b []byte) []byte {
		for _, child := range ie.Children() {
			b = append(b, child.Serialize()...)
		}
		return b
	})
}

func (ie *OverloadControlInformation) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("instance", ie.Ins)
	enc.AddUint32("sqn", ie.Sequence.Value)
	enc.AddUint8("metric", ie.Metric.Value)
	_ = enc.AddObject("validity", &ie.Validity)
	addIEArray(enc, "apns", ie.APNs)
	return nil
}

func (ie *OverloadControlInformation) Type() IEType {
	return IEOverloadControlInformation
}

func (ie *OverloadControlInformation) Instance() uint8 {
	return ie.Ins
}
