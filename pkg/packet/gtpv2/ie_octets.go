// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"encoding/binary"
	"errors"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/gtp/pkg/packet/gtputil"
)

// Octets is the value of an IE passed through without interpretation.
type Octets struct {
	Ins  uint8
	Data []byte
}

func (o *Octets) decode(data []byte, t IEType) error {
	ins, value, err := decodeIEHeader(data, t)
	if err != nil {
		return err
	}
	o.Ins = ins
	o.Data = append([]byte{}, value...)
	return nil
}

func (o *Octets) serialize(t IEType) []byte {
	return SerializeIE(t, o.Ins, func(b []byte) []byte {
		return append(b, o.Data...)
	})
}

func (o *Octets) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("instance", o.Ins)
	enc.AddBinary("data", o.Data)
	return nil
}

func (o *Octets) Instance() uint8 {
	return o.Ins
}

// Configuration options as coded in TS 24.008 10.5.6.3.
const (
	ConfigurationProtocolPPP uint8 = 0x80

	ProtocolIPCP                   uint16 = 0x8021
	ContainerPCSCFIPv6Request      uint16 = 0x0001
	ContainerIMCNFlag              uint16 = 0x0002
	ContainerDNSServerIPv6Request  uint16 = 0x0003
	ContainerMSSupportNWReqBearer  uint16 = 0x0005
	ContainerIPAddressViaNAS       uint16 = 0x000a
	ContainerPCSCFIPv4Request      uint16 = 0x000c
	ContainerDNSServerIPv4Request  uint16 = 0x000d
	ContainerIPv4LinkMTURequest    uint16 = 0x0010
	ContainerSelectedBearerControl uint16 = 0x0012
)

var errConfigurationOptions = errors.New("gtpv2: malformed configuration options")

// ConfigurationOption is one protocol or container entry of a PCO.
type ConfigurationOption struct {
	ID       uint16
	Contents []byte
}

// parseConfigurationOptions splits b after the configuration protocol
// octet. lengthSize is 1 for PCO/APCO and 2 for ePCO.
func parseConfigurationOptions(b []byte, lengthSize int) ([]ConfigurationOption, error) {
	if len(b) < 1 {
		return nil, errConfigurationOptions
	}
	b = b[1:]
	opts := []ConfigurationOption{}
	for len(b) > 0 {
		if !gtputil.Fits(b, 0, 2+lengthSize) {
			return nil, errConfigurationOptions
		}
		id := binary.BigEndian.Uint16(b[0:2])
		var n int
		if lengthSize == 2 {
			n = int(binary.BigEndian.Uint16(b[2:4]))
		} else {
			n = int(b[2])
		}
		if !gtputil.Fits(b, 2+lengthSize, n) {
			return nil, errConfigurationOptions
		}
		opts = append(opts, ConfigurationOption{
			ID:       id,
			Contents: append([]byte{}, b[2+lengthSize:2+lengthSize+n]...),
		})
		b = b[2+lengthSize+n:]
	}
	return opts, nil
}

func appendConfigurationOptions(b []byte, opts []ConfigurationOption, lengthSize int) []byte {
	b = append(b, ConfigurationProtocolPPP)
	for _, o := range opts {
		b = binary.BigEndian.AppendUint16(b, o.ID)
		if lengthSize == 2 {
			b = binary.BigEndian.AppendUint16(b, uint16(len(o.Contents)))
		} else {
			b = append(b, uint8(len(o.Contents)))
		}
		b = append(b, o.Contents...)
	}
	return b
}

func addConfigurationOptions(enc zapcore.ObjectEncoder, data []byte, lengthSize int) error {
	opts, err := parseConfigurationOptions(data, lengthSize)
	if err != nil {
		enc.AddBinary("data", data)
		return nil
	}
	return enc.AddArray("options", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
		for _, o := range opts {
			_ = arr.AppendObject(zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
				enc.AddUint16("id", o.ID)
				enc.AddBinary("contents", o.Contents)
				return nil
			}))
		}
		return nil
	}))
}

// PCO keeps the raw option list. Options parses it on demand.
type PCO struct {
	Octets
}

// NewPCO builds a PCO value from individual options.
func NewPCO(opts ...ConfigurationOption) *PCO {
	return &PCO{Octets{Data: appendConfigurationOptions(nil, opts, 1)}}
}

func (ie *PCO) Options() ([]ConfigurationOption, error) {
	return parseConfigurationOptions(ie.Data, 1)
}

func (ie *PCO) DecodeFromBytes(data []byte) error {
	return ie.decode(data, IEProtocolConfigurationOptions)
}

func (ie *PCO) Serialize() []byte {
	return ie.serialize(IEProtocolConfigurationOptions)
}

func (ie *PCO) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return addConfigurationOptions(enc, ie.Data, 1)
}

func (ie *PCO) Type() IEType {
	return IEProtocolConfigurationOptions
}

// APCO uses the PCO coding.
type APCO struct {
	Octets
}

func (ie *APCO) Options() ([]ConfigurationOption, error) {
	return parseConfigurationOptions(ie.Data, 1)
}

func (ie *APCO) DecodeFromBytes(data []byte) error {
	return ie.decode(data, IEAdditionalPCO)
}

func (ie *APCO) Serialize() []byte {
	return ie.serialize(IEAdditionalPCO)
}

func (ie *APCO) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return addConfigurationOptions(enc, ie.Data, 1)
}

func (ie *APCO) Type() IEType {
	return IEAdditionalPCO
}

// EPCO is the extended PCO with two-octet option lengths.
type EPCO struct {
	Octets
}

func (ie *EPCO) Options() ([]ConfigurationOption, error) {
	return parseConfigurationOptions(ie.Data, 2)
}

func (ie *EPCO) DecodeFromBytes(data []byte) error {
	return ie.decode(data, IEExtendedPCO)
}

func (ie *EPCO) Serialize() []byte {
	return ie.serialize(IEExtendedPCO)
}

func (ie *EPCO) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return addConfigurationOptions(enc, ie.Data, 2)
}

func (ie *EPCO) Type() IEType {
	return IEExtendedPCO
}

// BearerTFT is a traffic flow template as coded in TS 24.008 10.5.6.12.
type BearerTFT struct {
	Octets
}

func (ie *BearerTFT) DecodeFromBytes(data []byte) error {
	return ie.decode(data, IEBearerTFT)
}

func (ie *BearerTFT) Serialize() []byte {
	return ie.serialize(IEBearerTFT)
}

func (ie *BearerTFT) Type() IEType {
	return IEBearerTFT
}

// TAD is a traffic aggregate description, coded like a TFT.
type TAD struct {
	Octets
}

func (ie *TAD) DecodeFromBytes(data []byte) error {
	return ie.decode(data, IETrafficAggregateDescription)
}

func (ie *TAD) Serialize() []byte {
	return ie.serialize(IETrafficAggregateDescription)
}

func (ie *TAD) Type() IEType {
	return IETrafficAggregateDescription
}

type TWANIdentifier struct {
	Octets
}

func (ie *TWANIdentifier) DecodeFromBytes(data []byte) error {
	return ie.decode(data, IETWANIdentifier)
}

func (ie *TWANIdentifier) Serialize() []byte {
	return ie.serialize(IETWANIdentifier)
}

func (ie *TWANIdentifier) Type() IEType {
	return IETWANIdentifier
}

type PresenceReportingAreaInfo struct {
	Octets
}

func (ie *PresenceReportingAreaInfo) DecodeFromBytes(data []byte) error {
	return ie.decode(data, IEPresenceReportingAreaInfo)
}

func (ie *PresenceReportingAreaInfo) Serialize() []byte {
	return ie.serialize(IEPresenceReportingAreaInfo)
}

func (ie *PresenceReportingAreaInfo) Type() IEType {
	return IEPresenceReportingAreaInfo
}

// F-Container types
const (
	FContainerUTRANTransparent  uint8 = 1
	FContainerBSS               uint8 = 2
	FContainerEUTRANTransparent uint8 = 3
	FContainerNBIFOM            uint8 = 4
)

type FContainer struct {
	Ins           uint8
	ContainerType uint8
	Data          []byte
}

func (ie *FContainer) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IEFContainer)
	if err != nil {
		return err
	}
	if len(value) < 1 {
		return malformed(IEFContainer)
	}
	ie.Ins = ins
	ie.ContainerType = value[0] & 0x0f
	ie.Data = append([]byte{}, value[1:]...)
	return nil
}

func (ie *FContainer) Serialize() []byte {
	return SerializeIE(IEFContainer, ie.Ins, func(b []byte) []byte {
		return append(append(b, ie.ContainerType&0x0f), ie.Data...)
	})
}

func (ie *FContainer) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("containerType", ie.ContainerType)
	enc.AddBinary("data", ie.Data)
	return nil
}

func (ie *FContainer) Type() IEType {
	return IEFContainer
}

func (ie *FContainer) Instance() uint8 {
	return ie.Ins
}

const (
	CompleteAttachRequest uint8 = 0
	CompleteTAURequest    uint8 = 1
)

// CompleteRequestMessage carries a NAS Attach or TAU request verbatim.
type CompleteRequestMessage struct {
	Ins         uint8
	MessageType uint8
	Message     []byte
}

func (ie *CompleteRequestMessage) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IECompleteRequestMessage)
	if err != nil {
		return err
	}
	if len(value) < 1 {
		return malformed(IECompleteRequestMessage)
	}
	ie.Ins = ins
	ie.MessageType = value[0]
	ie.Message = append([]byte{}, value[1:]...)
	return nil
}

func (ie *CompleteRequestMessage) Serialize() []byte {
	return SerializeIE(IECompleteRequestMessage, ie.Ins, func(b []byte) []byte {
		return append(append(b, ie.MessageType), ie.Message...)
	})
}

func (ie *CompleteRequestMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("messageType", ie.MessageType)
	enc.AddBinary("message", ie.Message)
	return nil
}

func (ie *CompleteRequestMessage) Type() IEType {
	return IECompleteRequestMessage
}

func (ie *CompleteRequestMessage) Instance() uint8 {
	return ie.Ins
}

// PrivateExtension is vendor data keyed by an IANA enterprise number.
type PrivateExtension struct {
	Ins          uint8
	EnterpriseID uint16
	Value        []byte
}

func (ie *PrivateExtension) DecodeFromBytes(data []byte) error {
	ins, value, err := decodeIEHeader(data, IEPrivateExtension)
	if err != nil {
		return err
	}
	if len(value) < 2 {
		return malformed(IEPrivateExtension)
	}
	ie.Ins = ins
	ie.EnterpriseID = binary.BigEndian.Uint16(value[0:2])
	ie.Value = append([]byte{}, value[2:]...)
	return nil
}

func (ie *PrivateExtension) Serialize() []byte {
	return SerializeIE(IEPrivateExtension, ie.Ins, func(b []byte) []byte {
		b = binary.BigEndian.AppendUint16(b, ie.EnterpriseID)
		return append(b, ie.Value...)
	})
}

func (ie *PrivateExtension) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint16("enterpriseID", ie.EnterpriseID)
	enc.AddBinary("value", ie.Value)
	return nil
}

func (ie *PrivateExtension) Type() IEType {
	return IEPrivateExtension
}

func (ie *PrivateExtension) Instance() uint8 {
	return ie.Ins
}
