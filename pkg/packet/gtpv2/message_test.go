// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const (
	bearerResourceFailureIndHex = `
		48 45 00 44 00 00 00 00 00 00 68 00
		02 00 02 00 4d 00
		49 00 01 00 05
		64 00 01 00 ff
		b4 00 12 00 b7 00 04 00 ff aa ee 11 b6 00 01 00 60 9c 00 01 00 7f
		b4 00 12 01 b7 00 04 00 ff aa ee 22 b6 00 01 00 60 9c 00 01 00 7e`

	bearerResourceCommandHex = `
		48 44 00 97 00 00 00 00 00 00 68 00
		49 00 01 00 05
		64 00 01 00 ff
		55 00 04 00 00 00 00 00
		52 00 01 00 06
		53 00 03 00 62 f2 10
		56 00 0d 00 18 62 f2 10 0b d9 62 f2 10 01 ba 40 02
		4e 00 23 00 80
		80 21 10 01 00 00 10 81 06 00 00 00 00 83 06 00 00 00 00
		00 0d 00 00 03 00 00 0a 00 00 05 00 00 10 00
		b4 00 12 00 b7 00 04 00 ff aa ee 11 b6 00 01 00 60 9c 00 01 00 7f
		b4 00 12 01 b7 00 04 00 ff aa ee 22 b6 00 01 00 60 9c 00 01 00 7e
		57 00 09 02 86 06 d1 82 4c c1 fe 8b 2d`

	createBearerResponseHex = `
		48 60 00 69 09 09 a4 56 00 00 2f 00
		02 00 02 00 10 00
		5d 00 3a 00
		02 00 02 00 10 00
		49 00 01 00 05
		57 00 09 02 85 3b 95 98 5a 3e 99 89 55
		50 00 16 00 2c 09 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00
		5e 00 04 00 01 62 9c c4
		03 00 01 00 11
		4e 00 14 00 80 80 21 10 02 00 00 10 81 06 08 08 08 08 83 06 0a 40 d0 61`
)

func testOverloadControlInformation() []*OverloadControlInformation {
	return []*OverloadControlInformation{
		{
			Sequence: SequenceNumber{Value: 0xffaaee11},
			Metric:   Metric{Value: 0x60},
			Validity: EPCTimer{Unit: TimerUnit1Hour, Value: 31},
		},
		{
			Ins:      1,
			Sequence: SequenceNumber{Value: 0xffaaee22},
			Metric:   Metric{Value: 0x60},
			Validity: EPCTimer{Unit: TimerUnit1Hour, Value: 30},
		},
	}
}

func TestBearerResourceFailureInd(t *testing.T) {
	encoded := fromHex(t, bearerResourceFailureIndHex)
	require.Len(t, encoded, 72)

	expected := NewBearerResourceFailureInd(0, 0x68, CauseSyntacticErrorsInPacketFilter, 5, 0xff)
	expected.OverloadControlInformation = testOverloadControlInformation()

	b, err := Marshal(expected)
	require.NoError(t, err)
	assert.Equal(t, encoded, b)
	assert.Equal(t, uint16(0x44), expected.Header.Length)

	var decoded BearerResourceFailureInd
	require.NoError(t, Unmarshal(encoded, &decoded))
	assert.Equal(t, expected, &decoded)
}

func TestBearerResourceCommand(t *testing.T) {
	encoded := fromHex(t, bearerResourceCommandHex)
	require.Len(t, encoded, 155)

	expected := NewBearerResourceCommand(0, 0x68, 5, 0xff)
	expected.TAD = &TAD{Octets{Data: []byte{0x00, 0x00, 0x00, 0x00}}}
	expected.RATType = &RATType{RAT: RATEUTRAN}
	expected.ServingNetwork = &ServingNetwork{PLMN: testPLMN}
	expected.ULI = &ULI{
		TAI:  &TAI{PLMN: testPLMN, TAC: 0x0bd9},
		ECGI: &ECGI{PLMN: testPLMN, ECI: 28983298},
	}
	expected.PCO = NewPCO(
		ConfigurationOption{ID: ProtocolIPCP, Contents: fromHex(t, "01 00 00 10 81 06 00 00 00 00 83 06 00 00 00 00")},
		ConfigurationOption{ID: ContainerDNSServerIPv4Request, Contents: []byte{}},
		ConfigurationOption{ID: ContainerDNSServerIPv6Request, Contents: []byte{}},
		ConfigurationOption{ID: ContainerIPAddressViaNAS, Contents: []byte{}},
		ConfigurationOption{ID: ContainerMSSupportNWReqBearer, Contents: []byte{}},
		ConfigurationOption{ID: ContainerIPv4LinkMTURequest, Contents: []byte{}},
	)
	expected.OverloadControlInformation = testOverloadControlInformation()
	expected.SenderFTEIDControlPlane = &FTEID{
		Ins:           2,
		InterfaceType: InterfaceS5S8SGWGTPC,
		TEID:          0x06d1824c,
		IPv4:          netip.MustParseAddr("193.254.139.45"),
	}

	b, err := Marshal(expected)
	require.NoError(t, err)
	assert.Equal(t, encoded, b)

	m, err := Parse(encoded)
	require.NoError(t, err)
	require.IsType(t, &BearerResourceCommand{}, m)
	assert.Equal(t, expected, m)
}

func TestCreateBearerResponse(t *testing.T) {
	encoded := fromHex(t, createBearerResponseHex)
	require.Len(t, encoded, 109)

	expected := NewCreateBearerResponse(0x0909a456, 0x2f, CauseRequestAccepted)
	expected.BearerContexts = []*BearerContext{{
		Cause: &Cause{Value: CauseRequestAccepted},
		EBI:   EPSBearerID{Value: 5},
		FTEIDs: []*FTEID{{
			Ins:           2,
			InterfaceType: InterfaceS5S8PGWGTPU,
			TEID:          0x3b95985a,
			IPv4:          netip.MustParseAddr("62.153.137.85"),
		}},
		BearerQoS:  &BearerQoS{PriorityLevel: 11, QCI: 9},
		ChargingID: &ChargingID{Value: 23239876},
	}}
	expected.Recovery = &Recovery{RestartCounter: 17}
	expected.PCO = &PCO{Octets{Data: fromHex(t, "80 80 21 10 02 00 00 10 81 06 08 08 08 08 83 06 0a 40 d0 61")}}

	b, err := Marshal(expected)
	require.NoError(t, err)
	assert.Equal(t, encoded, b)

	var decoded CreateBearerResponse
	require.NoError(t, Unmarshal(encoded, &decoded))
	assert.Equal(t, expected, &decoded)
}

func TestCreateBearerResponse_MissingBearerContext(t *testing.T) {
	m := NewCreateBearerResponse(1, 1, CauseRequestAccepted)
	b, err := Marshal(m)
	require.NoError(t, err)

	var missing *MandatoryIEMissingError
	err = Unmarshal(b, &CreateBearerResponse{})
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, IEBearerContext, missing.Type)
}

func TestDeleteBearerResponse(t *testing.T) {
	m := NewDeleteBearerResponse(0x01020304, 0x10, CauseRequestAccepted)
	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, fromHex(t, "48 64 00 0e 01 02 03 04 00 00 10 00 02 00 02 00 10 00"), b)

	var decoded DeleteBearerResponse
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, m, &decoded)

	m.LinkedEBI = &EPSBearerID{Value: 5}
	m.BearerContexts = []*BearerContext{
		{EBI: EPSBearerID{Value: 6}, Cause: &Cause{Value: CauseRequestAccepted}},
		{EBI: EPSBearerID{Value: 7}, Cause: &Cause{Value: CauseContextNotFound}},
	}
	m.TWANIdentifierTimestamp = &TWANIdentifierTimestamp{Timestamp: 1}
	m.WLANLocationTimestamp = &TWANIdentifierTimestamp{Ins: 1, Timestamp: 2}
	m.MMEIdentifier = &IPAddress{Address: netip.MustParseAddr("192.0.2.10")}
	m.UELocalIPAddress = &IPAddress{Ins: 1, Address: netip.MustParseAddr("2001:db8::10")}
	m.UEUDPPort = &PortNumber{Port: 4500}
	m.UETCPPort = &PortNumber{Ins: 1, Port: 443}
	m.FQCSIDs.SGW = &FQCSID{Ins: 1, NodeIDType: NodeIDIPv4, NodeID: []byte{192, 0, 2, 1}, CSIDs: []uint16{1, 2}}
	m.SecondaryRATUsageDataReports = []*SecondaryRATUsageDataReport{{EBI: 6, UsageDownlink: 1000, UsageUplink: 10}}
	m.PrivateExtensions = []*PrivateExtension{{EnterpriseID: 0x0aff, Value: []byte{0x01}}}

	b, err = Marshal(m)
	require.NoError(t, err)
	decoded = DeleteBearerResponse{}
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, m, &decoded)
}

func TestCreateBearerRequest(t *testing.T) {
	encoded := fromHex(t, `
		48 5f 00 30 09 09 a4 56 00 00 30 00
		49 00 01 00 05
		5d 00 1f 00
		49 00 01 00 00
		50 00 16 00 2c 09 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00`)

	expected := NewCreateBearerRequest(0x0909a456, 0x30, 5, &BearerContext{BearerQoS: &BearerQoS{PriorityLevel: 11, QCI: 9}})
	b, err := Marshal(expected)
	require.NoError(t, err)
	assert.Equal(t, encoded, b)

	m, err := Parse(encoded)
	require.NoError(t, err)
	require.IsType(t, &CreateBearerRequest{}, m)
	assert.Equal(t, expected, m)

	expected.PTI = &PTI{Value: 0xff}
	expected.FQCSIDs.PGW = &FQCSID{NodeIDType: NodeIDIPv4, NodeID: []byte{192, 0, 2, 30}, CSIDs: []uint16{1}}
	expected.OverloadControlInformation = testOverloadControlInformation()
	expected.PrivateExtensions = []*PrivateExtension{{EnterpriseID: 0x0aff, Value: []byte{0x01}}}
	b, err = Marshal(expected)
	require.NoError(t, err)
	var decoded CreateBearerRequest
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, expected, &decoded)
}

func TestCreateBearerRequest_MandatoryIEMissing(t *testing.T) {
	tests := []struct {
		name     string
		ies      []IE
		expected IEType
	}{
		{
			name:     "Linked EBI only present at instance 1",
			ies:      []IE{&EPSBearerID{Ins: 1, Value: 5}, &BearerContext{EBI: EPSBearerID{Value: 6}}},
			expected: IEEPSBearerID,
		},
		{
			name:     "Bearer context missing",
			ies:      []IE{&EPSBearerID{Value: 5}},
			expected: IEBearerContext,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Marshal(&UnknownMessage{Header: newHeader(MessageTypeCreateBearerRequest, 1, 1), IEList: tt.ies})
			require.NoError(t, err)

			var missing *MandatoryIEMissingError
			require.True(t, errors.As(Unmarshal(b, &CreateBearerRequest{}), &missing))
			assert.Equal(t, tt.expected, missing.Type)
		})
	}
}

func TestDeleteBearerRequest(t *testing.T) {
	m := NewDeleteBearerRequest(0x01020304, 0x11, 6, 7)
	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, fromHex(t, "48 63 00 12 01 02 03 04 00 00 11 00 49 00 01 01 06 49 00 01 01 07"), b)

	var decoded DeleteBearerRequest
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, m, &decoded)

	pdn := NewDeleteBearerRequest(0x01020304, 0x12)
	pdn.LinkedEBI = &EPSBearerID{Value: 5}
	pdn.Cause = &Cause{Value: CauseReactivationRequested}
	pdn.FailedBearerContexts = []*BearerContext{{EBI: EPSBearerID{Value: 6}, Cause: &Cause{Value: CauseContextNotFound}}}
	pdn.FQCSIDs.SGW = &FQCSID{Ins: 1, NodeIDType: NodeIDIPv4, NodeID: []byte{192, 0, 2, 20}, CSIDs: []uint16{2}}
	b, err = Marshal(pdn)
	require.NoError(t, err)
	decoded = DeleteBearerRequest{}
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, pdn, &decoded)
}

func TestEcho(t *testing.T) {
	req := NewEchoRequest(0x1234, 5)
	b, err := Marshal(req)
	require.NoError(t, err)
	assert.Equal(t, fromHex(t, "40 01 00 09 00 12 34 00 03 00 01 00 05"), b)
	assert.Equal(t, uint16(9), req.Header.Length)

	m, err := Parse(b)
	require.NoError(t, err)
	assert.Equal(t, req, m)

	resp := NewEchoResponse(req, 7)
	resp.SendingNodeFeatures = &NodeFeatures{Features: 0x01}
	b, err = Marshal(resp)
	require.NoError(t, err)
	assert.Equal(t, fromHex(t, "40 02 00 0e 00 12 34 00 03 00 01 00 07 98 00 01 00 01"), b)

	var decoded EchoResponse
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, resp, &decoded)
}

func TestVersionNotSupportedIndication(t *testing.T) {
	b, err := Marshal(NewVersionNotSupportedIndication(1))
	require.NoError(t, err)
	assert.Equal(t, fromHex(t, "40 03 00 04 00 00 01 00"), b)

	m, err := Parse(b)
	require.NoError(t, err)
	assert.IsType(t, &VersionNotSupportedIndication{}, m)
}

func TestUnmarshal_MandatoryIEMissing(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected IEType
	}{
		{
			name:     "Cause missing",
			input:    "48 45 00 12 00 00 00 00 00 00 68 00 49 00 01 00 05 64 00 01 00 ff",
			expected: IECause,
		},
		{
			name:     "Only PTI present reports the first missing IE",
			input:    "48 45 00 0d 00 00 00 00 00 00 68 00 64 00 01 00 ff",
			expected: IECause,
		},
		{
			name:     "PTI missing",
			input:    "48 45 00 13 00 00 00 00 00 00 68 00 02 00 02 00 4d 00 49 00 01 00 05",
			expected: IEProcedureTransactionID,
		},
		{
			name:     "Linked EBI only present at instance 1",
			input:    "48 45 00 18 00 00 00 00 00 00 68 00 02 00 02 00 4d 00 49 00 01 01 05 64 00 01 00 ff",
			expected: IEEPSBearerID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &BearerResourceFailureInd{}
			err := Unmarshal(fromHex(t, tt.input), m)
			require.ErrorIs(t, err, ErrMandatoryIEMissing)

			var missing *MandatoryIEMissingError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.expected, missing.Type)
			assert.Equal(t, &BearerResourceFailureInd{}, m, "message must be left untouched")
		})
	}
}

func TestUnmarshal_UnknownIEIgnored(t *testing.T) {
	encoded := fromHex(t, bearerResourceFailureIndHex)
	withUnknown := append([]byte{}, encoded[:18]...)
	withUnknown = append(withUnknown, 0xfa, 0x00, 0x01, 0x00, 0x99)
	withUnknown = append(withUnknown, encoded[18:]...)
	withUnknown[3] += 5

	var decoded BearerResourceFailureInd
	require.NoError(t, Unmarshal(withUnknown, &decoded))
	assert.Equal(t, uint8(77), decoded.Cause.Value)
	assert.Len(t, decoded.OverloadControlInformation, 2)

	b, err := Marshal(&decoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, b)
}

func TestUnmarshal_InstanceRouting(t *testing.T) {
	fteid := func(ins uint8, teid uint32) *FTEID {
		return &FTEID{Ins: ins, InterfaceType: InterfaceS5S8SGWGTPC, TEID: teid, IPv4: netip.MustParseAddr("192.0.2.1")}
	}
	overload := testOverloadControlInformation()
	dropped := *overload[1]
	dropped.Ins = 2

	m := NewBearerResourceCommand(1, 2, 5, 1)
	ies := []IE{
		&m.LinkedEBI, &m.PTI,
		&EPSBearerID{Ins: 1, Value: 6},
		&EPSBearerID{Ins: 0, Value: 9},
		fteid(3, 4), fteid(2, 3), fteid(1, 2), fteid(0, 1), fteid(0, 99),
		overload[0], &dropped, overload[1],
		&Recovery{RestartCounter: 1},
	}
	b, err := Marshal(&UnknownMessage{Header: m.Header, IEList: ies})
	require.NoError(t, err)

	var decoded BearerResourceCommand
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, uint8(5), decoded.LinkedEBI.Value)
	require.NotNil(t, decoded.EBI)
	assert.Equal(t, uint8(6), decoded.EBI.Value)
	assert.Equal(t, uint32(1), decoded.S4USGSNFTEID.TEID)
	assert.Equal(t, uint32(2), decoded.S12RNCFTEID.TEID)
	assert.Equal(t, uint32(3), decoded.SenderFTEIDControlPlane.TEID)
	assert.Equal(t, overload, decoded.OverloadControlInformation)
}

func TestUnmarshal_Errors(t *testing.T) {
	encoded := fromHex(t, bearerResourceFailureIndHex)

	t.Run("Incorrect message type", func(t *testing.T) {
		err := Unmarshal(encoded, &CreateBearerResponse{})
		assert.ErrorIs(t, err, ErrIncorrectMessageType)
	})
	t.Run("IE length beyond message", func(t *testing.T) {
		corrupted := append([]byte{}, encoded...)
		corrupted[14] = 0x7f
		assert.ErrorIs(t, Unmarshal(corrupted, &BearerResourceFailureInd{}), ErrInvalidLength)
		_, err := Parse(corrupted)
		assert.ErrorIs(t, err, ErrInvalidLength)
	})
	t.Run("Message length beyond buffer", func(t *testing.T) {
		_, err := Parse(encoded[:len(encoded)-1])
		assert.ErrorIs(t, err, ErrInvalidMessageFormat)
	})
	t.Run("Trailing bytes are ignored", func(t *testing.T) {
		var m BearerResourceFailureInd
		assert.NoError(t, Unmarshal(append(append([]byte{}, encoded...), 0x00, 0x00), &m))
	})
}

func TestParse_UnknownMessage(t *testing.T) {
	encoded := fromHex(t, "48 c8 00 0d 00 00 00 01 00 00 02 00 fa 00 01 00 99")
	m, err := Parse(encoded)
	require.NoError(t, err)
	require.IsType(t, &UnknownMessage{}, m)
	assert.Equal(t, MessageType(200), m.MessageType())
	assert.Equal(t, "Unknown Message (200)", m.MessageType().String())
	require.Len(t, m.IEs(), 1)

	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, encoded, b)
}

func TestMessage_MarshalLogObject(t *testing.T) {
	m := NewBearerResourceFailureInd(0, 0x68, CauseSyntacticErrorsInPacketFilter, 5, 0xff)
	m.OverloadControlInformation = testOverloadControlInformation()

	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, m.MarshalLogObject(enc))
	assert.Contains(t, enc.Fields, "header")
	assert.Contains(t, enc.Fields, "cause")
	assert.Contains(t, enc.Fields, "overloadControlInformation")
	assert.NotContains(t, enc.Fields, "recovery")
	assert.Len(t, enc.Fields["overloadControlInformation"], 2)
}
