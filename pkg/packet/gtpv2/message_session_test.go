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
)

const createSessionRequestHex = `
	48 20 00 81 00 00 00 00 00 00 01 00
	01 00 08 00 00 01 01 21 43 65 87 f9
	53 00 03 00 62 f2 10
	52 00 01 00 06
	57 00 09 00 8a 0a 0b 0c 0d c0 00 02 01
	47 00 09 00 08 69 6e 74 65 72 6e 65 74
	80 00 01 00 00
	63 00 01 00 01
	4f 00 05 00 01 00 00 00 00
	7f 00 01 00 00
	48 00 08 00 00 00 c3 50 00 01 86 a0
	5d 00 1f 00
	49 00 01 00 05
	50 00 16 00 2c 09 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00`

func testBearerQoS() *BearerQoS {
	return &BearerQoS{PriorityLevel: 11, QCI: 9}
}

func testCreateSessionRequest() *CreateSessionRequest {
	sender := FTEID{
		InterfaceType: InterfaceS11MMEGTPC,
		TEID:          0x0a0b0c0d,
		IPv4:          netip.MustParseAddr("192.0.2.1"),
	}
	m := NewCreateSessionRequest(1, RATEUTRAN, sender, "internet",
		&BearerContext{EBI: EPSBearerID{Value: 5}, BearerQoS: testBearerQoS()})
	m.IMSI = &IMSI{Digits{Number: "001010123456789"}}
	m.ServingNetwork = &ServingNetwork{PLMN: testPLMN}
	m.SelectionMode = &SelectionMode{Mode: SelectionModeVerified}
	m.PDNType = &PDNType{PDN: PDNIPv4}
	m.PAA = &PAA{PDN: PDNIPv4, IPv4: netip.IPv4Unspecified()}
	m.MaximumAPNRestriction = &APNRestriction{}
	m.APNAMBR = &AMBR{Uplink: 50000, Downlink: 100000}
	return m
}

func TestCreateSessionRequest(t *testing.T) {
	encoded := fromHex(t, createSessionRequestHex)
	require.Len(t, encoded, 133)

	expected := testCreateSessionRequest()
	b, err := Marshal(expected)
	require.NoError(t, err)
	assert.Equal(t, encoded, b)

	m, err := Parse(encoded)
	require.NoError(t, err)
	require.IsType(t, &CreateSessionRequest{}, m)
	assert.Equal(t, expected, m)
	assert.Equal(t, "Create Session Request", m.MessageType().String())
}

func TestCreateSessionRequest_InstanceRouting(t *testing.T) {
	m := testCreateSessionRequest()
	m.MSISDN = &MSISDN{Digits{Number: "4915112345678"}}
	m.MEI = &MEI{Digits{Number: "3534900698733190"}}
	m.ULI = &ULI{TAI: &TAI{PLMN: testPLMN, TAC: 0x0bd9}}
	m.ULIForSGW = &ULI{Ins: 1, ECGI: &ECGI{PLMN: testPLMN, ECI: 28983298}}
	m.Indication = &Indication{Flags: []byte{0x00, 0x08}}
	m.PGWS5S8FTEIDControlPlane = &FTEID{
		Ins:           1,
		InterfaceType: InterfaceS5S8SGWGTPC,
		TEID:          0x11223344,
		IPv4:          netip.MustParseAddr("192.0.2.2"),
	}
	m.LinkedEBI = &EPSBearerID{Value: 5}
	m.BearerContextsToBeRemoved = []*BearerContext{{Ins: 1, EBI: EPSBearerID{Value: 6}}}
	m.Recovery = &Recovery{RestartCounter: 3}
	m.FQCSIDs.MME = &FQCSID{NodeIDType: NodeIDIPv4, NodeID: []byte{192, 0, 2, 1}, CSIDs: []uint16{7}}
	m.UETimeZone = &UETimeZone{TimeZone: 0x40, DaylightSavingTime: 1}
	m.ChargingCharacteristics = &ChargingCharacteristics{Value: 0x0800}
	m.UELocalIPAddress = &IPAddress{Address: netip.MustParseAddr("198.51.100.7")}
	m.UEUDPPort = &PortNumber{Port: 4500}
	m.HeNBLocalIPAddress = &IPAddress{Ins: 1, Address: netip.MustParseAddr("198.51.100.8")}
	m.HeNBUDPPort = &PortNumber{Ins: 1, Port: 2152}
	m.MMEIdentifier = &IPAddress{Ins: 2, Address: netip.MustParseAddr("192.0.2.10")}
	m.EPDGIPAddress = &IPAddress{Ins: 3, Address: netip.MustParseAddr("2001:db8::1")}
	m.OverloadControlInformation = testOverloadControlInformation()
	m.MaximumWaitTime = &EPCTimer{Unit: TimerUnit1Hour, Value: 2}
	m.WLANLocationTimestamp = &TWANIdentifierTimestamp{Timestamp: 1}
	m.UETCPPort = &PortNumber{Ins: 2, Port: 443}
	m.PrivateExtensions = []*PrivateExtension{{EnterpriseID: 0x0aff, Value: []byte{0x01}}}

	b, err := Marshal(m)
	require.NoError(t, err)

	var decoded CreateSessionRequest
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, m, &decoded)
}

func TestCreateSessionRequest_MandatoryIEMissing(t *testing.T) {
	sender := &FTEID{InterfaceType: InterfaceS11MMEGTPC, TEID: 1, IPv4: netip.MustParseAddr("192.0.2.1")}
	rat := &RATType{RAT: RATEUTRAN}
	apn := &AccessPointName{Name: "internet"}
	bearer := &BearerContext{EBI: EPSBearerID{Value: 5}}

	tests := []struct {
		name     string
		ies      []IE
		expected IEType
	}{
		{
			name:     "APN missing",
			ies:      []IE{rat, sender, bearer},
			expected: IEAccessPointName,
		},
		{
			name:     "RAT Type and APN missing reports RAT Type",
			ies:      []IE{sender, bearer},
			expected: IERATType,
		},
		{
			name:     "Sender F-TEID only present at instance 1",
			ies:      []IE{rat, &FTEID{Ins: 1, InterfaceType: InterfaceS5S8SGWGTPC, TEID: 2, IPv4: netip.MustParseAddr("192.0.2.2")}, apn, bearer},
			expected: IEFullyQualifiedTEID,
		},
		{
			name:     "Bearer context only present at instance 1",
			ies:      []IE{rat, sender, apn, &BearerContext{Ins: 1, EBI: EPSBearerID{Value: 5}}},
			expected: IEBearerContext,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Marshal(&UnknownMessage{Header: newHeader(MessageTypeCreateSessionRequest, 0, 1), IEList: tt.ies})
			require.NoError(t, err)

			m := &CreateSessionRequest{}
			err = Unmarshal(b, m)
			require.ErrorIs(t, err, ErrMandatoryIEMissing)

			var missing *MandatoryIEMissingError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.expected, missing.Type)
			assert.Equal(t, &CreateSessionRequest{}, m, "message must be left untouched")
		})
	}
}

func TestCreateSessionResponse(t *testing.T) {
	m := NewCreateSessionResponse(0x0a0b0c0d, 1, CauseRequestAccepted)
	m.SenderFTEIDControlPlane = &FTEID{InterfaceType: InterfaceS11S4SGWGTPC, TEID: 0x01020304, IPv4: netip.MustParseAddr("192.0.2.20")}
	m.PGWS5S8FTEIDControlPlane = &FTEID{Ins: 1, InterfaceType: 7, TEID: 0x05060708, IPv4: netip.MustParseAddr("192.0.2.30")}
	m.PAA = &PAA{
		PDN:        PDNIPv4v6,
		IPv6Prefix: netip.MustParsePrefix("2001:db8:1:2::/64"),
		IPv4:       netip.MustParseAddr("10.45.0.2"),
	}
	m.APNRestriction = &APNRestriction{}
	m.APNAMBR = &AMBR{Uplink: 50000, Downlink: 100000}
	m.BearerContextsCreated = []*BearerContext{{
		Cause:      &Cause{Value: CauseRequestAccepted},
		EBI:        EPSBearerID{Value: 5},
		BearerQoS:  testBearerQoS(),
		ChargingID: &ChargingID{Value: 23239876},
	}}
	m.BearerContextsMarkedForRemoval = []*BearerContext{{Ins: 1, EBI: EPSBearerID{Value: 6}}}
	m.ChargingGatewayAddress = &IPAddress{Address: netip.MustParseAddr("192.0.2.99")}
	m.FQCSIDs.PGW = &FQCSID{NodeIDType: NodeIDIPv4, NodeID: []byte{192, 0, 2, 30}, CSIDs: []uint16{1}}
	m.FQCSIDs.SGW = &FQCSID{Ins: 1, NodeIDType: NodeIDIPv4, NodeID: []byte{192, 0, 2, 20}, CSIDs: []uint16{2}}
	m.PGWBackOffTime = &EPCTimer{Unit: TimerUnit1Hour, Value: 1}
	m.OverloadControlInformation = testOverloadControlInformation()
	m.PDNConnectionChargingID = &ChargingID{Value: 1}

	b, err := Marshal(m)
	require.NoError(t, err)

	decoded, err := Parse(b)
	require.NoError(t, err)
	require.IsType(t, &CreateSessionResponse{}, decoded)
	assert.Equal(t, m, decoded)

	t.Run("Cause missing", func(t *testing.T) {
		var missing *MandatoryIEMissingError
		err := Unmarshal(fromHex(t, "48 21 00 0d 00 00 00 01 00 00 01 00 03 00 01 00 11"), &CreateSessionResponse{})
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, IECause, missing.Type)
	})
}

func TestModifyBearerRequest(t *testing.T) {
	m := NewModifyBearerRequest(0x01020304, 0x20, &BearerContext{
		EBI: EPSBearerID{Value: 5},
		FTEIDs: []*FTEID{{
			InterfaceType: 0,
			TEID:          0x00000100,
			IPv4:          netip.MustParseAddr("198.51.100.1"),
		}},
	})
	m.MEI = &MEI{Digits{Number: "3534900698733190"}}
	m.ULI = &ULI{TAI: &TAI{PLMN: testPLMN, TAC: 1}, ECGI: &ECGI{PLMN: testPLMN, ECI: 2}}
	m.RATType = &RATType{RAT: RATEUTRAN}
	m.SenderFTEIDControlPlane = &FTEID{InterfaceType: InterfaceS11MMEGTPC, TEID: 9, IPv4: netip.MustParseAddr("192.0.2.1")}
	m.DelayDownlinkPacketNotification = &DelayValue{Delay: 10}
	m.BearerContextsToBeRemoved = []*BearerContext{{Ins: 1, EBI: EPSBearerID{Value: 6}}}
	m.HeNBLocalIPAddress = &IPAddress{Ins: 1, Address: netip.MustParseAddr("198.51.100.8")}
	m.MMEIdentifier = &IPAddress{Ins: 2, Address: netip.MustParseAddr("192.0.2.10")}
	m.IMSI = &IMSI{Digits{Number: "001010123456789"}}
	m.ULIForSGW = &ULI{Ins: 1, TAI: &TAI{PLMN: testPLMN, TAC: 3}}
	m.SecondaryRATUsageDataReports = []*SecondaryRATUsageDataReport{{EBI: 5, UsageDownlink: 1000, UsageUplink: 10}}

	b, err := Marshal(m)
	require.NoError(t, err)

	var decoded ModifyBearerRequest
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, m, &decoded)

	t.Run("Empty request", func(t *testing.T) {
		empty := NewModifyBearerRequest(0x01020304, 0x21)
		b, err := Marshal(empty)
		require.NoError(t, err)
		assert.Equal(t, fromHex(t, "48 22 00 08 01 02 03 04 00 00 21 00"), b)

		var decoded ModifyBearerRequest
		require.NoError(t, Unmarshal(b, &decoded))
		assert.Equal(t, empty, &decoded)
	})
}

func TestModifyBearerResponse(t *testing.T) {
	m := NewModifyBearerResponse(0x01020304, 0x10, CauseRequestAccepted)
	m.MSISDN = &MSISDN{Digits{Number: "4915112345678"}}
	m.LinkedEBI = &EPSBearerID{Value: 5}

	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, fromHex(t, `
		48 23 00 1e 01 02 03 04 00 00 10 00
		02 00 02 00 10 00
		4c 00 07 00 94 51 11 32 54 76 f8
		49 00 01 00 05`), b)

	var decoded ModifyBearerResponse
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, m, &decoded)

	m.BearerContextsModified = []*BearerContext{{Cause: &Cause{Value: CauseRequestAccepted}, EBI: EPSBearerID{Value: 5}}}
	m.BearerContextsMarkedForRemoval = []*BearerContext{{Ins: 1, EBI: EPSBearerID{Value: 6}}}
	m.FQCSIDs.SGW = &FQCSID{Ins: 1, NodeIDType: NodeIDIPv4, NodeID: []byte{192, 0, 2, 20}, CSIDs: []uint16{2}}
	m.OverloadControlInformation = testOverloadControlInformation()

	b, err = Marshal(m)
	require.NoError(t, err)
	decoded = ModifyBearerResponse{}
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, m, &decoded)
}

func TestDeleteSessionRequest(t *testing.T) {
	m := NewDeleteSessionRequest(0x01020304, 0x10, 5)
	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, fromHex(t, "48 24 00 0d 01 02 03 04 00 00 10 00 49 00 01 00 05"), b)

	var decoded DeleteSessionRequest
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, m, &decoded)

	m.Cause = &Cause{Value: CauseRequestAccepted}
	m.ULI = &ULI{TAI: &TAI{PLMN: testPLMN, TAC: 1}}
	m.SenderFTEIDControlPlane = &FTEID{InterfaceType: InterfaceS11MMEGTPC, TEID: 9, IPv4: netip.MustParseAddr("192.0.2.1")}
	m.TWANIdentifierTimestamp = &TWANIdentifierTimestamp{Timestamp: 1}
	m.WLANLocationTimestamp = &TWANIdentifierTimestamp{Ins: 1, Timestamp: 2}
	m.UEUDPPort = &PortNumber{Port: 4500}
	m.UETCPPort = &PortNumber{Ins: 1, Port: 443}
	m.SecondaryRATUsageDataReports = []*SecondaryRATUsageDataReport{{EBI: 5, UsageDownlink: 1000, UsageUplink: 10}}

	b, err = Marshal(m)
	require.NoError(t, err)
	decoded = DeleteSessionRequest{}
	require.NoError(t, Unmarshal(b, &decoded))
	assert.Equal(t, m, &decoded)
}

func TestDeleteSessionResponse(t *testing.T) {
	m := NewDeleteSessionResponse(0x01020304, 0x10, CauseRequestAccepted)
	m.Recovery = &Recovery{RestartCounter: 17}
	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, fromHex(t, "48 25 00 13 01 02 03 04 00 00 10 00 02 00 02 00 10 00 03 00 01 00 11"), b)

	decoded, err := Parse(b)
	require.NoError(t, err)
	require.IsType(t, &DeleteSessionResponse{}, decoded)
	assert.Equal(t, m, decoded)

	t.Run("Cause missing", func(t *testing.T) {
		var missing *MandatoryIEMissingError
		err := Unmarshal(fromHex(t, "48 25 00 0d 01 02 03 04 00 00 10 00 03 00 01 00 11"), &DeleteSessionResponse{})
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, IECause, missing.Type)
	})
}
