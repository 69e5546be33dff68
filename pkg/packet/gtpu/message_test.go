// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpu

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    Message
		expected string
	}{
		{
			name:     "Echo Request",
			input:    NewEchoRequest(42),
			expected: "32 01 00 04 00 00 00 00 00 2a 00 00",
		},
		{
			name:     "Echo Response",
			input:    NewEchoResponse(NewEchoRequest(42)),
			expected: "32 02 00 06 00 00 00 00 00 2a 00 00 0e 00",
		},
		{
			name:  "Error Indication with UDP Port",
			input: NewErrorIndication(7, 0x11223344, netip.MustParseAddr("192.0.2.1"), 2152),
			expected: "36 1a 00 14 00 00 00 00 00 07 00 40 01 08 68 00" +
				"10 11 22 33 44 85 00 04 c0 00 02 01",
		},
		{
			name:     "Supported Extension Headers Notification",
			input:    NewSupportedExtensionHeadersNotification(3, ExtensionHeaderUDPPort, ExtensionHeaderPDUSessionContainer),
			expected: "32 1f 00 08 00 00 00 00 00 03 00 00 8d 02 40 85",
		},
		{
			name:     "End Marker",
			input:    NewEndMarker(0x10),
			expected: "30 fe 00 00 00 00 00 10",
		},
		{
			name:     "G-PDU with PDU Session Container",
			input:    NewGPDU(1, []byte{0x45, 0x00}, NewPDUSessionContainer(PDUTypeULPDUSessionInformation, 9)),
			expected: "34 ff 00 0a 00 00 00 01 00 00 00 85 01 10 09 00 45 00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Marshal(tt.input)
			require.NoError(t, err)
			expected := fromHex(t, tt.expected)
			assert.Equal(t, expected, b)
			assert.Equal(t, uint16(len(expected)-HeaderLength), tt.input.MessageHeader().Length)

			m, err := Parse(b)
			require.NoError(t, err)
			assert.Equal(t, tt.input, m)
		})
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   Message
		err   error
	}{
		{
			name:  "Echo Response without Recovery",
			input: "32 02 00 04 00 00 00 00 00 01 00 00",
			msg:   &EchoResponse{},
			err:   ErrMandatoryIEMissing,
		},
		{
			name:  "Error Indication without peer address",
			input: "32 1a 00 09 00 00 00 00 00 01 00 00 10 00 00 00 01",
			msg:   &ErrorIndication{},
			err:   ErrMandatoryIEMissing,
		},
		{
			name:  "Notification without type list",
			input: "32 1f 00 04 00 00 00 00 00 01 00 00",
			msg:   &SupportedExtensionHeadersNotification{},
			err:   ErrMandatoryIEMissing,
		},
		{
			name:  "Incorrect message type",
			input: "32 01 00 04 00 00 00 00 00 2a 00 00",
			msg:   &EchoResponse{},
			err:   ErrIncorrectMessageType,
		},
		{
			name:  "Unknown TV IE",
			input: "32 01 00 06 00 00 00 00 00 01 00 00 05 00",
			msg:   &EchoRequest{},
			err:   ErrMalformedIE,
		},
		{
			name:  "Truncated IE",
			input: "32 1a 00 08 00 00 00 00 00 01 00 00 85 00 04 c0",
			msg:   &ErrorIndication{},
			err:   ErrInvalidLength,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Unmarshal(fromHex(t, tt.input), tt.msg), tt.err)
		})
	}
}

func TestUnmarshal_LeavesMessageOnFailure(t *testing.T) {
	m := NewErrorIndication(1, 2, netip.MustParseAddr("192.0.2.1"), 0)
	before := *m
	err := Unmarshal(fromHex(t, "32 1a 00 09 00 00 00 00 00 01 00 00 10 00 00 00 01"), m)

	var missing *MandatoryIEMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, IEGSNAddress, missing.Type)
	assert.Equal(t, before, *m)
}

func TestErrorIndication_MandatoryIEs(t *testing.T) {
	t.Run("First occurrence wins", func(t *testing.T) {
		input := "32 1a 00 1c 00 00 00 00 00 01 00 00" +
			"10 00 00 00 01 10 00 00 00 02" +
			"85 00 04 c0 00 02 01 85 00 04 c0 00 02 02"
		var m ErrorIndication
		require.NoError(t, Unmarshal(fromHex(t, input), &m))
		assert.Equal(t, uint32(1), m.TEIDDataI.TEID)
		assert.Equal(t, netip.MustParseAddr("192.0.2.1"), m.PeerAddress.Address)
	})
	t.Run("Missing IEs reported in declaration order", func(t *testing.T) {
		err := Unmarshal(fromHex(t, "32 1a 00 0b 00 00 00 00 00 01 00 00 85 00 04 c0 00 02 01"), &ErrorIndication{})
		var missing *MandatoryIEMissingError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, IETEIDDataI, missing.Type)
	})
}

func TestParse_UnknownTLVIgnored(t *testing.T) {
	m, err := Parse(fromHex(t, "32 01 00 08 00 00 00 00 00 01 00 00 c8 00 01 aa"))
	require.NoError(t, err)
	req, ok := m.(*EchoRequest)
	require.True(t, ok)
	assert.Nil(t, req.PrivateExtension)
	assert.Equal(t, uint16(1), req.Header.SequenceNumber)
}

func TestParse_UnknownMessage(t *testing.T) {
	input := fromHex(t, "30 05 00 02 00 00 00 00 ab cd")
	m, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, &UnknownMessage{Header: Header{Type: 5, Length: 2}, Body: []byte{0xab, 0xcd}}, m)

	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, input, b)
}

func TestParse_KeepsExtensionFlagOfEmptyChain(t *testing.T) {
	input := fromHex(t, "36 ff 00 06 00 00 00 01 00 07 00 00 ab cd")
	m, err := Parse(input)
	require.NoError(t, err)
	gpdu, ok := m.(*GPDU)
	require.True(t, ok)
	assert.True(t, gpdu.Header.HasExtensionHeaders)
	assert.Empty(t, gpdu.Header.ExtensionHeaders)
	assert.Equal(t, []byte{0xab, 0xcd}, gpdu.Payload)

	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, input, b)
}

func TestParse_IgnoresBytesBeyondLength(t *testing.T) {
	m, err := Parse(fromHex(t, "30 ff 00 02 00 00 00 01 45 00 ff ff"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x45, 0x00}, m.(*GPDU).Payload)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(fromHex(t, "30 ff 00"))
	assert.ErrorIs(t, err, ErrInvalidMessageFormat)

	_, err = Parse(fromHex(t, "32 02 00 04 00 00 00 00 00 01 00 00"))
	assert.ErrorIs(t, err, ErrMandatoryIEMissing)
	assert.Contains(t, err.Error(), "Echo Response")
}

func TestSupportedExtensionHeadersNotification_Supports(t *testing.T) {
	m := NewSupportedExtensionHeadersNotification(1, ExtensionHeaderPDUSessionContainer)
	assert.True(t, m.Supports(ExtensionHeaderPDUSessionContainer))
	assert.False(t, m.Supports(ExtensionHeaderRANContainer))
}

func TestMessage_MarshalLogObject(t *testing.T) {
	m := NewErrorIndication(7, 0x11223344, netip.MustParseAddr("192.0.2.1"), 0)
	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, m.MarshalLogObject(enc))
	assert.Contains(t, enc.Fields, "header")
	assert.Equal(t, map[string]interface{}{"teid": uint32(0x11223344)}, enc.Fields["teidDataI"])
	assert.Equal(t, map[string]interface{}{"address": "192.0.2.1"}, enc.Fields["peerAddress"])
	assert.NotContains(t, enc.Fields, "privateExtension")
}
