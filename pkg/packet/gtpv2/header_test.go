// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// fromHex decodes a hex dump, ignoring white space.
func fromHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	require.NoError(t, err)
	return b
}

func TestHeader_DecodeFromBytes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Header
	}{
		{
			name:  "TEID present",
			input: "48 45 00 08 00 00 00 00 00 00 68 00",
			expected: Header{
				Type:           MessageTypeBearerResourceFailureInd,
				HasTEID:        true,
				Length:         8,
				SequenceNumber: 0x68,
			},
		},
		{
			name:  "No TEID",
			input: "40 01 00 04 12 34 56 00",
			expected: Header{
				Type:           MessageTypeEchoRequest,
				Length:         4,
				SequenceNumber: 0x123456,
			},
		},
		{
			name:  "Piggyback and message priority",
			input: "5c 60 00 08 11 22 33 44 00 00 01 50",
			expected: Header{
				Type:           MessageTypeCreateBearerResponse,
				Piggyback:      true,
				HasTEID:        true,
				TEID:           0x11223344,
				HasPriority:    true,
				Priority:       5,
				Length:         8,
				SequenceNumber: 1,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := fromHex(t, tt.input)
			var h Header
			require.NoError(t, h.DecodeFromBytes(input))
			assert.Equal(t, tt.expected, h)
			assert.Equal(t, input, h.Serialize())
			assert.Equal(t, len(input), h.Len())
		})
	}
}

func TestHeader_DecodeFromBytes_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Truncated", input: "48 45 00 08 00 00"},
		{name: "GTPv1 header", input: "30 ff 00 04 00 00 00 01"},
		{name: "TEID flag without room for TEID", input: "48 45 00 04 00 00 00 00"},
		{name: "Declared length beyond buffer", input: "48 45 00 10 00 00 00 00 00 00 68 00"},
		{name: "Declared length shorter than header", input: "48 45 00 04 00 00 00 00 00 00 68 00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h Header
			assert.ErrorIs(t, h.DecodeFromBytes(fromHex(t, tt.input)), ErrInvalidMessageFormat)
		})
	}
}

func TestHeader_MarshalLogObject(t *testing.T) {
	h := Header{Type: MessageTypeEchoRequest, Length: 9, SequenceNumber: 7}
	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, h.MarshalLogObject(enc))
	assert.Equal(t, map[string]interface{}{
		"type":           "Echo Request",
		"length":         uint16(9),
		"sequenceNumber": uint32(7),
	}, enc.Fields)
}
