// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestHeader_DecodeFromBytes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Header
	}{
		{
			name:     "Mandatory part only",
			input:    "30 ff 00 00 00 00 00 01",
			expected: Header{Type: MessageTypeGPDU, TEID: 1},
		},
		{
			name:  "Sequence number",
			input: "32 01 00 04 00 00 00 00 00 2a 00 00",
			expected: Header{
				Type:              MessageTypeEchoRequest,
				Length:            4,
				HasSequenceNumber: true,
				SequenceNumber:    42,
			},
		},
		{
			name:  "N-PDU number",
			input: "31 ff 00 04 00 00 00 02 00 00 07 00",
			expected: Header{
				Type:          MessageTypeGPDU,
				Length:        4,
				TEID:          2,
				HasNPDUNumber: true,
				NPDUNumber:    7,
			},
		},
		{
			name:  "Extension headers",
			input: "34 ff 00 08 00 00 00 01 00 00 00 85 01 10 09 00",
			expected: Header{
				Type:                MessageTypeGPDU,
				Length:              8,
				TEID:                1,
				HasExtensionHeaders: true,
				ExtensionHeaders:    []ExtensionHeader{&PDUSessionContainer{Container: []byte{0x10, 0x09}}},
			},
		},
		{
			name:  "E flag with an empty chain",
			input: "34 ff 00 04 00 00 00 01 00 00 00 00",
			expected: Header{
				Type:                MessageTypeGPDU,
				Length:              4,
				TEID:                1,
				HasExtensionHeaders: true,
			},
		},
		{
			name:  "E and S flags with an empty chain",
			input: "36 ff 00 04 00 00 00 01 00 07 00 00",
			expected: Header{
				Type:                MessageTypeGPDU,
				Length:              4,
				TEID:                1,
				HasSequenceNumber:   true,
				SequenceNumber:      7,
				HasExtensionHeaders: true,
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
		err   error
	}{
		{
			name:  "Truncated",
			input: "30 ff 00",
			err:   ErrInvalidMessageFormat,
		},
		{
			name:  "Wrong version",
			input: "50 ff 00 00 00 00 00 00",
			err:   ErrInvalidMessageFormat,
		},
		{
			name:  "GTP prime",
			input: "20 ff 00 00 00 00 00 00",
			err:   ErrInvalidMessageFormat,
		},
		{
			name:  "Length exceeds buffer",
			input: "30 ff 00 10 00 00 00 00",
			err:   ErrInvalidMessageFormat,
		},
		{
			name:  "Optional fields truncated",
			input: "32 01 00 02 00 00 00 00 00 01",
			err:   ErrInvalidMessageFormat,
		},
		{
			name:  "Zero length extension header",
			input: "34 ff 00 06 00 00 00 00 00 00 00 fa 00 00",
			err:   ErrInvalidLength,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h Header
			assert.ErrorIs(t, h.DecodeFromBytes(fromHex(t, tt.input)), tt.err)
			assert.Equal(t, Header{}, h)
		})
	}
}

func TestHeader_MarshalLogObject(t *testing.T) {
	h := Header{
		Type:              MessageTypeGPDU,
		TEID:              1,
		HasSequenceNumber: true,
		SequenceNumber:    9,
		ExtensionHeaders:  []ExtensionHeader{&UDPPort{Port: 2152}},
	}
	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, h.MarshalLogObject(enc))
	assert.Equal(t, "G-PDU", enc.Fields["type"])
	assert.Equal(t, uint32(1), enc.Fields["teid"])
	assert.Equal(t, uint16(9), enc.Fields["sequenceNumber"])
	assert.NotContains(t, enc.Fields, "npduNumber")
	assert.Len(t, enc.Fields["extensionHeaders"], 1)
}
