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
)

func TestDecodeIEs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []IE
	}{
		{
			name:     "Recovery",
			input:    "0e 00",
			expected: []IE{&Recovery{}},
		},
		{
			name:     "TEID Data I",
			input:    "10 11 22 33 44",
			expected: []IE{&TEIDDataI{TEID: 0x11223344}},
		},
		{
			name:     "GTP-U Peer Address IPv4",
			input:    "85 00 04 c0 00 02 01",
			expected: []IE{&GSNAddress{Address: netip.MustParseAddr("192.0.2.1")}},
		},
		{
			name:     "GTP-U Peer Address IPv6",
			input:    "85 00 10 20 01 0d b8 00 00 00 00 00 00 00 00 00 00 00 01",
			expected: []IE{&GSNAddress{Address: netip.MustParseAddr("2001:db8::1")}},
		},
		{
			name:     "Extension Header Type List",
			input:    "8d 02 40 85",
			expected: []IE{&ExtensionHeaderTypeList{Types: []ExtensionHeaderType{ExtensionHeaderUDPPort, ExtensionHeaderPDUSessionContainer}}},
		},
		{
			name:     "Private Extension",
			input:    "ff 00 03 00 0a 01",
			expected: []IE{&PrivateExtension{ExtensionID: 10, Value: []byte{0x01}}},
		},
		{
			name:  "Unknown TLV between known IEs",
			input: "10 00 00 00 01 c8 00 01 aa 0e 00",
			expected: []IE{
				&TEIDDataI{TEID: 1},
				&UnknownIE{Typ: 0xc8, Value: []byte{0xaa}},
				&Recovery{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := fromHex(t, tt.input)
			ies, err := DecodeIEs(input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ies)
			assert.Equal(t, input, SerializeIEs(ies))
		})
	}
}

func TestDecodeIEs_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{
			name:  "Unknown TV type",
			input: "05 00",
			err:   ErrMalformedIE,
		},
		{
			name:  "Truncated TV",
			input: "10 00 00",
			err:   ErrInvalidLength,
		},
		{
			name:  "Truncated TLV header",
			input: "85 00",
			err:   ErrInvalidLength,
		},
		{
			name:  "TLV length exceeds buffer",
			input: "85 00 04 c0",
			err:   ErrInvalidLength,
		},
		{
			name:  "Peer address of five octets",
			input: "85 00 05 c0 00 02 01 01",
			err:   ErrMalformedIE,
		},
		{
			name:  "Private Extension without identifier",
			input: "ff 00 01 00",
			err:   ErrMalformedIE,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ies, err := DecodeIEs(fromHex(t, tt.input))
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, ies)
		})
	}
}

func TestIEType_String(t *testing.T) {
	assert.Equal(t, "TEID Data I (16)", IETEIDDataI.String())
	assert.Equal(t, "Unknown IE (200)", IEType(200).String())
}
