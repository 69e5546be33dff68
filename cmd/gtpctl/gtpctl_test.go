// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nttcom/gtp/internal/pkg/version"
	"github.com/nttcom/gtp/pkg/server"
)

func uint8Ptr(v uint8) *uint8 {
	return &v
}

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    InputFormat
		expected string
	}{
		{
			name:     "GTP-C Echo Request",
			input:    InputFormat{Plane: "c", Message: "echoRequest", Sequence: 1, RestartCounter: 5},
			expected: "40010009000001000300010005",
		},
		{
			name:     "GTP-C Delete Session Request",
			input:    InputFormat{Plane: "c", Message: "deleteSessionRequest", TEID: 0x01020304, Sequence: 16, LinkedEBI: 5},
			expected: "4824000d0102030400001000" + "4900010005",
		},
		{
			name:     "GTP-C Delete Session Response",
			input:    InputFormat{Plane: "c", Message: "deleteSessionResponse", TEID: 0x01020304, Sequence: 16, Cause: 16},
			expected: "4825000e0102030400001000" + "020002001000",
		},
		{
			name:     "GTP-U Echo Request",
			input:    InputFormat{Plane: "u", Message: "echoRequest", Sequence: 42},
			expected: "320100040000000000" + "2a0000",
		},
		{
			name:     "G-PDU with QFI",
			input:    InputFormat{Plane: "u", Message: "gpdu", TEID: 1, QFI: uint8Ptr(9), Payload: "4500"},
			expected: "34ff000a00000001000000850110090045" + "00",
		},
		{
			name:     "End Marker",
			input:    InputFormat{Plane: "gtpu", Message: "endMarker", TEID: 16},
			expected: "30fe000000000010",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := buildMessage(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hex.EncodeToString(b))
		})
	}
}

func TestBuildMessage_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input InputFormat
	}{
		{name: "Unknown plane", input: InputFormat{Plane: "x", Message: "echoRequest"}},
		{name: "Unknown GTP-C message", input: InputFormat{Plane: "c", Message: "createSession"}},
		{name: "Unknown GTP-U message", input: InputFormat{Plane: "u", Message: "createSession"}},
		{name: "Invalid peer", input: InputFormat{Plane: "u", Message: "errorIndication", Peer: "::zz"}},
		{name: "Invalid payload", input: InputFormat{Plane: "u", Message: "gpdu", Payload: "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildMessage(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestEncodeMessage_UnknownShowsExample(t *testing.T) {
	var out bytes.Buffer
	err := encodeMessage(&out, InputFormat{Plane: "c", Message: "createSession"}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnknownMessage)
	assert.Contains(t, err.Error(), "input example is below")
	assert.Empty(t, out.String())
}

func TestDecodeMessage(t *testing.T) {
	data, err := hex.DecodeString("34ff000a00000001000000850110090045" + "00")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, decodeMessage(&out, server.PlaneUser, data, true))
	assert.Contains(t, out.String(), `"plane":"gtpu"`)
	assert.Contains(t, out.String(), `"type":"G-PDU"`)
	assert.Contains(t, out.String(), `"container":"1009"`)

	out.Reset()
	require.NoError(t, decodeMessage(&out, server.PlaneUser, data, false))
	assert.Contains(t, out.String(), "type: G-PDU")

	assert.Error(t, decodeMessage(&out, server.PlaneControl, data, false))
}

func TestEncodeCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "message.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plane: u\nmessage: endMarker\nteid: 16\n"), 0o644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"encode", "-f", path})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "30fe000000000010\n", out.String())
}

func TestDecodeCmd(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"decode", "--plane", "u", "30fe0000", "00000010"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "End Marker")
}

func TestVersionFlag(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "gtpctl version "+version.Version())
}
