// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtputil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFits(t *testing.T) {
	data := make([]byte, 8)
	tests := []struct {
		name     string
		offset   int
		length   int
		expected bool
	}{
		{name: "Whole buffer", offset: 0, length: 8, expected: true},
		{name: "Empty span at end", offset: 8, length: 0, expected: true},
		{name: "One byte past end", offset: 4, length: 5, expected: false},
		{name: "Offset past end", offset: 9, length: 0, expected: false},
		{name: "Negative length", offset: 0, length: -1, expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fits(data, tt.offset, tt.length))
		})
	}
}

func TestAppendByteSlices(t *testing.T) {
	tests := []struct {
		name     string
		input    [][]byte
		expected []byte
	}{
		{
			name:     "Concatenate non-empty slices",
			input:    [][]byte{{0x01, 0x02}, {0x03, 0x04, 0x05}},
			expected: []byte{0x01, 0x02, 0x03, 0x04, 0x05},
		},
		{
			name:     "Concatenate empty slices",
			input:    [][]byte{{}, {}},
			expected: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AppendByteSlices(tt.input...)
			if !bytes.Equal(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestPatchUint16(t *testing.T) {
	b := []byte{0x48, 0x45, 0x00, 0x00, 0xaa}
	PatchUint16(b, 2, 0x0044)
	assert.Equal(t, []byte{0x48, 0x45, 0x00, 0x44, 0xaa}, b)
}

func TestUint24(t *testing.T) {
	b := AppendUint24(nil, 0x12345678)
	assert.Equal(t, []byte{0x34, 0x56, 0x78}, b)
	assert.Equal(t, uint32(0x345678), Uint24(b))
}

func TestUint40(t *testing.T) {
	b := AppendUint40(nil, 0x0102030405)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05}, b)
	assert.Equal(t, uint64(0x0102030405), Uint40(b))
}

func TestUint16ToByteSlice(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x02}, Uint16ToByteSlice(uint16(0x0102)))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, Uint32ToByteSlice(0xffffffff))
}

func TestSetBit(t *testing.T) {
	tests := []struct {
		name      string
		value     uint8
		bit       uint8
		condition bool
		expected  uint8
	}{
		{name: "Set when condition holds", value: 0x00, bit: 0x80, condition: true, expected: 0x80},
		{name: "Keep when condition fails", value: 0x01, bit: 0x80, condition: false, expected: 0x01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SetBit(tt.value, tt.bit, tt.condition)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.condition, IsBitSet(got, tt.bit))
		})
	}
}
