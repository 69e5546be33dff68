// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

// Package gtputil holds the length and bounds helpers shared by the GTP codecs.
package gtputil

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

// Fits reports whether length bytes starting at offset lie within data.
func Fits(data []byte, offset, length int) bool {
	if offset < 0 || length < 0 {
		return false
	}
	return offset <= len(data) && length <= len(data)-offset
}

// AppendByteSlices concatenates multiple byte slices into a single slice.
func AppendByteSlices(slices ...[]byte) []byte {
	totalLen := 0
	for _, s := range slices {
		totalLen += len(s)
	}

	result := make([]byte, totalLen)
	offset := 0
	for _, s := range slices {
		copy(result[offset:], s)
		offset += len(s)
	}

	return result
}

// Uint16ToByteSlice converts a uint16 based value to a big-endian byte slice.
func Uint16ToByteSlice[T ~uint16](v T) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(v))
	return b
}

// Uint32ToByteSlice converts a uint32 value to a big-endian byte slice.
func Uint32ToByteSlice(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// PatchUint16 overwrites the big-endian length field at offset once the
// bytes it describes have been written.
func PatchUint16(b []byte, offset int, v uint16) {
	binary.BigEndian.PutUint16(b[offset:offset+2], v)
}

// AppendUint24 appends the low 24 bits of v in network byte order.
func AppendUint24(b []byte, v uint32) []byte {
	return append(b, byte(v>>16), byte(v>>8), byte(v))
}

// Uint24 reads a 24-bit big-endian value. b must hold at least 3 bytes.
func Uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// AppendUint40 appends the low 40 bits of v in network byte order.
// Bit rates in QoS IEs are carried in 5 octets.
func AppendUint40(b []byte, v uint64) []byte {
	return append(b, byte(v>>32), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Uint40 reads a 40-bit big-endian value. b must hold at least 5 bytes.
func Uint40(b []byte) uint64 {
	return uint64(b[0])<<32 | uint64(b[1])<<24 | uint64(b[2])<<16 | uint64(b[3])<<8 | uint64(b[4])
}

// IsBitSet checks if any bit of mask is set in value.
func IsBitSet[T constraints.Unsigned](value, mask T) bool {
	return value&mask != 0
}

// SetBit sets bit in value when condition holds.
func SetBit[T constraints.Unsigned](value, bit T, condition bool) T {
	if condition {
		return value | bit
	}
	return value
}
