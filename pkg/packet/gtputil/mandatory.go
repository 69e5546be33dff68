// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtputil

// MandatoryIEs tracks which mandatory IEs of a message or grouped IE have
// been seen. Slot i refers to the i-th type given to NewMandatoryIEs; that
// order is the order in which missing IEs are reported.
type MandatoryIEs[T ~uint8] struct {
	types []T
	taken uint32
}

// NewMandatoryIEs supports up to 32 slots.
func NewMandatoryIEs[T ~uint8](types ...T) MandatoryIEs[T] {
	if len(types) > 32 {
		panic("gtputil: too many mandatory IEs")
	}
	return MandatoryIEs[T]{types: types}
}

// Take marks slot i and reports whether this is its first occurrence.
func (m *MandatoryIEs[T]) Take(i int) bool {
	bit := uint32(1) << i
	if IsBitSet(m.taken, bit) {
		return false
	}
	m.taken |= bit
	return true
}

// Missing returns the first mandatory IE that was never taken.
func (m *MandatoryIEs[T]) Missing() (T, bool) {
	for i, t := range m.types {
		if !IsBitSet(m.taken, uint32(1)<<i) {
			return t, true
		}
	}
	var zero T
	return zero, false
}
