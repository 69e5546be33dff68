// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testIEType uint8

func TestMandatoryIEs(t *testing.T) {
	tests := []struct {
		name     string
		take     []int
		missing  bool
		expected testIEType
	}{
		{name: "Nothing taken", take: nil, missing: true, expected: 2},
		{name: "First missing in declaration order", take: []int{2}, missing: true, expected: 2},
		{name: "Second missing", take: []int{0}, missing: true, expected: 73},
		{name: "All taken", take: []int{1, 0, 2}, missing: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMandatoryIEs[testIEType](2, 73, 100)
			for _, i := range tt.take {
				assert.True(t, m.Take(i))
			}
			typ, missing := m.Missing()
			assert.Equal(t, tt.missing, missing)
			assert.Equal(t, tt.expected, typ)
		})
	}
}

func TestMandatoryIEs_TakeOnce(t *testing.T) {
	m := NewMandatoryIEs[testIEType](2)
	assert.True(t, m.Take(0))
	assert.False(t, m.Take(0))
}
