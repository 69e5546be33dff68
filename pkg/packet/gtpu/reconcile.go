// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpu

import (
	"github.com/nttcom/gtp/pkg/packet/gtputil"
)

type mandatoryIEs struct {
	gtputil.MandatoryIEs[IEType]
}

func newMandatoryIEs(types ...IEType) mandatoryIEs {
	return mandatoryIEs{gtputil.NewMandatoryIEs(types...)}
}

func (m *mandatoryIEs) take(i int) bool {
	return m.Take(i)
}

// check returns the first mandatory IE that was never taken.
func (m *mandatoryIEs) check() error {
	if t, ok := m.Missing(); ok {
		return &MandatoryIEMissingError{Type: t}
	}
	return nil
}

// setOnce stores v in *dst unless a previous occurrence already did.
func setOnce[T any](dst **T, v *T) {
	if *dst == nil {
		*dst = v
	}
}
