// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpv2

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLength        = errors.New("gtpv2: invalid length")
	ErrIncorrectMessageType = errors.New("gtpv2: incorrect message type")
	ErrInvalidMessageFormat = errors.New("gtpv2: invalid message format")
	ErrMandatoryIEMissing   = errors.New("gtpv2: mandatory IE missing")
	ErrMalformedIE          = errors.New("gtpv2: malformed IE")
)

// IEError reports a structural problem with one IE.
type IEError struct {
	Type IEType
	Err  error
}

func (e *IEError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Type)
}

func (e *IEError) Unwrap() error {
	return e.Err
}

func invalidLength(t IEType) error {
	return &IEError{Type: t, Err: ErrInvalidLength}
}

func malformed(t IEType) error {
	return &IEError{Type: t, Err: ErrMalformedIE}
}

// MandatoryIEMissingError names the first mandatory IE that was not found
// while reconciling a message or a grouped IE.
type MandatoryIEMissingError struct {
	Type IEType
}

func (e *MandatoryIEMissingError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMandatoryIEMissing, e.Type)
}

func (e *MandatoryIEMissingError) Is(target error) bool {
	return target == ErrMandatoryIEMissing
}
