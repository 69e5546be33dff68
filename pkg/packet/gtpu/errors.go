// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package gtpu

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLength            = errors.New("gtpu: invalid length")
	ErrIncorrectMessageType     = errors.New("gtpu: incorrect message type")
	ErrInvalidMessageFormat     = errors.New("gtpu: invalid message format")
	ErrMandatoryIEMissing       = errors.New("gtpu: mandatory IE missing")
	ErrMalformedIE              = errors.New("gtpu: malformed IE")
	ErrMalformedExtensionHeader = errors.New("gtpu: malformed extension header")
)

// ExtensionHeaderError reports a problem with one link of the extension header chain.
type ExtensionHeaderError struct {
	Type ExtensionHeaderType
	Err  error
}

func (e *ExtensionHeaderError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Type)
}

func (e *ExtensionHeaderError) Unwrap() error {
	return e.Err
}

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

type MandatoryIEMissingError struct {
	Type IEType
}

func (e *MandatoryIEMissingError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMandatoryIEMissing, e.Type)
}

func (e *MandatoryIEMissingError) Is(target error) bool {
	return target == ErrMandatoryIEMissing
}
