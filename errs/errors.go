// Package errs defines the sentinel errors shared by the UJO packages and
// their integer error codes.
//
// Errors returned by the writer, reader and element wrap one of the base
// sentinels with context, so callers test them with errors.Is:
//
//	if errors.Is(err, errs.ErrTypeMisplaced) { ... }
//
// Code maps any such error onto the numeric code domain used by the
// command line tool and by callers that need a stable integer.
package errs

import (
	"errors"
	"fmt"
)

// Base error kinds.
var (
	// ErrUnknown is an error that fits no other kind.
	ErrUnknown = errors.New("unknown error")
	// ErrAllocation reports that storage for a value could not be obtained.
	ErrAllocation = errors.New("allocation failed")
	// ErrInvalidData reports a malformed document or an unacceptable value.
	ErrInvalidData = errors.New("invalid data")
	// ErrTypeMisplaced reports a value or container written where the grammar forbids it.
	ErrTypeMisplaced = errors.New("type misplaced")
	// ErrInvalidObject reports misuse of an object: a close in the wrong state,
	// an unbalanced table row, or use of a released element.
	ErrInvalidObject = errors.New("invalid object")
	// ErrNotImplemented reports a feature that is recognized but unsupported.
	ErrNotImplemented = errors.New("not implemented")
	// ErrIO reports a failure of the underlying sink or source.
	ErrIO = errors.New("i/o error")
)

// Refined errors. Each wraps one base kind.
var (
	ErrTypeMismatch           = fmt.Errorf("%w: element type mismatch", ErrInvalidData)
	ErrNullValue              = fmt.Errorf("%w: element is a typed null", ErrInvalidData)
	ErrInvalidHeaderSize      = fmt.Errorf("%w: short document header", ErrInvalidData)
	ErrInvalidMagicNumber     = fmt.Errorf("%w: bad magic number", ErrInvalidData)
	ErrUnsupportedVersion     = fmt.Errorf("%w: unsupported data version", ErrInvalidData)
	ErrUnsupportedCompression = fmt.Errorf("%w: unsupported compression", ErrNotImplemented)
	ErrTruncated              = fmt.Errorf("%w: unexpected end of data", ErrInvalidData)
	ErrUnknownTag             = fmt.Errorf("%w: unknown type tag", ErrInvalidData)
	ErrUnknownSubtype         = fmt.Errorf("%w: unknown subtype", ErrInvalidData)
	ErrReaderFailed           = fmt.Errorf("%w: reader stopped after an earlier error", ErrInvalidData)
	ErrDocumentClosed         = fmt.Errorf("%w: document already closed", ErrTypeMisplaced)
	ErrElementReleased        = fmt.Errorf("%w: element already released", ErrInvalidObject)
)

// Numeric error codes.
const (
	CodeSuccess        = 0
	CodeUnknown        = 5501
	CodeAllocation     = 5502
	CodeInvalidData    = 5503
	CodeTypeMisplaced  = 5504
	CodeInvalidObject  = 5505
	CodeNotImplemented = 5506
	CodeIO             = 5507
)

// Code returns the numeric code for err. A nil error is CodeSuccess and an
// error that wraps none of the base kinds is CodeUnknown.
//
// A reader reports a misplaced tag as invalid data that also wraps
// ErrTypeMisplaced, so invalid data is checked first.
func Code(err error) int {
	switch {
	case err == nil:
		return CodeSuccess
	case errors.Is(err, ErrIO):
		return CodeIO
	case errors.Is(err, ErrNotImplemented):
		return CodeNotImplemented
	case errors.Is(err, ErrInvalidData):
		return CodeInvalidData
	case errors.Is(err, ErrInvalidObject):
		return CodeInvalidObject
	case errors.Is(err, ErrTypeMisplaced):
		return CodeTypeMisplaced
	case errors.Is(err, ErrAllocation):
		return CodeAllocation
	default:
		return CodeUnknown
	}
}
