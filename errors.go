package geoid

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGridInfo = errors.New("invalid grid info")
	ErrSampleLength    = errors.New("sample array does not match grid size")
	ErrUnknownFormat   = errors.New("unknown model file format")
	ErrModelNotFound   = errors.New("geoid model not found")
)

// ErrHeaderFieldCount indicates a text header with the wrong number of fields
type ErrHeaderFieldCount struct {
	Got  int
	Want int
}

func (e *ErrHeaderFieldCount) Error() string {
	return fmt.Sprintf("header line must have %d values, got %d", e.Want, e.Got)
}

// ErrInterval indicates a grid interval other than the fixed one of the format
type ErrInterval struct {
	Axis string
	Got  string
	Want string
}

func (e *ErrInterval) Error() string {
	return fmt.Sprintf("%s interval must be %s, got %q", e.Axis, e.Want, e.Got)
}

// ErrParse indicates a header or data field that is not a valid number
type ErrParse struct {
	Line  int
	Field string
	Value string
	Err   error
}

// Line is zero when the field has no line of its own, such as a missing
// header key.
func (e *ErrParse) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("cannot parse %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("line %d: cannot parse %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ErrParse) Unwrap() error { return e.Err }

// ErrSampleCount indicates a data section whose size disagrees with the header
type ErrSampleCount struct {
	Got  int
	Want int
}

func (e *ErrSampleCount) Error() string {
	return fmt.Sprintf("expected %d grid points, got %d", e.Want, e.Got)
}

// ErrVersionTooLong indicates a version label that does not fit the binary header
type ErrVersionTooLong struct {
	Version string
}

func (e *ErrVersionTooLong) Error() string {
	return fmt.Sprintf("version string must be at most %d bytes, got %d (%q)", VersionSize, len(e.Version), e.Version)
}

// ErrHeaderOverflow indicates a header value too large for its 16-bit binary field
type ErrHeaderOverflow struct {
	Field string
	Value int
}

func (e *ErrHeaderOverflow) Error() string {
	return fmt.Sprintf("%s %d does not fit in 16 bits", e.Field, e.Value)
}

// ErrLengthMismatch indicates batch coordinate arrays of different lengths
type ErrLengthMismatch struct {
	Lngs, Lats int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("lng and lat must have the same length (%d != %d)", e.Lngs, e.Lats)
}
