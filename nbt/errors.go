package nbt

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Wrapped values add context; match with errors.Is.
var (
	ErrTruncated      = errors.New("truncated input")
	ErrUnknownVariant = errors.New("unknown tag type")
	ErrInvalidString  = errors.New("invalid modified UTF-8 string")
	ErrStringTooLong  = errors.New("string exceeds 65535 bytes")
	ErrInvalidPath    = errors.New("invalid path")
	ErrIndexRange     = errors.New("index out of bounds")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrListType       = errors.New("list element type mismatch")
	ErrNumericRange   = errors.New("numeric value out of range")
)

func errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("nbt: %w: %s", kind, fmt.Sprintf(format, args...))
}
