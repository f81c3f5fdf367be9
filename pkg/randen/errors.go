package randen

import (
	"errors"
	"fmt"
)

// Sentinel errors for invalid generation requests
var (
	// Configuration errors
	ErrColumnCountMismatch = errors.New("column names do not match requested column count")
	ErrInvalidRowCount     = errors.New("invalid row count")
	ErrInvalidColumnCount  = errors.New("invalid column count")
	ErrInvalidRange        = errors.New("invalid range")
	ErrInvalidRequest      = errors.New("invalid request")

	// Type errors
	ErrUnsupportedType = errors.New("unsupported column type")

	// Generation errors
	ErrUniqueExhausted = errors.New("unique value budget exhausted")
)

// UnsupportedTypeError identifies the type tag that could not be generated.
type UnsupportedTypeError struct {
	Tag string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported column type %q requested", e.Tag)
}

// Is lets errors.Is(err, ErrUnsupportedType) match.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}
