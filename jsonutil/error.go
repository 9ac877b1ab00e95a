package jsonutil

import (
	"fmt"
)

// EncodingError represents a failure to decode a byte string under the
// requested text encoding.
type EncodingError struct {
	Encoding string
	parent   error
}

func errEncoding(encoding string, parent error) error {
	return EncodingError{
		Encoding: encoding,
		parent:   parent,
	}
}

// Error returns a string representation of the encoding error.
func (e EncodingError) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("cannot decode bytes as %s: %s", e.Encoding, e.parent)
	}

	return fmt.Sprintf("cannot decode bytes as %s", e.Encoding)
}

// Unwrap returns the underlying error, if any.
func (e EncodingError) Unwrap() error {
	return e.parent
}

// UnconvertibleValueError represents a value for which every reduction rule
// failed and no fallback was supplied.
type UnconvertibleValueError struct {
	Value any
}

func errUnconvertible(value any) error {
	return UnconvertibleValueError{
		Value: value,
	}
}

// Error returns a string representation of the unconvertible value error.
func (e UnconvertibleValueError) Error() string {
	return fmt.Sprintf("cannot convert %#v to primitive", e.Value)
}
