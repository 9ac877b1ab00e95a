package serialize

import (
	"fmt"
)

// SerializeError represents an error when serialization fails.
type SerializeError struct {
	parent error
}

func errSerialize(parent error) error {
	if parent == nil {
		return nil
	}

	return SerializeError{parent: parent}
}

// Unwrap returns the underlying error that caused the serialization failure.
func (e SerializeError) Unwrap() error {
	return e.parent
}

// Error returns a string representation of the serialization error.
func (e SerializeError) Error() string {
	return fmt.Sprintf("failed to serialize: %s", e.parent)
}

// DeserializeError represents an error when deserialization fails.
type DeserializeError struct {
	parent error
}

func errDeserialize(parent error) error {
	if parent == nil {
		return nil
	}

	return DeserializeError{parent: parent}
}

// Unwrap returns the underlying error that caused the deserialization
// failure.
func (e DeserializeError) Unwrap() error {
	return e.parent
}

// Error returns a string representation of the deserialization error.
func (e DeserializeError) Error() string {
	return fmt.Sprintf("failed to deserialize: %s", e.parent)
}
