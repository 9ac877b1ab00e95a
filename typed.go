package serialize

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/vmihailenco/msgpack/v5"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TypedSerializer is a generic interface for typed serialization of a known
// object type, without reduction to generic primitives.
type TypedSerializer[T any] interface {
	Marshal(data T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}

func zero[T any]() T {
	var out T
	return out
}

// TypedJSONSerializer is a generic JSON serializer for typed objects.
type TypedJSONSerializer[T any] struct{}

// NewTypedJSONSerializer creates a new TypedJSONSerializer for the specified
// type.
func NewTypedJSONSerializer[T any]() TypedJSONSerializer[T] {
	return TypedJSONSerializer[T]{}
}

// Marshal serializes the typed data to JSON.
func (s TypedJSONSerializer[T]) Marshal(data T) ([]byte, error) {
	out, err := json.Marshal(data)
	if err != nil {
		return nil, errSerialize(err)
	}

	return out, nil
}

// Unmarshal deserializes JSON data into a typed object.
func (s TypedJSONSerializer[T]) Unmarshal(data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero[T](), errDeserialize(err)
	}

	return out, nil
}

// TypedMessagePackSerializer is a generic msgpack serializer for typed
// objects.
type TypedMessagePackSerializer[T any] struct{}

// NewTypedMessagePackSerializer creates a new TypedMessagePackSerializer for
// the specified type.
func NewTypedMessagePackSerializer[T any]() TypedMessagePackSerializer[T] {
	return TypedMessagePackSerializer[T]{}
}

// Marshal serializes the typed data to msgpack.
func (s TypedMessagePackSerializer[T]) Marshal(data T) ([]byte, error) {
	out, err := msgpack.Marshal(data)
	if err != nil {
		return nil, errSerialize(err)
	}

	return out, nil
}

// Unmarshal deserializes msgpack data into a typed object.
func (s TypedMessagePackSerializer[T]) Unmarshal(data []byte) (T, error) {
	var out T
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return zero[T](), errDeserialize(err)
	}

	return out, nil
}
