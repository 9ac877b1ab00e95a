// Package jsonutil provides the textual side of the serialization layer.
//
// Its core is Reduce, which recursively converts an arbitrary value into
// JSON-safe primitives, applying a fixed classification order and a depth
// ceiling. Dumps and Loads wrap the underlying JSON encoder, applying Reduce
// as the default converter for values the encoder cannot natively represent.
package jsonutil

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// Dumps serializes obj to a JSON formatted string. The value is reduced to
// primitives first; the options configure that reduction.
func Dumps(obj any, opts ...ReduceOption) (string, error) {
	data, err := DumpBytes(obj, opts...)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// DumpBytes serializes obj to JSON formatted bytes.
func DumpBytes(obj any, opts ...ReduceOption) ([]byte, error) {
	reduced, err := Reduce(obj, opts...)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(reduced)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}

	return data, nil
}

// Dump serializes obj as a JSON formatted stream to w.
func Dump(w io.Writer, obj any, opts ...ReduceOption) error {
	data, err := DumpBytes(obj, opts...)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}

	return nil
}

// Loads deserializes a JSON formatted string.
func Loads(s string) (any, error) {
	var out any
	if err := json.UnmarshalFromString(s, &out); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}

	return out, nil
}

// LoadsBytes deserializes JSON formatted bytes, first decoding them to text
// using the given encoding name.
func LoadsBytes(data []byte, encoding string) (any, error) {
	text, err := decodeBytes(data, encoding)
	if err != nil {
		return nil, err
	}

	return Loads(text)
}

// Load deserializes a JSON formatted stream, decoding it to text using the
// given encoding name.
func Load(r io.Reader, encoding string) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read json: %w", err)
	}

	return LoadsBytes(data, encoding)
}
