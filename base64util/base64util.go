// Package base64util provides helpers around the standard base64 alphabet
// with padding.
package base64util

import (
	"encoding/base64"
	"fmt"
)

// EncodeAsBytes encodes data as base64 bytes.
func EncodeAsBytes(data []byte) []byte {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)

	return out
}

// EncodeAsText encodes data as a base64 string.
func EncodeAsText(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeAsBytes decodes a base64 string to bytes.
func DecodeAsBytes(encoded string) ([]byte, error) {
	out, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	return out, nil
}

// DecodeAsText decodes a base64 string to text.
func DecodeAsText(encoded string) (string, error) {
	out, err := DecodeAsBytes(encoded)
	if err != nil {
		return "", err
	}

	return string(out), nil
}
