// Package msgpackutil provides the binary side of the serialization layer.
//
// Its core is the extensible handler registry: per-type handlers registered
// under small numeric identities (0-127) serialize values the msgpack format
// cannot natively represent into typed extension records, and reconstruct
// them on decode. Unknown identities round-trip as opaque ExtensionRecord
// values instead of failing, which keeps payloads written by a newer
// registry readable.
package msgpackutil

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Dumps serializes obj to msgpack formatted bytes. A nil registry selects
// the default one.
func Dumps(obj any, registry *Registry) ([]byte, error) {
	var buf bytes.Buffer
	if err := Dump(&buf, obj, registry); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Dump serializes obj as a msgpack formatted stream to w. A nil registry
// selects the default one.
func Dump(w io.Writer, obj any, registry *Registry) error {
	if registry == nil {
		registry = DefaultRegistry()
	}

	return encodeValue(msgpack.NewEncoder(w), registry, obj)
}

// Loads deserializes msgpack formatted bytes. A nil registry selects the
// default one.
func Loads(data []byte, registry *Registry) (any, error) {
	return Load(bytes.NewReader(data), registry)
}

// Load deserializes a msgpack formatted stream. A nil registry selects the
// default one.
func Load(r io.Reader, registry *Registry) (any, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}

	return decodeValue(msgpack.NewDecoder(r), registry)
}

//nolint:cyclop // The encoder is a single flat dispatch over value classes.
func encodeValue(enc *msgpack.Encoder, registry *Registry, value any) error {
	switch v := value.(type) {
	case nil:
		return enc.EncodeNil()
	case bool:
		return enc.EncodeBool(v)
	case string:
		return enc.EncodeString(v)
	case []byte:
		return enc.EncodeBytes(v)
	case int:
		return enc.EncodeInt(int64(v))
	case int64:
		return enc.EncodeInt(v)
	case uint64:
		return enc.EncodeUint(v)
	case float64:
		return enc.EncodeFloat64(v)
	case int8, int16, int32, uint, uint8, uint16, uint32, float32:
		return enc.Encode(v)
	case ExtensionRecord:
		// Opaque records re-encode verbatim so unknown extensions survive
		// a round trip.
		return encodeExt(enc, v.Identity, v.Data)
	}

	if matched := registry.Match(value); matched.IsSome() {
		handler := matched.UnwrapOr(nil)

		payload, err := handler.Serialize(value)
		if err != nil {
			return err
		}

		return encodeExt(enc, int8(handler.Identity()), payload) //nolint:gosec
	}

	return encodeReflect(enc, registry, value)
}

// encodeReflect handles container kinds and named scalar types. Handler
// matching runs first, so a registered handler takes precedence over the
// generic container encoding.
func encodeReflect(enc *msgpack.Encoder, registry *Registry, value any) error {
	rv := reflect.ValueOf(value)

	switch {
	case rv.Kind() == reflect.Map:
		if err := enc.EncodeMapLen(rv.Len()); err != nil {
			return fmt.Errorf("failed to encode map header: %w", err)
		}

		iter := rv.MapRange()
		for iter.Next() {
			if err := encodeValue(enc, registry, iter.Key().Interface()); err != nil {
				return err
			}

			if err := encodeValue(enc, registry, iter.Value().Interface()); err != nil {
				return err
			}
		}

		return nil
	case rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array:
		if err := enc.EncodeArrayLen(rv.Len()); err != nil {
			return fmt.Errorf("failed to encode array header: %w", err)
		}

		for i := range rv.Len() {
			if err := encodeValue(enc, registry, rv.Index(i).Interface()); err != nil {
				return err
			}
		}

		return nil
	case rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface:
		if rv.IsNil() {
			return enc.EncodeNil()
		}

		return encodeValue(enc, registry, rv.Elem().Interface())
	case rv.CanInt():
		return enc.EncodeInt(rv.Int())
	case rv.CanUint():
		return enc.EncodeUint(rv.Uint())
	case rv.CanFloat():
		return enc.EncodeFloat64(rv.Float())
	case rv.Kind() == reflect.Bool:
		return enc.EncodeBool(rv.Bool())
	case rv.Kind() == reflect.String:
		return enc.EncodeString(rv.String())
	default:
		return errNoHandler(value)
	}
}

func encodeExt(enc *msgpack.Encoder, identity int8, payload []byte) error {
	if err := enc.EncodeExtHeader(identity, len(payload)); err != nil {
		return fmt.Errorf("failed to encode extension header: %w", err)
	}

	if _, err := enc.Writer().Write(payload); err != nil {
		return fmt.Errorf("failed to write extension payload: %w", err)
	}

	return nil
}

//nolint:cyclop // The decoder is a single flat dispatch over wire codes.
func decodeValue(dec *msgpack.Decoder, registry *Registry) (any, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, fmt.Errorf("failed to peek msgpack code: %w", err)
	}

	switch {
	case msgpcode.IsExt(code):
		return decodeExt(dec, registry)
	case msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32:
		return decodeMap(dec, registry)
	case msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32:
		return decodeArray(dec, registry)
	case msgpcode.IsFixedNum(code) || (code >= msgpcode.Int8 && code <= msgpcode.Int64):
		return dec.DecodeInt64()
	case code >= msgpcode.Uint8 && code <= msgpcode.Uint64:
		unsigned, err := dec.DecodeUint64()
		if err != nil {
			return nil, err
		}

		// Canonicalize to int64 whenever the value fits.
		if unsigned <= math.MaxInt64 {
			return int64(unsigned), nil
		}

		return unsigned, nil
	case code == msgpcode.Float || code == msgpcode.Double:
		return dec.DecodeFloat64()
	case msgpcode.IsString(code):
		return dec.DecodeString()
	case msgpcode.IsBin(code):
		return dec.DecodeBytes()
	case code == msgpcode.Nil:
		return nil, dec.DecodeNil()
	case code == msgpcode.False || code == msgpcode.True:
		return dec.DecodeBool()
	default:
		return dec.DecodeInterface()
	}
}

func decodeExt(dec *msgpack.Decoder, registry *Registry) (any, error) {
	identity, length, err := dec.DecodeExtHeader()
	if err != nil {
		return nil, fmt.Errorf("failed to decode extension header: %w", err)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(dec.Buffered(), payload); err != nil {
		return nil, fmt.Errorf("failed to read extension payload: %w", err)
	}

	handler := registry.Get(int(identity))
	if !handler.IsSome() {
		// Forward compatibility: payloads written by a newer registry
		// survive as opaque records.
		return ExtensionRecord{Identity: identity, Data: payload}, nil
	}

	return handler.UnwrapOr(nil).Deserialize(payload)
}

// decodeMap returns a map[string]any when every key is textual (msgpack bin
// keys are re-keyed as text: Go maps cannot hold byte-slice keys) and a
// map[any]any otherwise.
func decodeMap(dec *msgpack.Decoder, registry *Registry) (any, error) {
	length, err := dec.DecodeMapLen()
	if err != nil {
		return nil, fmt.Errorf("failed to decode map header: %w", err)
	}

	keys := make([]any, length)
	values := make([]any, length)
	textual := true

	for i := range length {
		if keys[i], err = decodeValue(dec, registry); err != nil {
			return nil, err
		}

		if values[i], err = decodeValue(dec, registry); err != nil {
			return nil, err
		}

		switch keys[i].(type) {
		case string, []byte:
		default:
			textual = false
		}
	}

	if textual {
		out := make(map[string]any, length)

		for i, key := range keys {
			switch k := key.(type) {
			case string:
				out[k] = values[i]
			case []byte:
				out[string(k)] = values[i]
			}
		}

		return out, nil
	}

	out := make(map[any]any, length)

	for i, key := range keys {
		if k, ok := key.([]byte); ok {
			key = string(k)
		}

		out[key] = values[i]
	}

	return out, nil
}

func decodeArray(dec *msgpack.Decoder, registry *Registry) ([]any, error) {
	length, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, fmt.Errorf("failed to decode array header: %w", err)
	}

	out := make([]any, length)

	for i := range length {
		if out[i], err = decodeValue(dec, registry); err != nil {
			return nil, err
		}
	}

	return out, nil
}
