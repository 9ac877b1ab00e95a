package jsonutil

import (
	"fmt"
	"io"
	"net/netip"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/tarantool/go-serialize/internal/options"
	"github.com/tarantool/go-serialize/types"
)

// perfectTimeFormat renders a timestamp with microsecond precision and no
// offset, e.g. "2024-06-01T12:30:45.000123".
const perfectTimeFormat = "2006-01-02T15:04:05.000000"

// defaultMaxDepth bounds how many indirection levels (Items accessors,
// instance fields, pointer dereferences) Reduce follows before truncating.
const defaultMaxDepth = 3

// Mapping is implemented by values that expose their state as named entries.
// Reduce converts such a value to a mapping, consuming one depth level.
type Mapping interface {
	Items() map[string]any
}

// Sequence is implemented by values that expose their elements as an ordered
// snapshot. Reduce converts such a value to a list of reduced elements.
type Sequence interface {
	Items() []any
}

// Fallback produces a primitive stand-in for a value no reduction rule
// accepts. Its result is returned verbatim, not re-reduced.
type Fallback func(value any) any

type reduceOptions struct {
	convertInstances bool
	convertDatetime  bool
	maxDepth         int
	encoding         string
	fallback         Fallback
}

func defaultReduceOptions() reduceOptions {
	return reduceOptions{
		convertInstances: false,
		convertDatetime:  true,
		maxDepth:         defaultMaxDepth,
		encoding:         "utf-8",
		fallback:         nil,
	}
}

// ReduceOption is a function that configures the reduction.
type ReduceOption = options.OptionCallback[reduceOptions]

// WithConvertInstances configures whether struct values are reduced to a
// mapping of their exported fields. This conversion is lossy: unexported
// state is dropped and the type identity is not recoverable.
func WithConvertInstances(convert bool) ReduceOption {
	return func(opts *reduceOptions) {
		opts.convertInstances = convert
	}
}

// WithConvertDatetime configures whether timestamps and dates are rendered
// as strings (the default) or passed through unchanged.
func WithConvertDatetime(convert bool) ReduceOption {
	return func(opts *reduceOptions) {
		opts.convertDatetime = convert
	}
}

// WithMaxDepth configures the indirection depth ceiling. Reduction below the
// ceiling truncates to nil; it does not fail.
func WithMaxDepth(depth int) ReduceOption {
	return func(opts *reduceOptions) {
		opts.maxDepth = depth
	}
}

// WithEncoding configures the text encoding used to decode byte strings.
func WithEncoding(encoding string) ReduceOption {
	return func(opts *reduceOptions) {
		opts.encoding = encoding
	}
}

// WithFallback configures the function invoked for values no reduction rule
// accepts. Without it, such values fail with UnconvertibleValueError, except
// for counters and uninspectable values which stringify.
func WithFallback(fallback Fallback) ReduceOption {
	return func(opts *reduceOptions) {
		opts.fallback = fallback
	}
}

// Reduce converts an arbitrary value into primitives: nil, booleans,
// numbers, strings, []any sequences and map[string]any mappings.
//
// Cyclic structures are tolerated only through the depth ceiling. Reduce
// does not track visited values, so a cycle is bounded, not detected; what
// lies beyond the ceiling is truncated to nil.
func Reduce(value any, opts ...ReduceOption) (any, error) {
	cfg := options.ApplyOptions(defaultReduceOptions, opts)

	return reduceValue(value, cfg, 0)
}

//nolint:cyclop // The classification order is a single flat rule list.
func reduceValue(value any, cfg reduceOptions, level int) (any, error) {
	fallback := cfg.fallback
	if fallback == nil {
		fallback = func(v any) any { return fmt.Sprintf("%v", v) }
	}

	// The legacy protocol type normalizes to a regular timestamp before
	// any other rule runs.
	if lt, ok := value.(types.LegacyTime); ok {
		value = lt.Time()
	}

	switch v := value.(type) {
	case nil, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		string:
		return value, nil
	case []byte:
		return decodeBytes(v, cfg.encoding)
	case time.Time:
		if cfg.convertDatetime {
			return v.Format(perfectTimeFormat), nil
		}

		return v, nil
	case types.Date:
		if cfg.convertDatetime {
			return v.String(), nil
		}

		return v, nil
	case uuid.UUID:
		return v.String(), nil
	case netip.Addr:
		return v.String(), nil
	case netip.Prefix:
		return v.String(), nil
	case error:
		// Errors reduce to their message and are never re-reduced.
		return v.Error(), nil
	case *types.Counter:
		// Counters never terminate, so materializing them as a sequence
		// would hang. They always go to the fallback.
		return fallback(v), nil
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Uintptr:
		// No primitive form can represent these.
		return fallback(value), nil
	default:
	}

	if level > cfg.maxDepth {
		return nil, nil //nolint:nilnil // Truncation, not an error.
	}

	reduced, matched, err := reduceComposite(value, rv, cfg, level, fallback)
	if err != nil {
		return nil, err
	}

	if matched {
		return reduced, nil
	}

	if cfg.fallback == nil {
		return nil, errUnconvertible(value)
	}

	return cfg.fallback(value), nil
}

// reduceComposite handles the container and instance rules. A panic raised
// while reflecting over an ill-behaved value routes to the fallback instead
// of propagating.
func reduceComposite(
	value any,
	rv reflect.Value,
	cfg reduceOptions,
	level int,
	fallback Fallback,
) (reduced any, matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			reduced = fallback(value)
			matched = true
			err = nil
		}
	}()

	_, isReader := value.(io.Reader)

	switch {
	case rv.Kind() == reflect.Map:
		reduced, err = reduceMap(rv, cfg, level)

		return reduced, true, err
	case hasItemsMap(value):
		// The converted mapping re-enters the rule list one level deeper,
		// so the depth ceiling applies to the conversion itself.
		m, _ := value.(Mapping)
		reduced, err = reduceValue(m.Items(), cfg, level+1)

		return reduced, true, err
	case hasItemsList(value) && !isReader:
		s, _ := value.(Sequence)
		reduced, err = reduceList(s.Items(), cfg, level)

		return reduced, true, err
	case (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && !isReader:
		items := make([]any, rv.Len())
		for i := range rv.Len() {
			items[i] = rv.Index(i).Interface()
		}

		reduced, err = reduceList(items, cfg, level)

		return reduced, true, err
	case rv.CanInt():
		return rv.Int(), true, nil
	case rv.CanUint():
		return rv.Uint(), true, nil
	case rv.CanFloat():
		return rv.Float(), true, nil
	case rv.Kind() == reflect.Bool:
		return rv.Bool(), true, nil
	case rv.Kind() == reflect.String:
		return rv.String(), true, nil
	case rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface:
		if rv.IsNil() {
			return nil, true, nil
		}

		reduced, err = reduceValue(rv.Elem().Interface(), cfg, level+1)

		return reduced, true, err
	case cfg.convertInstances && rv.Kind() == reflect.Struct:
		reduced, err = reduceValue(instanceFields(rv), cfg, level+1)

		return reduced, true, err
	default:
		return nil, false, nil
	}
}

func hasItemsMap(value any) bool {
	_, ok := value.(Mapping)

	return ok
}

func hasItemsList(value any) bool {
	_, ok := value.(Sequence)

	return ok
}

func reduceMap(rv reflect.Value, cfg reduceOptions, level int) (map[string]any, error) {
	out := make(map[string]any, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		key, err := reduceValue(iter.Key().Interface(), cfg, level)
		if err != nil {
			return nil, err
		}

		val, err := reduceValue(iter.Value().Interface(), cfg, level)
		if err != nil {
			return nil, err
		}

		// The textual format supports only string keys, so reduced keys
		// that are not already text are rendered as text.
		keyText, ok := key.(string)
		if !ok {
			keyText = fmt.Sprint(key)
		}

		out[keyText] = val
	}

	return out, nil
}

func reduceList(items []any, cfg reduceOptions, level int) ([]any, error) {
	out := make([]any, len(items))

	for i, item := range items {
		reduced, err := reduceValue(item, cfg, level)
		if err != nil {
			return nil, err
		}

		out[i] = reduced
	}

	return out, nil
}

// instanceFields returns the exported fields of a struct value as a mapping.
// Unexported state is not reachable via reflection and is dropped.
func instanceFields(rv reflect.Value) map[string]any {
	out := make(map[string]any)

	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		out[field.Name] = rv.Field(i).Interface()
	}

	return out
}

func decodeBytes(data []byte, encoding string) (string, error) {
	name := strings.ToLower(encoding)
	if name == "" || name == "utf-8" || name == "utf8" {
		if !utf8.Valid(data) {
			return "", errEncoding(encoding, nil)
		}

		return string(data), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", errEncoding(encoding, err)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", errEncoding(encoding, err)
	}

	return string(decoded), nil
}
