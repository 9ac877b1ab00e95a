package msgpackutil_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarantool/go-serialize/msgpackutil"
)

// token is an application type carried by tokenHandler under identity 50.
type token string

type tokenHandler struct{}

func (tokenHandler) Identity() int {
	return 50
}

func (tokenHandler) Handles(value any) bool {
	_, ok := value.(token)

	return ok
}

func (tokenHandler) Serialize(value any) ([]byte, error) {
	return []byte(value.(token)), nil
}

func (tokenHandler) Deserialize(data []byte) (any, error) {
	return token(data), nil
}

func TestDumpsLoads_Primitives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"true", true},
		{"false", false},
		{"int", int64(42)},
		{"negative int", int64(-42)},
		{"float", 3.14},
		{"string", "hello"},
		{"bytes", []byte{0x01, 0x02}},
		{"list", []any{int64(1), "two", 3.0}},
		{"map", map[string]any{"a": int64(1), "b": []any{"x"}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			data, err := msgpackutil.Dumps(test.value, nil)
			require.NoError(t, err)

			out, err := msgpackutil.Loads(data, nil)
			require.NoError(t, err)
			assert.Equal(t, test.value, out)
		})
	}
}

func TestDumpsLoads_IntWidthsCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"int", 7, int64(7)},
		{"int8", int8(7), int64(7)},
		{"int32", int32(-7), int64(-7)},
		{"uint", uint(7), int64(7)},
		{"uint64 in range", uint64(7), int64(7)},
		{"uint64 above range", uint64(1) << 63, uint64(1) << 63},
		{"float32", float32(1.5), 1.5},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			data, err := msgpackutil.Dumps(test.value, nil)
			require.NoError(t, err)

			out, err := msgpackutil.Loads(data, nil)
			require.NoError(t, err)
			assert.Equal(t, test.want, out)
		})
	}
}

func TestDumps_NoHandler(t *testing.T) {
	t.Parallel()

	_, err := msgpackutil.Dumps(struct{ X int }{X: 1}, nil)
	require.Error(t, err)

	var noHandlerErr msgpackutil.NoHandlerError
	require.ErrorAs(t, err, &noHandlerErr)
}

func TestDumpsLoads_NamedKinds(t *testing.T) {
	t.Parallel()

	type level int

	data, err := msgpackutil.Dumps(level(3), nil)
	require.NoError(t, err)

	out, err := msgpackutil.Loads(data, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out)
}

func TestDumpsLoads_IntKeyedMap(t *testing.T) {
	t.Parallel()

	data, err := msgpackutil.Dumps(map[any]any{int64(1): "one"}, nil)
	require.NoError(t, err)

	out, err := msgpackutil.Loads(data, nil)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{int64(1): "one"}, out)
}

func TestLoads_BinaryKeysRekeyedAsText(t *testing.T) {
	t.Parallel()

	// fixmap{bin8("key"): 1}, as written by encoders that emit field names
	// as raw bytes.
	data := []byte{0x81, 0xc4, 0x03, 'k', 'e', 'y', 0x01}

	out, err := msgpackutil.Loads(data, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"key": int64(1)}, out)
}

func TestLoads_UnknownExtensionPassthrough(t *testing.T) {
	t.Parallel()

	writer := msgpackutil.NewRegistry()
	require.NoError(t, writer.Register(tokenHandler{}))

	data, err := msgpackutil.Dumps(token("opaque"), writer)
	require.NoError(t, err)

	// A reader without the handler keeps the record opaque.
	reader := msgpackutil.NewRegistry()

	out, err := msgpackutil.Loads(data, reader)
	require.NoError(t, err)

	record, ok := out.(msgpackutil.ExtensionRecord)
	require.True(t, ok)
	assert.Equal(t, int8(50), record.Identity)
	assert.Equal(t, []byte("opaque"), record.Data)

	// Re-encoding the opaque record restores the original wire form, so
	// a reader that does know the handler recovers the value.
	reencoded, err := msgpackutil.Dumps(record, reader)
	require.NoError(t, err)
	assert.Equal(t, data, reencoded)

	back, err := msgpackutil.Loads(reencoded, writer)
	require.NoError(t, err)
	assert.Equal(t, token("opaque"), back)
}

func TestDumpLoad_Stream(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := msgpackutil.Dump(&buf, map[string]any{"a": int64(1)}, nil)
	require.NoError(t, err)

	out, err := msgpackutil.Load(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(1)}, out)
}

func TestLoads_Truncated(t *testing.T) {
	t.Parallel()

	data, err := msgpackutil.Dumps("some longer string value", nil)
	require.NoError(t, err)

	_, err = msgpackutil.Loads(data[:len(data)-3], nil)
	require.Error(t, err)
}
