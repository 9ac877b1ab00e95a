package jsonutil_test

import (
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarantool/go-serialize/jsonutil"
	"github.com/tarantool/go-serialize/types"
)

// itemsNode exposes its payload through the Items accessor, so reducing it
// consumes one depth level per hop.
type itemsNode struct {
	data map[string]any
}

func (n *itemsNode) Items() map[string]any {
	return n.data
}

func TestReduce_Primitives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"bool", true},
		{"int", 42},
		{"int64", int64(-7)},
		{"uint", uint(7)},
		{"float", 3.14},
		{"string", "hello"},
		{"empty string", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			out, err := jsonutil.Reduce(test.value)
			require.NoError(t, err)
			assert.Equal(t, test.value, out)
		})
	}
}

func TestReduce_Bytes(t *testing.T) {
	t.Parallel()

	out, err := jsonutil.Reduce([]byte("text"))
	require.NoError(t, err)
	assert.Equal(t, "text", out)
}

func TestReduce_BytesInvalidEncoding(t *testing.T) {
	t.Parallel()

	_, err := jsonutil.Reduce([]byte{0xff, 0xfe, 0xfd})
	require.Error(t, err)

	var encErr jsonutil.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "utf-8", encErr.Encoding)
}

func TestReduce_BytesLatin1(t *testing.T) {
	t.Parallel()

	out, err := jsonutil.Reduce([]byte("caf\xe9"), jsonutil.WithEncoding("latin1"))
	require.NoError(t, err)
	assert.Equal(t, "café", out)
}

func TestReduce_DateTime(t *testing.T) {
	t.Parallel()

	moment := time.Date(2015, time.November, 18, 10, 30, 45, 123456000, time.UTC)

	out, err := jsonutil.Reduce(moment)
	require.NoError(t, err)
	assert.Equal(t, "2015-11-18T10:30:45.123456", out)
}

func TestReduce_DateTimePassthrough(t *testing.T) {
	t.Parallel()

	moment := time.Date(2015, time.November, 18, 10, 30, 45, 0, time.UTC)

	out, err := jsonutil.Reduce(moment, jsonutil.WithConvertDatetime(false))
	require.NoError(t, err)
	assert.Equal(t, moment, out)
}

func TestReduce_Date(t *testing.T) {
	t.Parallel()

	out, err := jsonutil.Reduce(types.NewDate(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", out)

	out, err = jsonutil.Reduce(types.NewDate(2024, 6, 1), jsonutil.WithConvertDatetime(false))
	require.NoError(t, err)
	assert.Equal(t, types.NewDate(2024, 6, 1), out)
}

func TestReduce_LegacyTimeNormalizes(t *testing.T) {
	t.Parallel()

	moment := time.Date(2015, time.November, 18, 10, 30, 45, 999999999, time.UTC)

	out, err := jsonutil.Reduce(types.NewLegacyTime(moment))
	require.NoError(t, err)
	assert.Equal(t, "2015-11-18T10:30:45.000000", out)
}

func TestReduce_UUID(t *testing.T) {
	t.Parallel()

	u := uuid.MustParse("87edccab-dedc-4a99-beeb-f252fbcdbf5f")

	out, err := jsonutil.Reduce(u)
	require.NoError(t, err)
	assert.Equal(t, "87edccab-dedc-4a99-beeb-f252fbcdbf5f", out)
}

func TestReduce_NetworkAddress(t *testing.T) {
	t.Parallel()

	out, err := jsonutil.Reduce(netip.MustParseAddr("10.0.0.1"))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", out)

	out, err = jsonutil.Reduce(netip.MustParsePrefix("10.0.0.0/8"))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0/8", out)
}

func TestReduce_Error(t *testing.T) {
	t.Parallel()

	out, err := jsonutil.Reduce(errors.New("boom"))
	require.NoError(t, err)
	assert.Equal(t, "boom", out)
}

func TestReduce_CounterFallsBack(t *testing.T) {
	t.Parallel()

	t.Run("default fallback is the string form", func(t *testing.T) {
		t.Parallel()

		out, err := jsonutil.Reduce(types.NewCounter(1, 1))
		require.NoError(t, err)
		assert.Equal(t, "count(1)", out)
	})

	t.Run("explicit fallback wins", func(t *testing.T) {
		t.Parallel()

		fallback := func(any) any { return "counted" }

		out, err := jsonutil.Reduce(types.NewCounter(1, 1), jsonutil.WithFallback(fallback))
		require.NoError(t, err)
		assert.Equal(t, "counted", out)
	})
}

func TestReduce_UninspectableValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
	}{
		{"func", func() {}},
		{"chan", make(chan int)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			out, err := jsonutil.Reduce(test.value, jsonutil.WithFallback(func(any) any {
				return "opaque"
			}))
			require.NoError(t, err)
			assert.Equal(t, "opaque", out)
		})
	}
}

func TestReduce_Map(t *testing.T) {
	t.Parallel()

	moment := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)

	out, err := jsonutil.Reduce(map[string]any{
		"when":  moment,
		"count": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"when":  "2020-01-02T03:04:05.000000",
		"count": 2,
	}, out)
}

func TestReduce_MapKeysReduced(t *testing.T) {
	t.Parallel()

	out, err := jsonutil.Reduce(map[int]string{1: "one", 2: "two"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": "one", "2": "two"}, out)
}

func TestReduce_List(t *testing.T) {
	t.Parallel()

	out, err := jsonutil.Reduce([]any{1, "two", []byte("three")})
	require.NoError(t, err)
	assert.Equal(t, []any{1, "two", "three"}, out)
}

func TestReduce_Set(t *testing.T) {
	t.Parallel()

	out, err := jsonutil.Reduce(types.NewSet(1))
	require.NoError(t, err)
	assert.Equal(t, []any{1}, out)
}

func TestReduce_PlainNestingDoesNotConsumeDepth(t *testing.T) {
	t.Parallel()

	value := map[string]any{"a": map[string]any{"b": map[string]any{"c": map[string]any{"d": []any{1}}}}}

	out, err := jsonutil.Reduce(value, jsonutil.WithMaxDepth(1))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": map[string]any{"c": map[string]any{"d": []any{1}}}},
	}, out)
}

func nested(depth int, leaf string) *itemsNode {
	node := &itemsNode{data: map[string]any{"leaf": leaf}}
	for range depth - 1 {
		node = &itemsNode{data: map[string]any{"next": node}}
	}

	return node
}

func TestReduce_DepthTruncation(t *testing.T) {
	t.Parallel()

	value := nested(4, "bottom")

	// The ceiling bounds the conversion itself: with max depth 2 the third
	// hop is already truncated.
	out, err := jsonutil.Reduce(value, jsonutil.WithMaxDepth(2))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"next": map[string]any{"next": nil},
	}, out)
}

func TestReduce_DepthTruncation_ConvertInstances(t *testing.T) {
	t.Parallel()

	type inner struct {
		Leaf string
	}

	type outer struct {
		Inner inner
	}

	out, err := jsonutil.Reduce(
		outer{Inner: inner{Leaf: "bottom"}},
		jsonutil.WithConvertInstances(true),
		jsonutil.WithMaxDepth(1),
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Inner": nil}, out)
}

func TestReduce_DepthSurvival(t *testing.T) {
	t.Parallel()

	value := nested(4, "bottom")

	out, err := jsonutil.Reduce(value, jsonutil.WithMaxDepth(4))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"next": map[string]any{"next": map[string]any{"next": map[string]any{"leaf": "bottom"}}},
	}, out)
}

func TestReduce_CyclicStructureTerminates(t *testing.T) {
	t.Parallel()

	a := &itemsNode{data: map[string]any{}}
	b := &itemsNode{data: map[string]any{}}
	a.data["other"] = b
	b.data["other"] = a

	out, err := jsonutil.Reduce(a)
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestReduce_ConvertInstances(t *testing.T) {
	t.Parallel()

	type person struct {
		Name string
		Age  int

		secret string //nolint:unused
	}

	value := person{Name: "Ada", Age: 36}

	t.Run("disabled by default", func(t *testing.T) {
		t.Parallel()

		_, err := jsonutil.Reduce(value)
		require.Error(t, err)

		var unconvErr jsonutil.UnconvertibleValueError
		require.ErrorAs(t, err, &unconvErr)
	})

	t.Run("enabled reduces exported fields", func(t *testing.T) {
		t.Parallel()

		out, err := jsonutil.Reduce(value, jsonutil.WithConvertInstances(true))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"Name": "Ada", "Age": 36}, out)
	})
}

func TestReduce_FallbackVerbatim(t *testing.T) {
	t.Parallel()

	fallback := func(v any) any { return map[string]any{"unconverted": true} }

	out, err := jsonutil.Reduce(struct{}{}, jsonutil.WithFallback(fallback))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"unconverted": true}, out)
}

func TestReduce_PointerDereference(t *testing.T) {
	t.Parallel()

	value := "pointed"

	out, err := jsonutil.Reduce(&value)
	require.NoError(t, err)
	assert.Equal(t, "pointed", out)
}

func TestReduce_NamedKinds(t *testing.T) {
	t.Parallel()

	type level int

	type color string

	out, err := jsonutil.Reduce(level(3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), out)

	out, err = jsonutil.Reduce(color("red"))
	require.NoError(t, err)
	assert.Equal(t, "red", out)
}
