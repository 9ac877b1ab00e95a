package serialize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serialize "github.com/tarantool/go-serialize"
)

type record struct {
	Name string `json:"name" msgpack:"name"`
	Size int    `json:"size" msgpack:"size"`
}

func TestTypedJSONSerializer(t *testing.T) {
	t.Parallel()

	s := serialize.NewTypedJSONSerializer[record]()

	value := record{Name: "thing", Size: 3}

	data, err := s.Marshal(value)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"name":"thing","size":3}`), data)

	out, err := s.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, value, out)
}

func TestTypedJSONSerializer_UnmarshalError(t *testing.T) {
	t.Parallel()

	s := serialize.NewTypedJSONSerializer[record]()

	_, err := s.Unmarshal([]byte(`{"name": `))
	require.Error(t, err)

	var desErr serialize.DeserializeError
	require.ErrorAs(t, err, &desErr)
}

func TestTypedMessagePackSerializer(t *testing.T) {
	t.Parallel()

	s := serialize.NewTypedMessagePackSerializer[record]()

	value := record{Name: "thing", Size: 3}

	data, err := s.Marshal(value)
	require.NoError(t, err)

	out, err := s.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, value, out)
}

func TestTypedMessagePackSerializer_UnmarshalError(t *testing.T) {
	t.Parallel()

	s := serialize.NewTypedMessagePackSerializer[record]()

	_, err := s.Unmarshal([]byte{0x81})
	require.Error(t, err)

	var desErr serialize.DeserializeError
	require.ErrorAs(t, err, &desErr)
}
