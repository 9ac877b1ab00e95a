package serialize

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/tarantool/go-serialize/jsonutil"
	"github.com/tarantool/go-serialize/msgpackutil"
)

// Serializer converts generic objects to and from a wire representation.
// Implementations reduce values the format cannot natively represent to
// primitives, or carry them as typed extension records.
type Serializer interface {
	Dump(obj any, w io.Writer) error
	DumpBytes(obj any) ([]byte, error)
	Load(r io.Reader) (any, error)
	LoadBytes(data []byte) (any, error)
}

// JSONSerializer serializes through the jsonutil package, applying the
// primitive reducer before encoding.
type JSONSerializer struct {
	encoding string
	opts     []jsonutil.ReduceOption
}

// NewJSONSerializer creates a new JSONSerializer. An empty encoding means
// utf-8. The options configure the reduction applied before encoding.
func NewJSONSerializer(encoding string, opts ...jsonutil.ReduceOption) JSONSerializer {
	return JSONSerializer{
		encoding: encoding,
		opts:     opts,
	}
}

// Dump implements the Serializer interface.
func (s JSONSerializer) Dump(obj any, w io.Writer) error {
	return errSerialize(jsonutil.Dump(w, obj, s.opts...))
}

// DumpBytes implements the Serializer interface.
func (s JSONSerializer) DumpBytes(obj any) ([]byte, error) {
	data, err := jsonutil.DumpBytes(obj, s.opts...)

	return data, errSerialize(err)
}

// Load implements the Serializer interface.
func (s JSONSerializer) Load(r io.Reader) (any, error) {
	out, err := jsonutil.Load(r, s.encoding)

	return out, errDeserialize(err)
}

// LoadBytes implements the Serializer interface.
func (s JSONSerializer) LoadBytes(data []byte) (any, error) {
	out, err := jsonutil.LoadsBytes(data, s.encoding)

	return out, errDeserialize(err)
}

// MessagePackSerializer serializes through the msgpackutil package, carrying
// non-primitive types as registry extension records.
type MessagePackSerializer struct {
	registry *msgpackutil.Registry
}

// NewMessagePackSerializer creates a new MessagePackSerializer. A nil
// registry selects the default one.
func NewMessagePackSerializer(registry *msgpackutil.Registry) MessagePackSerializer {
	return MessagePackSerializer{
		registry: registry,
	}
}

// Dump implements the Serializer interface.
func (s MessagePackSerializer) Dump(obj any, w io.Writer) error {
	return errSerialize(msgpackutil.Dump(w, obj, s.registry))
}

// DumpBytes implements the Serializer interface.
func (s MessagePackSerializer) DumpBytes(obj any) ([]byte, error) {
	data, err := msgpackutil.Dumps(obj, s.registry)

	return data, errSerialize(err)
}

// Load implements the Serializer interface.
func (s MessagePackSerializer) Load(r io.Reader) (any, error) {
	out, err := msgpackutil.Load(r, s.registry)

	return out, errDeserialize(err)
}

// LoadBytes implements the Serializer interface.
func (s MessagePackSerializer) LoadBytes(data []byte) (any, error) {
	out, err := msgpackutil.Loads(data, s.registry)

	return out, errDeserialize(err)
}

// YAMLSerializer serializes to YAML, applying the primitive reducer before
// encoding.
type YAMLSerializer struct {
	opts []jsonutil.ReduceOption
}

// NewYAMLSerializer creates a new YAMLSerializer. The options configure the
// reduction applied before encoding.
func NewYAMLSerializer(opts ...jsonutil.ReduceOption) YAMLSerializer {
	return YAMLSerializer{
		opts: opts,
	}
}

// Dump implements the Serializer interface.
func (s YAMLSerializer) Dump(obj any, w io.Writer) error {
	data, err := s.DumpBytes(obj)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return errSerialize(err)
	}

	return nil
}

// DumpBytes implements the Serializer interface.
func (s YAMLSerializer) DumpBytes(obj any) ([]byte, error) {
	reduced, err := jsonutil.Reduce(obj, s.opts...)
	if err != nil {
		return nil, errSerialize(err)
	}

	data, err := yaml.Marshal(reduced)
	if err != nil {
		return nil, errSerialize(err)
	}

	return data, nil
}

// Load implements the Serializer interface.
func (s YAMLSerializer) Load(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errDeserialize(err)
	}

	return s.LoadBytes(data)
}

// LoadBytes implements the Serializer interface.
func (s YAMLSerializer) LoadBytes(data []byte) (any, error) {
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errDeserialize(err)
	}

	return out, nil
}

// CBORSerializer serializes to deterministic CBOR (RFC 8949 core profile),
// applying the primitive reducer before encoding.
type CBORSerializer struct {
	enc  cbor.EncMode
	dec  cbor.DecMode
	opts []jsonutil.ReduceOption
}

// NewCBORSerializer creates a new CBORSerializer with canonical encode
// options. The reduce options configure the reduction applied before
// encoding.
func NewCBORSerializer(opts ...jsonutil.ReduceOption) (CBORSerializer, error) {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return CBORSerializer{}, errSerialize(err)
	}

	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return CBORSerializer{}, errSerialize(err)
	}

	return CBORSerializer{
		enc:  enc,
		dec:  dec,
		opts: opts,
	}, nil
}

// Dump implements the Serializer interface.
func (s CBORSerializer) Dump(obj any, w io.Writer) error {
	data, err := s.DumpBytes(obj)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return errSerialize(err)
	}

	return nil
}

// DumpBytes implements the Serializer interface.
func (s CBORSerializer) DumpBytes(obj any) ([]byte, error) {
	reduced, err := jsonutil.Reduce(obj, s.opts...)
	if err != nil {
		return nil, errSerialize(err)
	}

	data, err := s.enc.Marshal(reduced)
	if err != nil {
		return nil, errSerialize(err)
	}

	return data, nil
}

// Load implements the Serializer interface.
func (s CBORSerializer) Load(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errDeserialize(err)
	}

	return s.LoadBytes(data)
}

// LoadBytes implements the Serializer interface.
func (s CBORSerializer) LoadBytes(data []byte) (any, error) {
	var out any
	if err := s.dec.Unmarshal(data, &out); err != nil {
		return nil, errDeserialize(err)
	}

	return out, nil
}
