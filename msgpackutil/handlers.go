package msgpackutil

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tarantool/go-serialize/types"
)

// uuidHandler carries unique identifiers as the ASCII hex form of their
// bytes.
type uuidHandler struct{}

// NewUUIDHandler creates the built-in handler for uuid.UUID values.
func NewUUIDHandler() Handler {
	return uuidHandler{}
}

func (uuidHandler) Identity() int {
	return IdentityUUID
}

func (uuidHandler) Handles(value any) bool {
	_, ok := value.(uuid.UUID)

	return ok
}

func (uuidHandler) Serialize(value any) ([]byte, error) {
	u, ok := value.(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedType, value)
	}

	return []byte(hex.EncodeToString(u[:])), nil
}

func (uuidHandler) Deserialize(data []byte) (any, error) {
	u, err := uuid.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse uuid payload: %w", err)
	}

	return u, nil
}

// dateTimeHandler carries timestamps as a nested field record encoded via
// the owning registry's own codec. The field set is flat, so the self
// reference is bounded.
type dateTimeHandler struct {
	registry *Registry
}

// NewDateTimeHandler creates the built-in handler for time.Time values.
func NewDateTimeHandler(registry *Registry) Handler {
	return dateTimeHandler{registry: registry}
}

func (dateTimeHandler) Identity() int {
	return IdentityDateTime
}

func (dateTimeHandler) Handles(value any) bool {
	_, ok := value.(time.Time)

	return ok
}

// Rebind implements the Rebinder interface.
func (dateTimeHandler) Rebind(registry *Registry) Handler {
	return NewDateTimeHandler(registry)
}

func (h dateTimeHandler) Serialize(value any) ([]byte, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedType, value)
	}

	// A fixed numeric offset has no loadable zone name. The instant is
	// normalized to UTC so the wall-clock fields stay unambiguous instead
	// of silently losing the offset.
	if t.Location().String() == "" {
		t = t.UTC()
	}

	fields := map[string]any{
		"day":         t.Day(),
		"month":       int(t.Month()),
		"year":        t.Year(),
		"hour":        t.Hour(),
		"minute":      t.Minute(),
		"second":      t.Second(),
		"microsecond": t.Nanosecond() / 1000,
	}

	if zone := t.Location().String(); zone != "" && zone != "UTC" {
		fields["tz"] = zone
	}

	return Dumps(fields, h.registry)
}

func (h dateTimeHandler) Deserialize(data []byte) (any, error) {
	value, err := Loads(data, h.registry)
	if err != nil {
		return nil, err
	}

	fields, err := recordFields(value)
	if err != nil {
		return nil, err
	}

	parts := make(map[string]int, len(fields))

	for _, name := range []string{"day", "month", "year", "hour", "minute", "second", "microsecond"} {
		parts[name], err = intField(fields, name)
		if err != nil {
			return nil, err
		}
	}

	location := time.UTC

	if zone, ok := fields["tz"]; ok {
		name, ok := zone.(string)
		if !ok {
			return nil, fmt.Errorf("%w: tz field is %T", ErrUnexpectedType, zone)
		}

		location, err = time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
		}
	}

	return time.Date(
		parts["year"], time.Month(parts["month"]), parts["day"],
		parts["hour"], parts["minute"], parts["second"],
		parts["microsecond"]*1000, location,
	), nil
}

// counterHandler carries counters as a two-integer (start, step) pair
// extracted from the counter's canonical string form.
type counterHandler struct{}

// NewCounterHandler creates the built-in handler for *types.Counter values.
func NewCounterHandler() Handler {
	return counterHandler{}
}

func (counterHandler) Identity() int {
	return IdentityCounter
}

func (counterHandler) Handles(value any) bool {
	_, ok := value.(*types.Counter)

	return ok
}

func (counterHandler) Serialize(value any) ([]byte, error) {
	c, ok := value.(*types.Counter)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedType, value)
	}

	text := c.String()

	open := strings.Index(text, "(")
	closing := strings.LastIndex(text, ")")

	if open < 0 || closing < open {
		return nil, fmt.Errorf("%w: malformed counter form %q", ErrUnexpectedType, text)
	}

	pieces := strings.Split(text[open+1:closing], ",")

	start, err := strconv.ParseInt(strings.TrimSpace(pieces[0]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse counter start: %w", err)
	}

	step := int64(1)

	if len(pieces) > 1 {
		step, err = strconv.ParseInt(strings.TrimSpace(pieces[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse counter step: %w", err)
		}
	}

	payload, err := msgpack.Marshal([]int64{start, step})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal counter payload: %w", err)
	}

	return payload, nil
}

func (counterHandler) Deserialize(data []byte) (any, error) {
	var pair []int64
	if err := msgpack.Unmarshal(data, &pair); err != nil {
		return nil, fmt.Errorf("failed to unmarshal counter payload: %w", err)
	}

	if len(pair) != 2 {
		return nil, fmt.Errorf("%w: counter payload has %d values", ErrUnexpectedType, len(pair))
	}

	return types.NewCounter(pair[0], pair[1]), nil
}

// ipAddressHandler carries IPv4 addresses as their packed 32-bit integer
// value and IPv6 addresses as their 16-byte form (a msgpack integer cannot
// hold 128 bits).
type ipAddressHandler struct{}

// NewIPAddressHandler creates the built-in handler for netip.Addr values.
func NewIPAddressHandler() Handler {
	return ipAddressHandler{}
}

func (ipAddressHandler) Identity() int {
	return IdentityIPAddress
}

func (ipAddressHandler) Handles(value any) bool {
	_, ok := value.(netip.Addr)

	return ok
}

func (ipAddressHandler) Serialize(value any) ([]byte, error) {
	addr, ok := value.(netip.Addr)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedType, value)
	}

	var payload []byte

	var err error

	if addr.Is4() {
		four := addr.As4()
		payload, err = msgpack.Marshal(binary.BigEndian.Uint32(four[:]))
	} else {
		sixteen := addr.As16()
		payload, err = msgpack.Marshal(sixteen[:])
	}

	if err != nil {
		return nil, fmt.Errorf("failed to marshal address payload: %w", err)
	}

	return payload, nil
}

func (ipAddressHandler) Deserialize(data []byte) (any, error) {
	var packed uint64
	if err := msgpack.Unmarshal(data, &packed); err == nil {
		var four [4]byte

		binary.BigEndian.PutUint32(four[:], uint32(packed)) //nolint:gosec

		return netip.AddrFrom4(four), nil
	}

	var raw []byte
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal address payload: %w", err)
	}

	addr, ok := netip.AddrFromSlice(raw)
	if !ok {
		return nil, fmt.Errorf("%w: address payload has %d bytes", ErrUnexpectedType, len(raw))
	}

	return addr, nil
}

// setHandler carries sets as an ordered sequence of their elements encoded
// via the owning registry. Element order is not preserved.
type setHandler struct {
	registry *Registry
}

// NewSetHandler creates the built-in handler for *types.Set values.
func NewSetHandler(registry *Registry) Handler {
	return setHandler{registry: registry}
}

func (setHandler) Identity() int {
	return IdentitySet
}

func (setHandler) Handles(value any) bool {
	_, ok := value.(*types.Set)

	return ok
}

// Rebind implements the Rebinder interface.
func (setHandler) Rebind(registry *Registry) Handler {
	return NewSetHandler(registry)
}

func (h setHandler) Serialize(value any) ([]byte, error) {
	s, ok := value.(*types.Set)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedType, value)
	}

	return Dumps(s.Items(), h.registry)
}

func (h setHandler) Deserialize(data []byte) (any, error) {
	items, err := sequencePayload(data, h.registry)
	if err != nil {
		return nil, err
	}

	return types.NewSet(items...), nil
}

// frozenSetHandler is the setHandler variant tagged separately so decode
// reconstructs the immutable container.
type frozenSetHandler struct {
	registry *Registry
}

// NewFrozenSetHandler creates the built-in handler for types.FrozenSet
// values.
func NewFrozenSetHandler(registry *Registry) Handler {
	return frozenSetHandler{registry: registry}
}

func (frozenSetHandler) Identity() int {
	return IdentityFrozenSet
}

func (frozenSetHandler) Handles(value any) bool {
	_, ok := value.(types.FrozenSet)

	return ok
}

// Rebind implements the Rebinder interface.
func (frozenSetHandler) Rebind(registry *Registry) Handler {
	return NewFrozenSetHandler(registry)
}

func (h frozenSetHandler) Serialize(value any) ([]byte, error) {
	fs, ok := value.(types.FrozenSet)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedType, value)
	}

	return Dumps(fs.Items(), h.registry)
}

func (h frozenSetHandler) Deserialize(data []byte) (any, error) {
	items, err := sequencePayload(data, h.registry)
	if err != nil {
		return nil, err
	}

	return types.NewFrozenSet(items...), nil
}

// legacyTimeHandler normalizes legacy second-precision timestamps and
// delegates the payload encoding to the timestamp handler.
type legacyTimeHandler struct {
	inner dateTimeHandler
}

// NewLegacyTimeHandler creates the built-in handler for types.LegacyTime
// values.
func NewLegacyTimeHandler(registry *Registry) Handler {
	return legacyTimeHandler{inner: dateTimeHandler{registry: registry}}
}

func (legacyTimeHandler) Identity() int {
	return IdentityLegacyTime
}

func (legacyTimeHandler) Handles(value any) bool {
	_, ok := value.(types.LegacyTime)

	return ok
}

// Rebind implements the Rebinder interface.
func (legacyTimeHandler) Rebind(registry *Registry) Handler {
	return NewLegacyTimeHandler(registry)
}

func (h legacyTimeHandler) Serialize(value any) ([]byte, error) {
	lt, ok := value.(types.LegacyTime)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedType, value)
	}

	return h.inner.Serialize(lt.Time())
}

func (h legacyTimeHandler) Deserialize(data []byte) (any, error) {
	value, err := h.inner.Deserialize(data)
	if err != nil {
		return nil, err
	}

	t, ok := value.(time.Time)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedType, value)
	}

	return types.NewLegacyTime(t), nil
}

// dateHandler carries calendar dates as a year/month/day record encoded via
// the owning registry.
type dateHandler struct {
	registry *Registry
}

// NewDateHandler creates the built-in handler for types.Date values.
func NewDateHandler(registry *Registry) Handler {
	return dateHandler{registry: registry}
}

func (dateHandler) Identity() int {
	return IdentityDate
}

func (dateHandler) Handles(value any) bool {
	_, ok := value.(types.Date)

	return ok
}

// Rebind implements the Rebinder interface.
func (dateHandler) Rebind(registry *Registry) Handler {
	return NewDateHandler(registry)
}

func (h dateHandler) Serialize(value any) ([]byte, error) {
	d, ok := value.(types.Date)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedType, value)
	}

	return Dumps(map[string]any{
		"year":  d.Year,
		"month": d.Month,
		"day":   d.Day,
	}, h.registry)
}

func (h dateHandler) Deserialize(data []byte) (any, error) {
	value, err := Loads(data, h.registry)
	if err != nil {
		return nil, err
	}

	fields, err := recordFields(value)
	if err != nil {
		return nil, err
	}

	year, err := intField(fields, "year")
	if err != nil {
		return nil, err
	}

	month, err := intField(fields, "month")
	if err != nil {
		return nil, err
	}

	day, err := intField(fields, "day")
	if err != nil {
		return nil, err
	}

	return types.NewDate(year, month, day), nil
}

// recordFields normalizes a decoded nested record to a text-keyed mapping.
// Payloads produced by older encoding conventions may carry field names as
// raw bytes; if any key is binary, the whole record is re-keyed as text.
func recordFields(value any) (map[string]any, error) {
	switch m := value.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))

		for k, v := range m {
			switch key := k.(type) {
			case string:
				out[key] = v
			case []byte:
				out[string(key)] = v
			default:
				return nil, fmt.Errorf("%w: record key is %T", ErrUnexpectedType, k)
			}
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: record payload is %T", ErrUnexpectedType, value)
	}
}

func intField(fields map[string]any, name string) (int, error) {
	value, ok := fields[name]
	if !ok {
		return 0, fmt.Errorf("%w: record misses field %q", ErrUnexpectedType, name)
	}

	switch n := value.(type) {
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil //nolint:gosec
	default:
		return 0, fmt.Errorf("%w: field %q is %T", ErrUnexpectedType, name, value)
	}
}

func sequencePayload(data []byte, registry *Registry) ([]any, error) {
	value, err := Loads(data, registry)
	if err != nil {
		return nil, err
	}

	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: sequence payload is %T", ErrUnexpectedType, value)
	}

	return items, nil
}
