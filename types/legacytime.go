package types

import (
	"time"
)

// legacyTimeFormat is the compact second-precision form used by the legacy
// timestamp protocol.
const legacyTimeFormat = "20060102T15:04:05"

// LegacyTime is a timestamp carried over the legacy second-precision
// protocol. Sub-second precision is dropped on construction.
type LegacyTime struct {
	t time.Time
}

// NewLegacyTime creates a new LegacyTime, truncating the given moment to
// whole seconds.
func NewLegacyTime(t time.Time) LegacyTime {
	return LegacyTime{
		t: t.Truncate(time.Second),
	}
}

// Time returns the timestamp as a regular time.Time.
func (lt LegacyTime) Time() time.Time {
	return lt.t
}

// String returns the compact legacy form, e.g. "20060102T15:04:05".
func (lt LegacyTime) String() string {
	return lt.t.Format(legacyTimeFormat)
}
