package msgpackutil

import (
	"fmt"
)

// Interval is a small immutable integer interval. Containment checking is
// inclusive of both boundaries.
type Interval struct {
	min int
	max int
}

// NewInterval creates a new Interval. It fails when min exceeds max.
func NewInterval(minValue int, maxValue int) (Interval, error) {
	if minValue > maxValue {
		return Interval{}, errInvalidInterval(minValue, maxValue)
	}

	return Interval{min: minValue, max: maxValue}, nil
}

// Min returns the inclusive lower boundary.
func (i Interval) Min() int {
	return i.min
}

// Max returns the inclusive upper boundary.
func (i Interval) Max() int {
	return i.max
}

// Contains reports whether the value lies within the interval boundaries.
func (i Interval) Contains(value int) bool {
	return value >= i.min && value <= i.max
}

// String returns a string representation of the interval.
func (i Interval) String() string {
	return fmt.Sprintf("[%d, %d]", i.min, i.max)
}

//nolint:gochecknoglobals
var (
	// ReservedExtensionRange holds the extension identities reserved for
	// the built-in handlers of this library and its own add-ons.
	ReservedExtensionRange = Interval{min: 0, max: 32}

	// NonReservedExtensionRange holds the extension identities open to
	// applications building their own type specific handlers.
	NonReservedExtensionRange = Interval{min: 33, max: 127}
)
