package types

import (
	"fmt"
)

// Counter is an unbounded arithmetic counter. It produces the values
// start, start+step, start+2*step, ... and never terminates, so it must
// not be materialized into a sequence.
type Counter struct {
	next int64
	step int64
}

// NewCounter creates a new Counter that starts at start and advances by step.
func NewCounter(start int64, step int64) *Counter {
	return &Counter{
		next: start,
		step: step,
	}
}

// Next returns the current value of the counter and advances it.
func (c *Counter) Next() int64 {
	value := c.next
	c.next += c.step

	return value
}

// Step returns the increment applied on each call to Next.
func (c *Counter) Step() int64 {
	return c.step
}

// Peek returns the value the next call to Next returns, without advancing.
func (c *Counter) Peek() int64 {
	return c.next
}

// String returns the canonical form of the counter: "count(next)" when the
// step is one, "count(next, step)" otherwise. A partially consumed counter
// shows its current position, not its original start.
func (c *Counter) String() string {
	if c.step == 1 {
		return fmt.Sprintf("count(%d)", c.next)
	}

	return fmt.Sprintf("count(%d, %d)", c.next, c.step)
}
