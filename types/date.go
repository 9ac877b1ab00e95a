// Package types provides the value types the base wire formats cannot
// natively represent: calendar dates, unbounded counters, set containers
// and legacy second-precision timestamps.
package types

import (
	"fmt"
	"time"
)

// Date is a calendar date without a time-of-day or location component.
type Date struct {
	Year  int
	Month int
	Day   int
}

// NewDate creates a new Date instance.
func NewDate(year int, month int, day int) Date {
	return Date{
		Year:  year,
		Month: month,
		Day:   day,
	}
}

// DateOf returns the Date on which the given moment occurs, in its location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()

	return Date{
		Year:  year,
		Month: int(month),
		Day:   day,
	}
}

// Time returns the midnight UTC instant of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the ISO-8601 form of the date, YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
