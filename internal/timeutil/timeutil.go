// Package timeutil holds the calendar-date and time-of-day types shared by
// the aggregation and timeline code. Dates are zero-padded ISO strings so
// lexicographic comparison matches chronological order; times of day are
// minutes since midnight and only become "HH:MM" strings at the JSON
// boundary.
package timeutil

import (
	"fmt"
	"time"
)

// Date is a calendar date in ISO YYYY-MM-DD form.
type Date string

const dateLayout = "2006-01-02"

// DateOf truncates t to its calendar date in local time.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// ParseDate validates an ISO date string.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date(s), nil
}

// Time returns the date at midnight local time. Invalid dates return the
// zero time.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

func (d Date) String() string { return string(d) }

// AddDays shifts the date by n calendar days (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Weekday reports the day of week, Sunday = 0.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekStart returns the Sunday on or before the date.
func (d Date) WeekStart() Date {
	return d.AddDays(-int(d.Weekday()))
}

// WeekEnd returns the Saturday on or after the date.
func (d Date) WeekEnd() Date {
	return d.WeekStart().AddDays(6)
}

// Clock is a time of day in minutes since midnight. The exclusive upper
// bound is EndOfDay; arithmetic that would pass midnight clamps there.
type Clock int

// EndOfDay is the clamp boundary for clock arithmetic, 24:00.
const EndOfDay Clock = 24 * 60

// ClockAt builds a Clock from an hour and minute.
func ClockAt(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock parses a zero-padded "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return ClockAt(h, m), nil
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Add advances the clock by the given number of minutes, clamping at 24:00.
func (c Clock) Add(minutes int) Clock {
	out := c + Clock(minutes)
	if out > EndOfDay {
		return EndOfDay
	}
	if out < 0 {
		return 0
	}
	return out
}

// TruncateHour drops the minute component.
func (c Clock) TruncateHour() Clock {
	return ClockAt(c.Hour(), 0)
}

// MarshalJSON encodes the clock as an "HH:MM" string.
func (c Clock) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON accepts an "HH:MM" string.
func (c *Clock) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("clock: expected string, got %s", data)
	}
	parsed, err := ParseClock(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
