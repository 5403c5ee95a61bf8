// Package ledger holds the budgeting-ledger side of the domain: calendar
// dates and register transactions as exported by the budgeting tool.
package ledger

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day component. The zero value is
// the zero date. Internally stored as UTC midnight so day arithmetic is
// exact regardless of source timezone.
type Date struct {
	t time.Time
}

// NewDate constructs a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO-8601 date string ("2006-01-02").
func ParseDate(s string) (Date, error) {
	return ParseDateLayout(time.DateOnly, s)
}

// ParseDateLayout parses a date string with a custom layout.
func ParseDateLayout(layout, s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateFromUnix constructs a Date from an epoch timestamp in seconds.
func DateFromUnix(sec int64) Date {
	return DateOf(time.Unix(sec, 0).UTC())
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the underlying UTC-midnight timestamp.
func (d Date) Time() time.Time {
	return d.t
}

// DaysBetween returns the absolute difference in whole days between d and
// other.
func (d Date) DaysBetween(other Date) int {
	diff := int(d.t.Sub(other.t).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	return diff
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.t.AddDate(0, 0, n))
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d is later than other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal reports whether the two dates are the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// String formats the date as ISO-8601 ("2006-01-02").
func (d Date) String() string {
	return d.t.Format(time.DateOnly)
}

// MarshalJSON serializes the date as an ISO-8601 string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses an ISO-8601 date string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date JSON %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
