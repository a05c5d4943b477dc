// Package date provides a calendar Date type that marshals as YYYY-MM-DD.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

const format = "2006-01-02"

const hoursPerDay = 24

// Date represents a calendar date without time of day. The zero Date means
// "no date".
type Date struct {
	time.Time
}

// New creates a Date from year, month, day.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Of returns the calendar date of t in t's own location.
func Of(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns today's local date.
func Today() Date {
	return Of(time.Now())
}

// Parse parses a YYYY-MM-DD string into a Date. Full RFC 3339 timestamps are
// accepted too; only their date part is kept.
func Parse(s string) (Date, error) {
	t, err := time.Parse(format, s)
	if err == nil {
		return Date{t}, nil
	}
	if ts, tsErr := time.Parse(time.RFC3339, s); tsErr == nil {
		return Of(ts), nil
	}
	return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// String returns the date as YYYY-MM-DD, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(format)
}

// DaysUntil returns the number of whole days from d to other. It is negative
// when other lies before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours()) / hoursPerDay
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. An empty string decodes to the
// zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
