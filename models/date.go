package models

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// dateLayout is the wire form for calendar dates in the persisted stores.
const dateLayout = "2006-01-02"

// Date is a calendar date. It serializes to a plain YAML scalar
// (2006-01-02) so store diffs stay readable; a nil *Date serializes as an
// explicit null because an unknown publisher date is data, not an omission.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its UTC calendar date.
func DateOf(t time.Time) *Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate parses the wire form.
func ParseDate(s string) (*Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return &Date{Time: t}, nil
}

// AddDays returns the date n days later.
func (d *Date) AddDays(n int) *Date {
	return &Date{Time: d.Time.AddDate(0, 0, n)}
}

// OnOrBefore reports whether d is on or before the calendar date of t.
func (d *Date) OnOrBefore(t time.Time) bool {
	return !d.Time.After(DateOf(t).Time)
}

// Equal compares two nullable dates.
func (d *Date) Equal(other *Date) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Time.Equal(other.Time)
}

func (d *Date) String() string {
	if d == nil {
		return ""
	}
	return d.Time.Format(dateLayout)
}

// MarshalYAML emits the 2006-01-02 scalar.
func (d *Date) MarshalYAML() (interface{}, error) {
	return d.Time.Format(dateLayout), nil
}

// UnmarshalYAML accepts the 2006-01-02 scalar.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse(dateLayout, value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}
