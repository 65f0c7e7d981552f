package models

import "time"

// Frequency is the inferred publication cadence of a subcategory.
type Frequency string

const (
	FreqDaily     Frequency = "daily"
	FreqWeekly    Frequency = "weekly"
	FreqMonthly   Frequency = "monthly"
	FreqQuarterly Frequency = "quarterly"
	FreqAnnual    Frequency = "annual"
	FreqUnknown   Frequency = "unknown"
)

const day = 24 * time.Hour

// intervals maps each cadence to its typical gap between publications.
var intervals = map[Frequency]time.Duration{
	FreqDaily:     day,
	FreqWeekly:    7 * day,
	FreqMonthly:   30 * day,
	FreqQuarterly: 91 * day,
	FreqAnnual:    365 * day,
}

// Interval returns the typical gap between publications, or 0 when the
// cadence is unknown.
func (f Frequency) Interval() time.Duration {
	return intervals[f]
}

// IntervalDays returns the interval in whole days.
func (f Frequency) IntervalDays() int {
	return int(intervals[f] / day)
}

// Known reports whether the cadence carries a usable interval.
func (f Frequency) Known() bool {
	_, ok := intervals[f]
	return ok
}

// Valid reports whether f is a member of the enum, unknown included.
func (f Frequency) Valid() bool {
	return f == FreqUnknown || f.Known()
}
