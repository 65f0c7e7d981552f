package catalog

import (
	"time"

	"github.com/hagtolur/talnaefni/models"
)

// Decision is the outcome of the staleness policy for one subcategory.
type Decision int

const (
	// Skip keeps the cached links; no network fetch happens.
	Skip Decision = iota
	// ScrapeFirstRun scrapes because no links were ever recorded.
	ScrapeFirstRun
	// ScrapeDue scrapes because the declared next_update has arrived.
	ScrapeDue
	// ScrapeOverdue scrapes because the cadence estimate from last_update
	// has passed; the publisher declared no next_update.
	ScrapeOverdue
	// ScrapeUnknown scrapes because no usable metadata exists. Unknown
	// staleness is treated as stale.
	ScrapeUnknown
)

// Scrape reports whether the decision requires fetching the page.
func (d Decision) Scrape() bool {
	return d != Skip
}

func (d Decision) String() string {
	switch d {
	case Skip:
		return "skip"
	case ScrapeFirstRun:
		return "first_run"
	case ScrapeDue:
		return "due"
	case ScrapeOverdue:
		return "overdue"
	case ScrapeUnknown:
		return "no_metadata"
	default:
		return "invalid"
	}
}

// Decide applies the staleness policy to one subcategory. It is a pure
// function of the clock and the record: the fetch side effect stays with
// the caller.
//
// The rules, in order: a subcategory with no recorded links is always
// scraped; a declared next_update decides directly; without one, the next
// update is estimated as last_update plus the cadence interval; with no
// metadata at all the record counts as stale.
func Decide(now time.Time, sub *models.Subcategory) Decision {
	if !sub.HasLinks() {
		return ScrapeFirstRun
	}

	if sub.NextUpdate != nil {
		if sub.NextUpdate.OnOrBefore(now) {
			return ScrapeDue
		}
		return Skip
	}

	if sub.LastUpdate != nil && sub.UpdateFrequency.Known() {
		estimate := sub.LastUpdate.AddDays(sub.UpdateFrequency.IntervalDays())
		if estimate.OnOrBefore(now) {
			return ScrapeOverdue
		}
		return Skip
	}

	return ScrapeUnknown
}
