package catalog

import (
	"testing"
	"time"

	"github.com/hagtolur/talnaefni/models"
)

var sampleLinks = []*models.DataLink{
	{Name: "Gengi", URL: "https://example.test/skrar/gengi.xlsx", ContentType: "xlsx"},
}

func TestDecide(t *testing.T) {
	now := time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		sub  *models.Subcategory
		want Decision
	}{
		{
			name: "never scraped",
			sub:  &models.Subcategory{},
			want: ScrapeFirstRun,
		},
		{
			name: "never scraped outranks future next_update",
			sub:  &models.Subcategory{NextUpdate: models.NewDate(2024, time.April, 1)},
			want: ScrapeFirstRun,
		},
		{
			name: "next_update in the past",
			sub: &models.Subcategory{
				NextUpdate: models.NewDate(2024, time.February, 1),
				Links:      sampleLinks,
			},
			want: ScrapeDue,
		},
		{
			name: "next_update today",
			sub: &models.Subcategory{
				NextUpdate: models.NewDate(2024, time.March, 1),
				Links:      sampleLinks,
			},
			want: ScrapeDue,
		},
		{
			name: "next_update tomorrow",
			sub: &models.Subcategory{
				NextUpdate: models.NewDate(2024, time.March, 2),
				Links:      sampleLinks,
			},
			want: Skip,
		},
		{
			name: "no next_update, cadence estimate passed",
			sub: &models.Subcategory{
				LastUpdate:      models.NewDate(2024, time.January, 1),
				UpdateFrequency: models.FreqMonthly,
				Links:           sampleLinks,
			},
			want: ScrapeOverdue,
		},
		{
			name: "no next_update, cadence estimate today",
			sub: &models.Subcategory{
				LastUpdate:      models.NewDate(2024, time.January, 31),
				UpdateFrequency: models.FreqMonthly,
				Links:           sampleLinks,
			},
			want: ScrapeOverdue,
		},
		{
			name: "no next_update, still within cadence",
			sub: &models.Subcategory{
				LastUpdate:      models.NewDate(2024, time.February, 25),
				UpdateFrequency: models.FreqMonthly,
				Links:           sampleLinks,
			},
			want: Skip,
		},
		{
			name: "no next_update, weekly cadence passed",
			sub: &models.Subcategory{
				LastUpdate:      models.NewDate(2024, time.February, 20),
				UpdateFrequency: models.FreqWeekly,
				Links:           sampleLinks,
			},
			want: ScrapeOverdue,
		},
		{
			name: "no next_update, unknown cadence",
			sub: &models.Subcategory{
				LastUpdate:      models.NewDate(2024, time.February, 25),
				UpdateFrequency: models.FreqUnknown,
				Links:           sampleLinks,
			},
			want: ScrapeUnknown,
		},
		{
			name: "cadence without last_update",
			sub: &models.Subcategory{
				UpdateFrequency: models.FreqMonthly,
				Links:           sampleLinks,
			},
			want: ScrapeUnknown,
		},
		{
			name: "no metadata at all",
			sub:  &models.Subcategory{Links: sampleLinks},
			want: ScrapeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(now, tt.sub); got != tt.want {
				t.Fatalf("Decide(%v) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

// Any next_update on or before the clock must scrape, no matter how far
// back it lies.
func TestDecideDueDateMonotonic(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	for days := 0; days <= 730; days += 30 {
		sub := &models.Subcategory{
			NextUpdate: models.DateOf(now).AddDays(-days),
			Links:      sampleLinks,
		}
		decision := Decide(now, sub)
		if !decision.Scrape() {
			t.Fatalf("next_update %d days back: decision = %v, want a scrape", days, decision)
		}
	}
}

func TestDecisionScrape(t *testing.T) {
	if Skip.Scrape() {
		t.Fatalf("Skip must not scrape")
	}
	for _, d := range []Decision{ScrapeFirstRun, ScrapeDue, ScrapeOverdue, ScrapeUnknown} {
		if !d.Scrape() {
			t.Fatalf("%v must scrape", d)
		}
	}
}

func TestDecisionString(t *testing.T) {
	tests := []struct {
		decision Decision
		want     string
	}{
		{Skip, "skip"},
		{ScrapeFirstRun, "first_run"},
		{ScrapeDue, "due"},
		{ScrapeOverdue, "overdue"},
		{ScrapeUnknown, "no_metadata"},
		{Decision(99), "invalid"},
	}

	for _, tt := range tests {
		if got := tt.decision.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}
