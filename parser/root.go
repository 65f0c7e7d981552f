package parser

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hagtolur/talnaefni/models"
)

// Column layout of the statistics tables. A row needs at least six cells;
// the anchor sits in the first, the cadence label in the third, and the
// publisher dates in the fourth and sixth.
const (
	cellLink       = 0
	cellFrequency  = 2
	cellLastUpdate = 3
	cellNextUpdate = 5
	minRowCells    = 6
)

// ExtractStats counts how extraction went; unparsable dates degrade to
// null and are tallied here instead of failing the run.
type ExtractStats struct {
	DatesParsed  int
	DatesDropped int
}

// Categories walks the news-list section of the statistics root page: each
// h4 title is a category, and the table that follows it lists one
// subcategory per row. Rows without an anchor or with too few cells are
// skipped; categories that end up empty are dropped.
func Categories(sel *goquery.Selection, pageURL *url.URL) ([]*models.Category, ExtractStats) {
	var (
		categories []*models.Category
		stats      ExtractStats
	)

	sel.Find("h4.htitle").Each(func(_ int, title *goquery.Selection) {
		category := &models.Category{Name: strings.TrimSpace(title.Text())}

		table := title.NextAllFiltered("table").First()
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header row
			}
			if sub := subcategoryFromRow(row, pageURL, &stats); sub != nil {
				category.Subcategories = append(category.Subcategories, sub)
			}
		})

		if len(category.Subcategories) > 0 {
			categories = append(categories, category)
		}
	})

	return categories, stats
}

func subcategoryFromRow(row *goquery.Selection, pageURL *url.URL, stats *ExtractStats) *models.Subcategory {
	cells := row.Find("td")
	if cells.Length() < minRowCells {
		return nil
	}

	anchor := cells.Eq(cellLink).Find("a").First()
	href, ok := anchor.Attr("href")
	if !ok {
		return nil
	}
	name := strings.TrimSpace(anchor.Text())
	if name == "" {
		return nil
	}

	last := dateFromCell(cells.Eq(cellLastUpdate), stats)
	next := dateFromCell(cells.Eq(cellNextUpdate), stats)
	// The store invariant wants next_update >= last_update; an inverted
	// pair from the publisher is dropped rather than recorded.
	if last != nil && next != nil && next.Time.Before(last.Time) {
		next = nil
		stats.DatesDropped++
	}

	freq := FrequencyBetween(last, next)
	if freq == models.FreqUnknown {
		freq = InferFrequency(cells.Eq(cellFrequency).Text())
	}

	return &models.Subcategory{
		Name:            name,
		URL:             resolveURL(pageURL, href),
		LastUpdate:      last,
		NextUpdate:      next,
		UpdateFrequency: freq,
	}
}

func dateFromCell(cell *goquery.Selection, stats *ExtractStats) *models.Date {
	date, err := ParseDate(cell.Text())
	switch {
	case err != nil:
		stats.DatesDropped++
		slog.Debug("date text dropped", slog.Any("error", err))
	case date != nil:
		stats.DatesParsed++
	}
	return date
}

// resolveURL makes href absolute against base; already-absolute references
// pass through unchanged. Unparsable hrefs are returned as-is.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
