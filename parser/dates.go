// Package parser turns publisher markup and text into typed records: the
// category tables of the statistics root page, the "Tímaraðir" link
// sections of subcategory pages, Icelandic date strings, and publication
// cadences.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hagtolur/talnaefni/models"
)

// ParseError reports date text that matched none of the tolerated forms.
// Callers treat it as data, not failure: the date degrades to null and the
// run continues.
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable date text %q", e.Text)
}

// numericLayouts are tried in order. The publisher writes day-first.
var numericLayouts = []string{
	"2006-01-02",
	"2.1.2006",
	"2/1/2006",
}

// icelandicDate matches forms like "2. janúar 2024".
var icelandicDate = regexp.MustCompile(`^(\d{1,2})\.?\s+(\p{L}+)\s+(\d{4})$`)

var icelandicMonths = map[string]time.Month{
	"janúar":    time.January,
	"febrúar":   time.February,
	"mars":      time.March,
	"apríl":     time.April,
	"maí":       time.May,
	"júní":      time.June,
	"júlí":      time.July,
	"ágúst":     time.August,
	"september": time.September,
	"október":   time.October,
	"nóvember":  time.November,
	"desember":  time.December,
}

// ParseDate parses publisher date text tolerantly. Blank text yields
// (nil, nil); text matching no known form yields (nil, *ParseError).
func ParseDate(text string) (*models.Date, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "\u00a0", " "))
	if cleaned == "" {
		return nil, nil
	}

	for _, layout := range numericLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return models.DateOf(t), nil
		}
	}

	if m := icelandicDate.FindStringSubmatch(strings.ToLower(cleaned)); m != nil {
		if month, ok := icelandicMonths[m[2]]; ok {
			day := atoi(m[1])
			year := atoi(m[3])
			if day >= 1 && day <= 31 {
				return models.NewDate(year, month, day), nil
			}
		}
	}

	return nil, &ParseError{Text: cleaned}
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
