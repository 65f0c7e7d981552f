package parser

import (
	"strings"

	"github.com/hagtolur/talnaefni/models"
)

// frequencyLabels is the known publisher vocabulary, matched as lowercase
// substrings ("Birt daglega" carries "daglega"). Unmatched text is
// deliberately left unknown rather than guessed.
var frequencyLabels = []struct {
	label string
	freq  models.Frequency
}{
	{"daglega", models.FreqDaily},
	{"vikulega", models.FreqWeekly},
	{"mánaðarlega", models.FreqMonthly},
	{"ársfjórðungslega", models.FreqQuarterly},
	{"árlega", models.FreqAnnual},
}

// InferFrequency maps publisher cadence text to the Frequency enum.
func InferFrequency(text string) models.Frequency {
	cleaned := strings.ToLower(strings.TrimSpace(text))
	if cleaned == "" {
		return models.FreqUnknown
	}
	for _, entry := range frequencyLabels {
		if strings.Contains(cleaned, entry.label) {
			return entry.freq
		}
	}
	return models.FreqUnknown
}

// deltaBands maps a gap between consecutive update dates, in days, to the
// nearest cadence.
var deltaBands = []struct {
	maxDays int
	freq    models.Frequency
}{
	{2, models.FreqDaily},
	{10, models.FreqWeekly},
	{45, models.FreqMonthly},
	{135, models.FreqQuarterly},
	{400, models.FreqAnnual},
}

// FrequencyBetween infers a cadence from two consecutive known update
// dates. Either date missing, or an implausible gap, yields unknown.
func FrequencyBetween(a, b *models.Date) models.Frequency {
	if a == nil || b == nil {
		return models.FreqUnknown
	}
	days := int(b.Time.Sub(a.Time).Hours() / 24)
	if days < 0 {
		days = -days
	}
	if days == 0 {
		return models.FreqUnknown
	}
	for _, band := range deltaBands {
		if days <= band.maxDays {
			return band.freq
		}
	}
	return models.FreqUnknown
}
