package parser

import (
	"testing"
	"time"

	"github.com/hagtolur/talnaefni/models"
)

func TestInferFrequency(t *testing.T) {
	tests := []struct {
		text string
		want models.Frequency
	}{
		{text: "Birt daglega", want: models.FreqDaily},
		{text: "Uppfært vikulega", want: models.FreqWeekly},
		{text: "Birt mánaðarlega", want: models.FreqMonthly},
		{text: "Ársfjórðungslega", want: models.FreqQuarterly},
		{text: "Birt árlega", want: models.FreqAnnual},
		{text: "", want: models.FreqUnknown},
		{text: "Birt óreglulega", want: models.FreqUnknown},
		{text: "sjá vefsíðu", want: models.FreqUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := InferFrequency(tt.text); got != tt.want {
				t.Fatalf("InferFrequency(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFrequencyBetween(t *testing.T) {
	base := models.NewDate(2024, time.January, 1)
	tests := []struct {
		name string
		a, b *models.Date
		want models.Frequency
	}{
		{name: "one day", a: base, b: base.AddDays(1), want: models.FreqDaily},
		{name: "seven days", a: base, b: base.AddDays(7), want: models.FreqWeekly},
		{name: "thirty days", a: base, b: base.AddDays(30), want: models.FreqMonthly},
		{name: "forty days", a: base, b: base.AddDays(40), want: models.FreqMonthly},
		{name: "quarter", a: base, b: base.AddDays(91), want: models.FreqQuarterly},
		{name: "year", a: base, b: base.AddDays(365), want: models.FreqAnnual},
		{name: "reversed", a: base.AddDays(7), b: base, want: models.FreqWeekly},
		{name: "too far apart", a: base, b: base.AddDays(500), want: models.FreqUnknown},
		{name: "same day", a: base, b: base, want: models.FreqUnknown},
		{name: "missing first", a: nil, b: base, want: models.FreqUnknown},
		{name: "missing second", a: base, b: nil, want: models.FreqUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrequencyBetween(tt.a, tt.b); got != tt.want {
				t.Fatalf("FrequencyBetween(%v, %v) = %q, want %q", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
