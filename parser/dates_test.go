package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/hagtolur/talnaefni/models"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *models.Date
	}{
		{name: "iso", text: "2024-01-15", want: models.NewDate(2024, time.January, 15)},
		{name: "dotted day first", text: "15.1.2024", want: models.NewDate(2024, time.January, 15)},
		{name: "slash day first", text: "15/1/2024", want: models.NewDate(2024, time.January, 15)},
		{name: "icelandic", text: "15. janúar 2024", want: models.NewDate(2024, time.January, 15)},
		{name: "icelandic no dot", text: "15 janúar 2024", want: models.NewDate(2024, time.January, 15)},
		{name: "icelandic capitalised", text: "15. Janúar 2024", want: models.NewDate(2024, time.January, 15)},
		{name: "icelandic december", text: "1. desember 2023", want: models.NewDate(2023, time.December, 1)},
		{name: "nbsp separated", text: "15. janúar 2024", want: models.NewDate(2024, time.January, 15)},
		{name: "surrounding space", text: "  2024-01-15  ", want: models.NewDate(2024, time.January, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.text)
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.text, err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseDate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseDateBlankIsNull(t *testing.T) {
	for _, text := range []string{"", "   ", " "} {
		got, err := ParseDate(text)
		if err != nil {
			t.Fatalf("ParseDate(%q) error: %v", text, err)
		}
		if got != nil {
			t.Fatalf("ParseDate(%q) = %v, want nil", text, got)
		}
	}
}

func TestParseDateUnparsable(t *testing.T) {
	tests := []string{
		"Engar dagsetningar",
		"15. frjanúar 2024",
		"32. janúar 2024",
		"janúar 2024",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			got, err := ParseDate(text)
			if got != nil {
				t.Fatalf("ParseDate(%q) = %v, want nil", text, got)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("ParseDate(%q) error = %v, want *ParseError", text, err)
			}
		})
	}
}
