package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeSearchQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n ", ""},
		{"trims", "  hubspot  ", "hubspot"},
		{"collapses inner space", "email    marketing\ttools", "email marketing tools"},
		{"strips control chars", "crm\x00\x07 tools", "crm tools"},
		{"keeps case", "HubSpot CRM", "HubSpot CRM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSearchQuery(tt.input); got != tt.want {
				t.Errorf("NormalizeSearchQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeSearchQuery_LongInput(t *testing.T) {
	got := NormalizeSearchQuery(strings.Repeat("ü", 250))
	if n := utf8.RuneCountInString(got); n != 100 {
		t.Errorf("rune count = %d, want 100", n)
	}
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"crm", "%crm%"},
		{"100%", `%100\%%`},
		{"snake_case", `%snake\_case%`},
		{`back\slash`, `%back\\slash%`},
	}

	for _, tt := range tests {
		if got := LikePattern(tt.input); got != tt.want {
			t.Errorf("LikePattern(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
