package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxSearchQueryLength = 100

var (
	controlCharsPattern = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	searchSpacePattern  = regexp.MustCompile(`\s+`)
	likeEscaper         = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// NormalizeSearchQuery trims, strips control characters and collapses
// whitespace. Queries are cut to 100 runes.
func NormalizeSearchQuery(q string) string {
	q = controlCharsPattern.ReplaceAllString(q, " ")
	q = searchSpacePattern.ReplaceAllString(q, " ")
	q = strings.TrimSpace(q)

	if utf8.RuneCountInString(q) > maxSearchQueryLength {
		q = strings.TrimSpace(string([]rune(q)[:maxSearchQueryLength]))
	}
	return q
}

// LikePattern builds a contains-match ILIKE pattern with wildcards in q escaped
func LikePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
