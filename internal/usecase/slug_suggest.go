package usecase

import (
	"strings"
	"unicode/utf8"
)

// SuggestSlug returns the candidate closest to a mistyped slug, or "" when
// nothing is close. Closeness is edit distance, with shared slug words
// breaking ties.
func SuggestSlug(input string, candidates []string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	threshold := utf8.RuneCountInString(input) / 3
	if threshold < 2 {
		threshold = 2
	}

	best := ""
	bestDist := threshold + 1
	bestShared := -1
	inputWords := strings.Split(input, "-")

	for _, c := range candidates {
		if c == input {
			return c
		}
		lenDiff := utf8.RuneCountInString(c) - utf8.RuneCountInString(input)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > threshold {
			continue
		}

		dist := levenshteinDistance(input, c)
		if dist > threshold {
			continue
		}
		shared := sharedWords(inputWords, strings.Split(c, "-"))
		if dist < bestDist || (dist == bestDist && shared > bestShared) {
			best, bestDist, bestShared = c, dist, shared
		}
	}
	return best
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// two rows instead of the full matrix
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

func sharedWords(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}
	n := 0
	seen := make(map[string]bool, len(b))
	for _, w := range b {
		if set[w] && !seen[w] {
			n++
			seen[w] = true
		}
	}
	return n
}
