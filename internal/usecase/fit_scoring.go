package usecase

import (
	"sort"
	"strings"

	"github.com/softwarescout/backend/internal/domain"
)

// Fit scoring constants
const (
	baseIndustryWeight    = 3.0 // Tool has a fit row but no weight for the industry type
	keywordBonusFactor    = 0.3 // Each matched keyword adds weight * factor
	defaultRecommendCount = 4
)

// ScoreTool computes how well a tool suits an industry.
//
// A tool without a fit row scores 0. Otherwise the score starts at the authored
// weight for the industry's type (3 when the type is not listed) and gains
// weight*0.3 for every keyword found in the industry's descriptive text.
// Keywords are visited in authored order so the sum is reproducible.
func ScoreTool(toolSlug string, industry domain.IndustryProfile, table domain.FitTable) float64 {
	fit, ok := table[toolSlug]
	if !ok {
		return 0
	}

	score := baseIndustryWeight
	if w, ok := fit.IndustryTypes[industry.Type]; ok {
		score = float64(w)
	}

	if len(fit.Keywords) == 0 {
		return score
	}

	blob := industryText(industry)
	for _, kw := range fit.Keywords {
		phrase := strings.ToLower(kw.Phrase)
		if phrase == "" {
			continue
		}
		if strings.Contains(blob, phrase) {
			score += float64(kw.Weight) * keywordBonusFactor
		}
	}

	return score
}

// industryText is the lowercase descriptive text keywords are matched against:
// pain points, workflows, content needs and key terms joined by single spaces.
func industryText(industry domain.IndustryProfile) string {
	n := len(industry.PainPoints) + len(industry.Workflows) + len(industry.ContentNeeds) + len(industry.KeyTerms)
	parts := make([]string, 0, n)
	parts = append(parts, industry.PainPoints...)
	parts = append(parts, industry.Workflows...)
	parts = append(parts, industry.ContentNeeds...)
	parts = append(parts, industry.KeyTerms...)
	return strings.ToLower(strings.Join(parts, " "))
}

// ScoredTool pairs a tool profile with its fit score
type ScoredTool struct {
	Tool  domain.ToolProfile
	Score float64
}

// SelectBestTools ranks a category's tools for an industry and returns the top
// count. Ties keep the category's authored order. count <= 0 means 4; a
// category with fewer tools returns all of them.
func SelectBestTools(
	category domain.CategoryProfile,
	industry domain.IndustryProfile,
	table domain.FitTable,
	count int,
) []domain.ToolProfile {
	scored := RankTools(category, industry, table)

	if count <= 0 {
		count = defaultRecommendCount
	}
	if count > len(scored) {
		count = len(scored)
	}

	selected := make([]domain.ToolProfile, count)
	for i := 0; i < count; i++ {
		selected[i] = scored[i].Tool
	}
	return selected
}

// RankTools scores every tool of the category and sorts them descending.
// A nil table scores every tool 0, leaving authored order.
func RankTools(category domain.CategoryProfile, industry domain.IndustryProfile, table domain.FitTable) []ScoredTool {
	scored := make([]ScoredTool, len(category.Tools))
	for i, tool := range category.Tools {
		scored[i] = ScoredTool{Tool: tool, Score: ScoreTool(tool.Slug, industry, table)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
