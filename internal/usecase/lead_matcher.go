package usecase

import (
	"sort"
	"strings"

	"github.com/softwarescout/backend/internal/domain"
)

// DefaultMaxMatches is the number of tools attached to a lead
const DefaultMaxMatches = 5

// requirementKeywords maps a requirement tag to the phrases that satisfy it
// when found in a tool's features or description.
var requirementKeywords = map[string][]string{
	"ease-of-use":      {"easy to use", "intuitive", "simple", "user-friendly", "drag-and-drop"},
	"integrations":     {"integrations", "integration", "connects", "zapier", "api"},
	"mobile-app":       {"mobile", "ios", "android", "app"},
	"customer-support": {"support", "24/7", "live chat", "help desk"},
	"scalability":      {"scalable", "enterprise", "unlimited", "growth"},
	"free-trial":       {"free trial", "free plan", "freemium", "free tier"},
	"api-access":       {"api", "developer", "webhook", "rest api"},
}

// RequirementTags returns the known requirement tags, sorted
func RequirementTags() []string {
	tags := make([]string, 0, len(requirementKeywords))
	for tag := range requirementKeywords {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// MatchTools ranks a category's live tools for a lead. Tools over the budget
// ceiling are dropped; a tool with unknown price always passes. Each
// requirement tag satisfied by the tool's text adds one point. Ties keep the
// order tools were given in. At most max tools are returned (max <= 0 means 5).
func MatchTools(tools []domain.Tool, budget domain.Budget, requirements []string, max int) []domain.MatchedTool {
	if max <= 0 {
		max = DefaultMaxMatches
	}
	tags := uniqueTags(requirements)

	matched := make([]domain.MatchedTool, 0, len(tools))
	for _, tool := range tools {
		if !withinBudget(tool.PricingStartsAt, budget) {
			continue
		}
		matched = append(matched, domain.MatchedTool{
			Slug:  tool.Slug,
			Name:  tool.Name,
			Score: requirementScore(tool, tags),
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})

	if len(matched) > max {
		matched = matched[:max]
	}
	return matched
}

func withinBudget(price *float64, budget domain.Budget) bool {
	if price == nil {
		return true
	}
	if budget == domain.BudgetFree {
		return *price == 0
	}
	return *price <= budget.Ceiling()
}

func requirementScore(tool domain.Tool, tags []string) int {
	parts := make([]string, 0, len(tool.Features)+1)
	for _, f := range tool.Features {
		parts = append(parts, strings.ToLower(f))
	}
	parts = append(parts, strings.ToLower(tool.Description))
	text := strings.Join(parts, " ")

	score := 0
	for _, tag := range tags {
		for _, kw := range requirementKeywords[tag] {
			if strings.Contains(text, kw) {
				score++
				break
			}
		}
	}
	return score
}

// uniqueTags drops repeated tags so a tag never scores twice.
func uniqueTags(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
