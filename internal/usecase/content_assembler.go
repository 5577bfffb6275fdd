package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/softwarescout/backend/internal/domain"
)

// Page assembly constants
const (
	pageYear          = 2026
	metaMaxLength     = 155
	metaTruncateAt    = 152
	buyingGuideJoiner = "\n\n"
	maxPros           = 3
	maxCons           = 2
	proWordMinLength  = 4 // pain-point words must be longer than this to match a strength
)

// FitTableSource supplies the fit table of a category
type FitTableSource interface {
	FitTable(categorySlug string) domain.FitTable
}

// ContentAssembler builds industry pages from authored profiles. It performs
// no I/O and the same inputs always produce byte-identical pages.
type ContentAssembler struct {
	fits  FitTableSource
	count int
}

// NewContentAssembler creates an assembler recommending count tools per page.
// count below 2 falls back to the default of 4.
func NewContentAssembler(fits FitTableSource, count int) *ContentAssembler {
	if count < 2 {
		count = defaultRecommendCount
	}
	return &ContentAssembler{fits: fits, count: count}
}

// GenerateIndustryPage assembles the full page for a category/industry pair.
// CreatedAt/UpdatedAt are left to the store.
func (a *ContentAssembler) GenerateIndustryPage(
	category domain.CategoryProfile,
	industry domain.IndustryProfile,
) (*domain.IndustryPage, error) {
	if len(category.Tools) < 2 {
		return nil, fmt.Errorf("%w: %s has %d tools", domain.ErrInsufficientTools, category.Slug, len(category.Tools))
	}
	if !industry.Complete() {
		return nil, fmt.Errorf("%w: %s", domain.ErrIncompleteProfile, industry.Slug)
	}

	var table domain.FitTable
	if a.fits != nil {
		table = a.fits.FitTable(category.Slug)
	}
	tools := SelectBestTools(category, industry, table, a.count)
	phrasing := phrasingFor(category.Slug)

	recommendations := make([]domain.Recommendation, 0, len(tools))
	for _, tool := range tools {
		recommendations = append(recommendations, domain.Recommendation{
			ToolSlug:    tool.Slug,
			ToolName:    tool.Name,
			WhyItWorks:  whyItWorks(tool, industry),
			UseCases:    phrasing.useCases(tool, industry),
			Pros:        toolPros(tool, industry),
			Cons:        toolCons(tool, industry),
			PricingNote: pricingNote(tool, industry),
		})
	}

	return &domain.IndustryPage{
		Slug:             domain.IndustryPageSlug(category.Slug, industry.Slug),
		SoftwareCategory: category.Slug,
		Industry:         industry.Slug,
		Title:            pageTitle(category.Name, industry.Name, len(tools)),
		MetaDescription:  metaDescription(category.Name, industry.Name),
		Intro:            pickVariant(phrasing.intros(category, industry), runeLen(industry.Slug)+runeLen(category.Slug)),
		BuyingGuide:      strings.Join(phrasing.buyingGuide(industry), buyingGuideJoiner),
		Recommendations:  recommendations,
		FAQ:              phrasing.faq(industry, tools),
	}, nil
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func pickVariant(variants []string, seed int) string {
	return variants[seed%len(variants)]
}

func pageTitle(categoryName, industryName string, toolCount int) string {
	return fmt.Sprintf("Best %s for %s: Top %d Tools in %d", categoryName, industryName, toolCount, pageYear)
}

func metaDescription(categoryName, industryName string) string {
	cat := lower(categoryName)
	ind := lower(industryName)

	templates := []string{
		"Compare the best " + cat + " for " + ind + ". Expert picks with pricing, features, and real use cases.",
		"Find the top " + cat + " for " + ind + " businesses. Honest reviews, pricing, and industry-specific recommendations.",
		fmt.Sprintf("Best %s for %s in %d. We compare features, pricing, and fit for your business.", cat, ind, pageYear),
	}

	desc := pickVariant(templates, runeLen(categoryName)+runeLen(industryName))
	return truncateMeta(desc)
}

// truncateMeta enforces the search-snippet limit on a meta description
func truncateMeta(desc string) string {
	if runeLen(desc) <= metaMaxLength {
		return desc
	}
	return string([]rune(desc)[:metaTruncateAt]) + "..."
}

func whyItWorks(tool domain.ToolProfile, industry domain.IndustryProfile) string {
	name := lower(industry.Name)
	strength := lower(at(tool.Strengths, 0, "feature set"))
	bestUse := at(tool.BestFor, 0, "everyday workflows")
	pain := industry.PainPoints[0]

	templates := []string{
		tool.Name + " stands out for " + name + " businesses because of its " + strength + ". This directly addresses the common " + name + " challenge of " + pain + ", making it particularly valuable for " + industry.BusinessSize + " operations that need to " + bestUse + ".",
		"For " + name + " professionals, " + tool.Name + "'s key advantage is its " + strength + ". When you're dealing with " + industry.CustomerType + " and need to handle " + industry.Workflows[0] + ", " + tool.Name + " delivers the right combination of capability and ease of use.",
		tool.Name + " is a strong fit for " + name + " because it excels at " + bestUse + ". Its " + strength + " makes it especially useful when " + pain + " is a daily reality and you need a reliable tool to keep up.",
	}

	return pickVariant(templates, runeLen(tool.Slug)+runeLen(industry.Slug))
}

// toolPros picks up to three selling points: the free tier, the strength most
// relevant to the industry's pain points, and a usability line.
func toolPros(tool domain.ToolProfile, industry domain.IndustryProfile) []string {
	name := lower(industry.Name)
	pros := make([]string, 0, maxPros)

	if tool.FreeOption {
		pros = append(pros, "Free tier available — great for "+industry.BusinessSize+" budgets")
	}

	if strength := relevantStrength(tool, industry); strength != "" {
		pros = append(pros, strength)
	}

	switch {
	case mentionsAny(tool.BestFor, "mobile", "social", "messaging"):
		pros = append(pros, "Works where "+name+" professionals spend their time")
	case industry.TechLevel == domain.TechLevelLow:
		pros = append(pros, "Easy to use without technical experience")
	default:
		pros = append(pros, "Handles "+name+" workflows efficiently")
	}

	if len(pros) > maxPros {
		pros = pros[:maxPros]
	}
	return pros
}

// relevantStrength returns the first strength sharing a significant word with
// a pain point, else the second strength, else the first.
func relevantStrength(tool domain.ToolProfile, industry domain.IndustryProfile) string {
	var words []string
	for _, pain := range industry.PainPoints {
		for _, w := range strings.Split(pain, " ") {
			if runeLen(w) > proWordMinLength {
				words = append(words, lower(w))
			}
		}
	}

	for _, s := range tool.Strengths {
		sl := lower(s)
		for _, w := range words {
			if strings.Contains(sl, w) {
				return s
			}
		}
	}

	return at(tool.Strengths, 1, at(tool.Strengths, 0, ""))
}

func mentionsAny(phrases []string, needles ...string) bool {
	for _, p := range phrases {
		for _, n := range needles {
			if strings.Contains(p, n) {
				return true
			}
		}
	}
	return false
}

func toolCons(tool domain.ToolProfile, industry domain.IndustryProfile) []string {
	cons := make([]string, 0, maxCons)

	if w := at(tool.Weaknesses, 0, ""); w != "" {
		cons = append(cons, w)
	}
	if !tool.FreeOption {
		cons = append(cons, "Paid plans may be a stretch for smaller "+lower(industry.Name)+" operations")
	}

	if len(cons) > maxCons {
		cons = cons[:maxCons]
	}
	return cons
}

func pricingNote(tool domain.ToolProfile, industry domain.IndustryProfile) string {
	if tool.FreeOption {
		return tool.Pricing + ". The free tier covers basic " + lower(industry.Name) + " needs; upgrade as your business grows."
	}
	return tool.Pricing + ". Consider the ROI against time saved on " + industry.ContentNeeds[0] + " and " + at(industry.ContentNeeds, 1, "daily tasks") + "."
}
