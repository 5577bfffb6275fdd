package usecase

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/softwarescout/backend/internal/domain"
)

const minValidRecommendations = 2

var codeFenceRegex = regexp.MustCompile("^```(?:json)?\\s*\\n?|\\n?```\\s*$")

// GeneratedPage is the JSON document the text generator is asked to return
type GeneratedPage struct {
	Title           string                  `json:"title"`
	MetaDescription string                  `json:"meta_description"`
	Intro           string                  `json:"intro"`
	BuyingGuide     string                  `json:"buying_guide"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	FAQ             []domain.FAQ            `json:"faq"`
}

// FormatToolContext renders the tool list given to the text generator
func FormatToolContext(tools []domain.Tool) string {
	blocks := make([]string, 0, len(tools))
	for _, t := range tools {
		lines := []string{fmt.Sprintf("## %s (slug: %s)", t.Name, t.Slug)}
		if t.Description != "" {
			lines = append(lines, "Description: "+t.Description)
		}
		if len(t.Features) > 0 {
			lines = append(lines, "Features: "+strings.Join(t.Features, ", "))
		}
		if len(t.Pros) > 0 {
			lines = append(lines, "Pros: "+strings.Join(t.Pros, ", "))
		}
		if len(t.Cons) > 0 {
			lines = append(lines, "Cons: "+strings.Join(t.Cons, ", "))
		}
		if t.PricingStartsAt != nil {
			price := "Free"
			if *t.PricingStartsAt != 0 {
				price = "$" + strconv.FormatFloat(*t.PricingStartsAt, 'f', -1, 64) + "/mo"
			}
			lines = append(lines, "Starting price: "+price)
		}
		if len(t.PricingTiers) > 0 {
			tiers := make([]string, len(t.PricingTiers))
			for i, tier := range t.PricingTiers {
				tiers[i] = tier.Name + ": " + tier.Price
			}
			lines = append(lines, "Pricing tiers: "+strings.Join(tiers, "; "))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// BuildPagePrompt writes the generation prompt for one category/industry pair
func BuildPagePrompt(categoryName, industryName string, tools []domain.Tool) string {
	slugs := make([]string, len(tools))
	for i, t := range tools {
		slugs[i] = t.Slug
	}
	cat, ind := strings.ToLower(categoryName), strings.ToLower(industryName)

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert software reviewer who deeply understands the %s industry. ", industryName)
	fmt.Fprintf(&b, "You're writing a guide about the best %s software for %s businesses.\n\n", categoryName, industryName)
	fmt.Fprintf(&b, "Here are ALL the %s tools available:\n\n%s\n\n", categoryName, FormatToolContext(tools))
	fmt.Fprintf(&b, "Write a comprehensive, industry-specific guide. Your content must feel written by someone who actually works in the %s industry — reference specific workflows, pain points, and needs that %s professionals face.\n\n", industryName, industryName)
	fmt.Fprintf(&b, "Pick the 3-5 BEST tools from the list above for %s businesses specifically. Only recommend tools from this list (use their exact slugs).\n\n", industryName)
	b.WriteString("Return ONLY valid JSON with this exact structure (no markdown, no code blocks):\n")
	fmt.Fprintf(&b, `{
  "title": "Best %[1]s for %[2]s: Top [N] Tools in %[5]d",
  "meta_description": "A <155 character description targeting the search query 'best %[3]s for %[4]s'",
  "intro": "2-3 sentences introducing why %[2]s businesses need %[1]s software. Be specific about industry pain points.",
  "buying_guide": "3-5 paragraphs about what %[2]s professionals should look for in %[1]s software. Separate paragraphs with double newlines. Cover industry-specific features, integrations, pricing considerations, and common mistakes.",
  "recommendations": [
    {
      "tool_slug": "exact-slug-from-list",
      "tool_name": "Tool Name",
      "why_it_works": "2-3 sentences about why this specific tool is great for %[2]s",
      "use_cases": ["3-4 specific use cases for %[2]s"],
      "pros": ["2-3 pros relevant to %[2]s"],
      "cons": ["1-2 cons relevant to %[2]s"],
      "pricing_note": "Brief pricing summary relevant to %[2]s business size"
    }
  ],
  "faq": [
    {
      "question": "Industry-specific question about %[1]s for %[2]s?",
      "answer": "Detailed answer (2-4 sentences)"
    }
  ]
}
`, categoryName, industryName, cat, ind, pageYear)
	b.WriteString("\nRequirements:\n")
	fmt.Fprintf(&b, "- title: Include the year %d and the number of tools recommended\n", pageYear)
	fmt.Fprintf(&b, "- meta_description: Under %d characters, naturally include \"%s for %s\"\n", metaMaxLength, cat, ind)
	fmt.Fprintf(&b, "- intro: Reference specific %s workflows or challenges\n", industryName)
	b.WriteString("- buying_guide: 3-5 paragraphs separated by \\n\\n — practical, not generic\n")
	fmt.Fprintf(&b, "- recommendations: 3-5 tools, each tool_slug MUST be one of: %s\n", strings.Join(slugs, ", "))
	fmt.Fprintf(&b, "- faq: 5-7 questions that %s business owners would actually search for\n", industryName)
	fmt.Fprintf(&b, "- ALL content must be specific to %s, not generic advice", industryName)
	return b.String()
}

// stripCodeFence removes a surrounding ``` or ```json fence
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	return strings.TrimSpace(codeFenceRegex.ReplaceAllString(text, ""))
}

// ParseGeneratedPage decodes and validates generator output against the
// category's tools. Recommendations naming unknown tools are dropped; any
// other problem fails the page with domain.ErrInvalidGeneratedContent.
func ParseGeneratedPage(text string, tools []domain.Tool) (*GeneratedPage, error) {
	var page GeneratedPage
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &page); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrInvalidGeneratedContent, err)
	}

	if problems := validateGeneratedPage(&page); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidGeneratedContent, strings.Join(problems, ", "))
	}

	valid := make(map[string]bool, len(tools))
	for _, t := range tools {
		valid[t.Slug] = true
	}
	kept := page.Recommendations[:0]
	for _, rec := range page.Recommendations {
		if valid[rec.ToolSlug] {
			kept = append(kept, rec)
		}
	}
	page.Recommendations = kept

	if len(page.Recommendations) < minValidRecommendations {
		return nil, fmt.Errorf("%w: too few valid recommendations after filtering (%d)",
			domain.ErrInvalidGeneratedContent, len(page.Recommendations))
	}
	return &page, nil
}

func validateGeneratedPage(p *GeneratedPage) []string {
	var problems []string
	if p.Title == "" {
		problems = append(problems, "missing title")
	}
	if p.MetaDescription == "" {
		problems = append(problems, "missing meta_description")
	} else if n := runeLen(p.MetaDescription); n > metaMaxLength {
		problems = append(problems, fmt.Sprintf("meta_description too long (%d)", n))
	}
	if p.Intro == "" {
		problems = append(problems, "missing intro")
	}
	if p.BuyingGuide == "" {
		problems = append(problems, "missing buying_guide")
	}
	if len(p.Recommendations) == 0 {
		problems = append(problems, "missing recommendations")
	}
	if len(p.FAQ) == 0 {
		problems = append(problems, "missing faq")
	}
	return problems
}
