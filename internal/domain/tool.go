package domain

import "time"

// Tool is the live catalog record for a piece of software
type Tool struct {
	ID              string        `json:"id"`
	Slug            string        `json:"slug"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	LogoURL         string        `json:"logo_url,omitempty"`
	WebsiteURL      string        `json:"website_url"`
	AffiliateLink   string        `json:"affiliate_link,omitempty"`
	CategorySlug    string        `json:"category_slug"`
	Features        []string      `json:"features"`
	Pros            []string      `json:"pros"`
	Cons            []string      `json:"cons"`
	PricingStartsAt *float64      `json:"pricing_starts_at"` // nil means unknown
	PricingTiers    []PricingTier `json:"pricing_tiers"`
	CreatedAt       time.Time     `json:"created_at"`
}

// PricingTier is one published plan of a tool
type PricingTier struct {
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Features []string `json:"features,omitempty"`
}

// Category is a catalog category
type Category struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryWithCount is a category plus the number of tools filed under it
type CategoryWithCount struct {
	Category
	ToolCount int `json:"tool_count"`
}

// Click records an outbound click on a tool link
type Click struct {
	ToolSlug  string    `json:"tool_slug"`
	UserAgent string    `json:"user_agent,omitempty"`
	Referer   string    `json:"referer,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Comparison is an editorial head-to-head between two tools
type Comparison struct {
	ID                string              `json:"id"`
	ToolASlug         string              `json:"tool_a_slug"`
	ToolBSlug         string              `json:"tool_b_slug"`
	CategorySlug      string              `json:"category_slug"`
	ToolAOverview     string              `json:"tool_a_overview"`
	ToolBOverview     string              `json:"tool_b_overview"`
	FeatureComparison []FeatureComparison `json:"feature_comparison"`
	PricingComparison string              `json:"pricing_comparison"`
	Verdict           Verdict             `json:"verdict"`
	CreatedAt         time.Time           `json:"created_at"`
}

// FeatureComparison is one row of a comparison table
type FeatureComparison struct {
	Feature string `json:"feature,omitempty"`
	ToolA   string `json:"tool_a"`
	ToolB   string `json:"tool_b"`
}

// Verdict summarizes when to pick each side of a comparison
type Verdict struct {
	ChooseAIf string `json:"choose_a_if"`
	ChooseBIf string `json:"choose_b_if"`
	Summary   string `json:"summary,omitempty"`
}

// ComparisonPair identifies a comparison for sitemap listing
type ComparisonPair struct {
	ToolASlug string `json:"tool_a_slug" db:"tool_a_slug"`
	ToolBSlug string `json:"tool_b_slug" db:"tool_b_slug"`
}
