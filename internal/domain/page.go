package domain

import "time"

// IndustryPage is a generated "best {category} for {industry}" guide.
// Slug is the upsert key; regeneration replaces the record.
type IndustryPage struct {
	Slug             string           `json:"slug"`
	SoftwareCategory string           `json:"software_category"`
	Industry         string           `json:"industry"`
	Title            string           `json:"title"`
	MetaDescription  string           `json:"meta_description"`
	Intro            string           `json:"intro"`
	BuyingGuide      string           `json:"buying_guide"`
	Recommendations  []Recommendation `json:"recommendations"`
	FAQ              []FAQ            `json:"faq"`
	CreatedAt        time.Time        `json:"created_at,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at,omitempty"`
}

// Recommendation is one tool card on an industry page
type Recommendation struct {
	ToolSlug    string   `json:"tool_slug"`
	ToolName    string   `json:"tool_name"`
	WhyItWorks  string   `json:"why_it_works"`
	UseCases    []string `json:"use_cases"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	PricingNote string   `json:"pricing_note"`
}

// FAQ is a question/answer pair
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// IndustryPageRef is the lightweight listing form of an industry page
type IndustryPageRef struct {
	Slug             string    `json:"slug" db:"slug"`
	SoftwareCategory string    `json:"software_category" db:"software_category"`
	Industry         string    `json:"industry" db:"industry"`
	Title            string    `json:"title" db:"title"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// IndustryPageView is what the site renders for /best/{category}/for/{industry}
type IndustryPageView struct {
	Page         *IndustryPage     `json:"page"`
	Tools        []Tool            `json:"tools"`
	RelatedPages []IndustryPageRef `json:"related_pages"`
}
