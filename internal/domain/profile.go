package domain

// ToolProfile is curated marketing copy for a tool, used only by the
// template page generator. It is correlated with the live Tool record by slug.
type ToolProfile struct {
	Slug       string   `json:"slug" yaml:"slug"`
	Name       string   `json:"name" yaml:"name"`
	Tagline    string   `json:"tagline" yaml:"tagline"`
	Strengths  []string `json:"strengths" yaml:"strengths"`
	Weaknesses []string `json:"weaknesses" yaml:"weaknesses"`
	BestFor    []string `json:"bestFor" yaml:"best_for"`
	Pricing    string   `json:"pricing" yaml:"pricing"`
	FreeOption bool     `json:"freeOption" yaml:"free_option"`
}

// CategoryProfile groups the tool profiles of one category in authored order.
type CategoryProfile struct {
	Slug  string        `json:"slug" yaml:"slug"`
	Name  string        `json:"name" yaml:"name"`
	Tools []ToolProfile `json:"tools" yaml:"tools"`
}

// Tech levels used by IndustryProfile.TechLevel
const (
	TechLevelLow    = "low"
	TechLevelMedium = "medium"
	TechLevelHigh   = "high"
)

// IndustryProfile describes an industry vertical. Type is an open lookup key
// into fit tables (professional, food, home-service, ...), not a closed enum.
type IndustryProfile struct {
	Slug         string   `json:"slug" yaml:"slug"`
	Name         string   `json:"name" yaml:"name"`
	Type         string   `json:"type" yaml:"type"`
	PainPoints   []string `json:"painPoints" yaml:"pain_points"`
	Workflows    []string `json:"workflows" yaml:"workflows"`
	ContentNeeds []string `json:"contentNeeds" yaml:"content_needs"`
	KeyTerms     []string `json:"keyTerms" yaml:"key_terms"`
	CustomerType string   `json:"customerType" yaml:"customer_type"`
	BusinessSize string   `json:"businessSize" yaml:"business_size"`
	TechLevel    string   `json:"techLevel" yaml:"tech_level"`
}

// Complete reports whether the profile carries everything the page templates
// read. Lists need at least two entries; templates fall back to the first
// entry when a third is absent.
func (p IndustryProfile) Complete() bool {
	if p.Slug == "" || p.Name == "" || p.Type == "" {
		return false
	}
	if p.CustomerType == "" || p.BusinessSize == "" || p.TechLevel == "" {
		return false
	}
	for _, list := range [][]string{p.PainPoints, p.Workflows, p.ContentNeeds, p.KeyTerms} {
		if len(list) < 2 {
			return false
		}
	}
	return true
}

// KeywordBonus is one keyword-bonus entry of a ToolFitConfig.
type KeywordBonus struct {
	Phrase string `json:"phrase" yaml:"phrase"`
	Weight int    `json:"weight" yaml:"weight"`
}

// ToolFitConfig holds the authored affinity weights of one tool.
// Keywords keep their authored order so score accumulation is reproducible.
type ToolFitConfig struct {
	IndustryTypes map[string]int `json:"industryTypes" yaml:"industry_types"`
	Keywords      []KeywordBonus `json:"keywords" yaml:"keywords"`
}

// FitTable maps tool slug to its fit configuration for one category.
type FitTable map[string]ToolFitConfig

// CategoryDef is a navigation category. StoreSlug is the category_slug used by
// live tool records, which differs from Slug for a few categories.
type CategoryDef struct {
	Slug      string `json:"slug" yaml:"slug"`
	Name      string `json:"name" yaml:"name"`
	StoreSlug string `json:"storeSlug" yaml:"store_slug"`
}

// IndustryDef is a navigation industry.
type IndustryDef struct {
	Slug string `json:"slug" yaml:"slug"`
	Name string `json:"name" yaml:"name"`
}

// IndustryPageSlug builds the page key for a category/industry pair.
func IndustryPageSlug(categorySlug, industrySlug string) string {
	return categorySlug + "-for-" + industrySlug
}
