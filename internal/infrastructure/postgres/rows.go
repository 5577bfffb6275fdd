package postgres

import (
	"database/sql"
	"encoding/json"
	"math"
	"time"

	"github.com/lib/pq"

	"github.com/softwarescout/backend/internal/domain"
)

// toolColumns is the select list matching toolRow
const toolColumns = `id, slug, name, description, logo_url, website_url, affiliate_link, category_slug,
	features, pros, cons, pricing_starts_at, pricing_tiers, created_at`

// toolRow is the database form of a tool
type toolRow struct {
	ID              string          `db:"id"`
	Slug            string          `db:"slug"`
	Name            string          `db:"name"`
	Description     sql.NullString  `db:"description"`
	LogoURL         sql.NullString  `db:"logo_url"`
	WebsiteURL      sql.NullString  `db:"website_url"`
	AffiliateLink   sql.NullString  `db:"affiliate_link"`
	CategorySlug    string          `db:"category_slug"`
	Features        pq.StringArray  `db:"features"`
	Pros            pq.StringArray  `db:"pros"`
	Cons            pq.StringArray  `db:"cons"`
	PricingStartsAt sql.NullFloat64 `db:"pricing_starts_at"`
	PricingTiers    []byte          `db:"pricing_tiers"`
	CreatedAt       time.Time       `db:"created_at"`
}

// toDomain converts a row, defaulting missing arrays to empty. A negative or
// non-finite price is treated as unknown and malformed tier JSON is dropped.
func (r toolRow) toDomain() domain.Tool {
	tool := domain.Tool{
		ID:            r.ID,
		Slug:          r.Slug,
		Name:          r.Name,
		Description:   r.Description.String,
		LogoURL:       r.LogoURL.String,
		WebsiteURL:    r.WebsiteURL.String,
		AffiliateLink: r.AffiliateLink.String,
		CategorySlug:  r.CategorySlug,
		Features:      stringsOrEmpty(r.Features),
		Pros:          stringsOrEmpty(r.Pros),
		Cons:          stringsOrEmpty(r.Cons),
		PricingTiers:  []domain.PricingTier{},
		CreatedAt:     r.CreatedAt,
	}

	if r.PricingStartsAt.Valid {
		p := r.PricingStartsAt.Float64
		if p >= 0 && !math.IsInf(p, 0) && !math.IsNaN(p) {
			tool.PricingStartsAt = &p
		}
	}

	if len(r.PricingTiers) > 0 {
		var tiers []domain.PricingTier
		if err := json.Unmarshal(r.PricingTiers, &tiers); err == nil && tiers != nil {
			tool.PricingTiers = tiers
		}
	}

	return tool
}

func toolsFromRows(rows []toolRow) []domain.Tool {
	tools := make([]domain.Tool, len(rows))
	for i, r := range rows {
		tools[i] = r.toDomain()
	}
	return tools
}

func stringsOrEmpty(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}

// categoryRow is the database form of a category
type categoryRow struct {
	ID        string    `db:"id"`
	Slug      string    `db:"slug"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	ToolCount int       `db:"tool_count"`
}

func (r categoryRow) toDomain() domain.Category {
	return domain.Category{ID: r.ID, Slug: r.Slug, Name: r.Name, CreatedAt: r.CreatedAt}
}

// comparisonRow is the database form of a comparison
type comparisonRow struct {
	ID                string         `db:"id"`
	ToolASlug         string         `db:"tool_a_slug"`
	ToolBSlug         string         `db:"tool_b_slug"`
	CategorySlug      string         `db:"category_slug"`
	ToolAOverview     sql.NullString `db:"tool_a_overview"`
	ToolBOverview     sql.NullString `db:"tool_b_overview"`
	FeatureComparison []byte         `db:"feature_comparison"`
	PricingComparison sql.NullString `db:"pricing_comparison"`
	Verdict           []byte         `db:"verdict"`
	CreatedAt         time.Time      `db:"created_at"`
}

func (r comparisonRow) toDomain() domain.Comparison {
	c := domain.Comparison{
		ID:                r.ID,
		ToolASlug:         r.ToolASlug,
		ToolBSlug:         r.ToolBSlug,
		CategorySlug:      r.CategorySlug,
		ToolAOverview:     r.ToolAOverview.String,
		ToolBOverview:     r.ToolBOverview.String,
		FeatureComparison: []domain.FeatureComparison{},
		PricingComparison: r.PricingComparison.String,
		CreatedAt:         r.CreatedAt,
	}
	if len(r.FeatureComparison) > 0 {
		var rows []domain.FeatureComparison
		if err := json.Unmarshal(r.FeatureComparison, &rows); err == nil && rows != nil {
			c.FeatureComparison = rows
		}
	}
	if len(r.Verdict) > 0 {
		_ = json.Unmarshal(r.Verdict, &c.Verdict)
	}
	return c
}

// pageRow is the database form of an industry page
type pageRow struct {
	Slug             string    `db:"slug"`
	SoftwareCategory string    `db:"software_category"`
	Industry         string    `db:"industry"`
	Title            string    `db:"title"`
	MetaDescription  string    `db:"meta_description"`
	Intro            string    `db:"intro"`
	BuyingGuide      string    `db:"buying_guide"`
	Recommendations  []byte    `db:"recommendations"`
	FAQ              []byte    `db:"faq"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r pageRow) toDomain() (*domain.IndustryPage, error) {
	page := &domain.IndustryPage{
		Slug:             r.Slug,
		SoftwareCategory: r.SoftwareCategory,
		Industry:         r.Industry,
		Title:            r.Title,
		MetaDescription:  r.MetaDescription,
		Intro:            r.Intro,
		BuyingGuide:      r.BuyingGuide,
		Recommendations:  []domain.Recommendation{},
		FAQ:              []domain.FAQ{},
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if len(r.Recommendations) > 0 {
		if err := json.Unmarshal(r.Recommendations, &page.Recommendations); err != nil {
			return nil, err
		}
	}
	if len(r.FAQ) > 0 {
		if err := json.Unmarshal(r.FAQ, &page.FAQ); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// leadColumns is the select list matching leadRow
const leadColumns = `id, software_category, industry, company_name, company_size, budget, requirements,
	matched_tools, name, email, phone, source_page, status, created_at`

// leadRow is the database form of a lead
type leadRow struct {
	ID               string         `db:"id"`
	SoftwareCategory string         `db:"software_category"`
	Industry         sql.NullString `db:"industry"`
	CompanyName      sql.NullString `db:"company_name"`
	CompanySize      sql.NullString `db:"company_size"`
	Budget           sql.NullString `db:"budget"`
	Requirements     pq.StringArray `db:"requirements"`
	MatchedTools     []byte         `db:"matched_tools"`
	Name             string         `db:"name"`
	Email            string         `db:"email"`
	Phone            sql.NullString `db:"phone"`
	SourcePage       sql.NullString `db:"source_page"`
	Status           string         `db:"status"`
	CreatedAt        time.Time      `db:"created_at"`
}

func (r leadRow) toDomain() domain.Lead {
	lead := domain.Lead{
		ID:               r.ID,
		SoftwareCategory: r.SoftwareCategory,
		Industry:         r.Industry.String,
		CompanyName:      r.CompanyName.String,
		CompanySize:      r.CompanySize.String,
		Budget:           domain.Budget(r.Budget.String),
		Requirements:     stringsOrEmpty(r.Requirements),
		MatchedTools:     []domain.MatchedTool{},
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone.String,
		SourcePage:       r.SourcePage.String,
		Status:           domain.LeadStatus(r.Status),
		CreatedAt:        r.CreatedAt,
	}
	if len(r.MatchedTools) > 0 {
		var matched []domain.MatchedTool
		if err := json.Unmarshal(r.MatchedTools, &matched); err == nil && matched != nil {
			lead.MatchedTools = matched
		}
	}
	return lead
}

// nullString stores empty optional strings as NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
