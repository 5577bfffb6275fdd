package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque encoded bytes; Get returns ErrCacheMiss for absent or expired keys.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogRepository reads live catalog records. Lookups by key return
// (nil, nil) on a miss and list queries return an empty slice.
type CatalogRepository interface {
	GetCategory(ctx context.Context, slug string) (*Category, error)
	ListCategoriesWithCounts(ctx context.Context) ([]CategoryWithCount, error)
	// GetToolsByCategory returns tools in catalog insertion order.
	GetToolsByCategory(ctx context.Context, categorySlug string) ([]Tool, error)
	GetTool(ctx context.Context, slug string) (*Tool, error)
	GetToolsBySlugs(ctx context.Context, slugs []string) ([]Tool, error)
	GetAlternatives(ctx context.Context, tool *Tool, limit int) ([]Tool, error)
	SearchTools(ctx context.Context, pattern string, limit int) ([]Tool, error)
	ListToolSlugs(ctx context.Context) ([]string, error)
	ListCategorySlugs(ctx context.Context) ([]string, error)
	GetComparison(ctx context.Context, toolASlug, toolBSlug string) (*Comparison, error)
	ListComparisonPairs(ctx context.Context) ([]ComparisonPair, error)
}

// PageRepository persists generated industry pages
type PageRepository interface {
	GetIndustryPage(ctx context.Context, slug string) (*IndustryPage, error)
	// UpsertIndustryPage inserts or replaces the page keyed by its slug.
	UpsertIndustryPage(ctx context.Context, page *IndustryPage) error
	ListIndustryPageSlugs(ctx context.Context) ([]string, error)
	ListIndustryPageRefs(ctx context.Context) ([]IndustryPageRef, error)
	ListRelatedPages(ctx context.Context, categorySlug, excludeSlug string, limit int) ([]IndustryPageRef, error)
	// CountIndustryPages counts pages of one category, or all pages when categorySlug is empty.
	CountIndustryPages(ctx context.Context, categorySlug string) (int, error)
}

// LeadRepository persists leads
type LeadRepository interface {
	InsertLead(ctx context.Context, lead *Lead) error
	ListLeads(ctx context.Context, filter LeadFilter) ([]Lead, error)
	GetLead(ctx context.Context, id string) (*Lead, error)
	UpdateLeadStatus(ctx context.Context, id string, status LeadStatus) error
}

// ClickRepository records outbound clicks
type ClickRepository interface {
	InsertClick(ctx context.Context, click *Click) error
}

// TextGenerator is the external text-generation collaborator. Its output is
// untrusted free text and must be validated by the caller.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
