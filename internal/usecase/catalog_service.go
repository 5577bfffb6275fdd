package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/softwarescout/backend/internal/domain"
	infralogger "github.com/softwarescout/backend/internal/infrastructure/logger"
)

const (
	searchResultLimit   = 50
	alternativesLimit   = 4
	relatedPagesLimit   = 6
	defaultPageCacheTTL = time.Hour
	pageViewKeyPrefix   = "industry-page:"
)

var comparisonSlugRegex = regexp.MustCompile(`^(.+)-vs-(.+)$`)

// CategoryDetail is a category with its tools sorted by name
type CategoryDetail struct {
	Category domain.Category `json:"category"`
	Tools    []domain.Tool   `json:"tools"`
}

// ToolDetail is a tool with its category and up to four alternatives
type ToolDetail struct {
	Tool         domain.Tool      `json:"tool"`
	Category     *domain.Category `json:"category"`
	Alternatives []domain.Tool    `json:"alternatives"`
}

// ComparisonView is a comparison with both live tool records
type ComparisonView struct {
	Comparison domain.Comparison `json:"comparison"`
	ToolA      domain.Tool       `json:"tool_a"`
	ToolB      domain.Tool       `json:"tool_b"`
}

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL time.Duration
}

// CatalogService serves catalog reads and industry pages with caching
type CatalogService struct {
	catalog  domain.CatalogRepository
	pages    domain.PageRepository
	clicks   domain.ClickRepository
	cache    domain.CacheRepository
	logger   infralogger.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewCatalogService creates a catalog service. cache may be nil.
func NewCatalogService(
	catalog domain.CatalogRepository,
	pages domain.PageRepository,
	clicks domain.ClickRepository,
	cache domain.CacheRepository,
	log infralogger.Logger,
	config CatalogServiceConfig,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = defaultPageCacheTTL
	}

	return &CatalogService{
		catalog:  catalog,
		pages:    pages,
		clicks:   clicks,
		cache:    cache,
		logger:   log,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// ListCategories returns every category with its tool count
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.CategoryWithCount, error) {
	categories, err := s.catalog.ListCategoriesWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list categories: %v", domain.ErrStorage, err)
	}
	return categories, nil
}

// GetCategory returns a category and its tools
func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*CategoryDetail, error) {
	category, err := s.catalog.GetCategory(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%w: get category: %v", domain.ErrStorage, err)
	}
	if category == nil {
		return nil, domain.ErrCategoryNotFound
	}

	tools, err := s.catalog.GetToolsByCategory(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%w: category tools: %v", domain.ErrStorage, err)
	}
	sort.SliceStable(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })

	return &CategoryDetail{Category: *category, Tools: tools}, nil
}

// GetTool returns a tool with its category and alternatives
func (s *CatalogService) GetTool(ctx context.Context, slug string) (*ToolDetail, error) {
	tool, err := s.catalog.GetTool(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%w: get tool: %v", domain.ErrStorage, err)
	}
	if tool == nil {
		return nil, domain.ErrToolNotFound
	}

	alternatives, err := s.catalog.GetAlternatives(ctx, tool, alternativesLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: alternatives: %v", domain.ErrStorage, err)
	}

	category, err := s.catalog.GetCategory(ctx, tool.CategorySlug)
	if err != nil {
		return nil, fmt.Errorf("%w: tool category: %v", domain.ErrStorage, err)
	}

	return &ToolDetail{Tool: *tool, Category: category, Alternatives: alternatives}, nil
}

// ParseComparisonSlug splits "a-vs-b" at the last "-vs-".
func ParseComparisonSlug(slugs string) (a, b string, ok bool) {
	m := comparisonSlugRegex.FindStringSubmatch(slugs)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// GetComparison resolves an "a-vs-b" slug to its comparison and tools
func (s *CatalogService) GetComparison(ctx context.Context, slugs string) (*ComparisonView, error) {
	a, b, ok := ParseComparisonSlug(slugs)
	if !ok {
		return nil, domain.ErrComparisonNotFound
	}

	comparison, err := s.catalog.GetComparison(ctx, a, b)
	if err != nil {
		return nil, fmt.Errorf("%w: get comparison: %v", domain.ErrStorage, err)
	}
	if comparison == nil {
		return nil, domain.ErrComparisonNotFound
	}

	tools, err := s.catalog.GetToolsBySlugs(ctx, []string{a, b})
	if err != nil {
		return nil, fmt.Errorf("%w: comparison tools: %v", domain.ErrStorage, err)
	}

	view := &ComparisonView{Comparison: *comparison}
	found := 0
	for _, t := range tools {
		switch t.Slug {
		case a:
			view.ToolA = t
			found++
		case b:
			view.ToolB = t
			found++
		}
	}
	if found < 2 {
		return nil, domain.ErrComparisonNotFound
	}
	return view, nil
}

// GetIndustryPageView returns a stored industry page with the live records
// of its recommended tools and related pages. Views are cached read-through.
func (s *CatalogService) GetIndustryPageView(ctx context.Context, categorySlug, industrySlug string) (*domain.IndustryPageView, error) {
	slug := domain.IndustryPageSlug(categorySlug, industrySlug)
	cacheKey := pageViewKeyPrefix + slug

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return cached, nil
	}

	page, err := s.pages.GetIndustryPage(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%w: get page: %v", domain.ErrStorage, err)
	}
	if page == nil {
		return nil, domain.ErrPageNotFound
	}

	slugs := make([]string, len(page.Recommendations))
	for i, r := range page.Recommendations {
		slugs[i] = r.ToolSlug
	}
	tools, err := s.catalog.GetToolsBySlugs(ctx, slugs)
	if err != nil {
		return nil, fmt.Errorf("%w: page tools: %v", domain.ErrStorage, err)
	}

	related, err := s.pages.ListRelatedPages(ctx, categorySlug, slug, relatedPagesLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: related pages: %v", domain.ErrStorage, err)
	}

	view := &domain.IndustryPageView{Page: page, Tools: tools, RelatedPages: related}
	s.setInCache(ctx, cacheKey, view)
	return view, nil
}

// InvalidatePage drops the cached view of a page after it is regenerated
func (s *CatalogService) InvalidatePage(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, pageViewKeyPrefix+slug); err != nil {
		s.logger.Warn("failed to invalidate cached page", infralogger.String("slug", slug), infralogger.Error(err))
	}
}

// Search finds tools whose name or description contains q. An empty query
// returns no tools.
func (s *CatalogService) Search(ctx context.Context, q string) ([]domain.Tool, error) {
	q = NormalizeSearchQuery(q)
	if q == "" {
		return []domain.Tool{}, nil
	}

	tools, err := s.catalog.SearchTools(ctx, LikePattern(q), searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrStorage, err)
	}
	return tools, nil
}

// RecordClick stores an outbound click. ipHeader is the raw X-Forwarded-For
// value; only its first address is kept.
func (s *CatalogService) RecordClick(ctx context.Context, click domain.Click, ipHeader string) error {
	click.ToolSlug = strings.TrimSpace(click.ToolSlug)
	if click.ToolSlug == "" {
		return fmt.Errorf("%w: tool_slug", domain.ErrInvalidRequest)
	}

	if ipHeader != "" {
		click.IPAddress = strings.TrimSpace(strings.Split(ipHeader, ",")[0])
	}
	if click.CreatedAt.IsZero() {
		click.CreatedAt = s.now().UTC()
	}

	if err := s.clicks.InsertClick(ctx, &click); err != nil {
		return fmt.Errorf("%w: insert click: %v", domain.ErrStorage, err)
	}
	return nil
}

// getFromCache reads a cached page view
func (s *CatalogService) getFromCache(ctx context.Context, key string) (*domain.IndustryPageView, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("cache read failed", infralogger.String("key", key), infralogger.Error(err))
		}
		return nil, err
	}

	var view domain.IndustryPageView
	if err := json.Unmarshal(raw, &view); err != nil {
		s.logger.Warn("dropping undecodable cache entry", infralogger.String("key", key), infralogger.Error(err))
		_ = s.cache.Delete(ctx, key)
		return nil, domain.ErrCacheMiss
	}
	return &view, nil
}

// setInCache stores a page view; failures are logged and ignored
func (s *CatalogService) setInCache(ctx context.Context, key string, view *domain.IndustryPageView) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		s.logger.Warn("failed to encode page view", infralogger.String("key", key), infralogger.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", infralogger.String("key", key), infralogger.Error(err))
	}
}
