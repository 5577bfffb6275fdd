package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/softwarescout/backend/internal/domain"
)

// fakeCatalog is an in-memory CatalogRepository
type fakeCatalog struct {
	categories  []domain.Category
	tools       []domain.Tool
	comparisons []domain.Comparison
	err         error
	calls       int
}

func (f *fakeCatalog) GetCategory(_ context.Context, slug string) (*domain.Category, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.categories {
		if f.categories[i].Slug == slug {
			c := f.categories[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) ListCategoriesWithCounts(_ context.Context) ([]domain.CategoryWithCount, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.CategoryWithCount, 0, len(f.categories))
	for _, c := range f.categories {
		n := 0
		for _, t := range f.tools {
			if t.CategorySlug == c.Slug {
				n++
			}
		}
		out = append(out, domain.CategoryWithCount{Category: c, ToolCount: n})
	}
	return out, nil
}

func (f *fakeCatalog) GetToolsByCategory(_ context.Context, categorySlug string) ([]domain.Tool, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.Tool{}
	for _, t := range f.tools {
		if t.CategorySlug == categorySlug {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetTool(_ context.Context, slug string) (*domain.Tool, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.tools {
		if f.tools[i].Slug == slug {
			t := f.tools[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) GetToolsBySlugs(_ context.Context, slugs []string) ([]domain.Tool, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.Tool{}
	for _, t := range f.tools {
		for _, s := range slugs {
			if t.Slug == s {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetAlternatives(_ context.Context, tool *domain.Tool, limit int) ([]domain.Tool, error) {
	f.calls++
	out := []domain.Tool{}
	for _, t := range f.tools {
		if t.CategorySlug == tool.CategorySlug && t.Slug != tool.Slug && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeCatalog) SearchTools(_ context.Context, pattern string, limit int) ([]domain.Tool, error) {
	f.calls++
	needle := strings.ToLower(strings.Trim(pattern, "%"))
	out := []domain.Tool{}
	for _, t := range f.tools {
		if strings.Contains(strings.ToLower(t.Name+" "+t.Description), needle) && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListToolSlugs(_ context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []string{}
	for _, t := range f.tools {
		out = append(out, t.Slug)
	}
	return out, nil
}

func (f *fakeCatalog) ListCategorySlugs(_ context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []string{}
	for _, c := range f.categories {
		out = append(out, c.Slug)
	}
	return out, nil
}

func (f *fakeCatalog) GetComparison(_ context.Context, a, b string) (*domain.Comparison, error) {
	f.calls++
	for i := range f.comparisons {
		c := f.comparisons[i]
		if c.ToolASlug == a && c.ToolBSlug == b {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) ListComparisonPairs(_ context.Context) ([]domain.ComparisonPair, error) {
	out := []domain.ComparisonPair{}
	for _, c := range f.comparisons {
		out = append(out, domain.ComparisonPair{ToolASlug: c.ToolASlug, ToolBSlug: c.ToolBSlug})
	}
	return out, nil
}

// fakePages is an in-memory PageRepository
type fakePages struct {
	pages     map[string]*domain.IndustryPage
	upserted  []string
	upsertErr error
	getErr    error
}

func newFakePages(existing ...string) *fakePages {
	p := &fakePages{pages: map[string]*domain.IndustryPage{}}
	for _, slug := range existing {
		p.pages[slug] = &domain.IndustryPage{Slug: slug}
	}
	return p
}

func (f *fakePages) GetIndustryPage(_ context.Context, slug string) (*domain.IndustryPage, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if p, ok := f.pages[slug]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePages) UpsertIndustryPage(_ context.Context, page *domain.IndustryPage) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	cp := *page
	f.pages[page.Slug] = &cp
	f.upserted = append(f.upserted, page.Slug)
	return nil
}

func (f *fakePages) ListIndustryPageSlugs(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(f.pages))
	for slug := range f.pages {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakePages) ListIndustryPageRefs(_ context.Context) ([]domain.IndustryPageRef, error) {
	out := []domain.IndustryPageRef{}
	for _, slug := range mustSlugs(f) {
		p := f.pages[slug]
		out = append(out, domain.IndustryPageRef{
			Slug: p.Slug, SoftwareCategory: p.SoftwareCategory, Industry: p.Industry, Title: p.Title,
		})
	}
	return out, nil
}

func (f *fakePages) ListRelatedPages(_ context.Context, categorySlug, excludeSlug string, limit int) ([]domain.IndustryPageRef, error) {
	out := []domain.IndustryPageRef{}
	for _, slug := range mustSlugs(f) {
		p := f.pages[slug]
		if p.SoftwareCategory == categorySlug && p.Slug != excludeSlug && len(out) < limit {
			out = append(out, domain.IndustryPageRef{Slug: p.Slug, SoftwareCategory: p.SoftwareCategory, Industry: p.Industry})
		}
	}
	return out, nil
}

func (f *fakePages) CountIndustryPages(_ context.Context, categorySlug string) (int, error) {
	if categorySlug == "" {
		return len(f.pages), nil
	}
	n := 0
	for _, p := range f.pages {
		if p.SoftwareCategory == categorySlug {
			n++
		}
	}
	return n, nil
}

func mustSlugs(f *fakePages) []string {
	s, _ := f.ListIndustryPageSlugs(context.Background())
	return s
}

// fakeLeads is an in-memory LeadRepository
type fakeLeads struct {
	mu        sync.Mutex
	leads     []domain.Lead
	filters   []domain.LeadFilter
	insertErr error
}

func (f *fakeLeads) InsertLead(_ context.Context, lead *domain.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.leads = append(f.leads, *lead)
	return nil
}

func (f *fakeLeads) ListLeads(_ context.Context, filter domain.LeadFilter) ([]domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	return append([]domain.Lead(nil), f.leads...), nil
}

func (f *fakeLeads) GetLead(_ context.Context, id string) (*domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.leads {
		if f.leads[i].ID == id {
			l := f.leads[i]
			return &l, nil
		}
	}
	return nil, nil
}

func (f *fakeLeads) UpdateLeadStatus(_ context.Context, id string, status domain.LeadStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.leads {
		if f.leads[i].ID == id {
			f.leads[i].Status = status
			return nil
		}
	}
	return domain.ErrLeadNotFound
}

// fakeCache is an in-memory CacheRepository without expiry
type fakeCache struct {
	data map[string][]byte
	sets int
	err  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.sets++
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.data[key]
	return ok, nil
}

// fakeGenerator returns canned text-generation responses
type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
