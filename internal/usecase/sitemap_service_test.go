package usecase

import (
	"context"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarescout/backend/internal/domain"
)

func newTestSitemapService(cat *fakeCatalog, pages *fakePages) *SitemapService {
	svc := NewSitemapService(cat, pages, "https://example.test/")
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 23, 0, 0, 0, time.UTC) }
	return svc
}

func TestSitemapService_Index(t *testing.T) {
	out, err := newTestSitemapService(storeCatalog(), newFakePages()).Index(context.Background())
	require.NoError(t, err)

	var idx sitemapIndex
	require.NoError(t, xml.Unmarshal(out, &idx))
	require.Len(t, idx.Sitemaps, 4)
	assert.Equal(t, "https://example.test/sitemap-main.xml", idx.Sitemaps[0].Loc)
	assert.Equal(t, "https://example.test/sitemap-industry.xml", idx.Sitemaps[3].Loc)
	assert.Equal(t, "2026-10-16", idx.Sitemaps[0].LastMod)
	assert.True(t, strings.HasPrefix(string(out), `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, string(out), `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
}

func TestSitemapService_Main(t *testing.T) {
	out, err := newTestSitemapService(storeCatalog(), newFakePages()).Render(context.Background(), SitemapMain)
	require.NoError(t, err)

	var set urlSet
	require.NoError(t, xml.Unmarshal(out, &set))
	require.Len(t, set.URLs, 8)
	assert.Equal(t, sitemapURL{Loc: "https://example.test", ChangeFreq: "daily", Priority: "1"}, set.URLs[0])
	assert.Equal(t, "0.8", set.URLs[1].Priority)
	assert.Equal(t, "https://example.test/category/crm", set.URLs[6].Loc)
	assert.Equal(t, "0.7", set.URLs[6].Priority)
}

func TestSitemapService_ChildSitemaps(t *testing.T) {
	pages := newFakePages()
	pages.pages["crm-for-landscaping"] = &domain.IndustryPage{Slug: "crm-for-landscaping", SoftwareCategory: "crm", Industry: "landscaping"}
	svc := newTestSitemapService(storeCatalog(), pages)
	ctx := context.Background()

	out, err := svc.Render(ctx, SitemapTools)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<loc>https://example.test/tool/hubspot-crm</loc>")

	out, err = svc.Render(ctx, SitemapComparisons)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<loc>https://example.test/compare/hubspot-crm-vs-pipedrive</loc>")
	assert.Contains(t, string(out), "<changefreq>monthly</changefreq>")

	out, err = svc.Render(ctx, SitemapIndustry)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<loc>https://example.test/best/crm/for/landscaping</loc>")
	assert.Contains(t, string(out), "<priority>0.6</priority>")
}

func TestSitemapService_EscapesLocations(t *testing.T) {
	cat := &fakeCatalog{tools: []domain.Tool{{Slug: "r&d<tools>"}}}
	out, err := newTestSitemapService(cat, newFakePages()).Render(context.Background(), SitemapTools)
	require.NoError(t, err)
	assert.Contains(t, string(out), "r&amp;d&lt;tools&gt;")
}

func TestSitemapService_Errors(t *testing.T) {
	_, err := newTestSitemapService(storeCatalog(), newFakePages()).Render(context.Background(), "sitemap-nope")
	assert.True(t, errors.Is(err, domain.ErrInvalidRequest))

	cat := &fakeCatalog{err: errors.New("db down")}
	_, err = newTestSitemapService(cat, newFakePages()).Render(context.Background(), SitemapTools)
	assert.True(t, errors.Is(err, domain.ErrStorage))
}
