package usecase

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/softwarescout/backend/internal/domain"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Sitemap names served under /{name}.xml
const (
	SitemapMain        = "sitemap-main"
	SitemapTools       = "sitemap-tools"
	SitemapComparisons = "sitemap-comparisons"
	SitemapIndustry    = "sitemap-industry"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapRef struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	XMLNS    string       `xml:"xmlns,attr"`
	Sitemaps []sitemapRef `xml:"sitemap"`
}

// SitemapService renders the site's XML sitemaps from the stores
type SitemapService struct {
	catalog domain.CatalogRepository
	pages   domain.PageRepository
	baseURL string
	now     func() time.Time
}

// NewSitemapService creates a sitemap service rooted at baseURL
func NewSitemapService(catalog domain.CatalogRepository, pages domain.PageRepository, baseURL string) *SitemapService {
	return &SitemapService{
		catalog: catalog,
		pages:   pages,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// Index renders the sitemap index listing the four child sitemaps
func (s *SitemapService) Index(_ context.Context) ([]byte, error) {
	lastmod := s.now().UTC().Format("2006-01-02")
	idx := sitemapIndex{XMLNS: sitemapNamespace}
	for _, name := range []string{SitemapMain, SitemapTools, SitemapComparisons, SitemapIndustry} {
		idx.Sitemaps = append(idx.Sitemaps, sitemapRef{Loc: s.baseURL + "/" + name + ".xml", LastMod: lastmod})
	}
	return encodeSitemap(idx)
}

// Render renders one child sitemap by name
func (s *SitemapService) Render(ctx context.Context, name string) ([]byte, error) {
	var (
		urls []sitemapURL
		err  error
	)

	switch name {
	case SitemapMain:
		urls, err = s.mainURLs(ctx)
	case SitemapTools:
		urls, err = s.toolURLs(ctx)
	case SitemapComparisons:
		urls, err = s.comparisonURLs(ctx)
	case SitemapIndustry:
		urls, err = s.industryURLs(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown sitemap %q", domain.ErrInvalidRequest, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrStorage, name, err)
	}

	return encodeSitemap(urlSet{XMLNS: sitemapNamespace, URLs: urls})
}

func (s *SitemapService) url(path, changefreq string, priority float64) sitemapURL {
	return sitemapURL{
		Loc:        s.baseURL + path,
		ChangeFreq: changefreq,
		Priority:   strconv.FormatFloat(priority, 'f', -1, 64),
	}
}

func (s *SitemapService) mainURLs(ctx context.Context) ([]sitemapURL, error) {
	urls := []sitemapURL{
		s.url("", "daily", 1),
		s.url("/categories", "weekly", 0.8),
		s.url("/about", "monthly", 0.4),
		s.url("/privacy", "monthly", 0.3),
		s.url("/terms", "monthly", 0.3),
		s.url("/search", "weekly", 0.5),
	}

	slugs, err := s.catalog.ListCategorySlugs(ctx)
	if err != nil {
		return nil, err
	}
	for _, slug := range slugs {
		urls = append(urls, s.url("/category/"+slug, "weekly", 0.7))
	}
	return urls, nil
}

func (s *SitemapService) toolURLs(ctx context.Context) ([]sitemapURL, error) {
	slugs, err := s.catalog.ListToolSlugs(ctx)
	if err != nil {
		return nil, err
	}
	urls := make([]sitemapURL, 0, len(slugs))
	for _, slug := range slugs {
		urls = append(urls, s.url("/tool/"+slug, "weekly", 0.6))
	}
	return urls, nil
}

func (s *SitemapService) comparisonURLs(ctx context.Context) ([]sitemapURL, error) {
	pairs, err := s.catalog.ListComparisonPairs(ctx)
	if err != nil {
		return nil, err
	}
	urls := make([]sitemapURL, 0, len(pairs))
	for _, p := range pairs {
		urls = append(urls, s.url("/compare/"+p.ToolASlug+"-vs-"+p.ToolBSlug, "monthly", 0.5))
	}
	return urls, nil
}

func (s *SitemapService) industryURLs(ctx context.Context) ([]sitemapURL, error) {
	refs, err := s.pages.ListIndustryPageRefs(ctx)
	if err != nil {
		return nil, err
	}
	urls := make([]sitemapURL, 0, len(refs))
	for _, r := range refs {
		urls = append(urls, s.url("/best/"+r.SoftwareCategory+"/for/"+r.Industry, "monthly", 0.6))
	}
	return urls, nil
}

func encodeSitemap(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
