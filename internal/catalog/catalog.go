// Package catalog holds the authored profile data used by the page generator:
// the navigation catalog, curated tool profiles with their fit tables, and
// industry profiles. Everything is embedded and parsed once.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/softwarescout/backend/internal/domain"
)

//go:embed data
var dataFS embed.FS

const (
	navigationFile = "data/navigation.yaml"
	industriesFile = "data/industries.yaml"
	profilesDir    = "data/profiles"
)

type navigationFileData struct {
	Categories []domain.CategoryDef `yaml:"categories"`
	Industries []domain.IndustryDef `yaml:"industries"`
}

type industriesFileData struct {
	Industries []domain.IndustryProfile `yaml:"industries"`
}

type profileFileData struct {
	Slug  string               `yaml:"slug"`
	Name  string               `yaml:"name"`
	Tools []domain.ToolProfile `yaml:"tools"`
	Fit   domain.FitTable      `yaml:"fit"`
}

// Catalog is the read-only set of authored definitions
type Catalog struct {
	categories []domain.CategoryDef
	industries []domain.IndustryDef

	categoryIndex map[string]int
	industryIndex map[string]int

	profiles         map[string]domain.CategoryProfile
	fitTables        map[string]domain.FitTable
	industryProfiles map[string]domain.IndustryProfile
}

// Load parses the embedded data
func Load() (*Catalog, error) {
	return loadFrom(dataFS)
}

// MustLoad is Load for program start-up; it panics on malformed data.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func loadFrom(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		categoryIndex:    make(map[string]int),
		industryIndex:    make(map[string]int),
		profiles:         make(map[string]domain.CategoryProfile),
		fitTables:        make(map[string]domain.FitTable),
		industryProfiles: make(map[string]domain.IndustryProfile),
	}

	var nav navigationFileData
	if err := decodeFile(fsys, navigationFile, &nav); err != nil {
		return nil, err
	}
	for i, def := range nav.Categories {
		if def.Slug == "" || def.Name == "" {
			return nil, fmt.Errorf("%s: category %d is missing slug or name", navigationFile, i)
		}
		if _, dup := c.categoryIndex[def.Slug]; dup {
			return nil, fmt.Errorf("%s: duplicate category %q", navigationFile, def.Slug)
		}
		if def.StoreSlug == "" {
			def.StoreSlug = def.Slug
		}
		c.categoryIndex[def.Slug] = len(c.categories)
		c.categories = append(c.categories, def)
	}
	for i, def := range nav.Industries {
		if def.Slug == "" || def.Name == "" {
			return nil, fmt.Errorf("%s: industry %d is missing slug or name", navigationFile, i)
		}
		if _, dup := c.industryIndex[def.Slug]; dup {
			return nil, fmt.Errorf("%s: duplicate industry %q", navigationFile, def.Slug)
		}
		c.industryIndex[def.Slug] = len(c.industries)
		c.industries = append(c.industries, def)
	}

	var ind industriesFileData
	if err := decodeFile(fsys, industriesFile, &ind); err != nil {
		return nil, err
	}
	for _, p := range ind.Industries {
		if _, dup := c.industryProfiles[p.Slug]; dup {
			return nil, fmt.Errorf("%s: duplicate industry profile %q", industriesFile, p.Slug)
		}
		if !p.Complete() {
			return nil, fmt.Errorf("%s: industry profile %q is incomplete", industriesFile, p.Slug)
		}
		c.industryProfiles[p.Slug] = p
	}

	entries, err := fs.ReadDir(fsys, profilesDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", profilesDir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		name := path.Join(profilesDir, e.Name())
		var pf profileFileData
		if err := decodeFile(fsys, name, &pf); err != nil {
			return nil, err
		}
		if err := c.addProfile(name, pf); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Catalog) addProfile(name string, pf profileFileData) error {
	if pf.Slug == "" {
		return fmt.Errorf("%s: missing slug", name)
	}
	if _, dup := c.profiles[pf.Slug]; dup {
		return fmt.Errorf("%s: duplicate category profile %q", name, pf.Slug)
	}

	known := make(map[string]bool, len(pf.Tools))
	for _, t := range pf.Tools {
		if t.Slug == "" || t.Name == "" {
			return fmt.Errorf("%s: tool profile is missing slug or name", name)
		}
		if known[t.Slug] {
			return fmt.Errorf("%s: duplicate tool %q", name, t.Slug)
		}
		known[t.Slug] = true
	}
	for slug := range pf.Fit {
		if !known[slug] {
			return fmt.Errorf("%s: fit row %q has no tool profile", name, slug)
		}
	}

	c.profiles[pf.Slug] = domain.CategoryProfile{Slug: pf.Slug, Name: pf.Name, Tools: pf.Tools}
	if pf.Fit == nil {
		pf.Fit = domain.FitTable{}
	}
	c.fitTables[pf.Slug] = pf.Fit
	return nil
}

func decodeFile(fsys fs.FS, name string, out interface{}) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// Categories returns the navigation categories in authored order
func (c *Catalog) Categories() []domain.CategoryDef {
	out := make([]domain.CategoryDef, len(c.categories))
	copy(out, c.categories)
	return out
}

// Industries returns the navigation industries in authored order
func (c *Catalog) Industries() []domain.IndustryDef {
	out := make([]domain.IndustryDef, len(c.industries))
	copy(out, c.industries)
	return out
}

// Category looks up a navigation category. Curated profile categories that
// are not in the navigation list are also resolvable.
func (c *Catalog) Category(slug string) (domain.CategoryDef, error) {
	if i, ok := c.categoryIndex[slug]; ok {
		return c.categories[i], nil
	}
	if p, ok := c.profiles[slug]; ok {
		return domain.CategoryDef{Slug: p.Slug, Name: p.Name, StoreSlug: p.Slug}, nil
	}
	return domain.CategoryDef{}, fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, slug)
}

// Industry looks up a navigation industry
func (c *Catalog) Industry(slug string) (domain.IndustryDef, error) {
	if i, ok := c.industryIndex[slug]; ok {
		return c.industries[i], nil
	}
	if p, ok := c.industryProfiles[slug]; ok {
		return domain.IndustryDef{Slug: p.Slug, Name: p.Name}, nil
	}
	return domain.IndustryDef{}, fmt.Errorf("%w: %s", domain.ErrIndustryNotFound, slug)
}

// CategoryProfile returns the curated profile of a category, if any.
func (c *Catalog) CategoryProfile(slug string) (domain.CategoryProfile, bool) {
	p, ok := c.profiles[slug]
	if !ok {
		return domain.CategoryProfile{}, false
	}
	tools := make([]domain.ToolProfile, len(p.Tools))
	copy(tools, p.Tools)
	p.Tools = tools
	return p, true
}

// FitTable returns the fit table of a category. Unknown categories get an
// empty table, which scores every tool 0.
func (c *Catalog) FitTable(slug string) domain.FitTable {
	if t, ok := c.fitTables[slug]; ok {
		return t
	}
	return domain.FitTable{}
}

// IndustryProfile returns the full profile of an industry.
func (c *Catalog) IndustryProfile(slug string) (domain.IndustryProfile, error) {
	p, ok := c.industryProfiles[slug]
	if !ok {
		if _, navErr := c.Industry(slug); navErr == nil {
			return domain.IndustryProfile{}, fmt.Errorf("%w: no profile for %s", domain.ErrIncompleteProfile, slug)
		}
		return domain.IndustryProfile{}, fmt.Errorf("%w: %s", domain.ErrIndustryNotFound, slug)
	}
	return p, nil
}

// CuratedCategories returns the slugs of categories with curated profiles, sorted.
func (c *Catalog) CuratedCategories() []string {
	slugs := make([]string, 0, len(c.profiles))
	for slug := range c.profiles {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// ProfilesFromTools derives a category profile from live tool records for
// categories without curated copy. Tool order is preserved.
func ProfilesFromTools(def domain.CategoryDef, tools []domain.Tool) domain.CategoryProfile {
	profile := domain.CategoryProfile{
		Slug:  def.Slug,
		Name:  def.Name,
		Tools: make([]domain.ToolProfile, 0, len(tools)),
	}
	for _, t := range tools {
		profile.Tools = append(profile.Tools, domain.ToolProfile{
			Slug:       t.Slug,
			Name:       t.Name,
			Tagline:    t.Description,
			Strengths:  nonNil(t.Pros),
			Weaknesses: nonNil(t.Cons),
			BestFor:    nonNil(t.Features),
			Pricing:    pricingSummary(t),
			FreeOption: hasFreeOption(t),
		})
	}
	return profile
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func hasFreeOption(t domain.Tool) bool {
	if t.PricingStartsAt != nil && *t.PricingStartsAt == 0 {
		return true
	}
	for _, tier := range t.PricingTiers {
		p := strings.ToLower(strings.TrimSpace(tier.Price))
		if p == "free" || p == "$0" || p == "0" || strings.EqualFold(tier.Name, "free") {
			return true
		}
	}
	return false
}

func pricingSummary(t domain.Tool) string {
	var parts []string
	if t.PricingStartsAt != nil {
		if *t.PricingStartsAt == 0 {
			parts = append(parts, "Free plan available")
		} else {
			parts = append(parts, "From $"+formatPrice(*t.PricingStartsAt)+"/mo")
		}
	}
	for _, tier := range t.PricingTiers {
		if tier.Name == "" || tier.Price == "" {
			continue
		}
		parts = append(parts, tier.Name+" "+tier.Price)
	}
	if len(parts) == 0 {
		return "Pricing on request"
	}
	return strings.Join(parts, "; ")
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
