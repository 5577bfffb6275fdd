package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/softwarescout/backend/internal/catalog"
	"github.com/softwarescout/backend/internal/domain"
)

// ProfileCatalog is the authored catalog read by the page sources
type ProfileCatalog interface {
	Category(slug string) (domain.CategoryDef, error)
	Industry(slug string) (domain.IndustryDef, error)
	CategoryProfile(slug string) (domain.CategoryProfile, bool)
	IndustryProfile(slug string) (domain.IndustryProfile, error)
	FitTable(slug string) domain.FitTable
}

// ToolLister reads the live tools of a category in store order
type ToolLister interface {
	GetToolsByCategory(ctx context.Context, categorySlug string) ([]domain.Tool, error)
}

// categoryTools remembers the tools of the most recently loaded category so
// Prepare and Generate of one item share a single store read.
type categoryTools struct {
	lister ToolLister

	mu    sync.Mutex
	slug  string
	tools []domain.Tool
}

// load returns the tools of storeSlug. fresh forces a store read.
func (c *categoryTools) load(ctx context.Context, storeSlug string, fresh bool) ([]domain.Tool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !fresh && c.tools != nil && c.slug == storeSlug {
		return c.tools, nil
	}
	tools, err := c.lister.GetToolsByCategory(ctx, storeSlug)
	if err != nil {
		c.slug, c.tools = "", nil
		return nil, err
	}
	if tools == nil {
		tools = []domain.Tool{}
	}
	c.slug, c.tools = storeSlug, tools
	return tools, nil
}

func insufficientTools(slug string, n int) error {
	return fmt.Errorf("%w: %s has %d tools", domain.ErrInsufficientTools, slug, n)
}

// TemplateSource builds pages with the deterministic content assembler.
// Categories without curated profiles are profiled from their live tools.
type TemplateSource struct {
	profiles  ProfileCatalog
	tools     *categoryTools
	assembler *ContentAssembler
}

// NewTemplateSource creates a template page source. tools may be nil, in
// which case only curated categories can be generated.
func NewTemplateSource(profiles ProfileCatalog, tools ToolLister, count int) *TemplateSource {
	s := &TemplateSource{
		profiles:  profiles,
		assembler: NewContentAssembler(profiles, count),
	}
	if tools != nil {
		s.tools = &categoryTools{lister: tools}
	}
	return s
}

// Name identifies the source in logs
func (s *TemplateSource) Name() string { return "template" }

// Prepare reports whether the category of item has enough tools for a page
func (s *TemplateSource) Prepare(ctx context.Context, item WorkItem) error {
	category, err := s.categoryProfile(ctx, item.CategorySlug, true)
	if err != nil {
		return err
	}
	if len(category.Tools) < 2 {
		return insufficientTools(category.Slug, len(category.Tools))
	}
	return nil
}

// Generate assembles the page for item
func (s *TemplateSource) Generate(ctx context.Context, item WorkItem) (*domain.IndustryPage, error) {
	category, err := s.categoryProfile(ctx, item.CategorySlug, false)
	if err != nil {
		return nil, err
	}
	industry, err := s.profiles.IndustryProfile(item.IndustrySlug)
	if err != nil {
		return nil, err
	}
	return s.assembler.GenerateIndustryPage(category, industry)
}

func (s *TemplateSource) categoryProfile(ctx context.Context, slug string, fresh bool) (domain.CategoryProfile, error) {
	if profile, ok := s.profiles.CategoryProfile(slug); ok {
		return profile, nil
	}

	def, err := s.profiles.Category(slug)
	if err != nil {
		return domain.CategoryProfile{}, err
	}
	if s.tools == nil {
		return domain.CategoryProfile{Slug: def.Slug, Name: def.Name}, nil
	}

	tools, err := s.tools.load(ctx, def.StoreSlug, fresh)
	if err != nil {
		return domain.CategoryProfile{}, fmt.Errorf("load tools for %s: %w", slug, err)
	}
	return catalog.ProfilesFromTools(def, tools), nil
}

// AISource asks the text-generation collaborator for page content and
// validates what comes back.
type AISource struct {
	profiles  ProfileCatalog
	tools     *categoryTools
	generator domain.TextGenerator
}

// NewAISource creates an AI-assisted page source
func NewAISource(profiles ProfileCatalog, tools ToolLister, generator domain.TextGenerator) *AISource {
	return &AISource{profiles: profiles, tools: &categoryTools{lister: tools}, generator: generator}
}

// Name identifies the source in logs
func (s *AISource) Name() string { return "ai" }

// Prepare loads the live tools of the item's category and reports whether
// there are enough for a page
func (s *AISource) Prepare(ctx context.Context, item WorkItem) error {
	_, _, err := s.categoryTools(ctx, item.CategorySlug, true)
	return err
}

func (s *AISource) categoryTools(ctx context.Context, slug string, fresh bool) (domain.CategoryDef, []domain.Tool, error) {
	category, err := s.profiles.Category(slug)
	if err != nil {
		return domain.CategoryDef{}, nil, err
	}
	tools, err := s.tools.load(ctx, category.StoreSlug, fresh)
	if err != nil {
		return domain.CategoryDef{}, nil, fmt.Errorf("load tools for %s: %w", category.Slug, err)
	}
	if len(tools) < 2 {
		return domain.CategoryDef{}, nil, insufficientTools(category.Slug, len(tools))
	}
	return category, tools, nil
}

// Generate prompts for, parses and validates the page for item
func (s *AISource) Generate(ctx context.Context, item WorkItem) (*domain.IndustryPage, error) {
	category, tools, err := s.categoryTools(ctx, item.CategorySlug, false)
	if err != nil {
		return nil, err
	}
	industry, err := s.profiles.Industry(item.IndustrySlug)
	if err != nil {
		return nil, err
	}

	prompt := BuildPagePrompt(category.Name, industry.Name, tools)
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	content, err := ParseGeneratedPage(text, tools)
	if err != nil {
		return nil, err
	}

	return &domain.IndustryPage{
		Slug:             item.PageSlug(),
		SoftwareCategory: item.CategorySlug,
		Industry:         item.IndustrySlug,
		Title:            content.Title,
		MetaDescription:  content.MetaDescription,
		Intro:            content.Intro,
		BuyingGuide:      content.BuyingGuide,
		Recommendations:  content.Recommendations,
		FAQ:              content.FAQ,
	}, nil
}
