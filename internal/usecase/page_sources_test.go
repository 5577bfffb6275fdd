package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarescout/backend/internal/catalog"
	"github.com/softwarescout/backend/internal/domain"
)

func TestTemplateSource_CuratedCategory(t *testing.T) {
	cat := catalog.MustLoad()
	source := NewTemplateSource(cat, nil, 4)

	page, err := source.Generate(context.Background(), WorkItem{"ai-chatbots", "landscaping"})
	require.NoError(t, err)

	assert.Equal(t, "ai-chatbots-for-landscaping", page.Slug)
	assert.Len(t, page.Recommendations, 4)
	assert.Len(t, page.FAQ, 7)

	again, err := source.Generate(context.Background(), WorkItem{"ai-chatbots", "landscaping"})
	require.NoError(t, err)
	assert.Equal(t, page, again)
}

func TestTemplateSource_ProfilesLiveTools(t *testing.T) {
	store := &fakeCatalog{tools: crmTools()}
	for i := range store.tools {
		store.tools[i].CategorySlug = "crm"
	}
	source := NewTemplateSource(catalog.MustLoad(), store, 3)

	page, err := source.Generate(context.Background(), WorkItem{"crm", "dental-practices"})
	require.NoError(t, err)
	assert.Len(t, page.Recommendations, 3)
	assert.Equal(t, "Best CRM for Dental Practices: Top 3 Tools in 2026", page.Title)
}

func TestTemplateSource_UsesStoreSlug(t *testing.T) {
	store := &fakeCatalog{tools: []domain.Tool{
		{Slug: "buffer", Name: "Buffer", CategorySlug: "social-media"},
		{Slug: "hootsuite", Name: "Hootsuite", CategorySlug: "social-media"},
	}}
	source := NewTemplateSource(catalog.MustLoad(), store, 4)

	page, err := source.Generate(context.Background(), WorkItem{"social-media-management", "bakeries"})
	require.NoError(t, err)
	assert.Equal(t, "social-media-management-for-bakeries", page.Slug)
	assert.Len(t, page.Recommendations, 2)
}

func TestTemplateSource_Errors(t *testing.T) {
	cat := catalog.MustLoad()

	_, err := NewTemplateSource(cat, &fakeCatalog{}, 4).Generate(context.Background(), WorkItem{"crm", "landscaping"})
	assert.True(t, errors.Is(err, domain.ErrInsufficientTools))

	_, err = NewTemplateSource(cat, nil, 4).Generate(context.Background(), WorkItem{"nope", "landscaping"})
	assert.True(t, errors.Is(err, domain.ErrCategoryNotFound))

	_, err = NewTemplateSource(cat, nil, 4).Generate(context.Background(), WorkItem{"ai-code", "nowhere"})
	assert.True(t, errors.Is(err, domain.ErrIndustryNotFound))

	store := &fakeCatalog{err: errors.New("db down")}
	_, err = NewTemplateSource(cat, store, 4).Generate(context.Background(), WorkItem{"crm", "landscaping"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrInsufficientTools))
}

func TestTemplateSource_Prepare(t *testing.T) {
	cat := catalog.MustLoad()

	assert.NoError(t, NewTemplateSource(cat, nil, 4).Prepare(context.Background(), WorkItem{"ai-code", "landscaping"}))

	thin := &fakeCatalog{tools: []domain.Tool{{Slug: "only", Name: "Only", CategorySlug: "crm"}}}
	err := NewTemplateSource(cat, thin, 4).Prepare(context.Background(), WorkItem{"crm", "landscaping"})
	assert.ErrorIs(t, err, domain.ErrInsufficientTools)

	err = NewTemplateSource(cat, nil, 4).Prepare(context.Background(), WorkItem{"nope", "landscaping"})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestTemplateSource_PrepareAndGenerateShareOneRead(t *testing.T) {
	store := &fakeCatalog{tools: crmTools()}
	for i := range store.tools {
		store.tools[i].CategorySlug = "crm"
	}
	source := NewTemplateSource(catalog.MustLoad(), store, 3)
	item := WorkItem{"crm", "dental-practices"}

	require.NoError(t, source.Prepare(context.Background(), item))
	_, err := source.Generate(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)

	// the next item's Prepare reads the store again
	require.NoError(t, source.Prepare(context.Background(), WorkItem{"crm", "bakeries"}))
	assert.Equal(t, 2, store.calls)
}
