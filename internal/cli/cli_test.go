package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarescout/backend/config"
	"github.com/softwarescout/backend/internal/catalog"
	"github.com/softwarescout/backend/internal/domain"
	infralogger "github.com/softwarescout/backend/internal/infrastructure/logger"
)

type memoryPages struct {
	mu    sync.Mutex
	pages map[string]*domain.IndustryPage
}

func newMemoryPages() *memoryPages {
	return &memoryPages{pages: map[string]*domain.IndustryPage{}}
}

func (m *memoryPages) GetIndustryPage(_ context.Context, slug string) (*domain.IndustryPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pages[slug], nil
}

func (m *memoryPages) UpsertIndustryPage(_ context.Context, page *domain.IndustryPage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page.Slug] = page
	return nil
}

func (m *memoryPages) ListIndustryPageSlugs(context.Context) ([]string, error) { return nil, nil }

func (m *memoryPages) ListIndustryPageRefs(context.Context) ([]domain.IndustryPageRef, error) {
	return nil, nil
}

func (m *memoryPages) ListRelatedPages(context.Context, string, string, int) ([]domain.IndustryPageRef, error) {
	return nil, nil
}

func (m *memoryPages) CountIndustryPages(_ context.Context, category string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.pages {
		if category == "" || p.SoftwareCategory == category {
			n++
		}
	}
	return n, nil
}

type staticTools map[string][]domain.Tool

func (s staticTools) GetToolsByCategory(_ context.Context, category string) ([]domain.Tool, error) {
	return s[category], nil
}

type cannedGenerator struct {
	text  string
	err   error
	calls int
}

func (g *cannedGenerator) Generate(context.Context, string) (string, error) {
	g.calls++
	return g.text, g.err
}

const crmPageJSON = "```json\n" + `{
  "title": "Best CRM for Your Industry",
  "meta_description": "Compare CRM tools picked for this industry.",
  "intro": "Picking a CRM is easier with a short list.",
  "buying_guide": "Start with your pipeline.\n\nThen check the price.",
  "recommendations": [
    {"tool_slug": "hubspot-crm", "tool_name": "HubSpot CRM", "why_it_works": "Free to start.", "use_cases": ["Tracking leads"], "pros": ["Free"], "cons": ["Upsells"], "pricing_note": "Free plan"},
    {"tool_slug": "pipedrive", "tool_name": "Pipedrive", "why_it_works": "Visual pipeline.", "use_cases": ["Deals"], "pros": ["Simple"], "cons": ["No free plan"], "pricing_note": "From $14/mo"}
  ],
  "faq": [{"question": "Do I need a CRM?", "answer": "Yes."}]
}` + "\n```"

type testEnv struct {
	env   *Env
	pages *memoryPages
	gen   *cannedGenerator
	opens int
}

func newTestEnv() *testEnv {
	te := &testEnv{
		pages: newMemoryPages(),
		gen:   &cannedGenerator{text: crmPageJSON},
	}
	te.env = &Env{
		Config: &config.Config{
			Generation: config.GenerationConfig{RecommendationCount: 4, Schedule: "@every 1h"},
		},
		Logger:  infralogger.NewNop(),
		Catalog: catalog.MustLoad(),
		Pages:   te.pages,
		Tools: staticTools{"crm": {
			{Slug: "hubspot-crm", Name: "HubSpot CRM"},
			{Slug: "pipedrive", Name: "Pipedrive"},
		}},
	}
	return te
}

func (te *testEnv) factory() EnvFactory {
	return func(_ context.Context, withGenerator bool) (*Env, func(), error) {
		te.opens++
		env := *te.env
		if withGenerator {
			env.Generator = te.gen
		}
		return &env, func() {}, nil
	}
}

func execute(t *testing.T, open EnvFactory, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand(open)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestGenerate_Template(t *testing.T) {
	te := newTestEnv()

	out, err := execute(t, te.factory(), "generate", "ai-chatbots", "landscaping", "dental-practices")
	require.NoError(t, err, out)

	assert.Contains(t, out, "[1/2] OK ai-chatbots-for-landscaping")
	assert.Contains(t, out, "[2/2] OK ai-chatbots-for-dental-practices")
	require.Contains(t, te.pages.pages, "ai-chatbots-for-landscaping")
	assert.Len(t, te.pages.pages["ai-chatbots-for-landscaping"].Recommendations, 4)

	// second run skips what exists
	out, err = execute(t, te.factory(), "generate", "ai-chatbots", "landscaping")
	require.NoError(t, err)
	assert.Contains(t, out, "[1/1] SKIP ai-chatbots-for-landscaping (exists)")

	out, err = execute(t, te.factory(), "generate", "--force", "--count", "2", "ai-chatbots", "landscaping")
	require.NoError(t, err)
	assert.Contains(t, out, "[1/1] OK ai-chatbots-for-landscaping")
	assert.Len(t, te.pages.pages["ai-chatbots-for-landscaping"].Recommendations, 2)
}

func TestGenerate_UnknownSlugs(t *testing.T) {
	te := newTestEnv()

	_, err := execute(t, te.factory(), "generate", "not-a-category", "landscaping")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	_, err = execute(t, te.factory(), "generate", "ai-chatbots", "not-an-industry")
	assert.ErrorIs(t, err, domain.ErrIndustryNotFound)

	_, err = execute(t, te.factory(), "generate", "ai-chatbots", "landscapng")
	require.ErrorIs(t, err, domain.ErrIndustryNotFound)
	assert.Contains(t, err.Error(), `did you mean "landscaping"?`)

	_, err = execute(t, te.factory(), "generate", "ai-chatbots")
	assert.Error(t, err, "needs at least one industry")
	assert.Empty(t, te.pages.pages)
}

func TestGenerateAI_TestBatch(t *testing.T) {
	te := newTestEnv()

	out, err := execute(t, te.factory(), "generate-ai", "--test")
	require.NoError(t, err, out)

	assert.Contains(t, out, "Generating 3 pages")
	for i, industry := range []string{"landscaping", "food-trucks", "dental-practices"} {
		assert.Contains(t, out, "["+string(rune('1'+i))+"/3] OK crm-for-"+industry)
	}
	assert.Equal(t, 3, te.gen.calls)

	page := te.pages.pages["crm-for-food-trucks"]
	require.NotNil(t, page)
	assert.Equal(t, "crm", page.SoftwareCategory)
	assert.Equal(t, "food-trucks", page.Industry)
	assert.Len(t, page.Recommendations, 2)

	// summary reads counts back from the store
	assert.Contains(t, out, "All categories")
}

func TestGenerateAI_FailuresAreReported(t *testing.T) {
	te := newTestEnv()
	te.gen.err = errors.New("overloaded")

	out, err := execute(t, te.factory(), "generate-ai", "--category", "crm", "--industry", "landscaping,food-trucks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 pages failed")
	assert.Contains(t, out, "[1/2] ERR crm-for-landscaping")
	assert.Contains(t, out, "Failed:")
	assert.Contains(t, out, "  crm-for-food-trucks")
}

func TestGenerateAI_TooFewToolsIsSkipped(t *testing.T) {
	te := newTestEnv()

	out, err := execute(t, te.factory(), "generate-ai", "--category", "email-marketing", "--industry", "landscaping")
	require.NoError(t, err, out)
	assert.Contains(t, out, "[1/1] SKIP email-marketing-for-landscaping (not enough tools)")
	assert.Equal(t, 0, te.gen.calls)
}

func TestSchedule_InvalidCron(t *testing.T) {
	te := newTestEnv()

	_, err := execute(t, te.factory(), "schedule", "--cron", "not a cron")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron expression")
}

func TestSchedule_StopsWithContext(t *testing.T) {
	te := newTestEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	buf := &bytes.Buffer{}
	cmd := NewRootCommand(te.factory())
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"schedule"})

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.True(t, strings.Contains(buf.String(), `Scheduled generate-ai with "@every 1h"`), buf.String())
	assert.Equal(t, 0, te.gen.calls)
}
