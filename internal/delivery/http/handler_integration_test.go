package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarescout/backend/config"
	"github.com/softwarescout/backend/internal/domain"
	infralogger "github.com/softwarescout/backend/internal/infrastructure/logger"
	"github.com/softwarescout/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeLeadIntake struct {
	result    *domain.LeadResult
	err       error
	submitted []domain.LeadRequest
	filters   []domain.LeadFilter
	leads     []domain.Lead
	password  string
	updated   map[string]domain.LeadStatus
}

func (f *fakeLeadIntake) Submit(_ context.Context, req domain.LeadRequest) (*domain.LeadResult, error) {
	f.submitted = append(f.submitted, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeLeadIntake) List(_ context.Context, filter domain.LeadFilter) ([]domain.Lead, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.leads, nil
}

func (f *fakeLeadIntake) UpdateStatus(_ context.Context, id string, status domain.LeadStatus) (*domain.Lead, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.updated == nil {
		f.updated = map[string]domain.LeadStatus{}
	}
	f.updated[id] = status
	return &domain.Lead{ID: id, Status: status}, nil
}

func (f *fakeLeadIntake) CheckAdminPassword(password string) error {
	if f.password == "" || password != f.password {
		return domain.ErrUnauthorized
	}
	return nil
}

type fakeCatalogReader struct {
	err     error
	clicks  []domain.Click
	ipHdrs  []string
	queries []string
	tools   []domain.Tool
	view    *domain.IndustryPageView
}

func (f *fakeCatalogReader) ListCategories(context.Context) ([]domain.CategoryWithCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.CategoryWithCount{{Category: domain.Category{Slug: "crm", Name: "CRM Software"}, ToolCount: 5}}, nil
}

func (f *fakeCatalogReader) GetCategory(_ context.Context, slug string) (*usecase.CategoryDetail, error) {
	if slug != "crm" {
		return nil, domain.ErrCategoryNotFound
	}
	return &usecase.CategoryDetail{Category: domain.Category{Slug: "crm"}, Tools: f.tools}, nil
}

func (f *fakeCatalogReader) GetTool(_ context.Context, slug string) (*usecase.ToolDetail, error) {
	for _, t := range f.tools {
		if t.Slug == slug {
			return &usecase.ToolDetail{Tool: t, Alternatives: []domain.Tool{}}, nil
		}
	}
	return nil, domain.ErrToolNotFound
}

func (f *fakeCatalogReader) GetComparison(_ context.Context, slugs string) (*usecase.ComparisonView, error) {
	if slugs != "hubspot-crm-vs-pipedrive" {
		return nil, domain.ErrComparisonNotFound
	}
	return &usecase.ComparisonView{Comparison: domain.Comparison{ToolASlug: "hubspot-crm", ToolBSlug: "pipedrive"}}, nil
}

func (f *fakeCatalogReader) GetIndustryPageView(_ context.Context, category, industry string) (*domain.IndustryPageView, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.view == nil || f.view.Page.Slug != domain.IndustryPageSlug(category, industry) {
		return nil, domain.ErrPageNotFound
	}
	return f.view, nil
}

func (f *fakeCatalogReader) Search(_ context.Context, q string) ([]domain.Tool, error) {
	f.queries = append(f.queries, q)
	if strings.TrimSpace(q) == "" {
		return []domain.Tool{}, nil
	}
	return f.tools, nil
}

func (f *fakeCatalogReader) RecordClick(_ context.Context, click domain.Click, ipHeader string) error {
	if strings.TrimSpace(click.ToolSlug) == "" {
		return fmt.Errorf("%w: tool_slug", domain.ErrInvalidRequest)
	}
	if f.err != nil {
		return f.err
	}
	f.clicks = append(f.clicks, click)
	f.ipHdrs = append(f.ipHdrs, ipHeader)
	return nil
}

type fakeSitemaps struct{}

func (fakeSitemaps) Index(context.Context) ([]byte, error) {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?><sitemapindex/>`), nil
}

func (fakeSitemaps) Render(_ context.Context, name string) ([]byte, error) {
	if name == usecase.SitemapTools {
		return nil, fmt.Errorf("%w: tools: connection refused", domain.ErrStorage)
	}
	return []byte("<urlset><!-- " + name + " --></urlset>"), nil
}

type recordingObserver struct {
	routes []string
}

func (r *recordingObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	r.routes = append(r.routes, fmt.Sprintf("%s %s %d", method, route, status))
}

func (r *recordingObserver) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
}

type testServer struct {
	router  *gin.Engine
	leads   *fakeLeadIntake
	catalog *fakeCatalogReader
	obs     *recordingObserver
}

func newTestServer() *testServer {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"https://softwarescout.xyz", "http://localhost:*"},
		},
	}

	s := &testServer{
		leads: &fakeLeadIntake{password: "s3cret"},
		catalog: &fakeCatalogReader{tools: []domain.Tool{
			{Slug: "hubspot-crm", Name: "HubSpot CRM"},
			{Slug: "pipedrive", Name: "Pipedrive"},
		}},
		obs: &recordingObserver{},
	}
	handler := NewHandler(s.leads, s.catalog, fakeSitemaps{}, infralogger.NewNop(), 3600)
	s.router = SetupRouter(cfg, handler, infralogger.NewNop(), s.obs)
	return s
}

func (s *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		s := newTestServer()
		w := s.do("GET", "/health", "")

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "healthy", resp["status"])
		assert.Equal(t, "softwarescout-backend", resp["service"])
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		s := newTestServer()
		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := s.do(method, "/health", "")
			assert.Equal(t, http.StatusNotFound, w.Code, method)
		}
	})
}

func TestSubmitLead(t *testing.T) {
	t.Run("returns matched tool names", func(t *testing.T) {
		s := newTestServer()
		s.leads.result = &domain.LeadResult{LeadID: "l1", MatchedTools: []string{"Jobber", "HubSpot CRM"}}

		w := s.do("POST", "/api/v1/leads", `{"software_category":"crm","name":"Ann","email":"ann@greenacres.com"}`)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, true, resp["ok"])
		assert.Equal(t, []any{"Jobber", "HubSpot CRM"}, resp["matched_tools"])
		assert.NotContains(t, resp, "lead_id")
		require.Len(t, s.leads.submitted, 1)
		assert.Equal(t, "ann@greenacres.com", s.leads.submitted[0].Email)
	})

	t.Run("validation message is returned as is", func(t *testing.T) {
		s := newTestServer()
		s.leads.err = &domain.LeadValidationError{Field: "email", Message: "Please use your work email address"}

		w := s.do("POST", "/api/v1/leads", `{"software_category":"crm","name":"Ann","email":"ann@gmail.com"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Please use your work email address", decode(t, w)["error"])
	})

	t.Run("store failure hides the cause", func(t *testing.T) {
		s := newTestServer()
		s.leads.err = fmt.Errorf("%w: insert lead: pq: deadlock detected", domain.ErrStorage)

		w := s.do("POST", "/api/v1/leads", `{"software_category":"crm","name":"Ann","email":"ann@greenacres.com"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, msgLeadSaveFailed, decode(t, w)["error"])
	})

	t.Run("malformed JSON", func(t *testing.T) {
		s := newTestServer()
		for _, body := range []string{`{"name":`, `[]`, `"lead"`} {
			w := s.do("POST", "/api/v1/leads", body)

			assert.Equal(t, http.StatusBadRequest, w.Code, body)
			assert.Equal(t, "Invalid request", decode(t, w)["error"], body)
		}
		assert.Empty(t, s.leads.submitted)
	})

	t.Run("mistyped optional fields are dropped", func(t *testing.T) {
		s := newTestServer()
		s.leads.result = &domain.LeadResult{MatchedTools: []string{}}

		w := s.do("POST", "/api/v1/leads",
			`{"software_category":"crm","name":"Ann","email":"ann@greenacres.com","requirements":"x","industry":42}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do("POST", "/api/v1/leads",
			`{"software_category":"crm","name":"Ann","email":"ann@greenacres.com","requirements":["api-access",3,null]}`)
		require.Equal(t, http.StatusOK, w.Code)

		require.Len(t, s.leads.submitted, 2)
		assert.Empty(t, s.leads.submitted[0].Requirements)
		assert.Empty(t, s.leads.submitted[0].Industry)
		assert.Equal(t, []string{"api-access"}, s.leads.submitted[1].Requirements)
	})
}

func TestSubmitLead_MistypedFieldMessages(t *testing.T) {
	leads := usecase.NewLeadService(nil, nil, infralogger.NewNop(), nil, usecase.LeadServiceConfig{
		BlockedEmailDomains: []string{"gmail.com"},
	})
	handler := NewHandler(leads, &fakeCatalogReader{}, fakeSitemaps{}, infralogger.NewNop(), 3600)
	router := gin.New()
	router.POST("/leads", handler.SubmitLead)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"numeric name", `{"software_category":"crm","name":123,"email":"ann@greenacres.com"}`, "Name is required"},
		{"numeric category", `{"software_category":7,"name":"Ann","email":"ann@greenacres.com"}`, "Software category is required"},
		{"boolean email", `{"software_category":"crm","name":"Ann","email":true}`, "Email is required"},
		{"numeric company size", `{"software_category":"crm","name":"Ann","email":"ann@greenacres.com","company_size":5}`, "Invalid company size"},
		{"array budget", `{"software_category":"crm","name":"Ann","email":"ann@greenacres.com","budget":["free"]}`, "Invalid budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/leads", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decode(t, w)["error"])
		})
	}
}

func TestRecordClick(t *testing.T) {
	s := newTestServer()

	w := s.do("POST", "/api/v1/click", `{"tool_slug":"jobber"}`,
		"User-Agent", "Mozilla/5.0", "Referer", "https://softwarescout.xyz/tools/jobber",
		"X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])
	require.Len(t, s.catalog.clicks, 1)
	assert.Equal(t, "Mozilla/5.0", s.catalog.clicks[0].UserAgent)
	assert.Equal(t, "https://softwarescout.xyz/tools/jobber", s.catalog.clicks[0].Referer)
	assert.Equal(t, "203.0.113.7, 10.0.0.1", s.catalog.ipHdrs[0])

	for _, body := range []string{`{}`, `{"tool_slug":"  "}`, `not json`} {
		w = s.do("POST", "/api/v1/click", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Invalid tool_slug", decode(t, w)["error"])
	}
}

func TestSearch(t *testing.T) {
	s := newTestServer()

	w := s.do("GET", "/api/v1/search?q=hub", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["tools"], 2)

	w = s.do("GET", "/api/v1/search", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["tools"])
}

func TestCatalogEndpoints(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"categories", "/api/v1/categories", http.StatusOK},
		{"category detail", "/api/v1/categories/crm", http.StatusOK},
		{"unknown category", "/api/v1/categories/nope", http.StatusNotFound},
		{"tool detail", "/api/v1/tools/pipedrive", http.StatusOK},
		{"unknown tool", "/api/v1/tools/nope", http.StatusNotFound},
		{"comparison", "/api/v1/compare/hubspot-crm-vs-pipedrive", http.StatusOK},
		{"reversed comparison", "/api/v1/compare/pipedrive-vs-hubspot-crm", http.StatusNotFound},
		{"missing industry page", "/api/v1/best/crm/for/landscaping", http.StatusNotFound},
		{"non-versioned route", "/categories", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			w := s.do("GET", tt.path, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestGetIndustryPage(t *testing.T) {
	s := newTestServer()
	s.catalog.view = &domain.IndustryPageView{
		Page:         &domain.IndustryPage{Slug: "crm-for-landscaping", Title: "Best CRM Software for Landscaping"},
		Tools:        []domain.Tool{{Slug: "jobber"}},
		RelatedPages: []domain.IndustryPageRef{},
	}

	w := s.do("GET", "/api/v1/best/crm/for/landscaping", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)["page"].(map[string]any)
	assert.Equal(t, "Best CRM Software for Landscaping", page["title"])

	s.catalog.err = fmt.Errorf("%w: get page: timeout", domain.ErrStorage)
	w = s.do("GET", "/api/v1/best/crm/for/landscaping", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgInternal, decode(t, w)["error"])
}

func TestAdminLeads(t *testing.T) {
	t.Run("rejects missing or wrong password", func(t *testing.T) {
		s := newTestServer()
		for _, path := range []string{"/api/v1/admin/leads", "/api/v1/admin/leads?password=wrong"} {
			w := s.do("GET", path, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Unauthorized", decode(t, w)["error"])
		}
		assert.Empty(t, s.leads.filters)
	})

	t.Run("password query with filters", func(t *testing.T) {
		s := newTestServer()
		s.leads.leads = []domain.Lead{{ID: "l1"}}

		w := s.do("GET", "/api/v1/admin/leads?password=s3cret&sort=asc&category=crm&status=new&limit=20", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 1, decode(t, w)["count"])
		require.Len(t, s.leads.filters, 1)
		assert.Equal(t, domain.LeadFilter{
			Category:  "crm",
			Status:    domain.LeadStatusNew,
			Ascending: true,
			Limit:     20,
		}, s.leads.filters[0])
	})

	t.Run("header password defaults to newest first", func(t *testing.T) {
		s := newTestServer()
		w := s.do("GET", "/api/v1/admin/leads", "", "X-Admin-Password", "s3cret")

		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, s.leads.filters[0].Ascending)
	})

	t.Run("bad limit", func(t *testing.T) {
		s := newTestServer()
		w := s.do("GET", "/api/v1/admin/leads?limit=abc", "", "X-Admin-Password", "s3cret")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update status", func(t *testing.T) {
		s := newTestServer()
		w := s.do("PATCH", "/api/v1/admin/leads/l1/status", `{"status":"contacted"}`, "X-Admin-Password", "s3cret")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.LeadStatusContacted, s.leads.updated["l1"])
	})

	t.Run("update status errors", func(t *testing.T) {
		tests := []struct {
			err    error
			status int
		}{
			{domain.ErrLeadNotFound, http.StatusNotFound},
			{fmt.Errorf("%w: new -> sold", domain.ErrInvalidStatus), http.StatusUnprocessableEntity},
			{errors.New("boom"), http.StatusInternalServerError},
		}
		for _, tt := range tests {
			s := newTestServer()
			s.leads.err = tt.err
			w := s.do("PATCH", "/api/v1/admin/leads/l1/status", `{"status":"sold"}`, "X-Admin-Password", "s3cret")
			assert.Equal(t, tt.status, w.Code, tt.err.Error())
		}
	})
}

func TestSitemaps(t *testing.T) {
	s := newTestServer()

	for _, path := range []string{"/sitemap.xml", "/sitemap-main.xml", "/sitemap-comparisons.xml", "/sitemap-industry.xml"} {
		w := s.do("GET", path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "application/xml", w.Header().Get("Content-Type"), path)
		assert.Equal(t, "public, max-age=3600, s-maxage=3600", w.Header().Get("Cache-Control"), path)
	}

	w := s.do("GET", "/sitemap-tools.xml", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))
}

func TestMetricsWiring(t *testing.T) {
	s := newTestServer()

	w := s.do("GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# metrics", w.Body.String())

	s.do("GET", "/api/v1/tools/jobber", "")
	s.do("GET", "/does-not-exist", "")

	assert.Contains(t, s.obs.routes, "GET /api/v1/tools/:slug 404")
	assert.Contains(t, s.obs.routes, "GET unmatched 404")
}

func TestCORSIntegration(t *testing.T) {
	s := newTestServer()

	w := s.do("GET", "/health", "", "Origin", "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = s.do("OPTIONS", "/api/v1/admin/leads", "", "Origin", "https://softwarescout.xyz")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Admin-Password")

	w = s.do("GET", "/health", "", "Origin", "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
