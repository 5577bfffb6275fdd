package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/softwarescout/backend/internal/domain"
	infralogger "github.com/softwarescout/backend/internal/infrastructure/logger"
	"github.com/softwarescout/backend/internal/usecase"
)

// LeadIntake is the lead workflow used by the handlers
type LeadIntake interface {
	Submit(ctx context.Context, req domain.LeadRequest) (*domain.LeadResult, error)
	List(ctx context.Context, filter domain.LeadFilter) ([]domain.Lead, error)
	UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) (*domain.Lead, error)
	CheckAdminPassword(password string) error
}

// CatalogReader serves the public catalog views
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]domain.CategoryWithCount, error)
	GetCategory(ctx context.Context, slug string) (*usecase.CategoryDetail, error)
	GetTool(ctx context.Context, slug string) (*usecase.ToolDetail, error)
	GetComparison(ctx context.Context, slugs string) (*usecase.ComparisonView, error)
	GetIndustryPageView(ctx context.Context, categorySlug, industrySlug string) (*domain.IndustryPageView, error)
	Search(ctx context.Context, q string) ([]domain.Tool, error)
	RecordClick(ctx context.Context, click domain.Click, ipHeader string) error
}

// SitemapRenderer renders sitemap XML documents
type SitemapRenderer interface {
	Index(ctx context.Context) ([]byte, error)
	Render(ctx context.Context, name string) ([]byte, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	leads         LeadIntake
	catalog       CatalogReader
	sitemaps      SitemapRenderer
	logger        infralogger.Logger
	sitemapMaxAge int
}

// NewHandler creates a new HTTP handler. sitemapMaxAge is in seconds.
func NewHandler(
	leads LeadIntake,
	catalog CatalogReader,
	sitemaps SitemapRenderer,
	log infralogger.Logger,
	sitemapMaxAge int,
) *Handler {
	return &Handler{
		leads:         leads,
		catalog:       catalog,
		sitemaps:      sitemaps,
		logger:        log,
		sitemapMaxAge: sitemapMaxAge,
	}
}

const (
	msgLeadSaveFailed = "Failed to save your information. Please try again."
	msgInvalidLead    = "Invalid request"
	msgInvalidBody    = "Invalid request body"
	msgInternal       = "Internal server error"
	msgUnauthorized   = "Unauthorized"
)

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "softwarescout-backend",
		"version": "1.0.0",
	})
}

// SubmitLead handles POST /api/v1/leads
func (h *Handler) SubmitLead(c *gin.Context) {
	var body leadBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidLead})
		return
	}
	req := body.toRequest()

	result, err := h.leads.Submit(c.Request.Context(), req)
	if err != nil {
		var verr *domain.LeadValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		h.logger.Error("failed to submit lead",
			infralogger.String("category", req.SoftwareCategory),
			infralogger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgLeadSaveFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "matched_tools": result.MatchedTools})
}

type clickRequest struct {
	ToolSlug string `json:"tool_slug"`
}

// RecordClick handles POST /api/v1/click
func (h *Handler) RecordClick(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tool_slug"})
		return
	}

	click := domain.Click{
		ToolSlug:  req.ToolSlug,
		UserAgent: c.GetHeader("User-Agent"),
		Referer:   c.GetHeader("Referer"),
	}
	err := h.catalog.RecordClick(c.Request.Context(), click, c.GetHeader("X-Forwarded-For"))
	if errors.Is(err, domain.ErrInvalidRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tool_slug"})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Search handles GET /api/v1/search?q=
func (h *Handler) Search(c *gin.Context) {
	tools, err := h.catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tools": tools})
}

// ListCategories handles GET /api/v1/categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory handles GET /api/v1/categories/:slug
func (h *Handler) GetCategory(c *gin.Context) {
	detail, err := h.catalog.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetTool handles GET /api/v1/tools/:slug
func (h *Handler) GetTool(c *gin.Context) {
	detail, err := h.catalog.GetTool(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetComparison handles GET /api/v1/compare/:slugs
func (h *Handler) GetComparison(c *gin.Context) {
	view, err := h.catalog.GetComparison(c.Request.Context(), c.Param("slugs"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetIndustryPage handles GET /api/v1/best/:category/for/:industry
func (h *Handler) GetIndustryPage(c *gin.Context) {
	view, err := h.catalog.GetIndustryPageView(c.Request.Context(), c.Param("category"), c.Param("industry"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListLeads handles GET /api/v1/admin/leads
func (h *Handler) ListLeads(c *gin.Context) {
	filter := domain.LeadFilter{
		Category:  c.Query("category"),
		Status:    domain.LeadStatus(c.Query("status")),
		Ascending: c.Query("sort") == "asc",
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		filter.Limit = limit
	}

	leads, err := h.leads.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads, "count": len(leads)})
}

type statusRequest struct {
	Status domain.LeadStatus `json:"status" binding:"required"`
}

// UpdateLeadStatus handles PATCH /api/v1/admin/leads/:id/status
func (h *Handler) UpdateLeadStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	lead, err := h.leads.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

// SitemapIndex handles GET /sitemap.xml
func (h *Handler) SitemapIndex(c *gin.Context) {
	body, err := h.sitemaps.Index(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.writeXML(c, body)
}

// Sitemap returns the handler for one named child sitemap
func (h *Handler) Sitemap(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := h.sitemaps.Render(c.Request.Context(), name)
		if err != nil {
			h.writeError(c, err)
			return
		}
		h.writeXML(c, body)
	}
}

func (h *Handler) writeXML(c *gin.Context, body []byte) {
	maxAge := strconv.Itoa(h.sitemapMaxAge)
	c.Header("Cache-Control", "public, max-age="+maxAge+", s-maxage="+maxAge)
	c.Data(http.StatusOK, "application/xml", body)
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := msgInternal

	switch {
	case errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrToolNotFound),
		errors.Is(err, domain.ErrPageNotFound),
		errors.Is(err, domain.ErrComparisonNotFound),
		errors.Is(err, domain.ErrLeadNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidStatus):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = msgUnauthorized
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			infralogger.String("path", c.FullPath()),
			infralogger.Error(err))
	}

	c.JSON(status, gin.H{"error": message})
}
