package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/softwarescout/backend/config"
	infralogger "github.com/softwarescout/backend/internal/infrastructure/logger"
	"github.com/softwarescout/backend/internal/usecase"
)

// Observability is what the router needs from the metrics registry
type Observability interface {
	HTTPObserver
	Handler() http.Handler
}

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log infralogger.Logger, obs Observability) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	if obs != nil {
		router.Use(MetricsMiddleware(obs))
	}
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	router.GET("/health", handler.HealthCheck)
	if obs != nil {
		router.GET("/metrics", gin.WrapH(obs.Handler()))
	}

	router.GET("/sitemap.xml", handler.SitemapIndex)
	for _, name := range []string{
		usecase.SitemapMain,
		usecase.SitemapTools,
		usecase.SitemapComparisons,
		usecase.SitemapIndustry,
	} {
		router.GET("/"+name+".xml", handler.Sitemap(name))
	}

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		v1.POST("/leads", handler.SubmitLead)
		v1.POST("/click", handler.RecordClick)
		v1.GET("/search", handler.Search)

		v1.GET("/categories", handler.ListCategories)
		v1.GET("/categories/:slug", handler.GetCategory)
		v1.GET("/tools/:slug", handler.GetTool)
		v1.GET("/compare/:slugs", handler.GetComparison)
		v1.GET("/best/:category/for/:industry", handler.GetIndustryPage)

		admin := v1.Group("/admin")
		admin.Use(AdminAuthMiddleware(handler.leads))
		{
			admin.GET("/leads", handler.ListLeads)
			admin.PATCH("/leads/:id/status", handler.UpdateLeadStatus)
		}
	}

	return router
}
