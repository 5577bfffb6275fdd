package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/softwarescout/backend/config"
	httpDelivery "github.com/softwarescout/backend/internal/delivery/http"
	"github.com/softwarescout/backend/internal/infrastructure/cache"
	infralogger "github.com/softwarescout/backend/internal/infrastructure/logger"
	"github.com/softwarescout/backend/internal/infrastructure/metrics"
	"github.com/softwarescout/backend/internal/infrastructure/postgres"
	"github.com/softwarescout/backend/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := infralogger.New(infralogger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting SoftwareScout backend",
		infralogger.String("environment", cfg.Server.Environment),
		infralogger.String("port", cfg.Server.Port),
		infralogger.String("cache", cfg.Cache.Type))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	store, err := cache.New(cfg.Cache)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	m := metrics.New()

	catalogRepo := postgres.NewCatalogRepository(db)
	pageRepo := postgres.NewPageRepository(db)

	catalogService := usecase.NewCatalogService(
		catalogRepo,
		pageRepo,
		postgres.NewClickRepository(db),
		store,
		log,
		usecase.CatalogServiceConfig{CacheTTL: cfg.Cache.TTL},
	)
	leadService := usecase.NewLeadService(
		catalogRepo,
		postgres.NewLeadRepository(db),
		log,
		m,
		usecase.LeadServiceConfig{
			BlockedEmailDomains: cfg.Leads.BlockedEmailDomains,
			MaxMatches:          cfg.Leads.MaxMatches,
			AdminPassword:       cfg.Leads.AdminPassword,
		},
	)
	if cfg.Leads.AdminPassword == "" {
		log.Warn("leads.admin_password is empty; admin endpoints are locked")
	}
	sitemapService := usecase.NewSitemapService(catalogRepo, pageRepo, cfg.Site.BaseURL)

	handler := httpDelivery.NewHandler(
		leadService,
		catalogService,
		sitemapService,
		log,
		int(cfg.Site.SitemapMaxAge/time.Second),
	)
	router := httpDelivery.SetupRouter(cfg, handler, log, m)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", infralogger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
