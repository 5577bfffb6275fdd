package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/softwarescout/backend/config"
	"github.com/softwarescout/backend/internal/catalog"
	"github.com/softwarescout/backend/internal/cli"
	"github.com/softwarescout/backend/internal/infrastructure/cache"
	infralogger "github.com/softwarescout/backend/internal/infrastructure/logger"
	"github.com/softwarescout/backend/internal/infrastructure/metrics"
	"github.com/softwarescout/backend/internal/infrastructure/postgres"
	"github.com/softwarescout/backend/internal/infrastructure/textgen"
	"github.com/softwarescout/backend/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(openEnv).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// openEnv wires the production stores for a CLI command
func openEnv(ctx context.Context, withGenerator bool) (*cli.Env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	log, err := infralogger.New(infralogger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, nil, err
	}

	cat, err := catalog.Load()
	if err != nil {
		return nil, nil, err
	}

	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		_ = log.Sync()
	}

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, db.Close)

	m := metrics.New()
	pages := postgres.NewPageRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)

	env := &cli.Env{
		Config:  cfg,
		Logger:  log,
		Catalog: cat,
		Pages:   pages,
		Tools:   catalogRepo,
		Metrics: m,
	}

	// Regenerated pages must not be served stale from a shared cache.
	if cfg.Cache.Type == "redis" {
		store, err := cache.New(cfg.Cache)
		if err != nil {
			log.Warn("page cache unavailable; cached pages will expire on their own", infralogger.Error(err))
		} else {
			closers = append(closers, store.Close)
			env.Invalidator = usecase.NewCatalogService(catalogRepo, pages, nil, store, log, usecase.CatalogServiceConfig{})
		}
	}

	if withGenerator {
		gen, err := textgen.New(ctx, cfg.TextGen, log, m)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, gen.Close)
		env.Generator = gen
	}

	return env, cleanup, nil
}
