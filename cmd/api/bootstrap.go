package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/config"
	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
	"github.com/AbhignaKuchukulla/Issueflow/internal/observability"
	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
	"github.com/AbhignaKuchukulla/Issueflow/internal/service"
)

// core is what every command needs before it can touch the document.
type core struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics
	store   *persistence.Store
	deps    service.Dependencies
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func bootstrap(ctx context.Context) (*core, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	metrics := observability.NewMetrics()

	backend, err := persistence.NewBackend(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Storage.Backend, err)
	}
	store, err := persistence.Open(ctx, backend, logger,
		persistence.WithFlushRetry(cfg.Storage.FlushMaxElapsed()),
		persistence.WithMetrics(metrics))
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	return &core{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		store:   store,
		deps: service.Dependencies{
			Store:      store,
			Dispatcher: events.NewInMemoryDispatcher(logger),
			Logger:     logger,
		},
	}, nil
}

func (r *core) close() {
	if err := r.store.Close(); err != nil {
		r.logger.Warn("close store", zap.Error(err))
	}
	_ = r.logger.Sync()
}
