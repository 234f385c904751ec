package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/config"
)

// NewBackend builds the backend selected by cfg.Storage.Backend.
func NewBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Backend, error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		return NewMemoryBackend(), nil
	case config.StorageRedis:
		return NewRedis(cfg.Redis, cfg.Storage.RedisKey, logger), nil
	case config.StoragePostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, cfg.Storage.DocumentName, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return pg, nil
	default:
		return NewFileBackend(cfg.Storage.FilePath)
	}
}
