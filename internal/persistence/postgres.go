package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/config"
)

// Postgres stores the document as one jsonb row keyed by name.
type Postgres struct {
	Pool *pgxpool.Pool
	name string
}

// NewPostgres establishes a connection pool.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, name string, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres DSN not provided")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres", zap.String("document", name))
	return &Postgres{Pool: pool, name: name}, nil
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Load(ctx context.Context) ([]byte, error) {
	const query = `SELECT body FROM documents WHERE name=$1`
	var body []byte
	err := p.Pool.QueryRow(ctx, query, p.name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", p.name, err)
	}
	return body, nil
}

func (p *Postgres) Save(ctx context.Context, data []byte) error {
	const query = `
        INSERT INTO documents (name, body, updated_at)
        VALUES ($1, $2::jsonb, NOW())
        ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`
	if _, err := p.Pool.Exec(ctx, query, p.name, string(data)); err != nil {
		return fmt.Errorf("save document %s: %w", p.name, err)
	}
	return nil
}

// Ping verifies database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.Pool.Ping(ctx)
}

// Close releases pool resources.
func (p *Postgres) Close() error {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
	return nil
}

// PoolHandle returns the underlying pgx pool.
func (p *Postgres) PoolHandle() *pgxpool.Pool {
	if p == nil {
		return nil
	}
	return p.Pool
}
