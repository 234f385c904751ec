package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.Equal(t, "db.json", cfg.Storage.FilePath)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 5*time.Second, cfg.Storage.FlushMaxElapsed())
	assert.False(t, cfg.Auth.Required)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Memory")
	t.Setenv("REALTIME_PORT", "9999")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("WORKER_OVERDUE_INTERVAL_MINUTES", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, "0.0.0.0:9999", cfg.Realtime.Addr())
	assert.True(t, cfg.Auth.Required)
	assert.Zero(t, cfg.Worker.OverdueInterval())
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestInvalidRedisDB(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("REDIS_DB", "abc")

	_, err := Load()
	require.Error(t, err)
}
