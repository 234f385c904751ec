package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends understood by persistence.
const (
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Realtime     RealtimeConfig
	Storage      StorageConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Worker       WorkerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	AllowedOrigins        string
}

// RealtimeConfig controls the websocket listener.
type RealtimeConfig struct {
	Host              string
	Port              string
	SendBuffer        int
	WriteTimeoutMilli int
}

// StorageConfig selects where the document lives.
type StorageConfig struct {
	Backend             string
	FilePath            string
	RedisKey            string
	DocumentName        string
	FlushMaxElapsedSecs int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	Required              bool
}

// NotificationConfig holds stub notification settings.
type NotificationConfig struct {
	EmailFrom string
}

// WorkerConfig configures background jobs.
type WorkerConfig struct {
	OverdueIntervalMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := strings.ToLower(getEnv("STORAGE_BACKEND", StorageFile))
	switch backend {
	case StorageFile, StorageRedis, StoragePostgres, StorageMemory:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "issueflow"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			AllowedOrigins:        getEnv("ALLOWED_ORIGINS", "*"),
		},
		Realtime: RealtimeConfig{
			Host:              getEnv("REALTIME_HOST", "0.0.0.0"),
			Port:              getEnv("REALTIME_PORT", "8081"),
			SendBuffer:        getEnvAsInt("REALTIME_SEND_BUFFER", 64),
			WriteTimeoutMilli: getEnvAsInt("REALTIME_WRITE_TIMEOUT_MS", 5000),
		},
		Storage: StorageConfig{
			Backend:             backend,
			FilePath:            getEnv("STORAGE_FILE_PATH", "db.json"),
			RedisKey:            getEnv("STORAGE_REDIS_KEY", "issueflow:document"),
			DocumentName:        getEnv("STORAGE_DOCUMENT_NAME", "default"),
			FlushMaxElapsedSecs: getEnvAsInt("STORAGE_FLUSH_MAX_ELAPSED_SECONDS", 5),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60*24*7),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
			Required:              getEnvAsBool("AUTH_REQUIRED", false),
		},
		Notification: NotificationConfig{
			EmailFrom: getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
		},
		Worker: WorkerConfig{
			OverdueIntervalMinutes: getEnvAsInt("WORKER_OVERDUE_INTERVAL_MINUTES", 60),
		},
	}

	if cfg.Storage.Backend == StoragePostgres && cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required for the postgres storage backend")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Addr returns the websocket bind address.
func (r RealtimeConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// WriteTimeout bounds a single frame write to one session.
func (r RealtimeConfig) WriteTimeout() time.Duration {
	if r.WriteTimeoutMilli <= 0 {
		return 5 * time.Second
	}
	return time.Duration(r.WriteTimeoutMilli) * time.Millisecond
}

// FlushMaxElapsed bounds retries of a failed document write.
func (s StorageConfig) FlushMaxElapsed() time.Duration {
	if s.FlushMaxElapsedSecs <= 0 {
		return 0
	}
	return time.Duration(s.FlushMaxElapsedSecs) * time.Second
}

// OverdueInterval returns the sweep period, zero when disabled.
func (w WorkerConfig) OverdueInterval() time.Duration {
	if w.OverdueIntervalMinutes <= 0 {
		return 0
	}
	return time.Duration(w.OverdueIntervalMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
