// Package config handles loading and validating todaylotto configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/todaylotto/backend/internal/storage"
)

func init() {
	// Load .env file if it exists
	_ = godotenv.Load()
}

// Config is the root configuration for the todaylotto backend.
type Config struct {
	DataDir       string               `json:"data_dir,omitempty" yaml:"data_dir,omitempty"` // Persistent data directory. Default: ~/.todaylotto/data. Override: TODAYLOTTO_DATA_DIR env var.
	Server        ServerConfig         `json:"server" yaml:"server"`
	Storage       *StorageConfig       `json:"storage,omitempty" yaml:"storage,omitempty"`             // nil = SQLite default (derived from data_dir)
	Cache         *CacheConfig         `json:"cache,omitempty" yaml:"cache,omitempty"`                 // nil = caching enabled with defaults
	Observability *ObservabilityConfig `json:"observability,omitempty" yaml:"observability,omitempty"` // nil = observability disabled
	ContentPack   string               `json:"content_pack,omitempty" yaml:"content_pack,omitempty"`   // YAML content pack for the seed command.
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	ListenAddr          string          `json:"listen_addr" yaml:"listen_addr"` // Default: ":8080". Override: TODAYLOTTO_LISTEN_ADDR env var.
	EnableDocs          bool            `json:"enable_docs" yaml:"enable_docs"` // Serve OpenAPI docs.
	MaxRequestSizeBytes int64           `json:"max_request_size_bytes" yaml:"max_request_size_bytes"`
	RateLimit           RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
	ReadTimeoutSeconds  int             `json:"read_timeout_seconds" yaml:"read_timeout_seconds"`   // Default: 15.
	WriteTimeoutSeconds int             `json:"write_timeout_seconds" yaml:"write_timeout_seconds"` // Default: 30.
}

// Addr returns the listen address with a default of ":8080".
func (s ServerConfig) Addr() string {
	if s.ListenAddr != "" {
		return s.ListenAddr
	}
	return ":8080"
}

// MaxRequestSize returns the request body cap with a default of 64 KiB.
// Score requests are small; anything bigger is abuse.
func (s ServerConfig) MaxRequestSize() int64 {
	if s.MaxRequestSizeBytes > 0 {
		return s.MaxRequestSizeBytes
	}
	return 64 * 1024
}

// ReadTimeout returns the server read timeout with a default of 15s.
func (s ServerConfig) ReadTimeout() time.Duration {
	if s.ReadTimeoutSeconds > 0 {
		return time.Duration(s.ReadTimeoutSeconds) * time.Second
	}
	return 15 * time.Second
}

// WriteTimeout returns the server write timeout with a default of 30s.
func (s ServerConfig) WriteTimeout() time.Duration {
	if s.WriteTimeoutSeconds > 0 {
		return time.Duration(s.WriteTimeoutSeconds) * time.Second
	}
	return 30 * time.Second
}

// RateLimitConfig configures per-client rate limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"` // 0 = disabled.
	BurstSize         int `json:"burst_size" yaml:"burst_size"`
}

// StorageConfig configures the persistence backend.
// When nil, defaults to SQLite with the database path derived from data_dir.
type StorageConfig struct {
	Driver   string                 `json:"driver" yaml:"driver"`                         // "sqlite" (default) or "postgres".
	SQLite   *SQLiteStorageConfig   `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`     // SQLite-specific settings.
	Postgres *PostgresStorageConfig `json:"postgres,omitempty" yaml:"postgres,omitempty"` // PostgreSQL-specific settings.
}

// StorageDriver returns the configured driver, defaulting to "sqlite".
func (s *StorageConfig) StorageDriver() string {
	if s != nil && s.Driver != "" {
		return s.Driver
	}
	return storage.DriverSQLite
}

// SQLiteStorageConfig holds SQLite-specific settings.
type SQLiteStorageConfig struct {
	Path        string `json:"path,omitempty" yaml:"path,omitempty"` // Database file path. Default: derived from data_dir.
	JournalMode string `json:"journal_mode" yaml:"journal_mode"`     // "wal" (default), "delete", "truncate", etc.
}

// PostgresStorageConfig holds PostgreSQL-specific settings.
type PostgresStorageConfig struct {
	DSN              string `json:"dsn" yaml:"dsn"` // Override: TODAYLOTTO_DB_DSN env var.
	MaxOpenConns     int    `json:"max_open_conns" yaml:"max_open_conns"`           // Default: 25
	MaxIdleConns     int    `json:"max_idle_conns" yaml:"max_idle_conns"`           // Default: 5
	ConnMaxLifetimeS int    `json:"conn_max_lifetime_s" yaml:"conn_max_lifetime_s"` // Default: 1800 (30 min)
}

// CacheConfig configures the persisted report cache.
// When nil, caching runs with defaults; set Enabled=false to turn it off.
type CacheConfig struct {
	Enabled       *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"` // nil = true.
	TTLHours      int    `json:"ttl_hours" yaml:"ttl_hours"`                 // Default: 24.
	SweepSchedule string `json:"sweep_schedule" yaml:"sweep_schedule"`       // Cron expression. Default: "0 * * * *" (hourly).
}

// CacheEnabled returns whether report caching is active.
func (c *CacheConfig) CacheEnabled() bool {
	if c == nil || c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// TTL returns the cache entry lifetime with a default of 24h.
func (c *CacheConfig) TTL() time.Duration {
	if c != nil && c.TTLHours > 0 {
		return time.Duration(c.TTLHours) * time.Hour
	}
	return 24 * time.Hour
}

// Schedule returns the sweep cron expression with a default of hourly.
func (c *CacheConfig) Schedule() string {
	if c != nil && c.SweepSchedule != "" {
		return c.SweepSchedule
	}
	return "0 * * * *"
}

// ObservabilityConfig configures metrics, tracing, and health checks.
// When nil, all observability features are disabled with zero overhead.
type ObservabilityConfig struct {
	Metrics *MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Tracing *TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
	Health  *HealthConfig  `json:"health,omitempty" yaml:"health,omitempty"`
}

// MetricsConfig configures Prometheus metrics exposition.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"` // Default: "/metrics"
}

// TracingConfig configures OpenTelemetry distributed tracing.
type TracingConfig struct {
	Enabled     bool    `json:"enabled" yaml:"enabled"`
	Endpoint    string  `json:"endpoint" yaml:"endpoint"`         // OTLP endpoint, e.g. "localhost:4317"
	Protocol    string  `json:"protocol" yaml:"protocol"`         // "grpc" or "http". Default: "grpc"
	ServiceName string  `json:"service_name" yaml:"service_name"` // Default: "todaylotto"
	SampleRate  float64 `json:"sample_rate" yaml:"sample_rate"`   // 0.0-1.0. Default: 1.0
	Insecure    bool    `json:"insecure" yaml:"insecure"`         // Skip TLS for dev
}

// HealthConfig configures dependency health checks for readiness probes.
type HealthConfig struct {
	IncludeDB bool `json:"include_db" yaml:"include_db"`
}

// DefaultConfigPath returns the default config file path (~/.todaylotto/config.json).
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "configs/todaylotto.json" // fallback for environments without a home dir
	}
	return filepath.Join(home, ".todaylotto", "config.json")
}

// Load reads a JSON or YAML config file and returns a validated Config.
// The format is detected by file extension: .yml/.yaml for YAML, everything
// else for JSON. Environment variables take precedence over file values.
// A missing file is not an error; the zero-config defaults (SQLite, :8080)
// apply instead.
func Load(path string) (*Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %s: %w", path, err)
	}

	var cfg Config
	data, err := os.ReadFile(resolved)
	switch {
	case os.IsNotExist(err):
		// Zero-config startup.
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", resolved, err)
	default:
		switch ext := strings.ToLower(filepath.Ext(resolved)); ext {
		case ".yml", ".yaml":
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing YAML config %s: %w", resolved, err)
			}
		default:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing JSON config %s: %w", resolved, err)
			}
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.DataDir = filepath.Join(home, ".todaylotto", "data")
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies TODAYLOTTO_* environment variables over file values.
func applyEnvOverrides(cfg *Config) {
	if env := os.Getenv("TODAYLOTTO_LISTEN_ADDR"); env != "" {
		cfg.Server.ListenAddr = env
	}
	if env := os.Getenv("TODAYLOTTO_DATA_DIR"); env != "" {
		cfg.DataDir = env
	}
	if env := os.Getenv("TODAYLOTTO_STORAGE_DRIVER"); env != "" {
		if cfg.Storage == nil {
			cfg.Storage = &StorageConfig{}
		}
		cfg.Storage.Driver = env
	}
	if env := os.Getenv("TODAYLOTTO_DB_DSN"); env != "" {
		if cfg.Storage == nil {
			cfg.Storage = &StorageConfig{Driver: storage.DriverPostgres}
		}
		if cfg.Storage.Postgres == nil {
			cfg.Storage.Postgres = &PostgresStorageConfig{}
		}
		cfg.Storage.Postgres.DSN = env
	}
	if env := os.Getenv("TODAYLOTTO_CACHE_TTL_HOURS"); env != "" {
		if hours, err := strconv.Atoi(env); err == nil && hours > 0 {
			if cfg.Cache == nil {
				cfg.Cache = &CacheConfig{}
			}
			cfg.Cache.TTLHours = hours
		}
	}
	if env := os.Getenv("TODAYLOTTO_CONTENT_PACK"); env != "" {
		cfg.ContentPack = env
	}
}

// resolvePath expands ~ to the user home directory and returns an absolute path.
func resolvePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Abs(path)
}

// ResolvedDataDir returns the data directory, resolving ~ if needed.
func (c *Config) ResolvedDataDir() string {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "data"
		}
		return filepath.Join(home, ".todaylotto", "data")
	}
	resolved, err := resolvePath(c.DataDir)
	if err != nil {
		return c.DataDir
	}
	return resolved
}

// DatabasePath returns the default SQLite database path under the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.ResolvedDataDir(), "todaylotto.db")
}

// StorageDriverName returns the effective storage driver name.
func (c *Config) StorageDriverName() string {
	if c.Storage != nil {
		return c.Storage.StorageDriver()
	}
	return storage.DriverSQLite
}

func (c *Config) validate() error {
	// Storage driver validation.
	if c.Storage != nil && c.Storage.Driver != "" {
		switch c.Storage.Driver {
		case storage.DriverSQLite, storage.DriverPostgres:
			// valid
		default:
			return fmt.Errorf("storage.driver %q is not supported (use sqlite or postgres)", c.Storage.Driver)
		}
	}
	// Postgres needs a DSN.
	if c.StorageDriverName() == storage.DriverPostgres {
		if c.Storage == nil || c.Storage.Postgres == nil || c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required for the postgres driver (set TODAYLOTTO_DB_DSN env var)")
		}
	}
	if c.Server.MaxRequestSizeBytes < 0 {
		return fmt.Errorf("server.max_request_size_bytes must not be negative")
	}
	if c.Server.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("server.rate_limit.requests_per_minute must not be negative")
	}
	if c.Cache != nil && c.Cache.TTLHours < 0 {
		return fmt.Errorf("cache.ttl_hours must not be negative")
	}
	if c.Observability != nil && c.Observability.Tracing != nil && c.Observability.Tracing.Enabled {
		t := c.Observability.Tracing
		if t.Endpoint == "" {
			return fmt.Errorf("observability.tracing.endpoint is required when tracing is enabled")
		}
		switch t.Protocol {
		case "", "grpc", "http":
			// valid
		default:
			return fmt.Errorf("observability.tracing.protocol %q is not supported (use grpc or http)", t.Protocol)
		}
		if t.SampleRate < 0 || t.SampleRate > 1 {
			return fmt.Errorf("observability.tracing.sample_rate must be between 0.0 and 1.0")
		}
	}
	return nil
}
