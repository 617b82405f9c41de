package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/todaylotto/backend/internal/storage"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr() != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr())
	}
	if cfg.StorageDriverName() != storage.DriverSQLite {
		t.Errorf("driver = %q, want sqlite", cfg.StorageDriverName())
	}
	if !cfg.Cache.CacheEnabled() {
		t.Error("cache should default to enabled")
	}
	if cfg.Cache.TTL() != 24*time.Hour {
		t.Errorf("ttl = %v, want 24h", cfg.Cache.TTL())
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "cfg.json", `{
		"server": {"listen_addr": ":9000", "rate_limit": {"requests_per_minute": 120}},
		"cache": {"ttl_hours": 6, "sweep_schedule": "*/30 * * * *"}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr() != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr())
	}
	if cfg.Server.RateLimit.RequestsPerMinute != 120 {
		t.Errorf("rpm = %d", cfg.Server.RateLimit.RequestsPerMinute)
	}
	if cfg.Cache.TTL() != 6*time.Hour {
		t.Errorf("ttl = %v", cfg.Cache.TTL())
	}
	if cfg.Cache.Schedule() != "*/30 * * * *" {
		t.Errorf("schedule = %q", cfg.Cache.Schedule())
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "cfg.yaml", `
server:
  listen_addr: ":7070"
storage:
  driver: postgres
  postgres:
    dsn: "host=localhost user=app dbname=todaylotto"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr() != ":7070" {
		t.Errorf("addr = %q", cfg.Server.Addr())
	}
	if cfg.StorageDriverName() != storage.DriverPostgres {
		t.Errorf("driver = %q", cfg.StorageDriverName())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TODAYLOTTO_LISTEN_ADDR", ":6060")
	t.Setenv("TODAYLOTTO_DB_DSN", "host=db user=app dbname=todaylotto")
	t.Setenv("TODAYLOTTO_CACHE_TTL_HOURS", "48")

	path := writeConfig(t, "cfg.json", `{"server": {"listen_addr": ":9000"}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr() != ":6060" {
		t.Errorf("env override lost: addr = %q", cfg.Server.Addr())
	}
	// A DSN alone flips the driver to postgres.
	if cfg.StorageDriverName() != storage.DriverPostgres {
		t.Errorf("driver = %q, want postgres", cfg.StorageDriverName())
	}
	if cfg.Cache.TTL() != 48*time.Hour {
		t.Errorf("ttl = %v, want 48h", cfg.Cache.TTL())
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	path := writeConfig(t, "cfg.json", `{"storage": {"driver": "oracle"}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoad_PostgresWithoutDSN(t *testing.T) {
	path := writeConfig(t, "cfg.json", `{"storage": {"driver": "postgres"}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing DSN")
	}
}

func TestLoad_TracingValidation(t *testing.T) {
	noEndpoint := writeConfig(t, "a.json", `{"observability": {"tracing": {"enabled": true}}}`)
	if _, err := Load(noEndpoint); err == nil {
		t.Error("expected error for tracing without endpoint")
	}

	badRate := writeConfig(t, "b.json", `{"observability": {"tracing": {"enabled": true, "endpoint": "localhost:4317", "sample_rate": 2.0}}}`)
	if _, err := Load(badRate); err == nil {
		t.Error("expected error for sample_rate > 1")
	}

	badProto := writeConfig(t, "c.json", `{"observability": {"tracing": {"enabled": true, "endpoint": "localhost:4317", "protocol": "udp"}}}`)
	if _, err := Load(badProto); err == nil {
		t.Error("expected error for unsupported protocol")
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := writeConfig(t, "cfg.json", `{broken`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestServerConfig_Defaults(t *testing.T) {
	var s ServerConfig
	if s.MaxRequestSize() != 64*1024 {
		t.Errorf("max request size = %d", s.MaxRequestSize())
	}
	if s.ReadTimeout() != 15*time.Second || s.WriteTimeout() != 30*time.Second {
		t.Errorf("timeouts = %v / %v", s.ReadTimeout(), s.WriteTimeout())
	}
}

func TestCacheConfig_ExplicitDisable(t *testing.T) {
	off := false
	c := &CacheConfig{Enabled: &off}
	if c.CacheEnabled() {
		t.Error("explicitly disabled cache reported enabled")
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := &Config{DataDir: "/var/lib/todaylotto"}
	if got := cfg.DatabasePath(); got != "/var/lib/todaylotto/todaylotto.db" {
		t.Errorf("DatabasePath() = %q", got)
	}
}
