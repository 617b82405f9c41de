package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/todaylotto/backend/internal/config"
	"github.com/todaylotto/backend/internal/storage"
	pgstore "github.com/todaylotto/backend/internal/storage/postgres"
	sqlitestore "github.com/todaylotto/backend/internal/storage/sqlite"
)

// newLogger builds the process-wide structured logger. JSON to stderr;
// TODAYLOTTO_LOG_LEVEL=debug enables debug output.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("TODAYLOTTO_LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// initStore opens the configured storage backend.
func initStore(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.StorageDriverName() {
	case storage.DriverPostgres:
		return initPostgresStore(cfg, logger)
	default:
		return initSQLiteStore(cfg, logger)
	}
}

func initSQLiteStore(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	sqliteCfg := sqlitestore.Config{Path: cfg.DatabasePath()}
	if cfg.Storage != nil && cfg.Storage.SQLite != nil {
		if cfg.Storage.SQLite.Path != "" {
			sqliteCfg.Path = cfg.Storage.SQLite.Path
		}
		sqliteCfg.JournalMode = cfg.Storage.SQLite.JournalMode
	}

	st, err := sqlitestore.Open(sqliteCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	return st, nil
}

func initPostgresStore(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	pg := cfg.Storage.Postgres

	pgCfg := pgstore.Config{
		DSN:          pg.DSN,
		MaxOpenConns: pg.MaxOpenConns,
		MaxIdleConns: pg.MaxIdleConns,
	}
	if pg.ConnMaxLifetimeS > 0 {
		pgCfg.ConnMaxLifetime = time.Duration(pg.ConnMaxLifetimeS) * time.Second
	}

	db, err := pgstore.Open(pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening postgres store: %w", err)
	}
	logger.Info("postgres store ready")
	return pgstore.NewStore(db), nil
}
