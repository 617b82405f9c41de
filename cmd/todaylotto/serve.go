package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	goutils "github.com/jkaninda/go-utils"

	"github.com/todaylotto/backend/internal/assemble"
	"github.com/todaylotto/backend/internal/config"
	"github.com/todaylotto/backend/internal/gateway/httpapi"
	"github.com/todaylotto/backend/internal/keyword"
	"github.com/todaylotto/backend/internal/observability"
	"github.com/todaylotto/backend/internal/ratelimit"
	"github.com/todaylotto/backend/internal/report"
	"github.com/todaylotto/backend/internal/reportcache"
	"github.com/todaylotto/backend/internal/scoring"
	"github.com/todaylotto/backend/internal/storage"
)

var (
	serveConfigPath string
	servePort       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	// Register flags on both root and serve so that
	// `todaylotto --config path` and `todaylotto serve --config path` both work.
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().StringVar(&serveConfigPath, "config", config.DefaultConfigPath(), "path to config file")
		cmd.Flags().StringVar(&servePort, "port", "", "override HTTP listen address (e.g. :8080)")
	}
}

// runServe starts the HTTP API with the configured storage backend.
func runServe(_ *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := config.Load(goutils.Env("TODAYLOTTO_CONFIG", serveConfigPath))
	if err != nil {
		return err
	}

	// Apply CLI overrides.
	if servePort != "" {
		cfg.Server.ListenAddr = servePort
	}

	logger.Info("starting todaylotto",
		slog.String("config", serveConfigPath),
		slog.String("driver", cfg.StorageDriverName()),
	)

	if err := os.MkdirAll(cfg.ResolvedDataDir(), 0750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	obs, err := observability.New(cfg.Observability, logger)
	if err != nil {
		return fmt.Errorf("initializing observability: %w", err)
	}
	if obs != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			obs.Shutdown(shutdownCtx)
		}()
	}

	store, err := initStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	// Signal-aware context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if obs != nil && cfg.Observability.Health != nil && cfg.Observability.Health.IncludeDB {
		if p, ok := store.(interface{ Ping(context.Context) error }); ok {
			obs.Health.AddCheck("db", p.Ping)
		}
	}

	gw := buildGateway(cfg, store, obs, logger)

	if cfg.Cache.CacheEnabled() {
		gw.WithCache(store.ReportCache())

		sweeper := reportcache.NewSweeper(store.ReportCache(), reportcache.SweeperConfig{
			Schedule: cfg.Cache.Schedule(),
			TTL:      cfg.Cache.TTL(),
		}, logger)
		cancelSweeper := sweeper.Start(ctx)
		defer cancelSweeper()
	}

	errs := make(chan error, 1)
	go func() {
		errs <- gw.Start(ctx)
	}()

	// Wait for signal or server error.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errs:
		if err != nil {
			logger.Error("http api exited with error", slog.String("error", err.Error()))
		}
	}

	// Graceful shutdown with deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return gw.Stop(shutdownCtx)
}

// buildGateway wires the scoring pipeline into the HTTP API.
func buildGateway(cfg *config.Config, store storage.Store, obs *observability.Observability, logger *slog.Logger) *httpapi.Gateway {
	analyzer := keyword.NewAnalyzer(store.KeywordEntries(), store.KeywordRules(), logger)
	engine := scoring.NewEngine(store.Questions(), analyzer, logger)
	messages := assemble.NewMessageAssembler(store.Messages(), logger)
	longform := assemble.NewLongformAssembler(store.LongformBlocks(), store.Phrases(), store.StyleProfiles(), logger)
	strategy := assemble.NewStrategyAssembler(store.StrategyCards(), store.StrategySlots(), store.StrategyRules(), logger)
	composer := report.NewComposer(engine, messages, longform, strategy, logger)
	picker := report.NewQuestionPicker(store.Questions(), logger)

	var limiter *ratelimit.Limiter
	if cfg.Server.RateLimit.RequestsPerMinute > 0 {
		limiter = ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.Server.RateLimit.RequestsPerMinute,
			BurstSize:         cfg.Server.RateLimit.BurstSize,
		})
	}

	gwCfg := httpapi.Config{
		ListenAddr:     cfg.Server.Addr(),
		EnableDocs:     cfg.Server.EnableDocs,
		MaxRequestSize: cfg.Server.MaxRequestSize(),
		ReadTimeout:    cfg.Server.ReadTimeout(),
		WriteTimeout:   cfg.Server.WriteTimeout(),
		CacheTTL:       cfg.Cache.TTL(),
	}
	if obs != nil {
		gwCfg.HealthChecker = obs.Health
		if obs.Metrics != nil {
			gwCfg.Metrics = obs.Metrics
			gwCfg.MetricsRegistry = obs.Metrics.Registry
			if cfg.Observability.Metrics != nil {
				gwCfg.MetricsPath = cfg.Observability.Metrics.Path
			}
		}
		if obs.Tracer != nil {
			gwCfg.Tracer = obs.Tracer.Tracer()
		}
	}

	return httpapi.NewGateway(gwCfg, picker, store.Choices(), composer, limiter, logger)
}
