package reportcache

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SweeperConfig tunes the purge loop.
type SweeperConfig struct {
	// Schedule is a standard 5-field cron expression. Default: hourly.
	Schedule string
	// TTL is how long an entry stays valid. Default: 24h.
	TTL time.Duration
}

func (c SweeperConfig) schedule() string {
	if c.Schedule != "" {
		return c.Schedule
	}
	return "0 * * * *"
}

func (c SweeperConfig) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return 24 * time.Hour
}

// Sweeper purges expired cache entries on a cron schedule.
type Sweeper struct {
	store  Store
	cfg    SweeperConfig
	logger *slog.Logger
	parser cron.Parser
}

func NewSweeper(store Store, cfg SweeperConfig, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:  store,
		cfg:    cfg,
		logger: logger,
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	}
}

// Start begins the sweep loop. Returns a cancel function.
func (s *Sweeper) Start(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)

	sched, err := s.parser.Parse(s.cfg.schedule())
	if err != nil {
		s.logger.Error("invalid sweep schedule, sweeper disabled",
			slog.String("schedule", s.cfg.schedule()),
			slog.String("error", err.Error()))
		return cancel
	}

	go func() {
		s.logger.Info("report cache sweeper started",
			slog.String("schedule", s.cfg.schedule()),
			slog.String("ttl", s.cfg.ttl().String()))

		for {
			now := time.Now().UTC()
			next := sched.Next(now)

			timer := time.NewTimer(next.Sub(now))
			select {
			case <-ctx.Done():
				timer.Stop()
				s.logger.Info("report cache sweeper stopped")
				return
			case <-timer.C:
				s.sweep(ctx)
			}
		}
	}()

	return cancel
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.cfg.ttl())
	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "cache sweep failed",
			slog.String("error", err.Error()))
		return
	}
	if deleted > 0 {
		s.logger.InfoContext(ctx, "cache sweep done",
			slog.Int64("deleted", deleted),
			slog.String("cutoff", cutoff.Format(time.RFC3339)))
	}
}
