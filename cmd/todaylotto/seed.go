package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	goutils "github.com/jkaninda/go-utils"

	"github.com/todaylotto/backend/internal/config"
	"github.com/todaylotto/backend/internal/seed"
)

var seedConfigPath string

var seedCmd = &cobra.Command{
	Use:   "seed [pack.yaml]",
	Short: "Load a YAML content pack into the database",
	Long: `Seed validates a YAML content pack (questions, choices, messages,
strategy cards, longform blocks, keyword dictionary) and replaces the
stored content tables with it. The pack path comes from the argument or
the content_pack config field.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedConfigPath, "config", config.DefaultConfigPath(), "path to config file")
}

func runSeed(_ *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := config.Load(goutils.Env("TODAYLOTTO_CONFIG", seedConfigPath))
	if err != nil {
		return err
	}

	packPath := cfg.ContentPack
	if len(args) > 0 {
		packPath = args[0]
	}
	if packPath == "" {
		return fmt.Errorf("no content pack given (pass a path or set content_pack in config)")
	}

	// Validate the pack before touching the database.
	pack, err := seed.Load(packPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.ResolvedDataDir(), 0750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if err := seed.Apply(ctx, pack, store.Content(), logger); err != nil {
		return err
	}

	logger.Info("content pack applied", slog.String("pack", packPath))
	return nil
}
