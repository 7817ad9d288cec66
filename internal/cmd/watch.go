package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/config"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/log"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch media directories and apply posters as content arrives",
	Long: `Monitor the configured watch directories for new or changed media.
Events are debounced per directory and processed by a worker pool, so a
title being copied in only triggers one pass once it settles.

Runs until interrupted.`,
	RunE: runWatchCommand,
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if len(cfg.Watch.Directories) == 0 && cfg.MediaRoot != "" {
		// Fall back to watching the media root
		cfg.Watch.Directories = []config.WatchDirectory{
			{Path: cfg.MediaRoot, Recursive: true, Enabled: true},
		}
	}

	setter, err := buildSetter(cfg)
	if err != nil {
		return err
	}

	log.Initialize(cfg.EnableLogging, cfg.LogRetentionDays)
	if err := log.StartSession("watch", args); err != nil {
		logger.Warn().Err(err).Msg("failed to start operation log")
	}
	defer func() {
		if err := log.EndSession(); err != nil {
			logger.Warn().Err(err).Msg("failed to write operation log")
		}
	}()

	process := func(ctx context.Context, dir string) error {
		result := setter.ProcessDirectory(ctx, dir)
		if result.Skipped {
			logger.Debug().Str("dir", dir).Msg("already up to date")
			return nil
		}
		return result.Err
	}

	watcher, err := watch.New(cfg.Watch, process, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = watcher.Run(ctx)
	stats := watcher.StatsSnapshot()
	logger.Info().
		Uint64("events", stats.EventsSeen).
		Uint64("processed", stats.TasksProcessed).
		Uint64("failed", stats.TasksFailed).
		Msg("watcher stopped")
	return err
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
