package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"meshpreview/internal/config"
	"meshpreview/internal/deps"
	"meshpreview/internal/discord"
	"meshpreview/internal/logging"
	"meshpreview/internal/pipeline"
	"meshpreview/internal/runs"
	"meshpreview/internal/services/gifski"
	"meshpreview/internal/services/meshthumb"
	"meshpreview/internal/workspace"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and serve preview requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required tools: %s (run `meshpreview doctor` for details)", strings.Join(missing, ", "))
			}

			// Sweep workspaces orphaned by a previous crash before
			// accepting new work.
			maxAge := time.Duration(cfg.Workspace.StaleMaxAgeHours) * time.Hour
			result := workspace.CleanStale(cmd.Context(), cfg.Paths.StagingDir, maxAge, logger)
			if len(result.Removed) > 0 {
				logger.Info("stale workspaces removed", logging.Int("count", len(result.Removed)))
			}

			store, err := runs.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run journal: %w", err)
			}
			defer store.Close()

			supervisor, err := buildSupervisor(cfg, store, logger)
			if err != nil {
				return err
			}

			bot, err := discord.New(cfg, supervisor, logger)
			if err != nil {
				return err
			}
			if err := bot.Start(); err != nil {
				return err
			}
			logger.Info("serving previews",
				logging.Int("frame_count", cfg.Render.FrameCount),
				logging.Float64("frame_rate", cfg.Render.FrameRate),
				logging.Int("concurrency", cfg.Render.Concurrency),
			)

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-sigCtx.Done()

			logger.Info("shutting down")
			return bot.Stop()
		},
	}
}

// buildSupervisor wires the tool clients and pipeline from configuration.
func buildSupervisor(cfg *config.Config, journal pipeline.Journal, logger *slog.Logger) (*pipeline.Supervisor, error) {
	renderer, err := meshthumb.New(cfg.Tools.MeshThumbnail)
	if err != nil {
		return nil, fmt.Errorf("configure renderer: %w", err)
	}
	encoder, err := gifski.New(cfg.Tools.Gifski)
	if err != nil {
		return nil, fmt.Errorf("configure encoder: %w", err)
	}
	manager := workspace.NewManager(cfg.Paths.StagingDir, logger)

	p, err := pipeline.New(manager, renderer, encoder, journal, renderSettings(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("configure pipeline: %w", err)
	}
	return pipeline.NewSupervisor(p, cfg.Render.Concurrency, logger), nil
}

func renderSettings(cfg *config.Config) pipeline.Settings {
	return pipeline.Settings{
		FrameCount:  cfg.Render.FrameCount,
		FrameRate:   cfg.Render.FrameRate,
		TiltDegrees: cfg.Render.TiltDegrees,
		InverseZoom: cfg.Render.InverseZoom,
		Background:  cfg.Render.Background,
	}
}
