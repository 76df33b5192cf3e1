package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brasilscore/brasileirao-sync/internal/app"
	"github.com/brasilscore/brasileirao-sync/internal/config"
	"github.com/brasilscore/brasileirao-sync/internal/observability"
	"github.com/brasilscore/brasileirao-sync/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("shutdown tracing", "error", err)
		}
	}()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			logger.Error("stop profiling", "error", err)
		}
	}()

	sync, cleanup, err := app.NewSyncService(cfg, logger)
	if err != nil {
		logger.Error("build sync service", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error("close resources", "error", err)
		}
	}()

	started := time.Now()
	report, err := sync.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "sync run aborted",
			"error", err,
			"elapsed", time.Since(started).String(),
		)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "sync run finished",
		"target_round", report.TargetRound,
		"round_state", string(report.RoundState),
		"skipped_fixtures", report.SkippedFixtures,
		"checkpoint_advanced", report.CheckpointAdvanced,
		"elapsed", time.Since(started).String(),
	)
}
