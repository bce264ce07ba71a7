package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/Stevefe123/estat-predict/internal/app"
	"github.com/Stevefe123/estat-predict/internal/config"
	"github.com/Stevefe123/estat-predict/internal/observability"
	"github.com/Stevefe123/estat-predict/internal/platform/logging"
)

// The scanner runs the daily prediction sweep on a cron schedule. It
// shares the app wiring with the API but never serves HTTP itself.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	runScan := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		result, err := application.Scan.RunToday(ctx)
		if err != nil {
			logger.Error("scheduled scan failed", "error", err)
			return
		}
		logger.Info("scheduled scan finished",
			"date", result.Date,
			"leagues", result.LeagueCount,
			"failed_leagues", result.FailedLeagues,
			"rate_limited", result.RateLimited,
			"fixtures", result.FixtureCount,
			"predictions", result.PredictionCount,
		)
	}

	if cfg.ScanOnStart {
		runScan()
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ScanCron, runScan); err != nil {
		logger.Error("register scan schedule", "cron", cfg.ScanCron, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("scanner started", "cron", cfg.ScanCron)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Close(shutdownCtx); err != nil {
		logger.Error("close app resources", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("shutdown tracing", "error", err)
	}

	logger.Info("scanner stopped")
}
