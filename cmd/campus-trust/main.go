// Command campus-trust runs the trust core's background maintenance: the
// idle-session sweep, alert-rule evaluation, and retention purges. The
// product API embeds the same services in-process; this binary is what a
// dedicated worker deployment runs.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/campushq/campus-trust/internal/bootstrap"
	"github.com/campushq/campus-trust/internal/devseed"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting campus-trust",
		"dev", cfg.IsDev,
		"redis", cfg.Redis.Enabled,
		"archive", cfg.Postgres.Enabled,
	)

	services, err := bootstrap.BuildServices(bootstrap.ServiceDeps{
		Config: &cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close backends failed", "error", cerr)
		}
	}()

	if cfg.IsDev {
		if seedErr := devseed.Run(ctx, devseed.Deps{
			APIKeys: services.APIKeys,
			Engine:  services.Engine,
			Events:  services.Events,
			Logger:  logger,
		}); seedErr != nil {
			return seedErr
		}
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services.Dispatcher.Start(runCtx)
	defer services.Dispatcher.Stop()

	if err := services.Scheduler.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.InfoContext(ctx, "shutdown complete")
	return nil
}
