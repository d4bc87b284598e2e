package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"ingrediguard/internal/app"
	"ingrediguard/internal/config"
	"ingrediguard/internal/logging"
)

// The worker drains menu_uploads on its own so the API can run with
// OCR_ENABLED=false and leave image processing to a separate process.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ocr-worker:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		return err
	}
	cfg.OCR.Enabled = true

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	log.Info("OCR worker initialized",
		zap.String("engine", cfg.OCR.Engine),
		zap.String("storage", cfg.Storage.Backend),
		zap.Duration("interval", cfg.OCR.Interval),
	)

	return a.OCR.Run(ctx, cfg.OCR.Interval)
}
