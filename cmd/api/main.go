package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ingrediguard/internal/allergy"
	"ingrediguard/internal/app"
	"ingrediguard/internal/auth"
	"ingrediguard/internal/config"
	"ingrediguard/internal/logging"
	"ingrediguard/internal/menu"
	"ingrediguard/internal/metrics"
	"ingrediguard/internal/ocr"
	"ingrediguard/internal/router"
	"ingrediguard/internal/settings"
	"ingrediguard/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ingrediguard-api:", err)
		os.Exit(1)
	}
}

func run() error {
	// ───────────────────────── CONFIG ─────────────────────────
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── SERVICES ─────────────────────────
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	a, err := app.Build(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Users.EnsureDefaultAdmin(ctx); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}

	// ───────────────────────── ROUTER ─────────────────────────
	deps := router.Deps{
		Log:         logging.Component(log, "http"),
		Metrics:     a.Metrics,
		CORSOrigins: cfg.Server.CORSOrigins,
		Ping:        a.Ping,
		Tokens:      jwtManager,
		Allergy:     allergy.NewHandler(a.Allergy),
		Menu:        menu.NewHandler(a.Menu),
		Auth:        auth.NewHandler(a.Users, jwtManager),
		OCR:         ocr.NewHandler(a.OCR),
		Settings:    settings.NewHandler(a.Settings),
	}
	if cfg.Metrics.Enabled {
		deps.MetricsHandler = metrics.Handler()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// ───────────────────────── START ─────────────────────────
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("API listening",
			zap.String("addr", srv.Addr),
			zap.String("version", version.String()),
			zap.String("db", cfg.Database.Driver),
			zap.Bool("ocr", a.OCR != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.OCR != nil {
		g.Go(func() error {
			return a.OCR.Run(gctx, cfg.OCR.Interval)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
