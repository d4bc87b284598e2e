// Package app wires repositories and services from a Config. The API
// server, the standalone OCR worker and the CLI all start from Build.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"ingrediguard/internal/allergen"
	"ingrediguard/internal/allergy"
	"ingrediguard/internal/auth"
	"ingrediguard/internal/config"
	"ingrediguard/internal/db"
	"ingrediguard/internal/logging"
	"ingrediguard/internal/menu"
	"ingrediguard/internal/metrics"
	"ingrediguard/internal/ocr"
	"ingrediguard/internal/settings"
	"ingrediguard/internal/storage"
)

type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics

	Taxonomy *allergen.Taxonomy
	Menu     *menu.Service
	Allergy  *allergy.Service
	Users    *auth.Service
	Settings *settings.Service
	// OCR is nil unless OCR is enabled.
	OCR *ocr.Service

	sqlDB  *sql.DB
	pgPool *pgxpool.Pool
}

// Build opens the database and constructs every service. m may be nil.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}

	a := &App{Config: cfg, Log: log, Metrics: m}

	tax, err := LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		return nil, err
	}
	a.Taxonomy = tax

	var (
		menuRepo     menu.Repository
		userRepo     auth.UserRepository
		settingsRepo settings.Repository
		uploadRepo   ocr.Repository
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := db.ConnectPostgres(ctx, cfg.Database.URL, logging.Component(log, "db"))
		if err != nil {
			return nil, err
		}
		a.pgPool = pool
		menuRepo = menu.NewPostgresRepository(pool)
		userRepo = auth.NewPostgresUserRepository(pool)
		settingsRepo = settings.NewPostgresRepository(pool)
		uploadRepo = ocr.NewPostgresRepository(pool)
	default:
		sqlDB, err := db.OpenSQLite(cfg.Database.SQLitePath, logging.Component(log, "db"))
		if err != nil {
			return nil, err
		}
		a.sqlDB = sqlDB
		menuRepo = menu.NewSQLiteRepository(sqlDB)
		userRepo = auth.NewSQLiteUserRepository(sqlDB)
		settingsRepo = settings.NewSQLiteRepository(sqlDB)
		uploadRepo = ocr.NewSQLiteRepository(sqlDB)
	}

	a.Menu = menu.NewService(menuRepo, m, logging.Component(log, "menu"))
	a.Allergy = allergy.NewService(allergy.NewMatcher(tax), a.Menu, m, logging.Component(log, "allergy"))
	a.Users = auth.NewService(userRepo, cfg.Auth.DefaultAdminPassword, m, logging.Component(log, "auth"))
	a.Settings = settings.NewService(settingsRepo, cfg.OCR.APIKey, logging.Component(log, "settings"))

	if cfg.OCR.Enabled {
		svc, err := a.buildOCR(ctx, uploadRepo)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.OCR = svc
	}

	return a, nil
}

func (a *App) buildOCR(ctx context.Context, repo ocr.Repository) (*ocr.Service, error) {
	cfg := a.Config

	var store storage.Storage
	switch cfg.Storage.Backend {
	case config.StorageR2:
		r2, err := storage.NewR2Client(ctx, storage.R2Config{
			Endpoint:  cfg.Storage.R2Endpoint,
			AccessKey: cfg.Storage.R2AccessKey,
			SecretKey: cfg.Storage.R2SecretKey,
			Bucket:    cfg.Storage.R2Bucket,
		})
		if err != nil {
			return nil, fmt.Errorf("r2 init: %w", err)
		}
		store = r2
	default:
		local, err := storage.NewLocalStorage(cfg.Storage.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("local storage init: %w", err)
		}
		store = local
	}

	engine, err := ocr.NewEngine(cfg.OCR.Engine, a.Settings, cfg.OCR.Tesseract)
	if err != nil {
		return nil, err
	}
	if t, ok := engine.(*ocr.Tesseract); ok && !t.Available() {
		a.Log.Warn("tesseract binary not found; uploads will fail until it is installed",
			zap.String("binary", cfg.OCR.Tesseract))
	}

	return ocr.NewService(repo, store, engine, a.Menu, a.Metrics, logging.Component(a.Log, "ocr")), nil
}

// Ping checks the database connection.
func (a *App) Ping(ctx context.Context) error {
	if a.pgPool != nil {
		return a.pgPool.Ping(ctx)
	}
	if a.sqlDB != nil {
		return a.sqlDB.PingContext(ctx)
	}
	return nil
}

func (a *App) Close() {
	if a.pgPool != nil {
		a.pgPool.Close()
	}
	if a.sqlDB != nil {
		if err := a.sqlDB.Close(); err != nil {
			a.Log.Warn("closing sqlite", zap.Error(err))
		}
	}
}

// LoadTaxonomy reads the taxonomy file at path, or returns the built-in table
// when path is empty.
func LoadTaxonomy(path string) (*allergen.Taxonomy, error) {
	if path == "" {
		return allergen.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open taxonomy: %w", err)
	}
	defer f.Close()

	tax, err := allergen.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy %s: %w", path, err)
	}
	return tax, nil
}
