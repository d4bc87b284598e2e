// Package config loads application configuration: an optional YAML file,
// then a .env file outside production, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Storage backends for uploaded menu images.
const (
	StorageLocal = "local"
	StorageR2    = "r2"
)

type Config struct {
	Env      string         `yaml:"env"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	OCR      OCRConfig      `yaml:"ocr"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	// TaxonomyPath replaces the built-in allergen table when set.
	TaxonomyPath string `yaml:"taxonomyPath"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	CORSOrigins     []string      `yaml:"corsOrigins"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlitePath"`
	URL        string `yaml:"url"`
}

type AuthConfig struct {
	JWTSecret            string `yaml:"jwtSecret"`
	DefaultAdminPassword string `yaml:"defaultAdminPassword"`
}

type OCRConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Engine    string        `yaml:"engine"`
	APIKey    string        `yaml:"apiKey"`
	Tesseract string        `yaml:"tesseract"`
	Interval  time.Duration `yaml:"interval"`
}

type StorageConfig struct {
	Backend  string `yaml:"backend"`
	LocalDir string `yaml:"localDir"`

	R2Endpoint  string `yaml:"r2Endpoint"`
	R2AccessKey string `yaml:"r2AccessKey"`
	R2SecretKey string `yaml:"r2SecretKey"`
	R2Bucket    string `yaml:"r2Bucket"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PathFromEnv returns the config file named by CONFIG_PATH, if any.
func PathFromEnv() string {
	return os.Getenv("CONFIG_PATH")
}

// Load reads the YAML file at path (if any), loads .env unless APP_ENV is
// production, and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port:            8000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Driver:     DriverSQLite,
			SQLitePath: "app_data/ingrediguard.db",
		},
		OCR: OCRConfig{
			Engine:    "ocrspace",
			Tesseract: "tesseract",
			Interval:  2 * time.Second,
		},
		Storage: StorageConfig{
			Backend:  StorageLocal,
			LocalDir: "app_data/uploads",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("DEFAULT_ADMIN_PASSWORD"); v != "" {
		cfg.Auth.DefaultAdminPassword = v
	}
	if v := os.Getenv("OCR_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OCR.Enabled = b
		}
	}
	if v := os.Getenv("OCR_ENGINE"); v != "" {
		cfg.OCR.Engine = strings.ToLower(v)
	}
	if v := os.Getenv("OCR_API_KEY"); v != "" {
		cfg.OCR.APIKey = v
	}
	if v := os.Getenv("TESSERACT_PATH"); v != "" {
		cfg.OCR.Tesseract = v
	}
	if v := os.Getenv("OCR_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OCR.Interval = d
		}
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Storage.LocalDir = v
	}
	if v := os.Getenv("R2_ENDPOINT"); v != "" {
		cfg.Storage.R2Endpoint = v
	}
	if v := os.Getenv("R2_ACCESS_KEY"); v != "" {
		cfg.Storage.R2AccessKey = v
	}
	if v := os.Getenv("R2_SECRET_KEY"); v != "" {
		cfg.Storage.R2SecretKey = v
	}
	if v := os.Getenv("R2_BUCKET_NAME"); v != "" {
		cfg.Storage.R2Bucket = v
	}
	if v := os.Getenv("TAXONOMY_PATH"); v != "" {
		cfg.TaxonomyPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
}

// Validate checks the settings the API server cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver))
	}

	if c.OCR.Enabled {
		switch c.Storage.Backend {
		case StorageLocal:
		case StorageR2:
			if c.Storage.R2Endpoint == "" || c.Storage.R2Bucket == "" {
				errs = append(errs, errors.New("R2_ENDPOINT and R2_BUCKET_NAME are required for r2 storage"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
		}
	}

	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
