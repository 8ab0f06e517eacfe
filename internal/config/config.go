package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultDBDriver      = "sqlite"
	defaultDBPath        = "./dev.db"
	defaultPort          = "8080"
	defaultEnv           = "dev"
	defaultLogLevel      = "info"
	defaultMigrationsDir = "migrations"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBDriver      string
	DBPath        string
	DatabaseURL   string
	Port          string
	Env           string
	LogLevel      string
	MigrationsDir string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Local development only; production injects real environment variables.
	if err := loadDotEnv(".env"); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg := Config{
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBDriver:      envOr("DB_DRIVER", defaultDBDriver),
		DBPath:        envOr("DB_PATH", defaultDBPath),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Port:          envOr("PORT", defaultPort),
		Env:           envOr("APP_ENV", defaultEnv),
		LogLevel:      envOr("LOG_LEVEL", defaultLogLevel),
		MigrationsDir: envOr("MIGRATIONS_DIR", defaultMigrationsDir),
	}

	if cfg.AdminEmail == "" {
		slog.Warn("ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET is not set")
	}
	if cfg.DBDriver == "postgres" && cfg.DatabaseURL == "" {
		slog.Warn("DB_DRIVER is postgres but DATABASE_URL is not set")
	}

	return cfg
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv
}

// DSN returns the data source name for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadDotEnv loads KEY=VALUE pairs from a dotenv file. A missing file is not an
// error and variables already present in the environment are kept.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
