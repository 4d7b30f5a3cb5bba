// Package bootstrap wires configuration, stores, and services into a
// runnable application.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/campushq/campus-trust/config"
)

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()

	if err := ensureSecrets(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ensureSecrets enforces signing secrets outside dev mode. In dev mode,
// missing secrets fall back to well-known throwaway values so a bare
// checkout runs without a .env file.
func ensureSecrets(cfg *config.AppConfig) error {
	if cfg.Auth.AccessSecret != "" && cfg.Auth.RefreshSecret != "" {
		if cfg.Auth.AccessSecret == cfg.Auth.RefreshSecret {
			return errors.New("AUTH_ACCESS_SECRET and AUTH_REFRESH_SECRET must differ")
		}
		return nil
	}
	if !cfg.IsDev {
		return errors.New("AUTH_ACCESS_SECRET and AUTH_REFRESH_SECRET are required outside dev mode")
	}
	if cfg.Auth.AccessSecret == "" {
		cfg.Auth.AccessSecret = "dev-access-secret"
	}
	if cfg.Auth.RefreshSecret == "" {
		cfg.Auth.RefreshSecret = "dev-refresh-secret"
	}
	return nil
}
