package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Token and session configuration
//   - ratelimit.go: Rate limit classes and role multipliers
//   - security.go: Event retention, risk scoring, and scheduler cadences
//   - database.go: Optional Redis and Postgres backends
type AppConfig struct {
	// IsDev controls development mode behavior (relaxed secrets, seeding).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Auth holds token signing and session configuration.
	Auth AuthConfig

	// RateLimit holds the per-class request budgets.
	RateLimit RateLimitConfig

	// Security holds retention, risk, and scheduler configuration.
	Security SecurityConfig

	// Redis configuration for the optional distributed session backend.
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Postgres configuration for the optional event archive.
	Postgres DBConfig `envPrefix:"DB_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.RateLimit.Sanitize()
	c.Security.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
