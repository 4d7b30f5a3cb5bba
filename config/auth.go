package config

import "time"

// AuthConfig groups token signing and session lifecycle configuration.
//
// The two signing secrets must differ: a refresh token presented where an
// access token is expected must fail signature verification outright, not
// just the claim check.
type AuthConfig struct {
	// AccessSecret signs access tokens. Required outside dev mode.
	AccessSecret string `env:"AUTH_ACCESS_SECRET"`

	// RefreshSecret signs refresh tokens. Required outside dev mode.
	RefreshSecret string `env:"AUTH_REFRESH_SECRET"`

	// Issuer is the value stamped into the iss claim of every token.
	Issuer string `env:"AUTH_ISSUER" envDefault:"campus-trust"`

	// AccessTTL is the lifetime of access tokens.
	AccessTTL time.Duration `env:"AUTH_ACCESS_TTL" envDefault:"15m"`

	// RefreshTTL is the lifetime of refresh tokens.
	RefreshTTL time.Duration `env:"AUTH_REFRESH_TTL" envDefault:"168h"`

	// RevocationTTL is how long explicitly revoked tokens stay on the
	// deny-list. It should cover the longest token lifetime in flight.
	RevocationTTL time.Duration `env:"AUTH_REVOCATION_TTL" envDefault:"24h"`

	// SessionMaxIdle is the idle horizon after which sessions are swept.
	SessionMaxIdle time.Duration `env:"AUTH_SESSION_MAX_IDLE" envDefault:"24h"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.AccessTTL < time.Minute {
		a.AccessTTL = time.Minute
	}
	if a.RefreshTTL < a.AccessTTL {
		a.RefreshTTL = a.AccessTTL
	}
	if a.RevocationTTL < a.AccessTTL {
		a.RevocationTTL = a.AccessTTL
	}
	if a.SessionMaxIdle < time.Minute {
		a.SessionMaxIdle = time.Minute
	}
}
