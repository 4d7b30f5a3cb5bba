package config

import "time"

// LimitClass is one logical rate-limit budget: max requests over a sliding
// window. Each class has its own keyspace, so exhausting one never affects
// another.
type LimitClass struct {
	MaxRequests int           `env:"MAX"`
	Window      time.Duration `env:"WINDOW"`
}

func (l *LimitClass) sanitize(defaultMax int, defaultWindow time.Duration) {
	if l.MaxRequests < 1 {
		l.MaxRequests = defaultMax
	}
	if l.Window < time.Second {
		l.Window = defaultWindow
	}
}

// RateLimitConfig groups the per-class request budgets and the role
// multiplier table applied on top of them.
type RateLimitConfig struct {
	// Auth covers login, refresh, and revoke endpoints.
	Auth LimitClass `envPrefix:"RATE_LIMIT_AUTH_"`

	// Sensitive covers grade, enrollment, and billing mutations.
	Sensitive LimitClass `envPrefix:"RATE_LIMIT_SENSITIVE_"`

	// Upload covers document and media uploads.
	Upload LimitClass `envPrefix:"RATE_LIMIT_UPLOAD_"`

	// General covers everything else.
	General LimitClass `envPrefix:"RATE_LIMIT_GENERAL_"`

	// RoleMultipliers scales a class budget by the caller's role, e.g.
	// "admin:3,teacher:2,staff:1,student:0.5". Unlisted roles get 1x.
	RoleMultipliers map[string]float64 `env:"RATE_LIMIT_ROLE_MULTIPLIERS" envDefault:"admin:3,teacher:2,staff:1,student:0.5" envKeyValSeparator:":"`
}

// Sanitize applies guardrails and per-class defaults to rate limit
// configuration values.
func (r *RateLimitConfig) Sanitize() {
	r.Auth.sanitize(10, time.Minute)
	r.Sensitive.sanitize(30, time.Minute)
	r.Upload.sanitize(20, time.Hour)
	r.General.sanitize(120, time.Minute)

	for role, mult := range r.RoleMultipliers {
		if mult <= 0 {
			delete(r.RoleMultipliers, role)
		}
	}
}
