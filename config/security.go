package config

import "time"

// SecurityConfig groups event retention, risk scoring, alert dispatch, and
// background maintenance cadences.
type SecurityConfig struct {
	// EventRetention is the hard-delete horizon for security events.
	EventRetention time.Duration `env:"SECURITY_EVENT_RETENTION" envDefault:"2160h"` // 90 days

	// AlertRetention is the age at which unacknowledged alerts are archived.
	AlertRetention time.Duration `env:"SECURITY_ALERT_RETENTION" envDefault:"720h"` // 30 days

	// RiskHorizon is the lookback window for risk scoring.
	RiskHorizon time.Duration `env:"SECURITY_RISK_HORIZON" envDefault:"168h"` // 7 days

	// SessionSweepInterval is the cadence of the idle-session sweep.
	SessionSweepInterval time.Duration `env:"SECURITY_SESSION_SWEEP_INTERVAL" envDefault:"1h"`

	// RuleEvalInterval is the cadence of alert-rule evaluation over
	// unprocessed events.
	RuleEvalInterval time.Duration `env:"SECURITY_RULE_EVAL_INTERVAL" envDefault:"1m"`

	// RetentionInterval is the cadence of the retention purge.
	RetentionInterval time.Duration `env:"SECURITY_RETENTION_INTERVAL" envDefault:"24h"`

	// DispatcherBuffer bounds the alert delivery queue. When it is full,
	// new alerts are dropped with a log line rather than blocking rule
	// evaluation.
	DispatcherBuffer int `env:"SECURITY_DISPATCHER_BUFFER" envDefault:"256"`
}

// Sanitize applies guardrails to security configuration values.
func (s *SecurityConfig) Sanitize() {
	if s.EventRetention < 24*time.Hour {
		s.EventRetention = 24 * time.Hour
	}
	if s.AlertRetention < 24*time.Hour {
		s.AlertRetention = 24 * time.Hour
	}
	if s.RiskHorizon < time.Hour {
		s.RiskHorizon = time.Hour
	}
	if s.SessionSweepInterval < time.Minute {
		s.SessionSweepInterval = time.Minute
	}
	if s.RuleEvalInterval < time.Second {
		s.RuleEvalInterval = time.Second
	}
	if s.RetentionInterval < time.Hour {
		s.RetentionInterval = time.Hour
	}
	if s.DispatcherBuffer < 1 {
		s.DispatcherBuffer = 1
	}
}
