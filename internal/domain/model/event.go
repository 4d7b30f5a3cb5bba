package model

import (
	"strings"
	"time"

	apperrors "github.com/campushq/campus-trust/internal/errors"
)

// Severity represents the severity level of a security event.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid returns true if the severity is one of the supported values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// Rank returns the total-order rank of the severity: low=1, medium=2,
// high=3, critical=4. Unknown severities rank 0 and never satisfy a
// minimum-severity threshold.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// String returns the string representation of the severity.
func (s Severity) String() string { return string(s) }

// ParseSeverity normalizes a raw severity string.
func ParseSeverity(v string) Severity {
	return Severity(strings.ToLower(strings.TrimSpace(v)))
}

// Well-known security event types recorded by the trust core. The event log
// accepts arbitrary type strings; these constants cover the producers built
// into this module.
const (
	EventTypeLoginFailed       = "login_failed"
	EventTypeLoginSuccess      = "login_success"
	EventTypeTokenRevoked      = "token_revoked"
	EventTypeSessionRevoked    = "session_revoked"
	EventTypePermissionDenied  = "permission_denied"
	EventTypeRateLimitExceeded = "rate_limit_exceeded"
	EventTypeAPIKeyRejected    = "api_key_rejected"
)

// SecurityEvent is an immutable record of a security-relevant occurrence.
// Only the Processed flag changes after creation; it transitions false→true
// exactly once when the rule engine has evaluated the event.
type SecurityEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	TenantID  string         `json:"tenant_id,omitempty"`
	Severity  Severity       `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Processed bool           `json:"processed"`
}

// RecordEventRequest carries the caller-supplied fields of a new event.
// ID, timestamp, and the processed flag are assigned by the event log.
type RecordEventRequest struct {
	Type     string         `json:"type"`
	Data     map[string]any `json:"data,omitempty"`
	UserID   string         `json:"user_id,omitempty"`
	TenantID string         `json:"tenant_id,omitempty"`
	Severity Severity       `json:"severity"`
}

// Validate rejects malformed record requests.
func (r *RecordEventRequest) Validate() error {
	if strings.TrimSpace(r.Type) == "" {
		return apperrors.Validation("event type is required")
	}
	if !r.Severity.Valid() {
		return apperrors.Validationf("invalid severity %q", r.Severity)
	}
	return nil
}

// EventQuery filters the event log. Zero-value fields are ignored.
type EventQuery struct {
	Type     string
	Severity Severity
	UserID   string
	TenantID string
	Since    time.Time
	Until    time.Time
	Limit    int
}

// Matches reports whether the event satisfies every set filter.
func (q EventQuery) Matches(e SecurityEvent) bool {
	if q.Type != "" && e.Type != q.Type {
		return false
	}
	if q.Severity != "" && e.Severity != q.Severity {
		return false
	}
	if q.UserID != "" && e.UserID != q.UserID {
		return false
	}
	if q.TenantID != "" && e.TenantID != q.TenantID {
		return false
	}
	if !q.Since.IsZero() && e.Timestamp.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && e.Timestamp.After(q.Until) {
		return false
	}
	return true
}
