package model

import "time"

// AlertStatus tracks an alert through its lifecycle. Alerts start active,
// may be acknowledged by an operator, and are eventually archived by the
// retention sweep. Archival is terminal; alerts are never deleted.
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusArchived     AlertStatus = "archived"
)

// Valid returns true when the status is one of the supported values.
func (s AlertStatus) Valid() bool {
	switch s {
	case AlertStatusActive, AlertStatusAcknowledged, AlertStatusArchived:
		return true
	default:
		return false
	}
}

// Alert is created when a rule matches a security event.
type Alert struct {
	ID             string      `json:"id"`
	RuleID         string      `json:"rule_id"`
	EventID        string      `json:"event_id"`
	TenantID       string      `json:"tenant_id,omitempty"`
	Severity       Severity    `json:"severity"`
	Status         AlertStatus `json:"status"`
	Acknowledged   bool        `json:"acknowledged"`
	AcknowledgedBy string      `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time  `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// AlertQuery filters the alert store. Zero-value fields are ignored.
type AlertQuery struct {
	RuleID   string
	TenantID string
	Severity Severity
	Status   AlertStatus
	Limit    int
}

// Matches reports whether the alert satisfies every set filter.
func (q AlertQuery) Matches(a Alert) bool {
	if q.RuleID != "" && a.RuleID != q.RuleID {
		return false
	}
	if q.TenantID != "" && a.TenantID != q.TenantID {
		return false
	}
	if q.Severity != "" && a.Severity != q.Severity {
		return false
	}
	if q.Status != "" && a.Status != q.Status {
		return false
	}
	return true
}

// AlertStats summarizes alerts by severity for dashboards.
type AlertStats struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Active   int `json:"active"`
}
