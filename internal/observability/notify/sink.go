// Package notify defines the outbound alert-delivery port. Concrete
// channels (email, webhooks, chat) live outside this module; the trust core
// only guarantees that alert generation never blocks on delivery.
package notify

import (
	"context"
	"log/slog"

	"github.com/campushq/campus-trust/internal/domain/model"
)

// Sink describes a destination capable of consuming fired alerts.
type Sink interface {
	SendAlert(ctx context.Context, alert model.Alert) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, alert model.Alert) error

// SendAlert implements the Sink interface.
func (f SinkFunc) SendAlert(ctx context.Context, alert model.Alert) error {
	if f == nil {
		return nil
	}
	return f(ctx, alert)
}

// LogSink writes alerts to the structured log. It is the default sink when
// no external channel is configured.
type LogSink struct {
	Logger *slog.Logger
}

// SendAlert logs the alert at warn level.
func (s LogSink) SendAlert(ctx context.Context, alert model.Alert) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.WarnContext(ctx, "security alert fired",
		"alert_id", alert.ID,
		"rule_id", alert.RuleID,
		"event_id", alert.EventID,
		"tenant_id", alert.TenantID,
		"severity", alert.Severity.String(),
	)
	return nil
}
