package testutil

import (
	"time"

	domainauth "github.com/campushq/campus-trust/internal/domain/auth"
	"github.com/campushq/campus-trust/internal/domain/model"
)

// EventRequestBuilder provides a fluent interface for building
// RecordEventRequest objects for testing.
type EventRequestBuilder struct {
	req model.RecordEventRequest
}

// NewEventRequest creates a builder with sensible defaults.
func NewEventRequest() *EventRequestBuilder {
	return &EventRequestBuilder{
		req: model.RecordEventRequest{
			Type:     model.EventTypeLoginFailed,
			Severity: model.SeverityMedium,
			UserID:   "user-1",
			TenantID: "tenant-1",
			Data:     map[string]any{"ip": "203.0.113.7"},
		},
	}
}

// WithType sets the event type.
func (b *EventRequestBuilder) WithType(eventType string) *EventRequestBuilder {
	b.req.Type = eventType
	return b
}

// WithSeverity sets the severity.
func (b *EventRequestBuilder) WithSeverity(severity model.Severity) *EventRequestBuilder {
	b.req.Severity = severity
	return b
}

// WithUser sets the user ID.
func (b *EventRequestBuilder) WithUser(userID string) *EventRequestBuilder {
	b.req.UserID = userID
	return b
}

// WithTenant sets the tenant ID.
func (b *EventRequestBuilder) WithTenant(tenantID string) *EventRequestBuilder {
	b.req.TenantID = tenantID
	return b
}

// WithData sets the payload.
func (b *EventRequestBuilder) WithData(data map[string]any) *EventRequestBuilder {
	b.req.Data = data
	return b
}

// Build returns the constructed request.
func (b *EventRequestBuilder) Build() model.RecordEventRequest {
	return b.req
}

// RuleBuilder provides a fluent interface for building AlertRule objects
// for testing.
type RuleBuilder struct {
	rule model.AlertRule
}

// NewRule creates a builder with sensible defaults.
func NewRule(id string) *RuleBuilder {
	return &RuleBuilder{
		rule: model.AlertRule{
			ID:          id,
			Name:        id,
			EventTypes:  []string{model.EventTypeLoginFailed},
			MinSeverity: model.SeverityLow,
			Enabled:     true,
		},
	}
}

// WithEventTypes sets the matching event types.
func (b *RuleBuilder) WithEventTypes(types ...string) *RuleBuilder {
	b.rule.EventTypes = types
	return b
}

// WithMinSeverity sets the severity floor.
func (b *RuleBuilder) WithMinSeverity(severity model.Severity) *RuleBuilder {
	b.rule.MinSeverity = severity
	return b
}

// WithCondition appends a field condition.
func (b *RuleBuilder) WithCondition(field string, op model.ConditionOperator, value any) *RuleBuilder {
	b.rule.Conditions = append(b.rule.Conditions, model.RuleCondition{
		Field:    field,
		Operator: op,
		Value:    value,
	})
	return b
}

// WithFrequency sets the frequency limit.
func (b *RuleBuilder) WithFrequency(window time.Duration, count int) *RuleBuilder {
	b.rule.FrequencyLimit = &model.FrequencyLimit{Window: window, Count: count}
	return b
}

// Disabled marks the rule disabled.
func (b *RuleBuilder) Disabled() *RuleBuilder {
	b.rule.Enabled = false
	return b
}

// Build returns the constructed rule.
func (b *RuleBuilder) Build() model.AlertRule {
	return b.rule
}

// NewSession returns a session with sensible defaults for tests.
func NewSession(id, userID string, at time.Time) domainauth.Session {
	return domainauth.Session{
		ID:           id,
		UserID:       userID,
		Email:        userID + "@example.com",
		Role:         domainauth.RoleTeacher,
		TenantID:     "tenant-1",
		CreatedAt:    at,
		LastActivity: at,
	}
}
