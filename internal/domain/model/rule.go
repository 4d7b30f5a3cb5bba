package model

import (
	"strings"
	"time"

	apperrors "github.com/campushq/campus-trust/internal/errors"
)

// ConditionOperator is the comparison applied by a rule condition.
type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not_equals"
	OperatorContains    ConditionOperator = "contains"
	OperatorGreaterThan ConditionOperator = "greater_than"
	OperatorLessThan    ConditionOperator = "less_than"
	OperatorIn          ConditionOperator = "in"
)

// Valid returns true if the operator is one of the supported values.
func (o ConditionOperator) Valid() bool {
	switch o {
	case OperatorEquals, OperatorNotEquals, OperatorContains,
		OperatorGreaterThan, OperatorLessThan, OperatorIn:
		return true
	default:
		return false
	}
}

// RuleCondition compares a field of the event against a value. Field is a
// dot-path resolved against the event (e.g. "data.ip" or "user_id").
type RuleCondition struct {
	Field    string            `json:"field"`
	Operator ConditionOperator `json:"operator"`
	Value    any               `json:"value"`
}

// FrequencyLimit makes a rule fire only when enough matching events arrive
// inside a sliding window (burst detection). The alert fires on the event
// whose arrival brings the in-window count up to Count; further in-window
// events do not re-fire until the count has dropped below Count again.
type FrequencyLimit struct {
	Window time.Duration `json:"window_ms"`
	Count  int           `json:"count"`
}

// AlertRule is a declarative detection rule evaluated against unprocessed
// security events. Rules never mutate events.
type AlertRule struct {
	ID             string          `json:"id"`
	Name           string          `json:"name,omitempty"`
	EventTypes     []string        `json:"event_types,omitempty"`
	MinSeverity    Severity        `json:"min_severity,omitempty"`
	Conditions     []RuleCondition `json:"conditions,omitempty"`
	FrequencyLimit *FrequencyLimit `json:"frequency_limit,omitempty"`
	Enabled        bool            `json:"enabled"`
}

// Normalize trims identifier fields and lowercases the minimum severity.
func (r *AlertRule) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	if r.MinSeverity != "" {
		r.MinSeverity = ParseSeverity(string(r.MinSeverity))
	}
	for i, t := range r.EventTypes {
		r.EventTypes[i] = strings.TrimSpace(t)
	}
}

// Validate rejects malformed rules at registration time so evaluation never
// has to deal with them.
func (r *AlertRule) Validate() error {
	if r.ID == "" {
		return apperrors.Validation("rule id is required")
	}
	if r.MinSeverity != "" && !r.MinSeverity.Valid() {
		return apperrors.Validationf("invalid min_severity %q", r.MinSeverity)
	}
	for _, t := range r.EventTypes {
		if t == "" {
			return apperrors.Validation("event_types entries cannot be empty")
		}
	}
	for i, c := range r.Conditions {
		if strings.TrimSpace(c.Field) == "" {
			return apperrors.Validationf("condition %d: field is required", i)
		}
		if !c.Operator.Valid() {
			return apperrors.Validationf("condition %d: invalid operator %q", i, c.Operator)
		}
	}
	if fl := r.FrequencyLimit; fl != nil {
		if fl.Window <= 0 {
			return apperrors.Validation("frequency_limit window must be positive")
		}
		if fl.Count <= 0 {
			return apperrors.Validation("frequency_limit count must be positive")
		}
	}
	return nil
}

// AppliesTo reports whether the event passes the rule's type and severity
// gates. Condition and frequency clauses are evaluated by the rule engine.
func (r *AlertRule) AppliesTo(e SecurityEvent) bool {
	if len(r.EventTypes) > 0 {
		found := false
		for _, t := range r.EventTypes {
			if t == e.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if r.MinSeverity != "" && e.Severity.Rank() < r.MinSeverity.Rank() {
		return false
	}
	return true
}
