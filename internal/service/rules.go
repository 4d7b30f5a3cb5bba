package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/campushq/campus-trust/internal/core"
	"github.com/campushq/campus-trust/internal/domain/model"
	apperrors "github.com/campushq/campus-trust/internal/errors"
)

// RuleEngine evaluates unprocessed security events against the registered
// alert rules. Events move unprocessed → evaluated → processed; the
// processed transition happens exactly once per event, whether or not any
// rule matched and whether or not alert delivery succeeded.
//
// Frequency-limited rules use fire-on-threshold-crossing semantics: the
// alert fires on the event whose arrival brings the in-window count of that
// event type up to the configured count, and not again until the in-window
// count has dropped below the threshold.
type RuleEngine struct {
	mu    sync.RWMutex
	rules []model.AlertRule
	byID  map[string]int

	// evalMu serializes evaluation passes so concurrent callers cannot see
	// the same unprocessed events and double-fire alerts.
	evalMu sync.Mutex

	events   core.EventLog
	alerts   core.AlertStore
	notifier core.AlertNotifier
	clock    core.TimeProvider
	logger   *slog.Logger
}

// RuleEngineOptions bundles dependencies for NewRuleEngine.
type RuleEngineOptions struct {
	Events   core.EventLog
	Alerts   core.AlertStore
	Notifier core.AlertNotifier
	Clock    core.TimeProvider
	Logger   *slog.Logger
}

// NewRuleEngine constructs an engine with no rules registered.
func NewRuleEngine(opts RuleEngineOptions) *RuleEngine {
	clock := opts.Clock
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleEngine{
		byID:     make(map[string]int),
		events:   opts.Events,
		alerts:   opts.Alerts,
		notifier: opts.Notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Register validates and adds a rule. Malformed rules are rejected here, at
// registration time, never at evaluation time. Registering an existing ID
// replaces the rule in place, keeping its evaluation position.
func (e *RuleEngine) Register(rule model.AlertRule) error {
	rule.Normalize()
	if err := rule.Validate(); err != nil {
		return err
	}
	// Conditions must compile, or evaluation could never apply them.
	for i, c := range rule.Conditions {
		if _, err := jmespath.Compile(c.Field); err != nil {
			return apperrors.Validationf("condition %d: invalid field path %q", i, c.Field)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if idx, ok := e.byID[rule.ID]; ok {
		e.rules[idx] = rule
		return nil
	}
	e.byID[rule.ID] = len(e.rules)
	e.rules = append(e.rules, rule)
	return nil
}

// SetEnabled toggles a rule without re-registering it.
func (e *RuleEngine) SetEnabled(ruleID string, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, ok := e.byID[ruleID]
	if !ok {
		return apperrors.NotFound("rule not found")
	}
	e.rules[idx].Enabled = enabled
	return nil
}

// Rules returns a snapshot of the registered rules in evaluation order.
func (e *RuleEngine) Rules() []model.AlertRule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]model.AlertRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// ProcessUnprocessed evaluates every unprocessed event against every enabled
// rule in registration order. Returns the number of events processed and
// alerts created. Passes run one at a time; a pass that starts while another
// is in flight waits and then sees an empty backlog.
func (e *RuleEngine) ProcessUnprocessed(ctx context.Context) (events, alerts int) {
	e.evalMu.Lock()
	defer e.evalMu.Unlock()

	pending := e.events.Unprocessed(ctx)
	if len(pending) == 0 {
		return 0, 0
	}

	rules := e.Rules()
	processedIDs := make([]string, 0, len(pending))

	for _, event := range pending {
		for _, rule := range rules {
			if !rule.Enabled {
				continue
			}
			matched, err := e.evaluate(ctx, rule, event)
			if err != nil {
				e.logger.ErrorContext(ctx, "rule evaluation failed",
					"rule_id", rule.ID, "event_id", event.ID, "error", err)
				continue
			}
			if matched {
				if e.fire(ctx, rule, event) {
					alerts++
				}
			}
		}
		processedIDs = append(processedIDs, event.ID)
	}

	return e.events.MarkProcessed(ctx, processedIDs), alerts
}

// evaluate applies the rule's clauses to an event; all clauses AND together.
func (e *RuleEngine) evaluate(ctx context.Context, rule model.AlertRule, event model.SecurityEvent) (bool, error) {
	if !rule.AppliesTo(event) {
		return false, nil
	}

	doc := eventDocument(event)
	for _, cond := range rule.Conditions {
		ok, err := evalCondition(cond, doc)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	if fl := rule.FrequencyLimit; fl != nil {
		n := e.events.CountInWindow(ctx, event.Type, event.Timestamp, fl.Window)
		if n != fl.Count {
			return false, nil
		}
	}

	return true, nil
}

// fire creates the alert and hands it to the notifier. Store or delivery
// failures never prevent the event from being marked processed.
func (e *RuleEngine) fire(ctx context.Context, rule model.AlertRule, event model.SecurityEvent) bool {
	alert := model.Alert{
		ID:        uuid.NewString(),
		RuleID:    rule.ID,
		EventID:   event.ID,
		TenantID:  event.TenantID,
		Severity:  event.Severity,
		Status:    model.AlertStatusActive,
		CreatedAt: e.clock.Now(),
	}

	if err := e.alerts.Create(ctx, alert); err != nil {
		e.logger.ErrorContext(ctx, "alert creation failed",
			"rule_id", rule.ID, "event_id", event.ID, "error", err)
		return false
	}

	if e.notifier != nil {
		e.notifier.Notify(alert)
	}

	e.logger.InfoContext(ctx, "alert fired",
		"alert_id", alert.ID,
		"rule_id", rule.ID,
		"event_id", event.ID,
		"severity", alert.Severity.String())
	return true
}

// eventDocument flattens an event into the document rule conditions resolve
// field paths against.
func eventDocument(e model.SecurityEvent) map[string]any {
	return map[string]any{
		"id":        e.ID,
		"type":      e.Type,
		"user_id":   e.UserID,
		"userId":    e.UserID,
		"tenant_id": e.TenantID,
		"tenantId":  e.TenantID,
		"severity":  e.Severity.String(),
		"data":      e.Data,
	}
}

// evalCondition resolves the condition's field path and applies its operator.
func evalCondition(cond model.RuleCondition, doc map[string]any) (bool, error) {
	actual, err := jmespath.Search(cond.Field, doc)
	if err != nil {
		return false, fmt.Errorf("resolve field %q: %w", cond.Field, err)
	}

	switch cond.Operator {
	case model.OperatorEquals:
		return looseEqual(actual, cond.Value), nil
	case model.OperatorNotEquals:
		return !looseEqual(actual, cond.Value), nil
	case model.OperatorContains:
		return evalContains(actual, cond.Value), nil
	case model.OperatorGreaterThan:
		a, b, ok := bothNumbers(actual, cond.Value)
		return ok && a > b, nil
	case model.OperatorLessThan:
		a, b, ok := bothNumbers(actual, cond.Value)
		return ok && a < b, nil
	case model.OperatorIn:
		candidates, ok := cond.Value.([]any)
		if !ok {
			return false, fmt.Errorf("operator %q requires a list value", cond.Operator)
		}
		for _, c := range candidates {
			if looseEqual(actual, c) {
				return true, nil
			}
		}
		return false, nil
	default:
		// Unreachable: Register validates operators.
		return false, fmt.Errorf("unsupported operator %q", cond.Operator)
	}
}

// looseEqual compares with numeric coercion, so a JSON-decoded float64
// equals a config-declared int.
func looseEqual(a, b any) bool {
	if af, bf, ok := bothNumbers(a, b); ok {
		return af == bf
	}
	return a == b
}

// evalContains handles string containment and slice membership.
func evalContains(actual, value any) bool {
	switch v := actual.(type) {
	case string:
		s, ok := value.(string)
		return ok && strings.Contains(v, s)
	case []any:
		for _, item := range v {
			if looseEqual(item, value) {
				return true
			}
		}
	}
	return false
}

// bothNumbers coerces both values to float64 when possible.
func bothNumbers(a, b any) (float64, float64, bool) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return af, bf, aok && bok
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
