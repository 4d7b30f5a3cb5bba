package service

import (
	"context"
	"time"

	"github.com/campushq/campus-trust/internal/core"
	"github.com/campushq/campus-trust/internal/domain/model"
)

// riskMaxScore bounds the aggregate; a tenant with a flood of critical
// events still reads 100, not an unbounded number.
const riskMaxScore = 100.0

// RiskScorer aggregates a tenant's recent security events into a bounded,
// time-decayed score. With no new events the score is non-increasing as
// time advances.
type RiskScorer struct {
	events  core.EventLog
	horizon time.Duration
	clock   core.TimeProvider
}

// RiskScorerOptions bundles dependencies for NewRiskScorer.
type RiskScorerOptions struct {
	Events  core.EventLog
	Horizon time.Duration
	Clock   core.TimeProvider
}

// NewRiskScorer constructs a scorer. A zero Horizon defaults to 7 days.
func NewRiskScorer(opts RiskScorerOptions) *RiskScorer {
	horizon := opts.Horizon
	if horizon <= 0 {
		horizon = 7 * 24 * time.Hour
	}
	clock := opts.Clock
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	return &RiskScorer{
		events:  opts.Events,
		horizon: horizon,
		clock:   clock,
	}
}

// Score computes the tenant's current risk in [0, 100]. Each event
// contributes severityRank × linear time decay × 10; events past the
// horizon contribute nothing.
func (r *RiskScorer) Score(ctx context.Context, tenantID string) float64 {
	now := r.clock.Now()
	events := r.events.Query(ctx, model.EventQuery{
		TenantID: tenantID,
		Since:    now.Add(-r.horizon),
	})

	total := 0.0
	for _, e := range events {
		total += float64(e.Severity.Rank()) * r.decay(now, e.Timestamp) * 10
	}
	if total > riskMaxScore {
		return riskMaxScore
	}
	return total
}

// decay falls linearly from 1.0 now to 0.0 at the horizon, clamped at zero.
func (r *RiskScorer) decay(now, ts time.Time) float64 {
	age := now.Sub(ts)
	if age < 0 {
		age = 0
	}
	d := 1.0 - float64(age)/float64(r.horizon)
	if d < 0 {
		return 0
	}
	return d
}
