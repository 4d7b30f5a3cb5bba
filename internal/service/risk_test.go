package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campus-trust/internal/core"
	"github.com/campushq/campus-trust/internal/domain/model"
	"github.com/campushq/campus-trust/internal/store"
	"github.com/campushq/campus-trust/internal/testutil"
)

type riskFixture struct {
	scorer *RiskScorer
	clock  *core.FakeTimeProvider
	events *store.EventLog
}

func newRiskFixture(t *testing.T, horizon time.Duration) *riskFixture {
	t.Helper()

	clock := core.NewFakeTimeProvider(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	events := store.NewEventLog(store.EventLogOptions{Clock: clock})
	scorer := NewRiskScorer(RiskScorerOptions{Events: events, Horizon: horizon, Clock: clock})
	return &riskFixture{scorer: scorer, clock: clock, events: events}
}

func (f *riskFixture) record(t *testing.T, req model.RecordEventRequest) {
	t.Helper()
	_, err := f.events.Record(context.Background(), req)
	require.NoError(t, err)
}

func TestRiskScorer_Score(t *testing.T) {
	ctx := context.Background()
	horizon := 7 * 24 * time.Hour

	t.Run("no events scores zero", func(t *testing.T) {
		f := newRiskFixture(t, horizon)
		assert.Zero(t, f.scorer.Score(ctx, "tenant-1"))
	})

	t.Run("fresh event at full weight", func(t *testing.T) {
		// severity rank 4 × decay 1.0 × 10 = 40.
		f := newRiskFixture(t, horizon)
		f.record(t, testutil.NewEventRequest().WithSeverity(model.SeverityCritical).Build())
		assert.InDelta(t, 40.0, f.scorer.Score(ctx, "tenant-1"), 0.001)
	})

	t.Run("weight decays linearly with age", func(t *testing.T) {
		// A medium event halfway to the horizon: 2 × 0.5 × 10 = 10.
		f := newRiskFixture(t, horizon)
		f.record(t, testutil.NewEventRequest().WithSeverity(model.SeverityMedium).Build())
		f.clock.Advance(horizon / 2)
		assert.InDelta(t, 10.0, f.scorer.Score(ctx, "tenant-1"), 0.001)
	})

	t.Run("events past the horizon contribute nothing", func(t *testing.T) {
		f := newRiskFixture(t, horizon)
		f.record(t, testutil.NewEventRequest().WithSeverity(model.SeverityCritical).Build())
		f.clock.Advance(8 * 24 * time.Hour)
		assert.Zero(t, f.scorer.Score(ctx, "tenant-1"))
	})

	t.Run("score clamps at 100", func(t *testing.T) {
		f := newRiskFixture(t, horizon)
		for i := 0; i < 5; i++ {
			f.record(t, testutil.NewEventRequest().WithSeverity(model.SeverityCritical).Build())
		}
		assert.Equal(t, 100.0, f.scorer.Score(ctx, "tenant-1"))
	})

	t.Run("tenants are scored independently", func(t *testing.T) {
		f := newRiskFixture(t, horizon)
		f.record(t, testutil.NewEventRequest().WithSeverity(model.SeverityHigh).Build())
		f.record(t, testutil.NewEventRequest().WithTenant("tenant-2").WithSeverity(model.SeverityLow).Build())

		assert.InDelta(t, 30.0, f.scorer.Score(ctx, "tenant-1"), 0.001)
		assert.InDelta(t, 10.0, f.scorer.Score(ctx, "tenant-2"), 0.001)
	})

	t.Run("non-increasing without new events", func(t *testing.T) {
		f := newRiskFixture(t, horizon)
		f.record(t, testutil.NewEventRequest().WithSeverity(model.SeverityHigh).Build())

		before := f.scorer.Score(ctx, "tenant-1")
		f.clock.Advance(24 * time.Hour)
		after := f.scorer.Score(ctx, "tenant-1")
		assert.Less(t, after, before)
	})
}

func TestRiskScorer_DefaultHorizon(t *testing.T) {
	// A zero horizon falls back to 7 days rather than dividing by zero.
	f := newRiskFixture(t, 0)
	f.record(t, testutil.NewEventRequest().WithSeverity(model.SeverityLow).Build())
	assert.InDelta(t, 10.0, f.scorer.Score(context.Background(), "tenant-1"), 0.001)
}
