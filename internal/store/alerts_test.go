package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campus-trust/internal/core"
	"github.com/campushq/campus-trust/internal/domain/model"
	apperrors "github.com/campushq/campus-trust/internal/errors"
)

func testAlert(id, tenantID string, severity model.Severity, at time.Time) model.Alert {
	return model.Alert{
		ID:        id,
		RuleID:    "rule-1",
		EventID:   "event-1",
		TenantID:  tenantID,
		Severity:  severity,
		Status:    model.AlertStatusActive,
		CreatedAt: at,
	}
}

func TestAlertStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewAlertStore(nil)

	alert := testAlert("alert-1", "t1", model.SeverityHigh, time.Now())
	require.NoError(t, s.Create(ctx, alert))

	got, err := s.Get(ctx, "alert-1")
	require.NoError(t, err)
	assert.Equal(t, alert, got)

	_, err = s.Get(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))

	err = s.Create(ctx, model.Alert{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAlertStore_Query(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewAlertStore(nil)

	require.NoError(t, s.Create(ctx, testAlert("a1", "t1", model.SeverityHigh, now)))
	require.NoError(t, s.Create(ctx, testAlert("a2", "t1", model.SeverityCritical, now.Add(time.Minute))))
	require.NoError(t, s.Create(ctx, testAlert("a3", "t2", model.SeverityHigh, now.Add(2*time.Minute))))

	assert.Len(t, s.Query(ctx, model.AlertQuery{TenantID: "t1"}), 2)
	assert.Len(t, s.Query(ctx, model.AlertQuery{Severity: model.SeverityCritical}), 1)
	assert.Len(t, s.Query(ctx, model.AlertQuery{Status: model.AlertStatusActive}), 3)

	out := s.Query(ctx, model.AlertQuery{})
	require.Len(t, out, 3)
	assert.Equal(t, "a3", out[0].ID, "newest first")

	out = s.Query(ctx, model.AlertQuery{Limit: 1})
	require.Len(t, out, 1)
	assert.Equal(t, "a3", out[0].ID)
}

func TestAlertStore_Acknowledge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := core.NewFakeTimeProvider(now)
	s := NewAlertStore(clock)

	require.NoError(t, s.Create(ctx, testAlert("a1", "t1", model.SeverityHigh, now)))

	require.NoError(t, s.Acknowledge(ctx, "a1", "ops@school.test"))
	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, got.Acknowledged)
	assert.Equal(t, "ops@school.test", got.AcknowledgedBy)
	require.NotNil(t, got.AcknowledgedAt)
	assert.Equal(t, now, *got.AcknowledgedAt)
	assert.Equal(t, model.AlertStatusAcknowledged, got.Status)

	// A second acknowledgement does not overwrite the first.
	clock.Advance(time.Hour)
	require.NoError(t, s.Acknowledge(ctx, "a1", "someone-else"))
	got, err = s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "ops@school.test", got.AcknowledgedBy)
	assert.Equal(t, now, *got.AcknowledgedAt)

	err = s.Acknowledge(ctx, "missing", "ops")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAlertStore_Stats(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewAlertStore(nil)

	require.NoError(t, s.Create(ctx, testAlert("a1", "t1", model.SeverityCritical, now)))
	require.NoError(t, s.Create(ctx, testAlert("a2", "t1", model.SeverityHigh, now)))
	require.NoError(t, s.Create(ctx, testAlert("a3", "t1", model.SeverityHigh, now)))
	require.NoError(t, s.Create(ctx, testAlert("a4", "t2", model.SeverityLow, now)))
	require.NoError(t, s.Acknowledge(ctx, "a2", "ops"))

	stats := s.Stats(ctx, "t1")
	assert.Equal(t, model.AlertStats{Total: 3, Critical: 1, High: 2, Active: 2}, stats)

	all := s.Stats(ctx, "")
	assert.Equal(t, 4, all.Total)
	assert.Equal(t, 1, all.Low)
}

func TestAlertStore_ArchiveOlderThan(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewAlertStore(nil)

	require.NoError(t, s.Create(ctx, testAlert("stale", "t1", model.SeverityHigh, now.Add(-31*24*time.Hour))))
	require.NoError(t, s.Create(ctx, testAlert("fresh", "t1", model.SeverityHigh, now)))

	archived, err := s.ArchiveOlderThan(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, archived)

	got, err := s.Get(ctx, "stale")
	require.NoError(t, err)
	assert.Equal(t, model.AlertStatusArchived, got.Status)

	got, err = s.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, model.AlertStatusActive, got.Status)

	// Archival is idempotent: a second sweep finds nothing new.
	archived, err = s.ArchiveOlderThan(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, archived)
}
