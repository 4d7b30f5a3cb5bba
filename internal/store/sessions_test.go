package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campus-trust/internal/core"
	apperrors "github.com/campushq/campus-trust/internal/errors"
	"github.com/campushq/campus-trust/internal/testutil"
)

func TestSessionStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewSessionStore(core.NewFakeTimeProvider(now))

	sess := testutil.NewSession("session-1", "user-1", now)
	require.NoError(t, s.Create(ctx, sess))

	got, err := s.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	_, err = s.Get(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionStore_CreateRequiresID(t *testing.T) {
	s := NewSessionStore(nil)
	err := s.Create(context.Background(), testutil.NewSession("", "user-1", time.Now()))
	assert.True(t, apperrors.IsValidation(err))
}

func TestSessionStore_Touch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewSessionStore(core.NewFakeTimeProvider(now))

	require.NoError(t, s.Create(ctx, testutil.NewSession("session-1", "user-1", now)))

	later := now.Add(30 * time.Minute)
	require.NoError(t, s.Touch(ctx, "session-1", later))

	got, err := s.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, later, got.LastActivity)

	err = s.Touch(ctx, "missing", later)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionStore_IsActive(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewSessionStore(nil)
	require.NoError(t, s.Create(ctx, testutil.NewSession("session-1", "user-1", now)))

	assert.True(t, s.IsActive(ctx, "user-1", "session-1"))
	assert.False(t, s.IsActive(ctx, "user-2", "session-1"), "session bound to a different user")
	assert.False(t, s.IsActive(ctx, "user-1", "missing"))
}

func TestSessionStore_RevokeIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(nil)
	require.NoError(t, s.Create(ctx, testutil.NewSession("session-1", "user-1", time.Now())))

	require.NoError(t, s.Revoke(ctx, "session-1"))
	assert.False(t, s.IsActive(ctx, "user-1", "session-1"))

	// Second revoke of the same session is a no-op.
	require.NoError(t, s.Revoke(ctx, "session-1"))
	assert.Equal(t, 0, s.Len())
}

func TestSessionStore_RevokeAll(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewSessionStore(nil)
	require.NoError(t, s.Create(ctx, testutil.NewSession("session-1", "user-1", now)))
	require.NoError(t, s.Create(ctx, testutil.NewSession("session-2", "user-1", now)))
	require.NoError(t, s.Create(ctx, testutil.NewSession("session-3", "user-2", now)))

	removed, err := s.RevokeAll(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.False(t, s.IsActive(ctx, "user-1", "session-1"))
	assert.False(t, s.IsActive(ctx, "user-1", "session-2"))
	assert.True(t, s.IsActive(ctx, "user-2", "session-3"), "other users' sessions untouched")

	removed, err = s.RevokeAll(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestSessionStore_SweepIdle(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := core.NewFakeTimeProvider(start)
	s := NewSessionStore(clock)

	require.NoError(t, s.Create(ctx, testutil.NewSession("stale", "user-1", start)))
	require.NoError(t, s.Create(ctx, testutil.NewSession("fresh", "user-2", start)))

	// Keep one session active across the idle horizon.
	clock.Advance(20 * time.Hour)
	require.NoError(t, s.Touch(ctx, "fresh", clock.Now()))

	clock.Advance(5 * time.Hour)
	removed, err := s.SweepIdle(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, s.IsActive(ctx, "user-1", "stale"))
	assert.True(t, s.IsActive(ctx, "user-2", "fresh"))
}
