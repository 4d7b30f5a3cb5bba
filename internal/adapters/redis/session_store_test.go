package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/campushq/campus-trust/internal/errors"
	"github.com/campushq/campus-trust/internal/testutil"
)

func newTestSessionStore(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStore(SessionStoreOptions{
		Client:  testutil.SetupTestRedis(t),
		MaxIdle: time.Hour,
	})
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	s := newTestSessionStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	sess := testutil.NewSession("sess-1", "user-1", now)
	require.NoError(t, s.Create(ctx, sess))

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Role, got.Role)
	assert.Equal(t, sess.TenantID, got.TenantID)
	assert.True(t, got.LastActivity.Equal(now))

	_, err = s.Get(ctx, "missing")
	assert.Error(t, err)

	err = s.Create(ctx, testutil.NewSession("", "user-1", now))
	assert.Error(t, err)
}

func TestSessionStore_Touch(t *testing.T) {
	s := newTestSessionStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.Create(ctx, testutil.NewSession("sess-1", "user-1", now)))

	later := now.Add(10 * time.Minute)
	require.NoError(t, s.Touch(ctx, "sess-1", later))

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, got.LastActivity.Equal(later))

	assert.Error(t, s.Touch(ctx, "missing", later))
}

func TestSessionStore_IsActive(t *testing.T) {
	s := newTestSessionStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.Create(ctx, testutil.NewSession("sess-1", "user-1", now)))

	assert.True(t, s.IsActive(ctx, "user-1", "sess-1"))
	assert.False(t, s.IsActive(ctx, "user-2", "sess-1"))
	assert.False(t, s.IsActive(ctx, "user-1", "missing"))
}

func TestSessionStore_Revoke(t *testing.T) {
	s := newTestSessionStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.Create(ctx, testutil.NewSession("sess-1", "user-1", now)))

	require.NoError(t, s.Revoke(ctx, "sess-1"))
	assert.False(t, s.IsActive(ctx, "user-1", "sess-1"))

	// Revoking again is a no-op.
	require.NoError(t, s.Revoke(ctx, "sess-1"))
}

func TestSessionStore_RevokeAll(t *testing.T) {
	s := newTestSessionStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.Create(ctx, testutil.NewSession("sess-1", "user-1", now)))
	require.NoError(t, s.Create(ctx, testutil.NewSession("sess-2", "user-1", now)))
	require.NoError(t, s.Create(ctx, testutil.NewSession("sess-3", "user-2", now)))

	n, err := s.RevokeAll(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.False(t, s.IsActive(ctx, "user-1", "sess-1"))
	assert.False(t, s.IsActive(ctx, "user-1", "sess-2"))
	assert.True(t, s.IsActive(ctx, "user-2", "sess-3"))

	n, err = s.RevokeAll(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSessionStore_IdleEviction(t *testing.T) {
	// A tiny idle window so the TTL (and the read-side check) kicks in fast.
	s := NewSessionStore(SessionStoreOptions{
		Client:  testutil.SetupTestRedis(t),
		MaxIdle: time.Second,
	})
	ctx := context.Background()

	stale := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, s.Create(ctx, testutil.NewSession("sess-1", "user-1", stale)))

	// LastActivity is already past the idle window, so the read-side check
	// rejects it even before Redis evicts the key. It must answer promptly:
	// the stale branch deletes the keys itself rather than re-reading the
	// record through Revoke.
	done := make(chan error, 1)
	go func() {
		_, err := s.Get(ctx, "sess-1")
		done <- err
	}()
	select {
	case err := <-done:
		assert.True(t, apperrors.IsNotFound(err))
	case <-time.After(3 * time.Second):
		t.Fatal("Get did not return for a stale session")
	}

	// The stale read also cleaned up: the key and the user index entry are
	// gone, so later calls miss outright.
	_, err := s.Get(ctx, "sess-1")
	assert.True(t, apperrors.IsNotFound(err))
	n, err := s.RevokeAll(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
