package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campus-trust/internal/core"
)

func TestRevocationList_AddContains(t *testing.T) {
	ctx := context.Background()
	clock := core.NewFakeTimeProvider(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	r := NewRevocationList(clock)

	require.NoError(t, r.Add(ctx, "token-a", time.Hour))

	assert.True(t, r.Contains(ctx, "token-a"))
	assert.False(t, r.Contains(ctx, "token-b"))
}

func TestRevocationList_ExpiryBeforeSweep(t *testing.T) {
	ctx := context.Background()
	clock := core.NewFakeTimeProvider(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	r := NewRevocationList(clock)

	require.NoError(t, r.Add(ctx, "token-a", 10*time.Minute))

	// Past the deadline the entry reads as absent even though no sweep has
	// collected it yet.
	clock.Advance(11 * time.Minute)
	assert.False(t, r.Contains(ctx, "token-a"))
	assert.Equal(t, 1, r.Len())
}

func TestRevocationList_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := core.NewFakeTimeProvider(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	r := NewRevocationList(clock)

	require.NoError(t, r.Add(ctx, "short", 5*time.Minute))
	require.NoError(t, r.Add(ctx, "long", time.Hour))

	clock.Advance(10 * time.Minute)
	removed, err := r.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, r.Len())
	assert.True(t, r.Contains(ctx, "long"))
}

func TestRevocationList_SweepKeepsReAddedToken(t *testing.T) {
	ctx := context.Background()
	clock := core.NewFakeTimeProvider(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	r := NewRevocationList(clock)

	require.NoError(t, r.Add(ctx, "token-a", 5*time.Minute))

	// Re-added with a later deadline before the first one elapsed. The stale
	// bucket entry must not evict the fresh deadline.
	clock.Advance(4 * time.Minute)
	require.NoError(t, r.Add(ctx, "token-a", time.Hour))

	clock.Advance(10 * time.Minute)
	removed, err := r.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.True(t, r.Contains(ctx, "token-a"))
}
