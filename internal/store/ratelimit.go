package store

import (
	"sync"
	"time"

	"github.com/campushq/campus-trust/internal/core"
)

// RateLimiter implements an exact sliding-window counter: each key keeps the
// ordered timestamps of its in-window requests, so it never under- or
// over-counts at window boundaries the way fixed buckets do. Distinct
// logical limiters (auth, sensitive, upload, general) are separated by key
// prefix, giving each an independent keyspace.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	clock   core.TimeProvider
}

// NewRateLimiter creates an empty rate limiter.
func NewRateLimiter(clock core.TimeProvider) *RateLimiter {
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	return &RateLimiter{
		windows: make(map[string][]time.Time),
		clock:   clock,
	}
}

// Allow records the request and returns true when the key is under its
// limit. Over the limit nothing is recorded and Allow returns false.
func (l *RateLimiter) Allow(key string, maxRequests int, window time.Duration) bool {
	if maxRequests <= 0 {
		return false
	}
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.pruneLocked(key, now, window)
	if len(kept) >= maxRequests {
		return false
	}
	l.windows[key] = append(kept, now)
	return true
}

// RetryAfter returns the time until the oldest in-window request leaves the
// window, i.e. how long the caller should wait before the next attempt can
// succeed. Zero for unknown or empty keys.
func (l *RateLimiter) RetryAfter(key string, window time.Duration) time.Duration {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.pruneLocked(key, now, window)
	if len(kept) == 0 {
		return 0
	}
	wait := kept[0].Add(window).Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

// Reset clears the window for a key.
func (l *RateLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// pruneLocked drops timestamps older than now-window and stores the kept
// slice back. Caller holds the lock. Empty keys are removed outright so the
// map does not accumulate dead entries.
func (l *RateLimiter) pruneLocked(key string, now time.Time, window time.Duration) []time.Time {
	stamps := l.windows[key]
	cutoff := now.Add(-window)
	start := 0
	for start < len(stamps) && !stamps[start].After(cutoff) {
		start++
	}
	kept := stamps[start:]
	if len(kept) == 0 {
		delete(l.windows, key)
		return nil
	}
	l.windows[key] = kept
	return kept
}

// MultiplierTable maps roles to rate-limit multipliers, applied by callers
// before invoking Allow. Data-driven so deployments can tune it in config.
type MultiplierTable map[string]float64

// Scale applies the role's multiplier to a base limit, rounding down.
// Unknown roles keep the base limit.
func (t MultiplierTable) Scale(role string, base int) int {
	m, ok := t[role]
	if !ok {
		return base
	}
	return int(float64(base) * m)
}

var _ core.RateLimiter = (*RateLimiter)(nil)
