package store

import (
	"context"
	"sync"
	"time"

	"github.com/campushq/campus-trust/internal/core"
)

// RevocationList is an in-memory token deny-list with a minute-bucketed
// expiry index. Adding an entry files it under its eviction minute, so a
// sweep drops whole buckets instead of scanning every entry, and no per-token
// timers are created however heavy revocation traffic gets.
type RevocationList struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	buckets map[int64][]string
	clock   core.TimeProvider
}

// NewRevocationList creates an empty revocation list.
func NewRevocationList(clock core.TimeProvider) *RevocationList {
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	return &RevocationList{
		entries: make(map[string]time.Time),
		buckets: make(map[int64][]string),
		clock:   clock,
	}
}

// Add blacklists the token until ttl elapses.
func (r *RevocationList) Add(_ context.Context, token string, ttl time.Duration) error {
	deadline := r.clock.Now().Add(ttl)
	bucket := bucketKey(deadline)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[token] = deadline
	r.buckets[bucket] = append(r.buckets[bucket], token)
	return nil
}

// Contains reports whether the token is currently blacklisted. An entry past
// its deadline is treated as absent even before the sweep collects it.
func (r *RevocationList) Contains(_ context.Context, token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deadline, ok := r.entries[token]
	return ok && r.clock.Now().Before(deadline)
}

// Sweep drops every bucket whose eviction minute has passed.
func (r *RevocationList) Sweep(_ context.Context) (int, error) {
	now := r.clock.Now()
	cutoff := bucketKey(now)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for bucket, tokens := range r.buckets {
		if bucket >= cutoff {
			continue
		}
		for _, tok := range tokens {
			// The token may have been re-added with a later deadline;
			// only drop it if its entry really is expired.
			if deadline, ok := r.entries[tok]; ok && !now.Before(deadline) {
				delete(r.entries, tok)
				removed++
			}
		}
		delete(r.buckets, bucket)
	}
	return removed, nil
}

// Len returns the number of tracked entries, expired or not.
func (r *RevocationList) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// bucketKey floors a deadline to its eviction minute.
func bucketKey(t time.Time) int64 {
	return t.Unix() / 60
}

var _ core.RevocationList = (*RevocationList)(nil)
