// Package redis provides Redis-backed implementations of the trust core's
// stores for deployments that need sessions and revocations shared across
// instances. Each adapter satisfies the same core interface as its
// in-memory counterpart.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campushq/campus-trust/internal/core"
	domainauth "github.com/campushq/campus-trust/internal/domain/auth"
	apperrors "github.com/campushq/campus-trust/internal/errors"
)

// SessionStore keeps sessions in Redis. The idle deadline is enforced twice:
// Redis TTL evicts the key, and SweepIdle remains available for parity with
// the in-memory store (it re-checks LastActivity on read instead of
// scanning).
type SessionStore struct {
	client  redis.UniversalClient
	prefix  string
	maxIdle time.Duration
	clock   core.TimeProvider
}

// SessionStoreOptions configures a Redis session store.
type SessionStoreOptions struct {
	Client  redis.UniversalClient
	Prefix  string
	MaxIdle time.Duration
	Clock   core.TimeProvider
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(opts SessionStoreOptions) *SessionStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "session:"
	}
	maxIdle := opts.MaxIdle
	if maxIdle <= 0 {
		maxIdle = 24 * time.Hour
	}
	clock := opts.Clock
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	return &SessionStore{
		client:  opts.Client,
		prefix:  prefix,
		maxIdle: maxIdle,
		clock:   clock,
	}
}

// Create stores a new session record with the idle TTL.
func (s *SessionStore) Create(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return apperrors.Validation("session id is required")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.prefix+sess.ID, data, s.maxIdle)
	pipe.SAdd(ctx, s.userKey(sess.UserID), sess.ID)
	pipe.Expire(ctx, s.userKey(sess.UserID), s.maxIdle)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

// Get returns the session or a not_found error.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (domainauth.Session, error) {
	if sessionID == "" {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}

	data, err := s.client.Get(ctx, s.prefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, apperrors.NotFound("session not found")
		}
		return domainauth.Session{}, fmt.Errorf("redis get session: %w", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	// TTL should have evicted this already; be defensive about clock skew.
	// Delete the keys directly rather than via Revoke, which reads through
	// Get and would loop on a stale record.
	if sess.IdleSince(s.clock.Now()) > s.maxIdle {
		pipe := s.client.TxPipeline()
		pipe.Del(ctx, s.prefix+sessionID)
		pipe.SRem(ctx, s.userKey(sess.UserID), sessionID)
		_, _ = pipe.Exec(ctx)
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}
	return sess, nil
}

// Touch updates LastActivity and renews the idle TTL.
func (s *SessionStore) Touch(ctx context.Context, sessionID string, at time.Time) error {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.LastActivity = at

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+sessionID, data, s.maxIdle).Err(); err != nil {
		return fmt.Errorf("redis touch session: %w", err)
	}
	return nil
}

// IsActive reports whether the session exists and belongs to the user.
func (s *SessionStore) IsActive(ctx context.Context, userID, sessionID string) bool {
	sess, err := s.Get(ctx, sessionID)
	return err == nil && sess.UserID == userID
}

// Revoke removes the session. Idempotent.
func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.prefix+sessionID)
	pipe.SRem(ctx, s.userKey(sess.UserID), sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis revoke session: %w", err)
	}
	return nil
}

// RevokeAll removes every session for the user.
func (s *SessionStore) RevokeAll(ctx context.Context, userID string) (int, error) {
	ids, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis list user sessions: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.prefix+id)
	}
	keys = append(keys, s.userKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("redis revoke user sessions: %w", err)
	}
	return len(ids), nil
}

// SweepIdle is a no-op for the Redis store: the idle TTL set on every write
// performs the eviction server-side.
func (s *SessionStore) SweepIdle(context.Context, time.Duration) (int, error) {
	return 0, nil
}

func (s *SessionStore) userKey(userID string) string {
	return s.prefix + "user:" + userID
}

var _ core.SessionStore = (*SessionStore)(nil)
