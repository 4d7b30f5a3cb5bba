// Package store provides the in-memory, mutex-guarded implementations of
// the trust core's stateful ports. State is process-local and ephemeral;
// deployments needing cross-instance consistency swap in the adapters under
// internal/adapters behind the same interfaces.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/campushq/campus-trust/internal/core"
	domainauth "github.com/campushq/campus-trust/internal/domain/auth"
	apperrors "github.com/campushq/campus-trust/internal/errors"
)

// SessionStore is the in-memory session registry. All access is serialized
// through a single mutex; operations complete in microseconds.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
	byUser   map[string]map[string]struct{}
	clock    core.TimeProvider
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore(clock core.TimeProvider) *SessionStore {
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	return &SessionStore{
		sessions: make(map[string]domainauth.Session),
		byUser:   make(map[string]map[string]struct{}),
		clock:    clock,
	}
}

// Create stores a new session record.
func (s *SessionStore) Create(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return apperrors.Validation("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
	ids, ok := s.byUser[sess.UserID]
	if !ok {
		ids = make(map[string]struct{})
		s.byUser[sess.UserID] = ids
	}
	ids[sess.ID] = struct{}{}
	return nil
}

// Get returns the session or a not_found error.
func (s *SessionStore) Get(_ context.Context, sessionID string) (domainauth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}
	return sess, nil
}

// Touch updates the session's LastActivity.
func (s *SessionStore) Touch(_ context.Context, sessionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return apperrors.NotFound("session not found")
	}
	sess.LastActivity = at
	s.sessions[sessionID] = sess
	return nil
}

// IsActive reports whether the session exists and belongs to the user.
func (s *SessionStore) IsActive(_ context.Context, userID, sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	return ok && sess.UserID == userID
}

// Revoke removes the session. Idempotent.
func (s *SessionStore) Revoke(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(sessionID)
	return nil
}

// RevokeAll removes every session for the user.
func (s *SessionStore) RevokeAll(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byUser[userID]
	removed := 0
	for id := range ids {
		s.remove(id)
		removed++
	}
	return removed, nil
}

// SweepIdle removes sessions idle longer than maxIdle.
func (s *SessionStore) SweepIdle(_ context.Context, maxIdle time.Duration) (int, error) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	for id, sess := range s.sessions {
		if sess.IdleSince(now) > maxIdle {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		s.remove(id)
	}
	return len(expired), nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// remove deletes a session from both indexes. Caller holds the write lock.
func (s *SessionStore) remove(sessionID string) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	delete(s.sessions, sessionID)
	if ids, ok := s.byUser[sess.UserID]; ok {
		delete(ids, sessionID)
		if len(ids) == 0 {
			delete(s.byUser, sess.UserID)
		}
	}
}

var _ core.SessionStore = (*SessionStore)(nil)
