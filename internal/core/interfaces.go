// Package core defines the ports (hexagonal interfaces) of the trust core.
// Service implementations depend on these interfaces; concrete stores live
// in internal/store (in-memory) and internal/adapters (Redis, Postgres).
package core

import (
	"context"
	"time"

	domainauth "github.com/campushq/campus-trust/internal/domain/auth"
	"github.com/campushq/campus-trust/internal/domain/model"
)

// SessionStore is the registry of active login sessions. A session is the
// sole source of truth for whether a token pair issued for it is still
// honorable.
type SessionStore interface {
	// Create stores a new session and returns its generated ID.
	Create(ctx context.Context, sess domainauth.Session) error

	// Get returns the session or a not_found AppError.
	Get(ctx context.Context, sessionID string) (domainauth.Session, error)

	// Touch updates the session's LastActivity. No-op not_found when the
	// session does not exist.
	Touch(ctx context.Context, sessionID string, at time.Time) error

	// IsActive reports whether the session exists and belongs to the user.
	IsActive(ctx context.Context, userID, sessionID string) bool

	// Revoke removes the session. Idempotent.
	Revoke(ctx context.Context, sessionID string) error

	// RevokeAll removes every session for the user and returns how many
	// were removed. Idempotent.
	RevokeAll(ctx context.Context, userID string) (int, error)

	// SweepIdle removes sessions idle for longer than maxIdle and returns
	// how many were removed.
	SweepIdle(ctx context.Context, maxIdle time.Duration) (int, error)
}

// RevocationList is a deny-list of tokens invalidated before their natural
// expiry. Entries self-expire after their eviction deadline.
type RevocationList interface {
	// Add blacklists the raw token until ttl elapses.
	Add(ctx context.Context, token string, ttl time.Duration) error

	// Contains reports whether the token is currently blacklisted.
	Contains(ctx context.Context, token string) bool

	// Sweep drops entries past their deadline and returns how many were
	// removed.
	Sweep(ctx context.Context) (int, error)
}

// RateLimiter meters requests per key over an exact sliding window.
// Keys from distinct logical limiters must not collide; callers namespace
// them (e.g. "auth:ip:1.2.3.4").
type RateLimiter interface {
	// Allow records the request and returns true when the key has made
	// fewer than maxRequests requests in the trailing window. When the
	// limit is exceeded nothing is recorded and Allow returns false.
	Allow(key string, maxRequests int, window time.Duration) bool

	// RetryAfter returns the duration until the oldest in-window request
	// for the key leaves the window. Zero when the key is under its limit
	// or unknown.
	RetryAfter(key string, window time.Duration) time.Duration
}

// EventLog is the append-only, queryable store of security events.
type EventLog interface {
	// Record appends a new event, assigning its ID and timestamp.
	Record(ctx context.Context, req model.RecordEventRequest) (model.SecurityEvent, error)

	// Query returns events matching the filters, newest first.
	Query(ctx context.Context, q model.EventQuery) []model.SecurityEvent

	// Unprocessed returns events not yet evaluated by the rule engine, in
	// insertion order.
	Unprocessed(ctx context.Context) []model.SecurityEvent

	// MarkProcessed flips the processed flag for the given event IDs.
	// The transition happens exactly once per event.
	MarkProcessed(ctx context.Context, eventIDs []string) int

	// CountInWindow counts events of the given type inside [until-window, until].
	CountInWindow(ctx context.Context, eventType string, until time.Time, window time.Duration) int

	// Purge hard-deletes events older than the horizon and returns how many
	// were removed.
	Purge(ctx context.Context, olderThan time.Time) (int, error)
}

// EventArchive is an optional durable write-through target for security
// events, for deployments that need audit retention beyond the in-memory
// horizon. Archive failures never fail Record.
type EventArchive interface {
	Archive(ctx context.Context, event model.SecurityEvent) error
	PurgeOlderThan(ctx context.Context, olderThan time.Time) (int, error)
}

// AlertStore holds fired alerts through their lifecycle.
type AlertStore interface {
	Create(ctx context.Context, alert model.Alert) error
	Get(ctx context.Context, id string) (model.Alert, error)
	Query(ctx context.Context, q model.AlertQuery) []model.Alert
	Acknowledge(ctx context.Context, id, by string) error
	Stats(ctx context.Context, tenantID string) model.AlertStats

	// ArchiveOlderThan moves active/acknowledged alerts created before the
	// cutoff into the archived state and returns how many were archived.
	ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// APIKeyStore holds registered machine credentials.
type APIKeyStore interface {
	Create(ctx context.Context, key model.APIKey) error
	Get(ctx context.Context, keyID string) (model.APIKey, error)
	TouchLastUsed(ctx context.Context, keyID string, at time.Time) error
	Delete(ctx context.Context, keyID string) error
}

// AlertNotifier receives fired alerts for delivery to external channels.
// Implementations must not block rule evaluation; the dispatcher enqueues
// into a bounded buffer and drops with a log line when it is full.
type AlertNotifier interface {
	Notify(alert model.Alert)
}
