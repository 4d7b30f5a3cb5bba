package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/campus-trust/internal/core"
	"github.com/campushq/campus-trust/internal/domain/model"
)

// EventLog is the append-only in-memory store of security events. Events are
// immutable after creation except the processed flag. An optional archive
// receives a durable copy of every event; archive failures are logged and
// never fail Record.
type EventLog struct {
	mu      sync.RWMutex
	events  []model.SecurityEvent
	byID    map[string]int
	clock   core.TimeProvider
	archive core.EventArchive
	logger  *slog.Logger
}

// EventLogOptions bundles dependencies for NewEventLog.
type EventLogOptions struct {
	Clock   core.TimeProvider
	Archive core.EventArchive
	Logger  *slog.Logger
}

// NewEventLog creates an empty event log.
func NewEventLog(opts EventLogOptions) *EventLog {
	clock := opts.Clock
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLog{
		byID:    make(map[string]int),
		clock:   clock,
		archive: opts.Archive,
		logger:  logger,
	}
}

// Record appends a new event, assigning its ID and timestamp.
func (l *EventLog) Record(ctx context.Context, req model.RecordEventRequest) (model.SecurityEvent, error) {
	if err := req.Validate(); err != nil {
		return model.SecurityEvent{}, err
	}

	event := model.SecurityEvent{
		ID:        uuid.NewString(),
		Type:      req.Type,
		Data:      req.Data,
		UserID:    req.UserID,
		TenantID:  req.TenantID,
		Severity:  req.Severity,
		Timestamp: l.clock.Now(),
		Processed: false,
	}

	l.mu.Lock()
	l.byID[event.ID] = len(l.events)
	l.events = append(l.events, event)
	l.mu.Unlock()

	if l.archive != nil {
		if err := l.archive.Archive(ctx, event); err != nil {
			l.logger.ErrorContext(ctx, "event archive write failed",
				"event_id", event.ID,
				"event_type", event.Type,
				"error", err)
		}
	}

	return event, nil
}

// Query returns events matching the filters, newest first.
func (l *EventLog) Query(_ context.Context, q model.EventQuery) []model.SecurityEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.SecurityEvent
	for _, e := range l.events {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// Unprocessed returns events awaiting rule evaluation, in insertion order.
func (l *EventLog) Unprocessed(_ context.Context) []model.SecurityEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.SecurityEvent
	for _, e := range l.events {
		if !e.Processed {
			out = append(out, e)
		}
	}
	return out
}

// MarkProcessed flips the processed flag for the given event IDs and returns
// how many events actually transitioned.
func (l *EventLog) MarkProcessed(_ context.Context, eventIDs []string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, id := range eventIDs {
		idx, ok := l.byID[id]
		if !ok || l.events[idx].Processed {
			continue
		}
		l.events[idx].Processed = true
		n++
	}
	return n
}

// CountInWindow counts events of the given type in [until-window, until].
func (l *EventLog) CountInWindow(_ context.Context, eventType string, until time.Time, window time.Duration) int {
	since := until.Add(-window)

	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, e := range l.events {
		if e.Type != eventType {
			continue
		}
		if e.Timestamp.Before(since) || e.Timestamp.After(until) {
			continue
		}
		n++
	}
	return n
}

// Purge hard-deletes events older than the horizon. Purged events are gone
// from near-term detection; audit retention is the archive's concern.
func (l *EventLog) Purge(ctx context.Context, olderThan time.Time) (int, error) {
	l.mu.Lock()

	kept := l.events[:0]
	removed := 0
	for _, e := range l.events {
		if e.Timestamp.Before(olderThan) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	l.events = kept
	l.byID = make(map[string]int, len(kept))
	for i, e := range kept {
		l.byID[e.ID] = i
	}
	l.mu.Unlock()

	if l.archive != nil {
		if _, err := l.archive.PurgeOlderThan(ctx, olderThan); err != nil {
			l.logger.ErrorContext(ctx, "event archive purge failed", "error", err)
		}
	}
	return removed, nil
}

// Len returns the number of retained events.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

var _ core.EventLog = (*EventLog)(nil)
