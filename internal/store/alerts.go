package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/campushq/campus-trust/internal/core"
	"github.com/campushq/campus-trust/internal/domain/model"
	apperrors "github.com/campushq/campus-trust/internal/errors"
)

// AlertStore holds fired alerts in memory. Alerts are never deleted;
// the retention sweep moves stale ones into the archived state.
type AlertStore struct {
	mu     sync.RWMutex
	alerts map[string]model.Alert
	order  []string
	clock  core.TimeProvider
}

// NewAlertStore creates an empty alert store.
func NewAlertStore(clock core.TimeProvider) *AlertStore {
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	return &AlertStore{
		alerts: make(map[string]model.Alert),
		clock:  clock,
	}
}

// Create stores a new alert.
func (s *AlertStore) Create(_ context.Context, alert model.Alert) error {
	if alert.ID == "" {
		return apperrors.Validation("alert id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.alerts[alert.ID]; !exists {
		s.order = append(s.order, alert.ID)
	}
	s.alerts[alert.ID] = alert
	return nil
}

// Get returns the alert or a not_found error.
func (s *AlertStore) Get(_ context.Context, id string) (model.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.alerts[id]
	if !ok {
		return model.Alert{}, apperrors.NotFound("alert not found")
	}
	return a, nil
}

// Query returns alerts matching the filters, newest first.
func (s *AlertStore) Query(_ context.Context, q model.AlertQuery) []model.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Alert
	for _, id := range s.order {
		a := s.alerts[id]
		if q.Matches(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// Acknowledge marks an active alert acknowledged. Idempotent for alerts
// already acknowledged; not_found for unknown IDs.
func (s *AlertStore) Acknowledge(_ context.Context, id, by string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return apperrors.NotFound("alert not found")
	}
	if a.Acknowledged {
		return nil
	}
	now := s.clock.Now()
	a.Acknowledged = true
	a.AcknowledgedBy = by
	a.AcknowledgedAt = &now
	a.Status = model.AlertStatusAcknowledged
	s.alerts[id] = a
	return nil
}

// Stats summarizes alerts for a tenant (empty tenantID means all tenants).
func (s *AlertStore) Stats(_ context.Context, tenantID string) model.AlertStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats model.AlertStats
	for _, a := range s.alerts {
		if tenantID != "" && a.TenantID != tenantID {
			continue
		}
		stats.Total++
		switch a.Severity {
		case model.SeverityCritical:
			stats.Critical++
		case model.SeverityHigh:
			stats.High++
		case model.SeverityMedium:
			stats.Medium++
		case model.SeverityLow:
			stats.Low++
		}
		if a.Status == model.AlertStatusActive {
			stats.Active++
		}
	}
	return stats
}

// ArchiveOlderThan archives alerts created before the cutoff.
func (s *AlertStore) ArchiveOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	archived := 0
	for id, a := range s.alerts {
		if a.Status == model.AlertStatusArchived || !a.CreatedAt.Before(cutoff) {
			continue
		}
		a.Status = model.AlertStatusArchived
		s.alerts[id] = a
		archived++
	}
	return archived, nil
}

var _ core.AlertStore = (*AlertStore)(nil)
