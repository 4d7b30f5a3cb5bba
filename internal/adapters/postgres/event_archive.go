// Package postgres provides durable adapters backed by PostgreSQL for
// deployments that need audit retention beyond the in-memory horizon.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campushq/campus-trust/internal/core"
	"github.com/campushq/campus-trust/internal/domain/model"
	apperrors "github.com/campushq/campus-trust/internal/errors"
)

// EventArchive writes security events through to a Postgres table. It is an
// optional sink behind the in-memory event log; callers treat failures as
// non-fatal.
type EventArchive struct {
	pool *pgxpool.Pool
}

// NewEventArchive wraps the given pool.
func NewEventArchive(pool *pgxpool.Pool) *EventArchive {
	return &EventArchive{pool: pool}
}

// Archive inserts the event. Duplicate IDs map to a conflict AppError so the
// caller can tell a retry from a genuine failure.
func (a *EventArchive) Archive(ctx context.Context, event model.SecurityEvent) error {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	_, err = a.pool.Exec(ctx, `
		INSERT INTO security_events (id, event_type, user_id, tenant_id, severity, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, event.ID, event.Type, event.UserID, event.TenantID, string(event.Severity), payload, event.Timestamp)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// PurgeOlderThan deletes archived events created before the cutoff and
// returns how many rows were removed.
func (a *EventArchive) PurgeOlderThan(ctx context.Context, olderThan time.Time) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM security_events WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return int(tag.RowsAffected()), nil
}

var _ core.EventArchive = (*EventArchive)(nil)
