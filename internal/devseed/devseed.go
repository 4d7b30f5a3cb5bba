// Package devseed populates a development instance with demo data so a
// fresh checkout has something to look at: a demo API key, a burst of
// failed logins that trips the brute-force rule, and a handful of benign
// events for the risk scorer.
package devseed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campushq/campus-trust/internal/core"
	"github.com/campushq/campus-trust/internal/domain/model"
	"github.com/campushq/campus-trust/internal/service"
)

const (
	demoTenant = "tenant-demo"
	demoUser   = "user-demo"
)

// Deps are the services the seeder writes through. Going through the
// services, not the stores, keeps seeded data on the same code paths as
// production traffic.
type Deps struct {
	APIKeys *service.APIKeyService
	Engine  *service.RuleEngine
	Events  core.EventLog
	Logger  *slog.Logger
}

// Run seeds demo data. It is only called in dev mode and is idempotent
// enough for repeated restarts: the API key is re-issued each run, and
// events simply accumulate until the retention purge.
func Run(ctx context.Context, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	issued, err := deps.APIKeys.Issue(ctx, model.CreateAPIKeyRequest{
		Name:        "demo-integration",
		TenantID:    demoTenant,
		Permissions: []string{"events:read", "alerts:read"},
		RateLimit:   60,
	})
	if err != nil {
		return fmt.Errorf("seed demo api key: %w", err)
	}
	// The raw key is only recoverable at issue time, so log it for the
	// developer. Dev mode only.
	logger.InfoContext(ctx, "seeded demo api key", "key", issued.RawKey)

	if err := seedEvents(ctx, deps); err != nil {
		return err
	}

	logger.InfoContext(ctx, "dev seed complete", "tenant", demoTenant)
	return nil
}

// seedEvents records enough failed logins to cross the brute-force
// threshold, plus a couple of benign events, then runs one evaluation pass
// so the demo tenant starts with a visible alert.
func seedEvents(ctx context.Context, deps Deps) error {
	for i := 0; i < 5; i++ {
		_, err := deps.Events.Record(ctx, model.RecordEventRequest{
			Type:     model.EventTypeLoginFailed,
			UserID:   demoUser,
			TenantID: demoTenant,
			Severity: model.SeverityMedium,
			Data:     map[string]any{"ip": "203.0.113.7", "reason": "bad password"},
		})
		if err != nil {
			return fmt.Errorf("seed login failure: %w", err)
		}
	}

	_, err := deps.Events.Record(ctx, model.RecordEventRequest{
		Type:     model.EventTypeLoginSuccess,
		UserID:   demoUser,
		TenantID: demoTenant,
		Severity: model.SeverityLow,
		Data:     map[string]any{"ip": "203.0.113.7"},
	})
	if err != nil {
		return fmt.Errorf("seed login success: %w", err)
	}

	deps.Engine.ProcessUnprocessed(ctx)
	return nil
}
