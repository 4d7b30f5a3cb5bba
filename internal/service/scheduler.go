package service

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/campushq/campus-trust/internal/core"
)

// SchedulerConfig carries the cadences and retention horizons of the
// background sweeps.
type SchedulerConfig struct {
	SessionSweepInterval time.Duration
	RuleEvalInterval     time.Duration
	RetentionInterval    time.Duration

	SessionMaxIdle time.Duration
	EventRetention time.Duration
	AlertRetention time.Duration
}

// DefaultSchedulerConfig returns the recommended cadences: hourly session
// sweep, per-minute rule evaluation, daily retention purge.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		SessionSweepInterval: time.Hour,
		RuleEvalInterval:     time.Minute,
		RetentionInterval:    24 * time.Hour,
		SessionMaxIdle:       24 * time.Hour,
		EventRetention:       90 * 24 * time.Hour,
		AlertRetention:       30 * 24 * time.Hour,
	}
}

// Sanitize applies guardrails to zero or negative values.
func (c *SchedulerConfig) Sanitize() {
	def := DefaultSchedulerConfig()
	if c.SessionSweepInterval <= 0 {
		c.SessionSweepInterval = def.SessionSweepInterval
	}
	if c.RuleEvalInterval <= 0 {
		c.RuleEvalInterval = def.RuleEvalInterval
	}
	if c.RetentionInterval <= 0 {
		c.RetentionInterval = def.RetentionInterval
	}
	if c.SessionMaxIdle <= 0 {
		c.SessionMaxIdle = def.SessionMaxIdle
	}
	if c.EventRetention <= 0 {
		c.EventRetention = def.EventRetention
	}
	if c.AlertRetention <= 0 {
		c.AlertRetention = def.AlertRetention
	}
}

// Scheduler drives the periodic sweeps: session-idle expiry, blacklist
// eviction, rule evaluation over unprocessed events, and retention purges.
// The three loops run independently; a panic or error in one tick is caught,
// logged, and never halts the others.
type Scheduler struct {
	sessions core.SessionStore
	revoked  core.RevocationList
	events   core.EventLog
	alerts   core.AlertStore
	engine   *RuleEngine
	cfg      SchedulerConfig
	clock    core.TimeProvider
	logger   *slog.Logger
}

// SchedulerOptions bundles dependencies for NewScheduler.
type SchedulerOptions struct {
	Sessions core.SessionStore
	Revoked  core.RevocationList
	Events   core.EventLog
	Alerts   core.AlertStore
	Engine   *RuleEngine
	Config   *SchedulerConfig
	Clock    core.TimeProvider
	Logger   *slog.Logger
}

// NewScheduler constructs the sweep scheduler.
func NewScheduler(opts SchedulerOptions) *Scheduler {
	cfg := DefaultSchedulerConfig()
	if opts.Config != nil {
		cfg = *opts.Config
		cfg.Sanitize()
	}
	clock := opts.Clock
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		sessions: opts.Sessions,
		revoked:  opts.Revoked,
		events:   opts.Events,
		alerts:   opts.Alerts,
		engine:   opts.Engine,
		cfg:      cfg,
		clock:    clock,
		logger:   logger,
	}
}

// Run starts the three loops and blocks until the context is cancelled.
// Cancellation is a clean shutdown and returns nil.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.loop(ctx, "session_sweep", s.cfg.SessionSweepInterval, s.SweepSessions)
	})
	g.Go(func() error {
		return s.loop(ctx, "rule_eval", s.cfg.RuleEvalInterval, s.EvaluateRules)
	})
	g.Go(func() error {
		return s.loop(ctx, "retention", s.cfg.RetentionInterval, s.PurgeRetention)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// loop runs a task at its interval until the context ends. Each tick is
// wrapped in a panic recovery so a faulty sweep cannot take the process down.
func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, task func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "scheduler loop stopping", "task", name)
			return nil
		case <-ticker.C:
			s.runTask(ctx, name, task)
		}
	}
}

func (s *Scheduler) runTask(ctx context.Context, name string, task func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "scheduler task panicked",
				"task", name,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	if err := task(ctx); err != nil {
		s.logger.ErrorContext(ctx, "scheduler task failed", "task", name, "error", err)
	}
}

// SweepSessions removes idle sessions and expired blacklist entries.
func (s *Scheduler) SweepSessions(ctx context.Context) error {
	removed, err := s.sessions.SweepIdle(ctx, s.cfg.SessionMaxIdle)
	if err != nil {
		return err
	}
	evicted, err := s.revoked.Sweep(ctx)
	if err != nil {
		return err
	}
	if removed > 0 || evicted > 0 {
		s.logger.InfoContext(ctx, "session sweep complete",
			"sessions_removed", removed,
			"blacklist_evicted", evicted)
	}
	return nil
}

// EvaluateRules drives the rule engine over unprocessed events.
func (s *Scheduler) EvaluateRules(ctx context.Context) error {
	events, alerts := s.engine.ProcessUnprocessed(ctx)
	if events > 0 {
		s.logger.InfoContext(ctx, "rule evaluation complete",
			"events_processed", events,
			"alerts_created", alerts)
	}
	return nil
}

// PurgeRetention hard-deletes events past the retention horizon and
// archives stale alerts.
func (s *Scheduler) PurgeRetention(ctx context.Context) error {
	now := s.clock.Now()

	purged, err := s.events.Purge(ctx, now.Add(-s.cfg.EventRetention))
	if err != nil {
		return err
	}
	archived, err := s.alerts.ArchiveOlderThan(ctx, now.Add(-s.cfg.AlertRetention))
	if err != nil {
		return err
	}
	if purged > 0 || archived > 0 {
		s.logger.InfoContext(ctx, "retention purge complete",
			"events_purged", purged,
			"alerts_archived", archived)
	}
	return nil
}
