package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/campushq/campus-trust/internal/domain/model"
	"github.com/campushq/campus-trust/internal/observability/notify"
)

// SinkRegistration pairs a sink with a human-readable name for logging.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// AlertDispatcher fans fired alerts out to registered sinks through a
// bounded channel. Notify never blocks: when the buffer is full the alert is
// dropped with a log line, which is acceptable because the alert itself is
// already persisted in the alert store.
type AlertDispatcher struct {
	queue  chan model.Alert
	sinks  []SinkRegistration
	logger *slog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	done      chan struct{}
	drained   chan struct{}
}

// AlertDispatcherOptions configures the dispatcher.
type AlertDispatcherOptions struct {
	Sinks      []SinkRegistration
	BufferSize int
	Logger     *slog.Logger
}

// NewAlertDispatcher constructs a dispatcher. A zero BufferSize defaults to 256.
func NewAlertDispatcher(opts AlertDispatcherOptions) *AlertDispatcher {
	size := opts.BufferSize
	if size <= 0 {
		size = 256
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		if entry.Name == "" {
			entry.Name = "sink"
		}
		sinks = append(sinks, entry)
	}

	return &AlertDispatcher{
		queue:   make(chan model.Alert, size),
		sinks:   sinks,
		logger:  logger,
		done:    make(chan struct{}),
		drained: make(chan struct{}),
	}
}

// Start launches the drain loop. Safe to call once; subsequent calls are no-ops.
func (d *AlertDispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		d.started.Store(true)
		go d.drain(ctx)
	})
}

// Notify enqueues the alert for delivery without blocking.
func (d *AlertDispatcher) Notify(alert model.Alert) {
	select {
	case d.queue <- alert:
	default:
		d.logger.Warn("alert dispatch queue full, dropping delivery",
			"alert_id", alert.ID, "rule_id", alert.RuleID)
	}
}

// Stop ends the drain loop after the queue empties. If the dispatcher was
// never started there is no loop to wait for, so Stop returns immediately.
func (d *AlertDispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.done)
	})
	if !d.started.Load() {
		return
	}
	<-d.drained
}

func (d *AlertDispatcher) drain(ctx context.Context) {
	defer close(d.drained)
	for {
		select {
		case alert := <-d.queue:
			d.deliver(ctx, alert)
		case <-ctx.Done():
			return
		case <-d.done:
			// Flush whatever is already queued, then exit.
			for {
				select {
				case alert := <-d.queue:
					d.deliver(ctx, alert)
				default:
					return
				}
			}
		}
	}
}

// deliver sends the alert to every sink concurrently. A failing sink is
// logged and never retried; the alert remains queryable in the store.
func (d *AlertDispatcher) deliver(ctx context.Context, alert model.Alert) {
	if len(d.sinks) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, entry := range d.sinks {
		wg.Add(1)
		go func(entry SinkRegistration) {
			defer wg.Done()
			if err := entry.Sink.SendAlert(ctx, alert); err != nil {
				d.logger.ErrorContext(ctx, "alert delivery failed",
					"sink", entry.Name,
					"alert_id", alert.ID,
					"error", err)
			}
		}(entry)
	}
	wg.Wait()
}
