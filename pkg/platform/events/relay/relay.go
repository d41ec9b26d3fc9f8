// Package relay moves committed events from the outbox to a downstream sink.
//
// Delivery is at-least-once: events are marked published only after the sink
// accepts them, so a crash between the two re-delivers the batch. Consumers
// dedupe on the event ID.
package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	id "soulmint/pkg/domain"
	"soulmint/pkg/platform/events"
)

const (
	defaultInterval  = time.Second
	defaultBatchSize = 100
)

// Sink accepts a batch of events. It must be all-or-nothing from the relay's view.
type Sink interface {
	Publish(ctx context.Context, batch []events.Event) error
}

// Metrics tracks relay throughput.
type Metrics struct {
	Relayed  prometheus.Counter
	Failures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Relayed: f.NewCounter(prometheus.CounterOpts{
			Name: "soulmint_outbox_relayed_total",
			Help: "Total number of outbox events delivered to the sink",
		}),
		Failures: f.NewCounter(prometheus.CounterOpts{
			Name: "soulmint_outbox_relay_failures_total",
			Help: "Total number of failed relay passes",
		}),
	}
}

// Relay polls an outbox and publishes pending events.
type Relay struct {
	outbox    events.Outbox
	sink      Sink
	logger    *slog.Logger
	metrics   *Metrics
	interval  time.Duration
	batchSize int
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(r *Relay) { r.metrics = m }
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func New(outbox events.Outbox, sink Sink, opts ...Option) *Relay {
	r := &Relay{
		outbox:    outbox,
		sink:      sink,
		logger:    slog.Default(),
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays until ctx is cancelled. Pass failures are logged and retried on the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.ErrorContext(ctx, "outbox relay pass failed", "error", err)
			}
		}
	}
}

// RelayOnce publishes up to one batch of pending events and returns how many were delivered.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	pending, err := r.outbox.Pending(ctx, r.batchSize)
	if err != nil {
		r.incFailures()
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	if err := r.sink.Publish(ctx, pending); err != nil {
		r.incFailures()
		return 0, err
	}
	ids := make([]id.EventID, len(pending))
	for i, e := range pending {
		ids[i] = e.ID
	}
	if err := r.outbox.MarkPublished(ctx, ids, time.Now()); err != nil {
		r.incFailures()
		return 0, err
	}
	if r.metrics != nil {
		r.metrics.Relayed.Add(float64(len(pending)))
	}
	return len(pending), nil
}

func (r *Relay) incFailures() {
	if r.metrics != nil {
		r.metrics.Failures.Inc()
	}
}

// LogSink writes events to a logger. Used when no broker is configured.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Publish(ctx context.Context, batch []events.Event) error {
	for _, e := range batch {
		s.Logger.InfoContext(ctx, "event",
			"event_id", e.ID.String(),
			"kind", e.Kind,
			"batch_id", e.BatchID.String(),
			"certificate_id", e.CertificateID.String(),
			"count", e.Count,
		)
	}
	return nil
}
