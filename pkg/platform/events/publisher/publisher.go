// Package publisher emits events to an events.Store.
//
// Committed events (certificate_issued, batch_completed, batch_created) are always
// written synchronously and fail closed: if the write fails the caller's operation
// must fail, which rolls the registry change back with it. Operational events may
// be buffered and written in the background when WithAsyncBuffer is set.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	id "soulmint/pkg/domain"
	"soulmint/pkg/platform/events"
	"soulmint/pkg/requestcontext"
)

// ErrBufferFull is returned when an operational event is dropped.
var ErrBufferFull = errors.New("event buffer full")

type Publisher struct {
	store   events.Store
	logger  *slog.Logger
	metrics *Metrics

	buffer    chan events.Event
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithAsyncBuffer enables background writes of operational events.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan events.Event, size)
		}
	}
}

func NewPublisher(store events.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit stamps and persists the event. ID, timestamp and request ID are filled from ctx when unset.
func (p *Publisher) Emit(ctx context.Context, event events.Event) error {
	if event.Kind == "" {
		return fmt.Errorf("event requires Kind")
	}
	if event.ID.IsNil() {
		event.ID = id.NewEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if p.buffer == nil || event.Kind.Category() == events.CategoryCommitted {
		return p.persist(ctx, event)
	}

	select {
	case p.buffer <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.incDropped()
		if p.logger != nil {
			p.logger.WarnContext(ctx, "event buffer full, dropping event",
				"kind", event.Kind,
				"batch_id", event.BatchID.String(),
			)
		}
		return ErrBufferFull
	}
}

func (p *Publisher) persist(ctx context.Context, event events.Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.incPersistFailures()
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "event persistence failed",
				"kind", event.Kind,
				"batch_id", event.BatchID.String(),
				"error", err,
			)
		}
		return fmt.Errorf("persist %s event: %w", event.Kind, err)
	}
	p.metrics.incEmitted(string(event.Kind))
	return nil
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		_ = p.persist(context.Background(), event)
	}
}

// List returns the persisted events for a batch.
func (p *Publisher) List(ctx context.Context, batchID id.BatchID) ([]events.Event, error) {
	return p.store.ListByBatch(ctx, batchID)
}

// Close drains buffered events. Emit must not be called after Close.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() {
		if p.buffer != nil {
			close(p.buffer)
			p.wg.Wait()
		}
	})
	return nil
}
