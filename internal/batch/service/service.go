package service

import (
	"context"
	"errors"
	"log/slog"

	batchmetrics "soulmint/internal/batch/metrics"
	"soulmint/internal/batch/models"
	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
	"soulmint/pkg/platform/events"
	"soulmint/pkg/platform/sentinel"
	txcontext "soulmint/pkg/platform/tx"
	"soulmint/pkg/requestcontext"
)

// Store persists batch registries.
type Store interface {
	Create(ctx context.Context, batch *models.Batch) error
	FindByID(ctx context.Context, batchID id.BatchID) (*models.Batch, error)
}

// EventEmitter persists batch notifications.
type EventEmitter interface {
	Emit(ctx context.Context, event events.Event) error
}

// Service creates and reads batch registries.
type Service struct {
	store   Store
	emitter EventEmitter
	tx      txcontext.Runner
	logger  *slog.Logger
	metrics *batchmetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *batchmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithEventEmitter(e EventEmitter) Option {
	return func(s *Service) {
		s.emitter = e
	}
}

// WithTx sets the transactional boundary shared by the store and the event emitter.
func WithTx(tx txcontext.Runner) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = &txcontext.LocalRunner{}
	}
	return s
}

// CreateBatch initializes a registry administered by cmd.Authority.
func (s *Service) CreateBatch(ctx context.Context, cmd models.CreateBatchCommand) (*models.Batch, error) {
	now := requestcontext.Now(ctx)
	batch, err := models.NewBatch(id.NewBatchID(), cmd.Authority, cmd.Treasury, cmd.FeeAmount, cmd.Cap, cmd.VoucherSigner, now)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Create(txCtx, batch); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "authority already administers a batch")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create batch")
		}
		if s.emitter == nil {
			return nil
		}
		return s.emitter.Emit(txCtx, events.Event{
			Kind:    events.KindBatchCreated,
			BatchID: batch.ID,
			Actor:   batch.Authority,
			Count:   batch.Cap,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncCreated()
	s.logger.InfoContext(ctx, "batch created",
		"batch_id", batch.ID.String(),
		"authority", batch.Authority.String(),
		"cap", batch.Cap,
		"fee_amount", batch.FeeAmount,
		"request_id", requestcontext.RequestID(ctx),
	)
	return batch, nil
}

// GetBatch returns the registry state.
func (s *Service) GetBatch(ctx context.Context, batchID id.BatchID) (*models.Batch, error) {
	if batchID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "batch ID required")
	}
	batch, err := s.store.FindByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "batch not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load batch")
	}
	return batch, nil
}
