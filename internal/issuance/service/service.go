// Package service implements the capped-batch issuance workflow.
//
// An issuance runs under a per-batch lock: the registry is loaded, the guards
// run without side effects, then nine ordered stages drive the ledger
// collaborators. Every stage with an inverse records it in a compensation log;
// on any failure the log is unwound newest first before the error is returned,
// so a failed request leaves no observable effect. The final stage advances
// the counter with a compare-and-swap and writes the notifications in the same
// transaction.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	batchmetrics "soulmint/internal/batch/metrics"
	batchmodels "soulmint/internal/batch/models"
	issuancemetrics "soulmint/internal/issuance/metrics"
	"soulmint/internal/issuance/models"
	dErrors "soulmint/pkg/domain-errors"
	"soulmint/pkg/platform/events"
	"soulmint/pkg/platform/sentinel"
	"soulmint/pkg/requestcontext"
)

const tracerName = "soulmint/internal/issuance"

// Collaborators are the ledger-side modules the workflow drives.
type Collaborators struct {
	Bank      Bank
	Allocator Allocator
	Tokens    TokenLedger
	Metadata  MetadataService
}

// Service issues certificates against batch registries.
type Service struct {
	registry     Registry
	locker       Locker
	bank         Bank
	allocator    Allocator
	tokens       TokenLedger
	metadata     MetadataService
	emitter      EventEmitter
	vouchers     VoucherVerifier
	logger       *slog.Logger
	metrics      *issuancemetrics.Metrics
	batchMetrics *batchmetrics.Metrics
	tracer       trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *issuancemetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBatchMetrics counts batch completions observed by issuance.
func WithBatchMetrics(m *batchmetrics.Metrics) Option {
	return func(s *Service) {
		s.batchMetrics = m
	}
}

// WithVoucherVerifier enables voucher checks for batches that name a signer.
// Without a verifier such batches reject every issuance.
func WithVoucherVerifier(v VoucherVerifier) Option {
	return func(s *Service) {
		s.vouchers = v
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(registry Registry, locker Locker, collab Collaborators, emitter EventEmitter, opts ...Option) *Service {
	s := &Service{
		registry:  registry,
		locker:    locker,
		bank:      collab.Bank,
		allocator: collab.Allocator,
		tokens:    collab.Tokens,
		metadata:  collab.Metadata,
		emitter:   emitter,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue issues one certificate to cmd.Requester against cmd.BatchID.
func (s *Service) Issue(ctx context.Context, cmd models.IssueCommand) (receipt *models.Receipt, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "issuance.issue", trace.WithAttributes(
		attribute.String("batch_id", cmd.BatchID.String()),
		attribute.String("certificate_id", cmd.CertificateID.String()),
	))
	defer span.End()
	defer func() {
		s.metrics.ObserveIssue(start)
		if err != nil {
			s.metrics.IncOutcome(string(dErrors.CodeOf(err)))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		s.metrics.IncOutcome("issued")
	}()

	if err := validateCommand(cmd); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, cmd.BatchID)
	if err != nil {
		return nil, err
	}
	defer release()

	batch, err := s.registry.FindByID(ctx, cmd.BatchID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "batch not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load batch")
	}

	if err := s.checkGuards(batch, cmd); err != nil {
		s.rejected(ctx, cmd, err)
		return nil, err
	}

	is := &issuance{cmd: cmd, batch: batch}
	updated, err := s.execute(ctx, is)
	if err != nil {
		s.unwind(ctx, is)
		s.rejected(ctx, cmd, err)
		return nil, err
	}

	if updated.Completed {
		s.batchMetrics.IncCompleted()
		s.logger.InfoContext(ctx, "batch completed",
			"batch_id", updated.ID.String(),
			"final_count", updated.IssuedCount,
		)
	}
	s.logger.InfoContext(ctx, "certificate issued",
		"batch_id", updated.ID.String(),
		"certificate_id", cmd.CertificateID.String(),
		"requester", cmd.Requester.String(),
		"issued_count", updated.IssuedCount,
		"request_id", requestcontext.RequestID(ctx),
	)

	return &models.Receipt{
		BatchID:       updated.ID,
		CertificateID: cmd.CertificateID,
		Holder:        cmd.Requester,
		Name:          cmd.Name,
		URI:           cmd.URI,
		FeePaid:       batch.FeeAmount,
		IssuedCount:   updated.IssuedCount,
		Cap:           updated.Cap,
		Completed:     updated.Completed,
	}, nil
}

// execute runs the nine stages in protocol order.
func (s *Service) execute(ctx context.Context, is *issuance) (*batchmodels.Batch, error) {
	fee, err := s.collectFee(ctx, is)
	if err != nil {
		return nil, err
	}
	rec, err := s.allocate(ctx, is, fee)
	if err != nil {
		return nil, err
	}
	marked, err := s.initMarker(ctx, is, rec)
	if err != nil {
		return nil, err
	}
	mintable, err := s.initMint(ctx, is, marked)
	if err != nil {
		return nil, err
	}
	slot, err := s.ensureHolding(ctx, is, mintable)
	if err != nil {
		return nil, err
	}
	unit, err := s.issue(ctx, mintable, slot)
	if err != nil {
		return nil, err
	}
	finalized, err := s.revokeAuthority(ctx, unit)
	if err != nil {
		return nil, err
	}
	finalized, err = s.attachMetadata(ctx, is, finalized)
	if err != nil {
		return nil, err
	}
	return s.advanceRegistry(ctx, is, finalized)
}

func validateCommand(cmd models.IssueCommand) error {
	if cmd.BatchID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "batch ID required")
	}
	if cmd.CertificateID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "certificate ID required")
	}
	if cmd.Requester.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "requester required")
	}
	return nil
}

// checkGuards runs every precondition in order. None has side effects.
func (s *Service) checkGuards(batch *batchmodels.Batch, cmd models.IssueCommand) error {
	if err := batch.CanIssue(); err != nil {
		return err
	}
	if len(cmd.Name) > models.MaxNameLength {
		return models.ErrNameTooLong
	}
	if len(cmd.URI) > models.MaxURILength {
		return models.ErrURITooLong
	}
	if cmd.Treasury != batch.Treasury {
		return models.ErrTreasuryMismatch
	}
	if batch.RequiresVoucher() {
		if s.vouchers == nil || len(cmd.Voucher) == 0 {
			return models.ErrInvalidVoucher
		}
		if err := s.vouchers.Verify(cmd.Requester, batch.ID, cmd.CertificateID, cmd.Voucher, batch.VoucherSigner); err != nil {
			return fmt.Errorf("%w: %w", models.ErrInvalidVoucher, err)
		}
	}
	return nil
}

// registryFailure translates a failed counter advance. Losing the
// compare-and-swap is reported as the state the winner left behind.
func (s *Service) registryFailure(ctx context.Context, is *issuance, err error) error {
	switch {
	case errors.Is(err, batchmodels.ErrBatchTriggered), errors.Is(err, batchmodels.ErrMaxMintsReached):
		return err
	case errors.Is(err, sentinel.ErrConflict):
		if current, findErr := s.registry.FindByID(ctx, is.batch.ID); findErr == nil {
			if stateErr := current.CanIssue(); stateErr != nil {
				return stateErr
			}
		}
		return dErrors.Wrap(err, dErrors.CodeConflict, "batch changed during issuance")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "batch not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to advance batch")
	}
}

// unwind runs compensations newest first. It ignores cancellation of the
// request so a disconnected caller cannot strand partial state. Failures are
// logged and counted and unwinding continues.
func (s *Service) unwind(ctx context.Context, is *issuance) {
	ctx = context.WithoutCancel(ctx)
	for i := len(is.comp.entries) - 1; i >= 0; i-- {
		c := is.comp.entries[i]
		err := c.undo(ctx)
		s.metrics.IncCompensation(string(c.stage), err == nil)
		if err == nil {
			continue
		}
		s.logger.ErrorContext(ctx, "compensation failed",
			"stage", c.stage,
			"batch_id", is.cmd.BatchID.String(),
			"certificate_id", is.cmd.CertificateID.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		s.emitOperational(ctx, events.Event{
			Kind:          events.KindCompensationFailed,
			BatchID:       is.cmd.BatchID,
			Actor:         is.cmd.Requester,
			CertificateID: is.cmd.CertificateID,
			Reason:        fmt.Sprintf("%s: %v", c.stage, err),
		})
	}
}

func (s *Service) rejected(ctx context.Context, cmd models.IssueCommand, err error) {
	code := dErrors.CodeOf(err)
	attrs := []any{
		"batch_id", cmd.BatchID.String(),
		"certificate_id", cmd.CertificateID.String(),
		"requester", cmd.Requester.String(),
		"code", code,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	}
	switch code {
	case dErrors.CodeInternal, dErrors.CodeProtocol:
		s.logger.ErrorContext(ctx, "issuance failed", attrs...)
	default:
		s.logger.WarnContext(ctx, "issuance rejected", attrs...)
	}
	s.emitOperational(context.WithoutCancel(ctx), events.Event{
		Kind:          events.KindIssuanceRejected,
		BatchID:       cmd.BatchID,
		Actor:         cmd.Requester,
		CertificateID: cmd.CertificateID,
		Reason:        string(code),
	})
}

// emitOperational is best effort; the outcome of the request never depends on it.
func (s *Service) emitOperational(ctx context.Context, event events.Event) {
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "operational event dropped",
			"kind", event.Kind,
			"batch_id", event.BatchID.String(),
			"error", err,
		)
	}
}

func (s *Service) now(ctx context.Context) time.Time {
	return requestcontext.Now(ctx)
}
