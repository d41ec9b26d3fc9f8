package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	batchmodels "soulmint/internal/batch/models"
	"soulmint/internal/issuance/models"
	"soulmint/internal/ledger"
	"soulmint/pkg/platform/events"
	"soulmint/pkg/platform/sentinel"
)

// issuance carries one request through the pipeline. Each stage returns a
// typed result that the next stage takes as input, so the stages can only be
// composed in their protocol order.
type issuance struct {
	cmd   models.IssueCommand
	batch *batchmodels.Batch
	comp  compensationLog
}

type feeReceipt struct {
	amount uint64
}

type allocatedRecord struct {
	size int
}

type markedRecord struct {
	allocatedRecord
}

type holdingSlot struct {
	created bool
}

type issuedUnit struct {
	cert *models.MintableCertificate
}

type compensation struct {
	stage models.Stage
	undo  func(ctx context.Context) error
}

// compensationLog records the inverse of every completed stage.
type compensationLog struct {
	entries []compensation
}

func (l *compensationLog) push(stage models.Stage, undo func(ctx context.Context) error) {
	l.entries = append(l.entries, compensation{stage: stage, undo: undo})
}

// runStage wraps one stage in a span and a timing, and classifies collaborator failures.
func (s *Service) runStage(ctx context.Context, stage models.Stage, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "issuance."+string(stage),
		trace.WithAttributes(attribute.String("issuance.stage", string(stage))))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	s.metrics.ObserveStage(string(stage), start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return classify(stage, err)
	}
	return nil
}

// classify maps a collaborator failure to the issuance error taxonomy.
// Resource shortfalls and identity reuse keep their own errors; everything
// else the ledger rejects is a protocol error.
func classify(stage models.Stage, err error) error {
	switch {
	case errors.Is(err, sentinel.ErrInsufficientFunds):
		return fmt.Errorf("%s: %w: %w", stage, models.ErrInsufficientFunds, err)
	case stage == models.StageAllocate && errors.Is(err, sentinel.ErrAlreadyUsed):
		return fmt.Errorf("%s: %w: %w", stage, models.ErrIdentityInUse, err)
	default:
		return fmt.Errorf("%s: %w: %w", stage, models.ErrExtension, err)
	}
}

// collectFee moves the fee to the treasury before any certificate state exists.
func (s *Service) collectFee(ctx context.Context, is *issuance) (feeReceipt, error) {
	fee := is.batch.FeeAmount
	err := s.runStage(ctx, models.StageCollectFee, func(ctx context.Context) error {
		return s.bank.Transfer(ctx, is.cmd.Requester, is.batch.Treasury, fee)
	})
	if err != nil {
		return feeReceipt{}, err
	}
	is.comp.push(models.StageCollectFee, func(ctx context.Context) error {
		return s.bank.Transfer(ctx, is.batch.Treasury, is.cmd.Requester, fee)
	})
	return feeReceipt{amount: fee}, nil
}

// allocate reserves a record sized for a non-transferable mint, funded by the requester.
func (s *Service) allocate(ctx context.Context, is *issuance, _ feeReceipt) (allocatedRecord, error) {
	size := ledger.MintSpace(ledger.NonTransferable)
	err := s.runStage(ctx, models.StageAllocate, func(ctx context.Context) error {
		return s.allocator.Allocate(ctx, is.cmd.CertificateID, is.cmd.Requester, size)
	})
	if err != nil {
		return allocatedRecord{}, err
	}
	is.comp.push(models.StageAllocate, func(ctx context.Context) error {
		return s.allocator.Close(ctx, is.cmd.CertificateID, is.cmd.Requester)
	})
	return allocatedRecord{size: size}, nil
}

// initMarker must run before initMint: the ledger rejects the marker on an initialized mint.
func (s *Service) initMarker(ctx context.Context, is *issuance, rec allocatedRecord) (markedRecord, error) {
	err := s.runStage(ctx, models.StageInitMarker, func(ctx context.Context) error {
		return s.tokens.InitNonTransferable(ctx, is.cmd.CertificateID)
	})
	if err != nil {
		return markedRecord{}, err
	}
	return markedRecord{allocatedRecord: rec}, nil
}

// initMint gives the batch authority temporary issuing rights with no freeze authority.
func (s *Service) initMint(ctx context.Context, is *issuance, _ markedRecord) (*models.MintableCertificate, error) {
	err := s.runStage(ctx, models.StageInitMint, func(ctx context.Context) error {
		return s.tokens.InitMint(ctx, is.cmd.CertificateID, ledger.Decimals, is.batch.Authority)
	})
	if err != nil {
		return nil, err
	}
	return models.NewMintableCertificate(is.cmd.CertificateID, is.batch.Authority, is.cmd.Requester), nil
}

func (s *Service) ensureHolding(ctx context.Context, is *issuance, cert *models.MintableCertificate) (holdingSlot, error) {
	var created bool
	err := s.runStage(ctx, models.StageEnsureHolding, func(ctx context.Context) error {
		var err error
		created, err = s.tokens.EnsureHolding(ctx, cert.ID(), cert.Holder())
		return err
	})
	if err != nil {
		return holdingSlot{}, err
	}
	if created {
		is.comp.push(models.StageEnsureHolding, func(ctx context.Context) error {
			return s.tokens.CloseHolding(ctx, cert.ID(), cert.Holder())
		})
	}
	return holdingSlot{created: created}, nil
}

// issue mints the single unit under the temporary authority.
func (s *Service) issue(ctx context.Context, cert *models.MintableCertificate, _ holdingSlot) (issuedUnit, error) {
	if err := cert.CanIssue(); err != nil {
		return issuedUnit{}, err
	}
	err := s.runStage(ctx, models.StageIssue, func(ctx context.Context) error {
		return s.tokens.Issue(ctx, cert.ID(), cert.Holder(), cert.Authority(), ledger.CertificateUnit)
	})
	if err != nil {
		return issuedUnit{}, err
	}
	cert.ApplyIssue()
	return issuedUnit{cert: cert}, nil
}

// revokeAuthority permanently removes issuing rights and consumes the mintable certificate.
func (s *Service) revokeAuthority(ctx context.Context, unit issuedUnit) (*models.FinalizedCertificate, error) {
	cert := unit.cert
	if err := cert.CanFinalize(); err != nil {
		return nil, err
	}
	err := s.runStage(ctx, models.StageRevokeAuthority, func(ctx context.Context) error {
		return s.tokens.RevokeMintAuthority(ctx, cert.ID(), cert.Authority())
	})
	if err != nil {
		return nil, err
	}
	return cert.Finalize(), nil
}

func (s *Service) attachMetadata(ctx context.Context, is *issuance, cert *models.FinalizedCertificate) (*models.FinalizedCertificate, error) {
	md := ledger.CertificateMetadata(is.cmd.Name, is.cmd.URI, cert.Authority())
	err := s.runStage(ctx, models.StageAttachMetadata, func(ctx context.Context) error {
		return s.metadata.Attach(ctx, cert.ID(), md)
	})
	if err != nil {
		return nil, err
	}
	is.comp.push(models.StageAttachMetadata, func(ctx context.Context) error {
		return s.metadata.Detach(ctx, cert.ID())
	})
	return cert.WithMetadata(md), nil
}

// advanceRegistry counts the issuance with a compare-and-swap on the count the
// guards saw. The notifications are written in the same transaction, so they
// become visible exactly when the counter does.
func (s *Service) advanceRegistry(ctx context.Context, is *issuance, cert *models.FinalizedCertificate) (*batchmodels.Batch, error) {
	ctx, span := s.tracer.Start(ctx, "issuance."+string(models.StageAdvanceRegistry),
		trace.WithAttributes(attribute.String("issuance.stage", string(models.StageAdvanceRegistry))))
	defer span.End()
	start := time.Now()
	defer s.metrics.ObserveStage(string(models.StageAdvanceRegistry), start)

	updated, err := s.registry.Advance(ctx, is.batch.ID, is.batch.IssuedCount, s.now(ctx),
		func(txCtx context.Context, b *batchmodels.Batch) error {
			issued := events.CertificateIssued(b.ID, is.cmd.Requester, cert.ID(), b.IssuedCount, is.cmd.Name, is.cmd.URI)
			if err := s.emitter.Emit(txCtx, issued); err != nil {
				return err
			}
			if b.Completed {
				return s.emitter.Emit(txCtx, events.BatchCompleted(b.ID, b.IssuedCount))
			}
			return nil
		})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, s.registryFailure(ctx, is, err)
	}
	return updated, nil
}
