package service

import (
	"context"
	"time"

	"soulmint/internal/batch/models"
	batchstore "soulmint/internal/batch/store"
	"soulmint/internal/issuance/lock"
	"soulmint/internal/ledger"
	id "soulmint/pkg/domain"
	"soulmint/pkg/platform/events"
)

// Registry reads and advances batch registries.
type Registry interface {
	FindByID(ctx context.Context, batchID id.BatchID) (*models.Batch, error)
	Advance(ctx context.Context, batchID id.BatchID, expected int, now time.Time, commit batchstore.CommitFunc) (*models.Batch, error)
}

// Locker serializes issuance per batch.
type Locker interface {
	Acquire(ctx context.Context, batchID id.BatchID) (lock.Release, error)
}

// Bank moves fungible balance. Shortfalls are sentinel.ErrInsufficientFunds.
type Bank interface {
	Transfer(ctx context.Context, from, to id.AccountID, amount uint64) error
}

// Allocator reserves and closes certificate records. An occupied identity is
// sentinel.ErrAlreadyUsed; a payer unable to cover the deposit is
// sentinel.ErrInsufficientFunds. Closing cascades everything in the record.
type Allocator interface {
	Allocate(ctx context.Context, certID id.CertificateID, payer id.AccountID, size int) error
	Close(ctx context.Context, certID id.CertificateID, refundTo id.AccountID) error
}

// TokenLedger is the token program that owns mints and holdings.
type TokenLedger interface {
	InitNonTransferable(ctx context.Context, certID id.CertificateID) error
	InitMint(ctx context.Context, certID id.CertificateID, decimals uint8, mintAuthority id.AccountID) error
	EnsureHolding(ctx context.Context, certID id.CertificateID, holder id.AccountID) (created bool, err error)
	CloseHolding(ctx context.Context, certID id.CertificateID, holder id.AccountID) error
	Issue(ctx context.Context, certID id.CertificateID, holder, authority id.AccountID, amount uint64) error
	RevokeMintAuthority(ctx context.Context, certID id.CertificateID, authority id.AccountID) error
}

// MetadataService attaches descriptive metadata to a certificate.
type MetadataService interface {
	Attach(ctx context.Context, certID id.CertificateID, md ledger.Metadata) error
	Detach(ctx context.Context, certID id.CertificateID) error
}

// VoucherVerifier checks a signed voucher against the expected signer.
type VoucherVerifier interface {
	Verify(requester id.AccountID, batchID id.BatchID, certID id.CertificateID, signature []byte, expected id.AccountID) error
}

// EventEmitter persists notifications. Committed kinds join the transaction in ctx.
type EventEmitter interface {
	Emit(ctx context.Context, event events.Event) error
}
