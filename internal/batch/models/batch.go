package models

import (
	"time"

	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
)

// MaxCap is the largest batch a registry may administer.
const MaxCap = 100

var (
	ErrInvalidBatchSize = dErrors.New(dErrors.CodeValidation, "batch size must be between 1 and 100")
	ErrInvalidPrice     = dErrors.New(dErrors.CodeValidation, "fee amount must be positive")
	ErrMaxMintsReached  = dErrors.New(dErrors.CodeInvalidState, "batch has reached its cap")

	// A completed batch has necessarily reached its cap, so ErrBatchTriggered
	// also matches ErrMaxMintsReached.
	ErrBatchTriggered = dErrors.Wrap(ErrMaxMintsReached, dErrors.CodeInvalidState, "batch is already complete")
)

// Status is derived from the counter; it is never stored.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Batch is the registry for one capped issuance run.
//
// Invariants:
//   - 0 <= IssuedCount <= Cap <= MaxCap
//   - Completed iff IssuedCount == Cap; set in the same change that reaches the cap
//   - Authority, Treasury, FeeAmount and Cap never change after creation
//   - A completed batch accepts no further issuance
type Batch struct {
	ID            id.BatchID   `json:"id"`
	Authority     id.AccountID `json:"authority"`
	Treasury      id.AccountID `json:"treasury"`
	FeeAmount     uint64       `json:"fee_amount"`
	Cap           int          `json:"cap"`
	IssuedCount   int          `json:"issued_count"`
	Completed     bool         `json:"completed"`
	VoucherSigner id.AccountID `json:"voucher_signer,omitzero"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
}

// NewBatch validates creation inputs and returns an active, empty registry.
func NewBatch(batchID id.BatchID, authority, treasury id.AccountID, fee uint64, capacity int, voucherSigner id.AccountID, now time.Time) (*Batch, error) {
	if capacity <= 0 || capacity > MaxCap {
		return nil, ErrInvalidBatchSize
	}
	if fee == 0 {
		return nil, ErrInvalidPrice
	}
	if authority.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "authority is required")
	}
	if treasury.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "treasury is required")
	}
	return &Batch{
		ID:            batchID,
		Authority:     authority,
		Treasury:      treasury,
		FeeAmount:     fee,
		Cap:           capacity,
		VoucherSigner: voucherSigner,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (b *Batch) Status() Status {
	if b.Completed {
		return StatusCompleted
	}
	return StatusActive
}

// RequiresVoucher reports whether issuance must carry a signed voucher.
func (b *Batch) RequiresVoucher() bool {
	return !b.VoucherSigner.IsNil()
}

// Remaining is the number of certificates still available.
func (b *Batch) Remaining() int {
	return b.Cap - b.IssuedCount
}

// CanIssue checks the batch accepts one more issuance.
// Use with ApplyIssuance inside the store's Advance callback.
func (b *Batch) CanIssue() error {
	if b.Completed {
		return ErrBatchTriggered
	}
	if b.IssuedCount >= b.Cap {
		return ErrMaxMintsReached
	}
	return nil
}

// ApplyIssuance counts one issued certificate and completes the batch at the cap.
// Call CanIssue first. Returns true when this issuance completed the batch.
func (b *Batch) ApplyIssuance(now time.Time) bool {
	b.IssuedCount++
	b.UpdatedAt = now
	if b.IssuedCount == b.Cap {
		b.Completed = true
		completedAt := now
		b.CompletedAt = &completedAt
		return true
	}
	return false
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (b *Batch) Clone() *Batch {
	c := *b
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
