package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, locks and ledger collaborators
// return these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: entity does not exist in store
//   - ErrConflict: a concurrent writer changed the record first
//   - ErrAlreadyUsed: storage location or key is already occupied
//   - ErrInvalidState: entity in wrong state for requested operation
//   - ErrInsufficientFunds: payer balance cannot cover the debit
//   - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrAlreadyUsed       = errors.New("already used")
	ErrInvalidState      = errors.New("invalid state")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnavailable       = errors.New("unavailable")
)
