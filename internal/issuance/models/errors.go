package models

import (
	dErrors "soulmint/pkg/domain-errors"
)

// Length limits enforced before any side effect.
const (
	MaxNameLength = 32
	MaxURILength  = 200
)

var (
	ErrNameTooLong      = dErrors.New(dErrors.CodeValidation, "name exceeds 32 bytes")
	ErrURITooLong       = dErrors.New(dErrors.CodeValidation, "uri exceeds 200 bytes")
	ErrTreasuryMismatch = dErrors.New(dErrors.CodeValidation, "treasury does not match the batch treasury")
	ErrInvalidVoucher   = dErrors.New(dErrors.CodeValidation, "issuance voucher is missing or invalid")

	ErrInsufficientFunds = dErrors.New(dErrors.CodeInsufficientFunds, "requester cannot cover the fee or record deposit")
	ErrIdentityInUse     = dErrors.New(dErrors.CodeConflict, "certificate identity is already in use")
	ErrExtension         = dErrors.New(dErrors.CodeProtocol, "ledger collaborator rejected the operation")
)
