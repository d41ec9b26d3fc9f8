package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	dErrors "soulmint/pkg/domain-errors"
)

// BatchID identifies a batch registry.
type BatchID uuid.UUID

// CertificateID identifies a certificate. Callers choose a fresh value per attempt.
type CertificateID uuid.UUID

// EventID identifies a published notification.
type EventID uuid.UUID

// AccountID is a 20-byte account address. It names authorities, treasuries,
// requesters and voucher signers.
type AccountID common.Address

func (b BatchID) String() string       { return uuid.UUID(b).String() }
func (b BatchID) IsNil() bool          { return uuid.UUID(b) == uuid.Nil }
func (c CertificateID) String() string { return uuid.UUID(c).String() }
func (c CertificateID) IsNil() bool    { return uuid.UUID(c) == uuid.Nil }
func (e EventID) String() string       { return uuid.UUID(e).String() }
func (e EventID) IsNil() bool          { return uuid.UUID(e) == uuid.Nil }

// String returns the EIP-55 checksummed hex form.
func (a AccountID) String() string { return common.Address(a).Hex() }
func (a AccountID) IsNil() bool    { return a == AccountID{} }

// Address exposes the underlying go-ethereum address.
func (a AccountID) Address() common.Address { return common.Address(a) }

// Bytes returns a copy of the raw 20 bytes.
func (a AccountID) Bytes() []byte { return common.Address(a).Bytes() }

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (b BatchID) MarshalText() ([]byte, error) { return uuid.UUID(b).MarshalText() }

func (b *BatchID) UnmarshalText(text []byte) error {
	parsed, err := ParseBatchID(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func (c CertificateID) MarshalText() ([]byte, error) { return uuid.UUID(c).MarshalText() }

func (c *CertificateID) UnmarshalText(text []byte) error {
	parsed, err := ParseCertificateID(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return parsed, nil
}

func ParseBatchID(s string) (BatchID, error) {
	parsed, err := parseUUID("batch ID", s)
	return BatchID(parsed), err
}

func ParseCertificateID(s string) (CertificateID, error) {
	parsed, err := parseUUID("certificate ID", s)
	return CertificateID(parsed), err
}

// ParseAccountID accepts a 0x-prefixed 40 hex digit address. The zero address is rejected.
func ParseAccountID(s string) (AccountID, error) {
	if s == "" {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account required")
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account must be 0x-prefixed")
	}
	if !common.IsHexAddress(s) {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid account")
	}
	acct := AccountID(common.HexToAddress(s))
	if acct.IsNil() {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account cannot be the zero address")
	}
	return acct, nil
}

// NewBatchID returns a random batch ID.
func NewBatchID() BatchID { return BatchID(uuid.New()) }

// NewCertificateID returns a random certificate ID.
func NewCertificateID() CertificateID { return CertificateID(uuid.New()) }

// NewEventID returns a random event ID.
func NewEventID() EventID { return EventID(uuid.New()) }
