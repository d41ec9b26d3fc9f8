package models

import (
	"soulmint/internal/ledger"
	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
)

// MintableCertificate is a certificate whose mint authority is still held by
// the batch authority. It is the only type that can record issuance, and it is
// consumed by Finalize once the authority is revoked.
type MintableCertificate struct {
	id        id.CertificateID
	authority id.AccountID
	holder    id.AccountID
	issued    bool
	consumed  bool
}

// NewMintableCertificate wraps a freshly initialized mint.
func NewMintableCertificate(certID id.CertificateID, authority, holder id.AccountID) *MintableCertificate {
	return &MintableCertificate{id: certID, authority: authority, holder: holder}
}

func (m *MintableCertificate) ID() id.CertificateID    { return m.id }
func (m *MintableCertificate) Authority() id.AccountID { return m.authority }
func (m *MintableCertificate) Holder() id.AccountID    { return m.holder }

// CanIssue checks the single unit has not been issued and the capability is live.
func (m *MintableCertificate) CanIssue() error {
	if m.consumed {
		return dErrors.New(dErrors.CodeInvariantViolation, "mint authority already revoked")
	}
	if m.issued {
		return dErrors.New(dErrors.CodeInvariantViolation, "certificate supply already issued")
	}
	return nil
}

// ApplyIssue records that the single unit exists. Call CanIssue first.
func (m *MintableCertificate) ApplyIssue() {
	m.issued = true
}

// CanFinalize checks the certificate is issued and not yet finalized.
func (m *MintableCertificate) CanFinalize() error {
	if m.consumed {
		return dErrors.New(dErrors.CodeInvariantViolation, "mint authority already revoked")
	}
	if !m.issued {
		return dErrors.New(dErrors.CodeInvariantViolation, "authority revoked before issuance")
	}
	return nil
}

// Finalize consumes the mintable capability. Call CanFinalize first.
func (m *MintableCertificate) Finalize() *FinalizedCertificate {
	m.consumed = true
	return &FinalizedCertificate{id: m.id, authority: m.authority, holder: m.holder}
}

// FinalizedCertificate has fixed supply. It exposes no issuing operation.
type FinalizedCertificate struct {
	id        id.CertificateID
	authority id.AccountID
	holder    id.AccountID
	metadata  *ledger.Metadata
}

func (f *FinalizedCertificate) ID() id.CertificateID       { return f.id }
func (f *FinalizedCertificate) Authority() id.AccountID    { return f.authority }
func (f *FinalizedCertificate) Holder() id.AccountID       { return f.holder }
func (f *FinalizedCertificate) Metadata() *ledger.Metadata { return f.metadata }

// WithMetadata returns the certificate with metadata attached.
func (f *FinalizedCertificate) WithMetadata(md ledger.Metadata) *FinalizedCertificate {
	c := *f
	c.metadata = &md
	return &c
}
