// Package ledger describes the token-ledger contract the issuance workflow
// drives: record sizing, certificate metadata and the inspection view.
package ledger

import (
	id "soulmint/pkg/domain"
)

// Extension is a per-record ledger extension.
type Extension int

const (
	// NonTransferable marks every holding of the certificate as permanently bound.
	NonTransferable Extension = iota + 1
)

const (
	baseMintSize      = 82
	baseAccountSize   = 165
	accountTypeSize   = 1
	extensionTLVSize  = 4
	nonTransferLength = 0
)

// MintSpace returns the record size needed for a certificate mint with the
// given extensions. Without extensions the base mint layout is used; with any,
// the record is padded to the account layout, tagged with its type and each
// extension adds a type-length header plus its payload.
func MintSpace(exts ...Extension) int {
	if len(exts) == 0 {
		return baseMintSize
	}
	size := baseAccountSize + accountTypeSize
	for _, ext := range exts {
		size += extensionTLVSize + ext.length()
	}
	return size
}

func (e Extension) length() int {
	switch e {
	case NonTransferable:
		return nonTransferLength
	default:
		return 0
	}
}

func (e Extension) String() string {
	switch e {
	case NonTransferable:
		return "non_transferable"
	default:
		return "unknown"
	}
}

// Certificate attribute constants fixed for every issued certificate.
const (
	Symbol          = "SBT"
	SellerFeeBasis  = 0
	Decimals        = 0
	CertificateUnit = 1
)

// Metadata is the descriptive record attached to an issued certificate.
type Metadata struct {
	Name            string         `cbor:"1,keyasint" json:"name"`
	Symbol          string         `cbor:"2,keyasint" json:"symbol"`
	URI             string         `cbor:"3,keyasint" json:"uri"`
	SellerFeeBasis  uint16         `cbor:"4,keyasint" json:"seller_fee_basis_points"`
	Creators        []id.AccountID `cbor:"5,keyasint,omitempty" json:"creators"`
	Mutable         bool           `cbor:"6,keyasint" json:"mutable"`
	UpdateAuthority id.AccountID   `cbor:"7,keyasint" json:"update_authority"`
}

// CertificateMetadata builds the fixed-shape metadata for a certificate.
func CertificateMetadata(name, uri string, updateAuthority id.AccountID) Metadata {
	return Metadata{
		Name:            name,
		Symbol:          Symbol,
		URI:             uri,
		SellerFeeBasis:  SellerFeeBasis,
		Mutable:         false,
		UpdateAuthority: updateAuthority,
	}
}

// CertificateView is the inspection shape of an issued (or partially issued) certificate.
type CertificateView struct {
	ID                   id.CertificateID  `json:"id"`
	Payer                id.AccountID      `json:"payer"`
	Size                 int               `json:"size"`
	NonTransferable      bool              `json:"non_transferable"`
	MintInitialized      bool              `json:"mint_initialized"`
	Decimals             uint8             `json:"decimals"`
	Supply               uint64            `json:"supply"`
	MintAuthorityRevoked bool              `json:"mint_authority_revoked"`
	FreezeAuthority      *id.AccountID     `json:"freeze_authority"`
	Holders              map[string]uint64 `json:"holders"`
	Metadata             *Metadata         `json:"metadata,omitempty"`
}
