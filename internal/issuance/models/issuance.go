package models

import (
	"encoding/hex"
	"strings"

	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
)

// Stage names one ordered effect of an issuance.
type Stage string

const (
	StageCollectFee      Stage = "collect_fee"
	StageAllocate        Stage = "allocate"
	StageInitMarker      Stage = "init_marker"
	StageInitMint        Stage = "init_mint"
	StageEnsureHolding   Stage = "ensure_holding"
	StageIssue           Stage = "issue"
	StageRevokeAuthority Stage = "revoke_authority"
	StageAttachMetadata  Stage = "attach_metadata"
	StageAdvanceRegistry Stage = "advance_registry"
)

// Stages lists every stage in execution order.
var Stages = []Stage{
	StageCollectFee,
	StageAllocate,
	StageInitMarker,
	StageInitMint,
	StageEnsureHolding,
	StageIssue,
	StageRevokeAuthority,
	StageAttachMetadata,
	StageAdvanceRegistry,
}

// IssueRequest is the body of POST /batches/{batchID}/certificates.
type IssueRequest struct {
	CertificateID string `json:"certificate_id"`
	Name          string `json:"name"`
	URI           string `json:"uri"`
	Treasury      string `json:"treasury"`
	Voucher       string `json:"voucher,omitempty"`
}

// IssueCommand is a parsed issuance request. Requester is the authenticated caller.
type IssueCommand struct {
	BatchID       id.BatchID
	Requester     id.AccountID
	CertificateID id.CertificateID
	Name          string
	URI           string
	Treasury      id.AccountID
	Voucher       []byte
}

// ToCommand parses identifiers at the trust boundary. Length limits are
// checked by the service so they are ordered with the registry guards.
func (r IssueRequest) ToCommand(batchID id.BatchID, requester id.AccountID) (IssueCommand, error) {
	certID, err := id.ParseCertificateID(r.CertificateID)
	if err != nil {
		return IssueCommand{}, err
	}
	treasury, err := id.ParseAccountID(r.Treasury)
	if err != nil {
		return IssueCommand{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid treasury")
	}
	cmd := IssueCommand{
		BatchID:       batchID,
		Requester:     requester,
		CertificateID: certID,
		Name:          r.Name,
		URI:           r.URI,
		Treasury:      treasury,
	}
	if r.Voucher != "" {
		raw, err := hex.DecodeString(strings.TrimPrefix(r.Voucher, "0x"))
		if err != nil {
			return IssueCommand{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "voucher must be hex encoded")
		}
		cmd.Voucher = raw
	}
	return cmd, nil
}

// Receipt describes a completed issuance.
type Receipt struct {
	BatchID       id.BatchID       `json:"batch_id"`
	CertificateID id.CertificateID `json:"certificate_id"`
	Holder        id.AccountID     `json:"holder"`
	Name          string           `json:"name"`
	URI           string           `json:"uri"`
	FeePaid       uint64           `json:"fee_paid"`
	IssuedCount   int              `json:"issued_count"`
	Cap           int              `json:"cap"`
	Completed     bool             `json:"completed"`
}
