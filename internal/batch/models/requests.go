package models

import (
	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
)

// CreateBatchRequest is the body of POST /batches. The authority is the caller.
type CreateBatchRequest struct {
	Treasury      string `json:"treasury"`
	FeeAmount     uint64 `json:"fee_amount"`
	Cap           int    `json:"cap"`
	VoucherSigner string `json:"voucher_signer,omitempty"`
}

// CreateBatchCommand is the validated form of CreateBatchRequest.
type CreateBatchCommand struct {
	Authority     id.AccountID
	Treasury      id.AccountID
	FeeAmount     uint64
	Cap           int
	VoucherSigner id.AccountID
}

// ToCommand parses account fields at the trust boundary.
func (r CreateBatchRequest) ToCommand(authority id.AccountID) (CreateBatchCommand, error) {
	treasury, err := id.ParseAccountID(r.Treasury)
	if err != nil {
		return CreateBatchCommand{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid treasury")
	}
	cmd := CreateBatchCommand{
		Authority: authority,
		Treasury:  treasury,
		FeeAmount: r.FeeAmount,
		Cap:       r.Cap,
	}
	if r.VoucherSigner != "" {
		signer, err := id.ParseAccountID(r.VoucherSigner)
		if err != nil {
			return CreateBatchCommand{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid voucher signer")
		}
		cmd.VoucherSigner = signer
	}
	return cmd, nil
}
