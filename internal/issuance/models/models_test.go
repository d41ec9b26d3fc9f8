package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soulmint/internal/ledger"
	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
)

func TestMintableCertificateLifecycle(t *testing.T) {
	m := NewMintableCertificate(id.NewCertificateID(), id.AccountID{1}, id.AccountID{2})

	assert.Error(t, m.CanFinalize(), "cannot revoke before issuing")

	require.NoError(t, m.CanIssue())
	m.ApplyIssue()
	assert.True(t, dErrors.HasCode(m.CanIssue(), dErrors.CodeInvariantViolation), "single unit only")

	require.NoError(t, m.CanFinalize())
	f := m.Finalize()
	assert.Equal(t, m.ID(), f.ID())
	assert.Equal(t, id.AccountID{2}, f.Holder())
	assert.Nil(t, f.Metadata())

	assert.Error(t, m.CanIssue(), "consumed capability cannot issue")
	assert.Error(t, m.CanFinalize())

	withMD := f.WithMetadata(ledger.CertificateMetadata("n", "u", id.AccountID{1}))
	assert.Nil(t, f.Metadata())
	require.NotNil(t, withMD.Metadata())
	assert.Equal(t, "n", withMD.Metadata().Name)
}

func TestIssueRequestToCommand(t *testing.T) {
	batchID := id.NewBatchID()
	requester := id.AccountID{0x0a}
	certID := id.NewCertificateID()
	treasury := id.AccountID{0x0b}

	t.Run("parses fields and hex voucher", func(t *testing.T) {
		cmd, err := IssueRequest{
			CertificateID: certID.String(),
			Name:          "Alice",
			URI:           "https://example.com/1.json",
			Treasury:      treasury.String(),
			Voucher:       "0xdeadbeef",
		}.ToCommand(batchID, requester)
		require.NoError(t, err)
		assert.Equal(t, certID, cmd.CertificateID)
		assert.Equal(t, treasury, cmd.Treasury)
		assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, cmd.Voucher)
		assert.Equal(t, requester, cmd.Requester)
	})

	t.Run("bad certificate id", func(t *testing.T) {
		_, err := IssueRequest{CertificateID: "x", Treasury: treasury.String()}.ToCommand(batchID, requester)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("bad voucher encoding", func(t *testing.T) {
		_, err := IssueRequest{CertificateID: certID.String(), Treasury: treasury.String(), Voucher: "zz"}.ToCommand(batchID, requester)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestStagesOrder(t *testing.T) {
	require.Len(t, Stages, 9)
	assert.Equal(t, StageCollectFee, Stages[0])
	assert.Equal(t, StageAdvanceRegistry, Stages[8])
}
