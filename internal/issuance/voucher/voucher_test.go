package voucher

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "soulmint/pkg/domain"
)

func TestVerify(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := id.AccountID(crypto.PubkeyToAddress(key.PublicKey))
	requester := id.AccountID{0x42}
	batchID := id.NewBatchID()
	certID := id.NewCertificateID()
	v := NewVerifier(1)

	sig, err := v.Sign(key, requester, batchID, certID)
	require.NoError(t, err)

	t.Run("valid voucher", func(t *testing.T) {
		assert.NoError(t, v.Verify(requester, batchID, certID, sig, signer))
	})

	t.Run("wallet style recovery id", func(t *testing.T) {
		walletSig := append([]byte(nil), sig...)
		walletSig[64] += 27
		assert.NoError(t, v.Verify(requester, batchID, certID, walletSig, signer))
	})

	t.Run("different requester", func(t *testing.T) {
		assert.ErrorIs(t, v.Verify(id.AccountID{0x43}, batchID, certID, sig, signer), ErrSigner)
	})

	t.Run("different batch", func(t *testing.T) {
		assert.ErrorIs(t, v.Verify(requester, id.NewBatchID(), certID, sig, signer), ErrSigner)
	})

	t.Run("different certificate", func(t *testing.T) {
		assert.ErrorIs(t, v.Verify(requester, batchID, id.NewCertificateID(), sig, signer), ErrSigner)
	})

	t.Run("different chain", func(t *testing.T) {
		assert.ErrorIs(t, NewVerifier(5).Verify(requester, batchID, certID, sig, signer), ErrSigner)
	})

	t.Run("malformed", func(t *testing.T) {
		assert.ErrorIs(t, v.Verify(requester, batchID, certID, sig[:10], signer), ErrMalformed)
	})
}
