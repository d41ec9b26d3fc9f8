// Package voucher verifies signed issuance vouchers.
//
// A voucher is an EIP-191 personal-sign signature by the batch's voucher signer
// over keccak256(requester ‖ chainID ‖ batchID ‖ certificateID), where requester
// is the 20-byte account, chainID is a 32-byte big-endian integer and the IDs are
// 16 raw UUID bytes each. The chain ID ties a voucher to one deployment. The
// certificate ID ties it to one issuance, since a certificate identity can be
// allocated only once.
package voucher

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	id "soulmint/pkg/domain"
)

const signatureLength = 65

var (
	ErrMalformed = errors.New("voucher signature must be 65 bytes")
	ErrSigner    = errors.New("voucher not signed by the batch voucher signer")
)

// Verifier checks vouchers for one chain ID.
type Verifier struct {
	chainID *big.Int
}

func NewVerifier(chainID int64) *Verifier {
	return &Verifier{chainID: big.NewInt(chainID)}
}

// Digest returns the EIP-191 hash a signer signs to let requester issue certID on batchID.
func (v *Verifier) Digest(requester id.AccountID, batchID id.BatchID, certID id.CertificateID) []byte {
	msg := make([]byte, 0, common.AddressLength+32+16+16)
	msg = append(msg, requester.Bytes()...)
	msg = append(msg, common.LeftPadBytes(v.chainID.Bytes(), 32)...)
	msg = append(msg, batchID[:]...)
	msg = append(msg, certID[:]...)
	return accounts.TextHash(crypto.Keccak256(msg))
}

// Verify recovers the signer of signature and compares it to expected.
// Both recovery ids 0/1 and the wallet form 27/28 are accepted.
func (v *Verifier) Verify(requester id.AccountID, batchID id.BatchID, certID id.CertificateID, signature []byte, expected id.AccountID) error {
	if len(signature) != signatureLength {
		return ErrMalformed
	}
	sig := make([]byte, signatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := crypto.SigToPub(v.Digest(requester, batchID, certID), sig)
	if err != nil {
		return errors.Join(ErrSigner, err)
	}
	if crypto.PubkeyToAddress(*pub) != expected.Address() {
		return ErrSigner
	}
	return nil
}

// Sign produces a voucher with key. Used by operators and tests.
func (v *Verifier) Sign(key *ecdsa.PrivateKey, requester id.AccountID, batchID id.BatchID, certID id.CertificateID) ([]byte, error) {
	return crypto.Sign(v.Digest(requester, batchID, certID), key)
}
