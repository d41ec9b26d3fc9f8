// Package memory is an in-process reference implementation of the ledger
// collaborators: balances, record allocation, the token program and the
// metadata service. It enforces the same ordering rules a real ledger does so
// the issuance workflow can be exercised end to end.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"soulmint/internal/ledger"
	id "soulmint/pkg/domain"
	"soulmint/pkg/platform/sentinel"
)

const (
	// rentPerByte approximates the rent-exempt deposit per record byte.
	rentPerByte = 6960
	// recordOverhead is charged on top of the data size of every record.
	recordOverhead = 128
)

// RentFor returns the deposit required to keep a record of size bytes alive.
func RentFor(size int) uint64 {
	return uint64(size+recordOverhead) * rentPerByte
}

type record struct {
	payer           id.AccountID
	size            int
	rent            uint64
	nonTransferable bool
	mintInitialized bool
	decimals        uint8
	mintAuthority   *id.AccountID
	freezeAuthority *id.AccountID
	supply          uint64
	holdings        map[id.AccountID]uint64
	metadata        []byte
}

// Ledger holds balances and certificate records behind a single mutex.
type Ledger struct {
	mu       sync.Mutex
	balances map[id.AccountID]uint64
	records  map[id.CertificateID]*record
	enc      cbor.EncMode
}

func New() *Ledger {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor canonical enc mode: %v", err))
	}
	return &Ledger{
		balances: make(map[id.AccountID]uint64),
		records:  make(map[id.CertificateID]*record),
		enc:      enc,
	}
}

// Credit adds funds to an account.
func (l *Ledger) Credit(_ context.Context, account id.AccountID, amount uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := l.balances[account] + amount
	if next < amount {
		return 0, fmt.Errorf("credit %s overflows balance: %w", account, sentinel.ErrInvalidState)
	}
	l.balances[account] = next
	return next, nil
}

func (l *Ledger) Balance(_ context.Context, account id.AccountID) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

// Transfer moves amount from one account to another.
func (l *Ledger) Transfer(_ context.Context, from, to id.AccountID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return fmt.Errorf("transfer %d from %s: %w", amount, from, sentinel.ErrInsufficientFunds)
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

// Allocate reserves a record of size bytes at certID, funded by payer.
func (l *Ledger) Allocate(_ context.Context, certID id.CertificateID, payer id.AccountID, size int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.records[certID]; ok {
		return fmt.Errorf("record %s: %w", certID, sentinel.ErrAlreadyUsed)
	}
	rent := RentFor(size)
	if l.balances[payer] < rent {
		return fmt.Errorf("rent %d for record %s: %w", rent, certID, sentinel.ErrInsufficientFunds)
	}
	l.balances[payer] -= rent
	l.records[certID] = &record{
		payer:    payer,
		size:     size,
		rent:     rent,
		holdings: make(map[id.AccountID]uint64),
	}
	return nil
}

// Close removes the record and everything stored in it, refunding the rent.
func (l *Ledger) Close(_ context.Context, certID id.CertificateID, refundTo id.AccountID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[certID]
	if !ok {
		return fmt.Errorf("record %s: %w", certID, sentinel.ErrNotFound)
	}
	delete(l.records, certID)
	l.balances[refundTo] += rec.rent
	return nil
}

// InitNonTransferable sets the non-transferable marker. It must run before the
// mint is initialized and the record must have room for it.
func (l *Ledger) InitNonTransferable(_ context.Context, certID id.CertificateID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, err := l.record(certID)
	if err != nil {
		return err
	}
	if rec.mintInitialized {
		return fmt.Errorf("marker after mint init on %s: %w", certID, sentinel.ErrInvalidState)
	}
	if rec.size < ledger.MintSpace(ledger.NonTransferable) {
		return fmt.Errorf("record %s too small for marker: %w", certID, sentinel.ErrInvalidState)
	}
	rec.nonTransferable = true
	return nil
}

// InitMint initializes the mint with the given decimals and authority and no freeze authority.
func (l *Ledger) InitMint(_ context.Context, certID id.CertificateID, decimals uint8, mintAuthority id.AccountID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, err := l.record(certID)
	if err != nil {
		return err
	}
	if rec.mintInitialized {
		return fmt.Errorf("mint %s already initialized: %w", certID, sentinel.ErrInvalidState)
	}
	authority := mintAuthority
	rec.mintInitialized = true
	rec.decimals = decimals
	rec.mintAuthority = &authority
	rec.freezeAuthority = nil
	return nil
}

// EnsureHolding creates the holder's slot if absent. created reports whether it was made here.
func (l *Ledger) EnsureHolding(_ context.Context, certID id.CertificateID, holder id.AccountID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, err := l.initializedMint(certID)
	if err != nil {
		return false, err
	}
	if _, ok := rec.holdings[holder]; ok {
		return false, nil
	}
	rec.holdings[holder] = 0
	return true, nil
}

// CloseHolding removes the holder's slot, burning any balance in it.
func (l *Ledger) CloseHolding(_ context.Context, certID id.CertificateID, holder id.AccountID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, err := l.record(certID)
	if err != nil {
		return err
	}
	balance, ok := rec.holdings[holder]
	if !ok {
		return fmt.Errorf("holding %s/%s: %w", certID, holder, sentinel.ErrNotFound)
	}
	rec.supply -= balance
	delete(rec.holdings, holder)
	return nil
}

// Issue mints amount units to holder. authority must be the current mint authority.
func (l *Ledger) Issue(_ context.Context, certID id.CertificateID, holder, authority id.AccountID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, err := l.initializedMint(certID)
	if err != nil {
		return err
	}
	if rec.mintAuthority == nil || *rec.mintAuthority != authority {
		return fmt.Errorf("mint authority mismatch on %s: %w", certID, sentinel.ErrInvalidState)
	}
	if _, ok := rec.holdings[holder]; !ok {
		return fmt.Errorf("holding %s/%s: %w", certID, holder, sentinel.ErrNotFound)
	}
	rec.holdings[holder] += amount
	rec.supply += amount
	return nil
}

// RevokeMintAuthority sets the mint authority to none. It cannot be undone.
func (l *Ledger) RevokeMintAuthority(_ context.Context, certID id.CertificateID, authority id.AccountID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, err := l.initializedMint(certID)
	if err != nil {
		return err
	}
	if rec.mintAuthority == nil || *rec.mintAuthority != authority {
		return fmt.Errorf("mint authority mismatch on %s: %w", certID, sentinel.ErrInvalidState)
	}
	rec.mintAuthority = nil
	return nil
}

// Attach stores canonical CBOR-encoded metadata for the certificate.
func (l *Ledger) Attach(_ context.Context, certID id.CertificateID, md ledger.Metadata) error {
	encoded, err := l.enc.Marshal(md)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, err := l.initializedMint(certID)
	if err != nil {
		return err
	}
	if rec.metadata != nil {
		return fmt.Errorf("metadata for %s: %w", certID, sentinel.ErrAlreadyUsed)
	}
	rec.metadata = encoded
	return nil
}

// Detach removes metadata attached by Attach.
func (l *Ledger) Detach(_ context.Context, certID id.CertificateID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, err := l.record(certID)
	if err != nil {
		return err
	}
	rec.metadata = nil
	return nil
}

// Certificate returns the inspection view of a record.
func (l *Ledger) Certificate(_ context.Context, certID id.CertificateID) (*ledger.CertificateView, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, err := l.record(certID)
	if err != nil {
		return nil, err
	}
	view := &ledger.CertificateView{
		ID:                   certID,
		Payer:                rec.payer,
		Size:                 rec.size,
		NonTransferable:      rec.nonTransferable,
		MintInitialized:      rec.mintInitialized,
		Decimals:             rec.decimals,
		Supply:               rec.supply,
		MintAuthorityRevoked: rec.mintInitialized && rec.mintAuthority == nil,
		Holders:              make(map[string]uint64, len(rec.holdings)),
	}
	if rec.freezeAuthority != nil {
		fa := *rec.freezeAuthority
		view.FreezeAuthority = &fa
	}
	for holder, balance := range rec.holdings {
		view.Holders[holder.String()] = balance
	}
	if rec.metadata != nil {
		var md ledger.Metadata
		if err := cbor.Unmarshal(rec.metadata, &md); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", certID, err)
		}
		view.Metadata = &md
	}
	return view, nil
}

// Exists reports whether a record occupies certID.
func (l *Ledger) Exists(_ context.Context, certID id.CertificateID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.records[certID]
	return ok
}

func (l *Ledger) record(certID id.CertificateID) (*record, error) {
	rec, ok := l.records[certID]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", certID, sentinel.ErrNotFound)
	}
	return rec, nil
}

func (l *Ledger) initializedMint(certID id.CertificateID) (*record, error) {
	rec, err := l.record(certID)
	if err != nil {
		return nil, err
	}
	if !rec.mintInitialized {
		return nil, fmt.Errorf("mint %s not initialized: %w", certID, sentinel.ErrInvalidState)
	}
	return rec, nil
}
