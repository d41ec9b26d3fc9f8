package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"soulmint/internal/batch/models"
	id "soulmint/pkg/domain"
	"soulmint/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded batch store for tests and single-process runs.
type InMemory struct {
	mu          sync.RWMutex
	batches     map[id.BatchID]*models.Batch
	byAuthority map[id.AccountID]id.BatchID
}

func NewInMemory() *InMemory {
	return &InMemory{
		batches:     make(map[id.BatchID]*models.Batch),
		byAuthority: make(map[id.AccountID]id.BatchID),
	}
}

// Create stores a new registry. An authority may administer only one.
func (s *InMemory) Create(_ context.Context, batch *models.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byAuthority[batch.Authority]; ok {
		return fmt.Errorf("authority %s: %w", batch.Authority, sentinel.ErrAlreadyUsed)
	}
	if _, ok := s.batches[batch.ID]; ok {
		return fmt.Errorf("batch %s: %w", batch.ID, sentinel.ErrAlreadyUsed)
	}
	s.batches[batch.ID] = batch.Clone()
	s.byAuthority[batch.Authority] = batch.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, batchID id.BatchID) (*models.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[batchID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return b.Clone(), nil
}

func (s *InMemory) FindByAuthority(_ context.Context, authority id.AccountID) (*models.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	batchID, ok := s.byAuthority[authority]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.batches[batchID].Clone(), nil
}

// Advance applies one issuance when the counter still equals expected.
// The write lock is held across commit so readers never see the update before
// commit has succeeded.
func (s *InMemory) Advance(ctx context.Context, batchID id.BatchID, expected int, now time.Time, commit CommitFunc) (*models.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.batches[batchID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if current.IssuedCount != expected {
		return nil, fmt.Errorf("batch %s count %d, expected %d: %w", batchID, current.IssuedCount, expected, sentinel.ErrConflict)
	}
	if err := current.CanIssue(); err != nil {
		return nil, err
	}

	staged := current.Clone()
	staged.ApplyIssuance(now)
	if commit != nil {
		if err := commit(ctx, staged.Clone()); err != nil {
			return nil, err
		}
	}
	s.batches[batchID] = staged
	return staged.Clone(), nil
}
