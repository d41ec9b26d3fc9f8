// Package store persists batch registries.
//
// Both implementations enforce one registry per authority (sentinel.ErrAlreadyUsed)
// and advance the counter with a compare-and-swap on the previous count
// (sentinel.ErrConflict when another writer moved it first).
package store

import (
	"context"

	"soulmint/internal/batch/models"
)

// CommitFunc runs inside the store's transaction after the counter update is
// staged. Returning an error discards the update.
type CommitFunc func(ctx context.Context, updated *models.Batch) error
