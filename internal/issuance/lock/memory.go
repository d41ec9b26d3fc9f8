// Package lock serializes issuance per batch.
package lock

import (
	"context"
	"hash/fnv"

	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
)

// numShards trades memory for contention: batches hashing to the same shard
// serialize with each other, which is safe but slower.
const numShards = 128

// Release frees a held lock. It is safe to call once.
type Release func()

// Sharded serializes work per batch inside one process. Each shard is a
// one-slot semaphore so waiting respects context cancellation.
type Sharded struct {
	shards [numShards]chan struct{}
}

func NewSharded() *Sharded {
	s := &Sharded{}
	for i := range s.shards {
		s.shards[i] = make(chan struct{}, 1)
	}
	return s
}

// Acquire blocks until the batch's shard is free or ctx is done.
func (s *Sharded) Acquire(ctx context.Context, batchID id.BatchID) (Release, error) {
	shard := s.shards[shardFor(batchID)]
	select {
	case shard <- struct{}{}:
		return func() { <-shard }, nil
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for batch lock")
	}
}

func shardFor(batchID id.BatchID) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(batchID[:])
	return h.Sum32() % numShards
}
