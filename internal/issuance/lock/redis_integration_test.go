//go:build integration

package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"soulmint/internal/issuance/lock"
	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
	"soulmint/pkg/testutil/containers"
)

type RedisLockSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisLockSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLockSuite))
}

func (s *RedisLockSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisLockSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisLockSuite) TestMutualExclusionAcrossLockers() {
	// Two lockers sharing one Redis model two replicas.
	a := lock.NewRedis(s.redis.Client, 5*time.Second)
	b := lock.NewRedis(s.redis.Client, 5*time.Second)
	batchID := id.NewBatchID()

	var inside, violations atomic.Int32
	var wg sync.WaitGroup
	for i := range 10 {
		locker := a
		if i%2 == 1 {
			locker = b
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Acquire(context.Background(), batchID)
			s.Require().NoError(err)
			defer release()
			if inside.Add(1) > 1 {
				violations.Add(1)
			}
			time.Sleep(5 * time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()
	s.Equal(int32(0), violations.Load())
}

func (s *RedisLockSuite) TestAcquireTimesOut() {
	locker := lock.NewRedis(s.redis.Client, 5*time.Second)
	batchID := id.NewBatchID()

	release, err := locker.Acquire(context.Background(), batchID)
	s.Require().NoError(err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = locker.Acquire(ctx, batchID)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}

func (s *RedisLockSuite) TestLeaseExpires() {
	locker := lock.NewRedis(s.redis.Client, 100*time.Millisecond)
	batchID := id.NewBatchID()

	_, err := locker.Acquire(context.Background(), batchID)
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	release, err := locker.Acquire(ctx, batchID)
	s.Require().NoError(err)
	release()
}
