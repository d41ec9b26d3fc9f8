package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
)

const (
	keyPrefix         = "soulmint:batch-lock:"
	defaultRetryDelay = 25 * time.Millisecond
	releaseTimeout    = 2 * time.Second
)

// releaseScript deletes the key only if it still holds our token, so a lease
// that expired and was taken by another replica is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis serializes work per batch across replicas with a SET NX PX lease.
// The lease TTL bounds how long a crashed holder blocks the batch; the store's
// compare-and-swap still protects the counter if a lease expires mid-issuance.
type Redis struct {
	client     redis.UniversalClient
	ttl        time.Duration
	retryDelay time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, retryDelay: defaultRetryDelay}
}

// Acquire polls for the lease until it is granted or ctx is done.
func (r *Redis) Acquire(ctx context.Context, batchID id.BatchID) (Release, error) {
	key := keyPrefix + batchID.String()
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, dErrors.Wrap(ctxErr, dErrors.CodeTimeout, "timed out waiting for batch lock")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "acquire batch lock")
		}
		if ok {
			return r.releaser(key, token), nil
		}

		timer := time.NewTimer(r.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for batch lock")
		case <-timer.C:
		}
	}
}

func (r *Redis) releaser(key, token string) Release {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		// A failed release leaves the lease to expire on its own.
		_ = r.release(ctx, key, token)
	}
}

func (r *Redis) release(ctx context.Context, key, token string) error {
	err := releaseScript.Run(ctx, r.client, []string{key}, token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release batch lock %s: %w", key, err)
	}
	return nil
}
