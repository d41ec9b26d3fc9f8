//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"soulmint/internal/platform/config"
	platformredis "soulmint/internal/platform/redis"
	"soulmint/pkg/testutil/containers"
)

func TestClientHealth(t *testing.T) {
	rc := containers.GetManager().GetRedis(t)

	client, err := platformredis.New(context.Background(), config.RedisConfig{URL: rc.URL, PoolSize: 2})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Health(context.Background()))
}

func TestEmptyURLDisablesRedis(t *testing.T) {
	client, err := platformredis.New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	require.Nil(t, client)
}

func TestMalformedURL(t *testing.T) {
	_, err := platformredis.New(context.Background(), config.RedisConfig{URL: "://nope"})
	require.Error(t, err)
}
