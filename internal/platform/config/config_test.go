package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.Database.URL, "memory registry store by default")
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Issuance.LockTTL)
	assert.Equal(t, int64(1), cfg.Issuance.VoucherChainID)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SOULMINT_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LOCK_TTL", "5s")
	t.Setenv("VOUCHER_CHAIN_ID", "8453")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Second, cfg.Issuance.LockTTL)
	assert.Equal(t, int64(8453), cfg.Issuance.VoucherChainID)
}

func TestFromEnv_RejectsInvalid(t *testing.T) {
	t.Setenv("VOUCHER_CHAIN_ID", "0")
	_, err := FromEnv()
	require.Error(t, err)
}
