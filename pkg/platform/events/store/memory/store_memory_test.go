package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "soulmint/pkg/domain"
	"soulmint/pkg/platform/events"
)

func appendIssued(t *testing.T, s *InMemoryStore, batchID id.BatchID, n int) []events.Event {
	t.Helper()
	out := make([]events.Event, 0, n)
	for i := 1; i <= n; i++ {
		e := events.CertificateIssued(batchID, id.AccountID{0x01}, id.NewCertificateID(), i, "cert", "uri")
		e.ID = id.NewEventID()
		require.NoError(t, s.Append(context.Background(), e))
		out = append(out, e)
	}
	return out
}

func eventIDs(es []events.Event) []id.EventID {
	out := make([]id.EventID, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func TestMarkPublishedDropsRelayedBeyondRetention(t *testing.T) {
	ctx := context.Background()
	batchID := id.NewBatchID()
	s := NewInMemoryStore(WithPublishedRetention(2))
	all := appendIssued(t, s, batchID, 5)

	require.NoError(t, s.MarkPublished(ctx, eventIDs(all[:4]), time.Now()))

	kept, err := s.ListByBatch(ctx, batchID)
	require.NoError(t, err)
	assert.Equal(t, eventIDs(all[2:]), eventIDs(kept), "two newest published plus the pending one")

	pending, err := s.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []id.EventID{all[4].ID}, eventIDs(pending))
}

func TestZeroRetentionKeepsOnlyPending(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(WithPublishedRetention(0))
	all := appendIssued(t, s, id.NewBatchID(), 3)

	require.NoError(t, s.MarkPublished(ctx, eventIDs(all), time.Now()))

	remaining, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	pending, err := s.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPendingIsNeverCompacted(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(WithPublishedRetention(0))
	all := appendIssued(t, s, id.NewBatchID(), 3)

	require.NoError(t, s.MarkPublished(ctx, []id.EventID{all[1].ID}, time.Now()))

	pending, err := s.Pending(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []id.EventID{all[0].ID, all[2].ID}, eventIDs(pending))
}
