package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "soulmint/pkg/domain"
	"soulmint/pkg/platform/events"
	"soulmint/pkg/platform/events/store/memory"
	"soulmint/pkg/requestcontext"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	batchID := id.NewBatchID()
	err := pub.Emit(context.Background(), events.BatchCompleted(batchID, 3))
	require.NoError(t, err)

	got, err := pub.List(context.Background(), batchID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.KindBatchCompleted, got[0].Kind)
	assert.Equal(t, 3, got[0].Count)
	assert.False(t, got[0].ID.IsNil(), "event ID should be assigned")
}

func TestPublisher_AsyncModeDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	batchID := id.NewBatchID()
	for range 10 {
		err := pub.Emit(context.Background(), events.Event{
			Kind:    events.KindIssuanceRejected,
			BatchID: batchID,
			Reason:  "max_mints_reached",
		})
		require.NoError(t, err)
	}

	require.NoError(t, pub.Close())

	got, err := store.ListByBatch(context.Background(), batchID)
	require.NoError(t, err)
	assert.Len(t, got, 10, "all events should be drained on close")
}

func TestPublisher_CommittedEventsBypassBuffer(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	batchID := id.NewBatchID()
	err := pub.Emit(context.Background(), events.CertificateIssued(batchID, id.AccountID{1}, id.NewCertificateID(), 1, "Pass", "https://x"))
	require.NoError(t, err)

	// Synchronous: visible immediately, no sleep required.
	got, err := store.ListByBatch(context.Background(), batchID)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestPublisher_BufferFull_DropsOperationalEvents(t *testing.T) {
	store := memory.NewInMemoryStore()
	m := NewMetrics(prometheus.NewRegistry())
	pub := NewPublisher(store, WithAsyncBuffer(1), WithMetrics(m))
	defer pub.Close()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pub.Emit(context.Background(), events.Event{Kind: events.KindIssuanceRejected, BatchID: id.NewBatchID()})
			if err != nil {
				assert.ErrorIs(t, err, ErrBufferFull)
			}
		}()
	}
	wg.Wait()
}

func TestPublisher_StampsFromRequestContext(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), fixed)
	ctx = requestcontext.WithRequestID(ctx, "req-123")

	batchID := id.NewBatchID()
	require.NoError(t, pub.Emit(ctx, events.BatchCompleted(batchID, 1)))

	got, err := pub.List(ctx, batchID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, fixed, got[0].Timestamp)
	assert.Equal(t, "req-123", got[0].RequestID)
}

type failingStore struct{ events.Store }

func (failingStore) Append(context.Context, events.Event) error { return errors.New("disk full") }

func TestPublisher_FailClosedOnPersistError(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	pub := NewPublisher(failingStore{}, WithMetrics(m))
	defer pub.Close()

	err := pub.Emit(context.Background(), events.BatchCompleted(id.NewBatchID(), 2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PersistFailures))
}

func TestPublisher_RequiresKind(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore())
	defer pub.Close()
	require.Error(t, pub.Emit(context.Background(), events.Event{}))
}
