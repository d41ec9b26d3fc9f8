package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "soulmint/pkg/domain"
	"soulmint/pkg/platform/events"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.records = append(f.records, rs...)
	results := make(kgo.ProduceResults, len(rs))
	for i, r := range rs {
		results[i] = kgo.ProduceResult{Record: r, Err: f.err}
	}
	return results
}

func TestSinkPublish(t *testing.T) {
	batchID := id.NewBatchID()
	event := events.BatchCompleted(batchID, 3)
	event.ID = id.NewEventID()
	event.Timestamp = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("keys records by batch and carries the codec payload", func(t *testing.T) {
		p := &fakeProducer{}
		sink := NewSink(p, "batch-events")

		require.NoError(t, sink.Publish(context.Background(), []events.Event{event}))
		require.Len(t, p.records, 1)

		rec := p.records[0]
		assert.Equal(t, "batch-events", rec.Topic)
		assert.Equal(t, batchID.String(), string(rec.Key))

		decoded, err := events.Unmarshal(rec.Value)
		require.NoError(t, err)
		assert.Equal(t, events.KindBatchCompleted, decoded.Kind)
		assert.Equal(t, 3, decoded.Count)
	})

	t.Run("produce failure fails the whole publish", func(t *testing.T) {
		p := &fakeProducer{err: errors.New("broker down")}
		sink := NewSink(p, "batch-events")

		err := sink.Publish(context.Background(), []events.Event{event})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker down")
	})
}
