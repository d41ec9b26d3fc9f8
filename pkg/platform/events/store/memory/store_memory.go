package memory

import (
	"context"
	"sync"
	"time"

	id "soulmint/pkg/domain"
	"soulmint/pkg/platform/events"
)

type entry struct {
	event       events.Event
	publishedAt time.Time
}

// DefaultPublishedRetention is how many relayed events stay readable after
// MarkPublished. Unpublished events are never dropped.
const DefaultPublishedRetention = 1024

// InMemoryStore keeps events in append order and doubles as an outbox.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []entry
	retain  int
}

type Option func(*InMemoryStore)

// WithPublishedRetention bounds the relayed events kept for ListByBatch.
// Zero drops events as soon as they are published.
func WithPublishedRetention(n int) Option {
	return func(s *InMemoryStore) {
		if n >= 0 {
			s.retain = n
		}
	}
}

func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{retain: DefaultPublishedRetention}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(_ context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{event: event})
	return nil
}

func (s *InMemoryStore) ListByBatch(_ context.Context, batchID id.BatchID) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []events.Event
	for _, e := range s.entries {
		if e.event.BatchID == batchID {
			out = append(out, e.event)
		}
	}
	return out, nil
}

// ListAll returns every retained event in append order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]events.Event, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.event)
	}
	return out, nil
}

func (s *InMemoryStore) Pending(_ context.Context, limit int) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []events.Event
	for _, e := range s.entries {
		if !e.publishedAt.IsZero() {
			continue
		}
		out = append(out, e.event)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkPublished(_ context.Context, ids []id.EventID, at time.Time) error {
	want := make(map[id.EventID]struct{}, len(ids))
	for _, eventID := range ids {
		want[eventID] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if _, ok := want[s.entries[i].event.ID]; ok {
			s.entries[i].publishedAt = at
		}
	}
	s.compact()
	return nil
}

// compact drops the oldest published entries beyond the retention bound.
func (s *InMemoryStore) compact() {
	published := 0
	for _, e := range s.entries {
		if !e.publishedAt.IsZero() {
			published++
		}
	}
	drop := published - s.retain
	if drop <= 0 {
		return
	}
	kept := s.entries[:0]
	for _, e := range s.entries {
		if drop > 0 && !e.publishedAt.IsZero() {
			drop--
			continue
		}
		kept = append(kept, e)
	}
	clear(s.entries[len(kept):])
	s.entries = kept
}

// Clear drops all events.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
