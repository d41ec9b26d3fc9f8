package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "soulmint/pkg/domain"
	"soulmint/pkg/platform/events"
	txcontext "soulmint/pkg/platform/tx"
)

// Store implements events.Store and events.Outbox on the outbox table.
// Appends join the caller's transaction so notifications commit with the
// registry change they describe.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL outbox store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append writes the event to the outbox table.
func (s *Store) Append(ctx context.Context, event events.Event) error {
	payload, err := events.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}
	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, 'batch', $2, $3, $4, $5)
	`
	_, err = txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(event.ID),
		uuid.UUID(event.BatchID),
		string(event.Kind),
		payload,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// ListByBatch returns a batch's events in creation order.
func (s *Store) ListByBatch(ctx context.Context, batchID id.BatchID) ([]events.Event, error) {
	query := `
		SELECT payload FROM outbox
		WHERE aggregate_type = 'batch' AND aggregate_id = $1
		ORDER BY created_at, seq
	`
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, uuid.UUID(batchID))
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()
	return scanPayloads(rows)
}

// Pending returns unpublished events oldest first.
func (s *Store) Pending(ctx context.Context, limit int) ([]events.Event, error) {
	query := `
		SELECT payload FROM outbox
		WHERE published_at IS NULL
		ORDER BY seq
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending outbox: %w", err)
	}
	defer rows.Close()
	return scanPayloads(rows)
}

// MarkPublished stamps the given events as relayed.
func (s *Store) MarkPublished(ctx context.Context, ids []id.EventID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, eventID := range ids {
		raw[i] = eventID.String()
	}
	query := `UPDATE outbox SET published_at = $2 WHERE id = ANY($1::uuid[])`
	if _, err := s.db.ExecContext(ctx, query, pq.Array(raw), at); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}

func scanPayloads(rows *sql.Rows) ([]events.Event, error) {
	var out []events.Event
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		e, err := events.Unmarshal(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return out, nil
}
