// Package events defines the notifications the issuance workflow emits and the
// store contract used to persist them before relay.
package events

import (
	"context"
	"time"

	id "soulmint/pkg/domain"
)

// Kind names a notification.
type Kind string

const (
	KindBatchCreated      Kind = "batch_created"
	KindCertificateIssued Kind = "certificate_issued"
	KindBatchCompleted    Kind = "batch_completed"

	// Operational kinds; never part of an issuance commit.
	KindIssuanceRejected   Kind = "issuance_rejected"
	KindCompensationFailed Kind = "compensation_failed"
)

// Category classifies events by delivery guarantee.
type Category string

const (
	// CategoryCommitted events are written in the same transaction as the registry
	// change they describe. Publishing them is fail-closed.
	CategoryCommitted Category = "committed"

	// CategoryOperations events are best-effort and may be dropped under load.
	CategoryOperations Category = "operations"
)

var kindCategories = map[Kind]Category{
	KindBatchCreated:      CategoryCommitted,
	KindCertificateIssued: CategoryCommitted,
	KindBatchCompleted:    CategoryCommitted,
}

// Category returns the delivery category for the kind. Unknown kinds are operational.
func (k Kind) Category() Category {
	if cat, ok := kindCategories[k]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is a notification about a batch. Fields that do not apply to a kind stay zero.
type Event struct {
	ID            id.EventID
	Kind          Kind
	Timestamp     time.Time
	BatchID       id.BatchID
	Actor         id.AccountID // requester for issuance, authority for batch creation
	CertificateID id.CertificateID
	Count         int // issued count after the change
	Name          string
	URI           string
	Reason        string
	RequestID     string
}

// CertificateIssued builds the per-issuance notification.
func CertificateIssued(batchID id.BatchID, requester id.AccountID, certID id.CertificateID, count int, name, uri string) Event {
	return Event{
		Kind:          KindCertificateIssued,
		BatchID:       batchID,
		Actor:         requester,
		CertificateID: certID,
		Count:         count,
		Name:          name,
		URI:           uri,
	}
}

// BatchCompleted builds the one-time completion notification.
func BatchCompleted(batchID id.BatchID, finalCount int) Event {
	return Event{
		Kind:    KindBatchCompleted,
		BatchID: batchID,
		Count:   finalCount,
	}
}

// Store persists events. Implementations join the caller's transaction when one is in ctx.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByBatch(ctx context.Context, batchID id.BatchID) ([]Event, error)
}

// Outbox exposes unpublished events to the relay.
type Outbox interface {
	Pending(ctx context.Context, limit int) ([]Event, error)
	MarkPublished(ctx context.Context, ids []id.EventID, at time.Time) error
}
