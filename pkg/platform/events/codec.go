package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "soulmint/pkg/domain"
)

// wirePayload is the JSON shape stored in the outbox and published to Kafka.
type wirePayload struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Timestamp     string `json:"timestamp"`
	BatchID       string `json:"batch_id"`
	Actor         string `json:"actor,omitempty"`
	CertificateID string `json:"certificate_id,omitempty"`
	Count         int    `json:"count"`
	Name          string `json:"name,omitempty"`
	URI           string `json:"uri,omitempty"`
	Reason        string `json:"reason,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
}

func toPayload(e Event) wirePayload {
	p := wirePayload{
		ID:        e.ID.String(),
		Kind:      string(e.Kind),
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
		BatchID:   e.BatchID.String(),
		Count:     e.Count,
		Name:      e.Name,
		URI:       e.URI,
		Reason:    e.Reason,
		RequestID: e.RequestID,
	}
	if !e.Actor.IsNil() {
		p.Actor = e.Actor.String()
	}
	if !e.CertificateID.IsNil() {
		p.CertificateID = e.CertificateID.String()
	}
	return p
}

func fromPayload(raw []byte) (Event, error) {
	var p wirePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Event{}, fmt.Errorf("unmarshal event payload: %w", err)
	}
	e := Event{
		Kind:      Kind(p.Kind),
		Count:     p.Count,
		Name:      p.Name,
		URI:       p.URI,
		Reason:    p.Reason,
		RequestID: p.RequestID,
	}
	eventID, err := uuid.Parse(p.ID)
	if err != nil {
		return Event{}, fmt.Errorf("parse event id: %w", err)
	}
	e.ID = id.EventID(eventID)
	if e.Timestamp, err = time.Parse(time.RFC3339Nano, p.Timestamp); err != nil {
		return Event{}, fmt.Errorf("parse timestamp: %w", err)
	}
	if e.BatchID, err = id.ParseBatchID(p.BatchID); err != nil {
		return Event{}, fmt.Errorf("parse batch id: %w", err)
	}
	if p.Actor != "" {
		if e.Actor, err = id.ParseAccountID(p.Actor); err != nil {
			return Event{}, fmt.Errorf("parse actor: %w", err)
		}
	}
	if p.CertificateID != "" {
		if e.CertificateID, err = id.ParseCertificateID(p.CertificateID); err != nil {
			return Event{}, fmt.Errorf("parse certificate id: %w", err)
		}
	}
	return e, nil
}

// Marshal encodes an event in its wire form.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(toPayload(e))
}

// Unmarshal decodes an event from its wire form.
func Unmarshal(raw []byte) (Event, error) {
	return fromPayload(raw)
}
