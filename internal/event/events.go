// Package event defines the domain events emitted by the schema store
// and the generation client, and the recorder that feeds them onto the
// in-process bus.
package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SchemaEvent carries the canonical shape of every domain event.
type SchemaEvent struct {
	ID         string          `json:"id"`
	EventType  string          `json:"eventType"`
	OccurredAt time.Time       `json:"occurredAt"`
	Summary    string          `json:"summary"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Known event types.
const (
	TypeFieldAdded          = "field_added"
	TypeFieldUpdated        = "field_updated"
	TypeFieldDeleted        = "field_deleted"
	TypePrimaryKeyChanged   = "primary_key_changed"
	TypeSchemaReordered     = "schema_reordered"
	TypeGenerationSucceeded = "generation_succeeded"
	TypeGenerationFailed    = "generation_failed"
)

// New builds a SchemaEvent with a fresh id and the current time.
func New(eventType, summary string, payload any) SchemaEvent {
	return SchemaEvent{
		ID:         uuid.New().String(),
		EventType:  eventType,
		OccurredAt: time.Now(),
		Summary:    summary,
		Payload:    mustJSON(payload),
	}
}

func mustJSON(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, _ := json.Marshal(v)
	return b
}
