// Package wire defines the WebSocket protocol for the live schema feed.
package wire

import (
	"github.com/mockforge/mockforge/internal/event"
	"github.com/mockforge/mockforge/internal/types"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server WebSocket messages.
type ClientMessage struct {
	Type string `json:"type"` // "ping"
	ID   string `json:"id"`   // Client-assigned request ID
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client WebSocket messages.
type ServerMessage struct {
	Type      string `json:"type"`                 // "schema", "event", "error", "pong"
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// SchemaData is sent once on connect with the current field list.
type SchemaData struct {
	Fields []types.Field `json:"fields"`
}

// EventData carries one domain event.
type EventData struct {
	Event event.SchemaEvent `json:"event"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
