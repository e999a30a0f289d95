package eventbus

import (
	"context"
	"log"

	"github.com/mockforge/mockforge/internal/event"
)

// LogConsumer logs all domain events for observability.
type LogConsumer struct{}

func NewLogConsumer() *LogConsumer { return &LogConsumer{} }

func (c *LogConsumer) HandleEvent(_ context.Context, evt event.SchemaEvent) error {
	log.Printf("event: %s — %s", evt.EventType, evt.Summary)
	return nil
}
