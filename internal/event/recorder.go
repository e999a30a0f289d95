package event

import "context"

// Publisher sends domain events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evt SchemaEvent)
}

// Recorder adapts the (eventType, summary, payload) publishing surface
// the store and generation client expect onto a Publisher. It satisfies
// both schema.Publisher and generate.Publisher.
type Recorder struct {
	bus Publisher
}

// NewRecorder creates a Recorder backed by the given bus.
func NewRecorder(bus Publisher) *Recorder {
	return &Recorder{bus: bus}
}

// Publish wraps the arguments in a SchemaEvent and hands it to the bus.
func (r *Recorder) Publish(ctx context.Context, eventType, summary string, payload any) {
	r.bus.Publish(ctx, New(eventType, summary, payload))
}
