package wire

import (
	"context"
	"testing"

	"github.com/mockforge/mockforge/internal/event"
	"github.com/mockforge/mockforge/internal/schema"
)

func TestFeed_FansOutToRegisteredClients(t *testing.T) {
	feed := NewFeed(schema.NewStore())
	first := feed.register()
	second := feed.register()

	evt := event.New(event.TypeFieldAdded, "Field a added", nil)
	if err := feed.HandleEvent(context.Background(), evt); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	for _, ch := range []chan event.SchemaEvent{first, second} {
		select {
		case got := <-ch:
			if got.ID != evt.ID {
				t.Errorf("got event %s, want %s", got.ID, evt.ID)
			}
		default:
			t.Fatal("client did not receive the event")
		}
	}
}

func TestFeed_DropsSlowClient(t *testing.T) {
	feed := NewFeed(schema.NewStore())
	slow := feed.register()
	healthy := feed.register()

	// Overrun the slow client's buffer without draining it.
	for i := 0; i <= clientBufSize; i++ {
		evt := event.New(event.TypeFieldUpdated, "Field a updated", nil)
		if err := feed.HandleEvent(context.Background(), evt); err != nil {
			t.Fatalf("HandleEvent() error = %v", err)
		}
		<-healthy
	}

	// The slow channel must be closed after its buffered events.
	received := 0
	for range slow {
		received++
	}
	if received != clientBufSize {
		t.Errorf("slow client received %d events before drop, want %d", received, clientBufSize)
	}

	// Unregistering an already-dropped client must not panic.
	feed.unregister(slow)
	feed.unregister(healthy)
}
