package wire

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/mockforge/mockforge/internal/event"
	"github.com/mockforge/mockforge/internal/schema"
)

const (
	// clientBufSize is the per-connection event buffer. A slow client
	// that falls this far behind is disconnected rather than blocking
	// the bus consumer.
	clientBufSize = 64
)

// Feed streams schema events to connected WebSocket clients. It
// subscribes to the event bus as a handler and fans events out to every
// open connection.
type Feed struct {
	store *schema.Store

	mu      sync.Mutex
	clients map[chan event.SchemaEvent]struct{}
}

// NewFeed creates a Feed reading snapshots from the given store.
func NewFeed(store *schema.Store) *Feed {
	return &Feed{
		store:   store,
		clients: make(map[chan event.SchemaEvent]struct{}),
	}
}

// HandleEvent implements the event bus handler: fan the event out to
// every connected client, dropping connections that cannot keep up.
func (f *Feed) HandleEvent(_ context.Context, evt event.SchemaEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.clients {
		select {
		case ch <- evt:
		default:
			close(ch)
			delete(f.clients, ch)
		}
	}
	return nil
}

// ServeHTTP upgrades to WebSocket, sends the current schema snapshot,
// and streams events until the client disconnects.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("feed: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	// Send the current field list so the client starts consistent.
	f.send(ctx, conn, ServerMessage{
		Type: "schema",
		Data: SchemaData{Fields: f.store.Fields()},
	})

	ch := f.register()
	defer f.unregister(ch)

	// Reader goroutine: only pings are expected from the client.
	readErr := make(chan error, 1)
	go func() {
		for {
			var msg ClientMessage
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				readErr <- err
				return
			}
			switch msg.Type {
			case "ping":
				f.send(ctx, conn, ServerMessage{Type: "pong", RequestID: msg.ID})
			default:
				f.send(ctx, conn, ServerMessage{
					Type:      "error",
					RequestID: msg.ID,
					Data: ErrorData{
						Code:    "unknown_type",
						Message: fmt.Sprintf("unknown message type: %s", msg.Type),
					},
				})
			}
		}
	}()

	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				// Dropped for falling behind.
				return
			}
			f.send(ctx, conn, ServerMessage{Type: "event", Data: EventData{Event: evt}})
		case err := <-readErr:
			if websocket.CloseStatus(err) != -1 {
				log.Printf("feed: connection closed: %v", websocket.CloseStatus(err))
			}
			return
		case <-ctx.Done():
			return
		}
	}
}

func (f *Feed) register() chan event.SchemaEvent {
	ch := make(chan event.SchemaEvent, clientBufSize)
	f.mu.Lock()
	f.clients[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

func (f *Feed) unregister(ch chan event.SchemaEvent) {
	f.mu.Lock()
	if _, ok := f.clients[ch]; ok {
		delete(f.clients, ch)
		close(ch)
	}
	f.mu.Unlock()
}

func (f *Feed) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		log.Printf("feed: write error: %v", err)
	}
}
