// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mockforge/mockforge/internal/editor"
	"github.com/mockforge/mockforge/internal/event"
	"github.com/mockforge/mockforge/internal/eventbus"
	"github.com/mockforge/mockforge/internal/generate"
	"github.com/mockforge/mockforge/internal/handler"
	"github.com/mockforge/mockforge/internal/history"
	"github.com/mockforge/mockforge/internal/schema"
	"github.com/mockforge/mockforge/internal/wire"
)

// Config holds server configuration.
type Config struct {
	Port         int
	GeneratorURL string
	Runs         history.Store
}

// Run starts the HTTP server with all routes registered and blocks
// until the context is cancelled or the listener fails.
func Run(ctx context.Context, cfg Config) error {
	store := schema.NewStore()
	session := editor.NewSession(store)
	client := generate.NewClient(cfg.GeneratorURL, store)
	defer client.Close()

	bus := eventbus.New(256)
	recorder := event.NewRecorder(bus)
	store.SetPublisher(recorder)
	client.SetPublisher(recorder)

	feed := wire.NewFeed(store)
	bus.Subscribe("log", eventbus.NewLogConsumer())
	bus.Subscribe("feed", feed)

	// The bus gets its own cancel so it is drained and stopped on every
	// exit path, including a listener that never came up.
	busCtx, stopBus := context.WithCancel(ctx)
	bus.Start(busCtx)
	defer func() {
		stopBus()
		bus.Stop()
	}()

	sh := handler.NewSchemaHandler(store)
	eh := handler.NewEditorHandler(session)
	gh := handler.NewGenerateHandler(client, store, cfg.Runs)

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/schema", sh.ListFields)
		r.Post("/schema/fields", sh.AddField)
		r.Patch("/schema/fields/{id}", sh.UpdateField)
		r.Delete("/schema/fields/{id}", sh.DeleteField)
		r.Post("/schema/fields/{id}/primary-key", sh.SetPrimaryKey)
		r.Post("/schema/reorder", sh.Reorder)

		r.Get("/editor", eh.GetDraft)
		r.Post("/editor/open", eh.Open)
		r.Patch("/editor/draft", eh.SetDraft)
		r.Post("/editor/commit", eh.Commit)
		r.Post("/editor/cancel", eh.Cancel)

		r.Post("/generate", gh.Generate)
		r.Get("/artifact", gh.GetArtifact)
		r.Get("/artifact/download", gh.Download)
		r.Get("/history", gh.ListRuns)

		r.Get("/events/ws", feed.ServeHTTP)
	})

	wrapped := handler.Recovery(handler.Logging(r))

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("starting server on %s", addr)

	srv := &http.Server{
		Addr:    addr,
		Handler: wrapped,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
