// Package generate issues generation requests to the external
// file-generation service and manages the lifecycle of the resulting
// artifact: at most one request in flight, at most one live artifact.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/mockforge/mockforge/internal/event"
	"github.com/mockforge/mockforge/internal/schema"
	"github.com/mockforge/mockforge/internal/types"
)

const (
	// MinFileSize and MaxFileSize bound the requested record count;
	// out-of-range values are clamped, not rejected.
	MinFileSize = 1
	MaxFileSize = 1000

	defaultTimeout = 60 * time.Second
)

// ErrGenerationInFlight is returned when Generate is called while a
// previous request has not finished. Requests are never queued.
var ErrGenerationInFlight = errors.New("a generation request is already in flight")

// GenerationFailedError wraps a transport or service failure. The
// request is not retried; any prior artifact is left untouched.
type GenerationFailedError struct {
	Err error
}

func (e *GenerationFailedError) Error() string {
	return "generation failed: " + e.Err.Error()
}

func (e *GenerationFailedError) Unwrap() error { return e.Err }

// IsGenerationFailed reports whether err is a GenerationFailedError.
func IsGenerationFailed(err error) bool {
	var gfe *GenerationFailedError
	return errors.As(err, &gfe)
}

// Publisher receives a domain event after a generation attempt.
type Publisher interface {
	Publish(ctx context.Context, eventType, summary string, payload any)
}

// Client talks to the external generation service.
type Client struct {
	baseURL string
	httpc   *http.Client
	store   *schema.Store
	bus     Publisher

	flight sync.Mutex // held for the whole in-flight request

	mu       sync.Mutex // guards artifact
	artifact *Artifact
}

// NewClient creates a Client for the service at baseURL, reading schema
// snapshots from the given store.
func NewClient(baseURL string, store *schema.Store) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
		store:   store,
	}
}

// SetPublisher attaches an event bus for generation outcome events.
func (c *Client) SetPublisher(p Publisher) {
	c.bus = p
}

// ClampFileSize forces size into the 1..1000 range the service accepts.
func ClampFileSize(size int) int {
	if size < MinFileSize {
		return MinFileSize
	}
	if size > MaxFileSize {
		return MaxFileSize
	}
	return size
}

// Generate validates the schema, builds the wire payload from a
// consistent snapshot, and issues one POST to the generation service.
// While a request is in flight further calls fail with
// ErrGenerationInFlight. On success the previous artifact (if any) is
// released and replaced; on failure it is left untouched and the error
// is surfaced as-is (validation) or wrapped in GenerationFailedError
// (transport/service).
func (c *Client) Generate(ctx context.Context, fileType types.FileType, fileSize int) (*Artifact, error) {
	// Validation and snapshot happen under one store lock; the payload
	// is built from the exact field list that passed validation.
	fields, err := c.store.ValidatedSnapshot()
	if err != nil {
		return nil, err
	}

	if !c.flight.TryLock() {
		return nil, ErrGenerationInFlight
	}
	defer c.flight.Unlock()

	req := types.GenerationRequest{
		FileType:   fileType,
		FileSize:   ClampFileSize(fileSize),
		Properties: types.Properties(fields),
	}

	data, contentType, err := c.post(ctx, req)
	if err != nil {
		c.publish(ctx, event.TypeGenerationFailed, "Generation failed", map[string]string{
			"fileType": string(fileType),
			"error":    err.Error(),
		})
		return nil, &GenerationFailedError{Err: err}
	}

	art := newArtifact(fileType, contentType, data)
	c.install(art)
	c.publish(ctx, event.TypeGenerationSucceeded, fmt.Sprintf("Generated %d-byte %s file", art.Size, fileType), art)
	return art, nil
}

// Current returns the live artifact, or nil when none exists or the
// last one has been consumed.
func (c *Client) Current() *Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.artifact != nil && !c.artifact.Valid() {
		c.artifact = nil
	}
	return c.artifact
}

// Close releases any live artifact. Called on server teardown so the
// handle is never abandoned without release.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.artifact != nil {
		c.artifact.Release()
		c.artifact = nil
	}
}

// install replaces the prior artifact, releasing its bytes first.
func (c *Client) install(art *Artifact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.artifact != nil {
		c.artifact.Release()
	}
	c.artifact = art
}

func (c *Client) post(ctx context.Context, genReq types.GenerationRequest) ([]byte, string, error) {
	body, err := json.Marshal(genReq)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("service returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response: %w", err)
	}
	if len(data) == 0 {
		return nil, "", errors.New("service returned an empty body")
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) publish(ctx context.Context, eventType, summary string, payload any) {
	if c.bus != nil {
		c.bus.Publish(ctx, eventType, summary, payload)
	}
}
