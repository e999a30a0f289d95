package generate

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mockforge/mockforge/internal/types"
)

// ErrInvalidHandle is returned when a consumed or superseded artifact
// is used again. A stale handle is a programming error, not retryable.
var ErrInvalidHandle = errors.New("artifact handle is no longer valid")

// Artifact holds one generated file in memory until it is downloaded or
// superseded by a newer generation. Single owner: at most one live
// Artifact exists per Client, and Consume or release are the only exits.
//
// Zero values:
//   - ID: uuid.Nil (invalid, assigned on creation)
//   - FileType: "" (invalid, carries the format it was generated as)
//   - ContentType: "" (falls back to application/octet-stream on Consume)
type Artifact struct {
	ID          uuid.UUID      `json:"id"`
	FileType    types.FileType `json:"fileType"`
	ContentType string         `json:"contentType"`
	Size        int            `json:"size"`
	CreatedAt   time.Time      `json:"createdAt"`

	mu       sync.Mutex
	data     []byte
	released bool
}

func newArtifact(fileType types.FileType, contentType string, data []byte) *Artifact {
	return &Artifact{
		ID:          uuid.New(),
		FileType:    fileType,
		ContentType: contentType,
		Size:        len(data),
		CreatedAt:   time.Now(),
		data:        data,
	}
}

// Filename derives the user-facing save name from the format the
// artifact was generated as, not from any later fileType selection.
func (a *Artifact) Filename() string {
	return "generated_file." + string(a.FileType)
}

// Consume returns the artifact's bytes and content type, then releases
// the handle. A second Consume fails with ErrInvalidHandle.
func (a *Artifact) Consume() ([]byte, string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.released {
		return nil, "", ErrInvalidHandle
	}
	data := a.data
	ct := a.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	a.release()
	return data, ct, nil
}

// Valid reports whether the handle still owns its bytes.
func (a *Artifact) Valid() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.released
}

// Release drops the artifact's bytes without consuming them. Used when
// a newer generation supersedes this handle or the client shuts down.
// Safe to call on an already-released handle.
func (a *Artifact) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.release()
}

// release drops the backing buffer. Caller holds the lock.
func (a *Artifact) release() {
	a.data = nil
	a.released = true
}
