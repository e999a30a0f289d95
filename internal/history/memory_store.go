package history

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore implements Store using an in-memory slice.
// Intended for demos and testing — no sqlite file required.
type MemoryStore struct {
	mu   sync.RWMutex
	runs []Run
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) WriteRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	s.runs = append(s.runs, run)
	return nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Run, len(s.runs))
	copy(out, s.runs)

	// Sort by requested_at DESC.
	sort.Slice(out, func(i, j int) bool {
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})

	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
