// Package schema owns the ordered field list being edited and is the
// single authority for its two invariants: no two fields share a name
// under case-insensitive comparison, and at most one field is marked
// primary key. Every call site that can touch those invariants (editor
// commit, inline toggle, reorder) goes through this store.
package schema

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mockforge/mockforge/internal/event"
	"github.com/mockforge/mockforge/internal/types"
)

// Candidate is the caller-supplied shape of a field before the store
// has accepted it. Name is trimmed before validation and storage.
type Candidate struct {
	Name       string
	Type       types.FieldType
	PrimaryKey bool
}

// Patch carries a partial update for an existing field. Nil members are
// left untouched.
type Patch struct {
	Name       *string
	Type       *types.FieldType
	PrimaryKey *bool
}

// Publisher receives a domain event after a successful mutation.
type Publisher interface {
	Publish(ctx context.Context, eventType, summary string, payload any)
}

// Store holds the ordered field list. Mutations are serialized by the
// mutex; reads hand out copies so callers never alias store memory.
type Store struct {
	mu     sync.RWMutex
	fields []types.Field
	bus    Publisher
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// SetPublisher attaches an event bus. Events are published after the
// mutation has committed, outside any validation failure path.
func (s *Store) SetPublisher(p Publisher) {
	s.mu.Lock()
	s.bus = p
	s.mu.Unlock()
}

// Fields returns an ordered snapshot of the schema.
func (s *Store) Fields() []types.Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the current field count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fields)
}

// Get returns the field with the given id.
func (s *Store) Get(id uuid.UUID) (types.Field, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.fields {
		if f.ID == id {
			return f, nil
		}
	}
	return types.Field{}, &NotFoundError{ID: id}
}

// AddField validates the candidate, mints a fresh id, and appends the
// field at the end of the order. If the candidate carries
// PrimaryKey=true every sibling's flag is cleared in the same update.
func (s *Store) AddField(ctx context.Context, c Candidate) (types.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(c.Name)
	if name == "" {
		return types.Field{}, &ValidationError{Reason: "empty name"}
	}
	if s.nameTaken(name, uuid.Nil) {
		return types.Field{}, &ValidationError{Reason: "duplicate name"}
	}

	f := types.Field{
		ID:         uuid.New(),
		Name:       name,
		Type:       c.Type,
		PrimaryKey: c.PrimaryKey,
	}
	if f.PrimaryKey {
		s.clearPrimaryKeys()
	}
	s.fields = append(s.fields, f)
	s.publish(ctx, event.TypeFieldAdded, "Field "+name+" added", f)
	return f, nil
}

// UpdateField applies a patch to the field with the given id, keeping
// its position in the order. A patched name is trimmed and checked for
// collisions against every other field. Setting PrimaryKey=true through
// the patch clears every sibling's flag; setting it false clears only
// this field.
func (s *Store) UpdateField(ctx context.Context, id uuid.UUID, p Patch) (types.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return types.Field{}, &NotFoundError{ID: id}
	}

	f := s.fields[idx]
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return types.Field{}, &ValidationError{Reason: "empty name"}
		}
		if s.nameTaken(name, id) {
			return types.Field{}, &ValidationError{Reason: "duplicate name"}
		}
		f.Name = name
	}
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.PrimaryKey != nil {
		if *p.PrimaryKey {
			s.clearPrimaryKeys()
		}
		f.PrimaryKey = *p.PrimaryKey
	}

	s.fields[idx] = f
	s.publish(ctx, event.TypeFieldUpdated, "Field "+f.Name+" updated", f)
	return f, nil
}

// DeleteField removes the field and closes the gap in the order. Its id
// is never reused.
func (s *Store) DeleteField(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return &NotFoundError{ID: id}
	}
	f := s.fields[idx]
	s.fields = append(s.fields[:idx], s.fields[idx+1:]...)
	s.publish(ctx, event.TypeFieldDeleted, "Field "+f.Name+" deleted", f)
	return nil
}

// SetPrimaryKey sets or clears the primary-key flag on one field.
// Enabling clears every other field's flag in the same atomic update;
// disabling touches only the named field. The asymmetry is intentional.
func (s *Store) SetPrimaryKey(ctx context.Context, id uuid.UUID, value bool) (types.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return types.Field{}, &NotFoundError{ID: id}
	}
	if value {
		s.clearPrimaryKeys()
	}
	s.fields[idx].PrimaryKey = value
	f := s.fields[idx]
	s.publish(ctx, event.TypePrimaryKeyChanged, "Primary key set on "+f.Name, f)
	return f, nil
}

// Reorder moves the field at source to destination with splice
// semantics. Out-of-range indices and source == destination are no-ops.
func (s *Store) Reorder(ctx context.Context, source, destination int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reordered, moved := Reorder(s.fields, source, destination)
	s.fields = reordered
	if moved {
		s.publish(ctx, event.TypeSchemaReordered, "Field order changed", map[string]int{
			"source":      source,
			"destination": destination,
		})
	}
}

// ValidatedSnapshot validates and snapshots the schema under one lock,
// so the returned copy is exactly the field list that passed
// validation. A mutation racing with generation can therefore never
// slip between the check and the payload build.
func (s *Store) ValidatedSnapshot() ([]types.Field, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := validateFields(s.fields); err != nil {
		return nil, err
	}
	out := make([]types.Field, len(s.fields))
	copy(out, s.fields)
	return out, nil
}

func validateFields(fields []types.Field) error {
	if len(fields) == 0 {
		return ErrEmptySchema
	}
	for _, f := range fields {
		if f.PrimaryKey {
			return nil
		}
	}
	return ErrNoPrimaryKey
}

// nameTaken reports whether another field (excluding the one with
// exclude as id) already holds the trimmed name, case-insensitively.
// Caller holds the lock.
func (s *Store) nameTaken(name string, exclude uuid.UUID) bool {
	lower := strings.ToLower(name)
	for _, f := range s.fields {
		if f.ID != exclude && strings.ToLower(f.Name) == lower {
			return true
		}
	}
	return false
}

// indexOf returns the position of the field with the given id, or -1.
// Caller holds the lock.
func (s *Store) indexOf(id uuid.UUID) int {
	for i, f := range s.fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// clearPrimaryKeys unsets the flag on every field. Caller holds the lock.
func (s *Store) clearPrimaryKeys() {
	for i := range s.fields {
		s.fields[i].PrimaryKey = false
	}
}

func (s *Store) publish(ctx context.Context, eventType, summary string, payload any) {
	if s.bus != nil {
		s.bus.Publish(ctx, eventType, summary, payload)
	}
}
