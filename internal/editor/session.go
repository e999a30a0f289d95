// Package editor manages the add/edit draft session. A draft lives
// apart from the committed schema so edits can be discarded without
// side effects; only a successful commit reaches the store.
package editor

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mockforge/mockforge/internal/schema"
	"github.com/mockforge/mockforge/internal/types"
)

// ErrNoDraft is returned when commit, cancel, or a draft mutation is
// attempted while the session is closed.
var ErrNoDraft = errors.New("editor session is closed")

// Draft is the in-progress field. A Nil ID means the draft is a new
// field; a non-Nil ID means it edits the existing field with that id.
type Draft struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Type       types.FieldType `json:"type"`
	PrimaryKey bool            `json:"primaryKey"`
}

// Session is the editor state machine: Closed until Open is called,
// Open while a draft exists, Closed again after Commit succeeds or
// Cancel runs. A failed Commit leaves the session Open with the draft
// retained so the caller can correct it.
type Session struct {
	mu    sync.Mutex
	store *schema.Store
	draft *Draft
}

// NewSession creates a closed session bound to the given store.
func NewSession(store *schema.Store) *Session {
	return &Session{store: store}
}

// Open starts a draft. With existing == uuid.Nil the draft is a new
// field with default type string; otherwise the draft copies the
// existing field, id included. Opening while already open replaces the
// previous draft.
func (s *Session) Open(existing uuid.UUID) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing == uuid.Nil {
		s.draft = &Draft{Type: types.FieldString}
		return *s.draft, nil
	}

	f, err := s.store.Get(existing)
	if err != nil {
		return Draft{}, err
	}
	s.draft = &Draft{ID: f.ID, Name: f.Name, Type: f.Type, PrimaryKey: f.PrimaryKey}
	return *s.draft, nil
}

// SetDraft applies a partial edit to the open draft. No validation
// happens here; that is Commit's job.
func (s *Session) SetDraft(name *string, fieldType *types.FieldType, primaryKey *bool) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return Draft{}, ErrNoDraft
	}
	if name != nil {
		s.draft.Name = *name
	}
	if fieldType != nil {
		s.draft.Type = *fieldType
	}
	if primaryKey != nil {
		s.draft.PrimaryKey = *primaryKey
	}
	return *s.draft, nil
}

// Draft returns a copy of the open draft.
func (s *Session) Draft() (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return Draft{}, ErrNoDraft
	}
	return *s.draft, nil
}

// Commit validates the draft and hands it to the store: AddField for a
// new draft, UpdateField for an existing one. A draft carrying
// PrimaryKey=true goes through the store paths that clear every
// sibling's flag, so a committed primary key always wins over pending
// toggle state. On success the session closes; on any validation
// failure it stays open, draft intact, store untouched.
func (s *Session) Commit(ctx context.Context) (types.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return types.Field{}, ErrNoDraft
	}

	name := strings.TrimSpace(s.draft.Name)
	if name == "" {
		return types.Field{}, &schema.ValidationError{Reason: "empty name"}
	}

	var (
		f   types.Field
		err error
	)
	if s.draft.ID == uuid.Nil {
		f, err = s.store.AddField(ctx, schema.Candidate{
			Name:       name,
			Type:       s.draft.Type,
			PrimaryKey: s.draft.PrimaryKey,
		})
	} else {
		f, err = s.store.UpdateField(ctx, s.draft.ID, schema.Patch{
			Name:       &name,
			Type:       &s.draft.Type,
			PrimaryKey: &s.draft.PrimaryKey,
		})
	}
	if err != nil {
		return types.Field{}, err
	}

	s.draft = nil
	return f, nil
}

// Cancel discards the draft and closes the session without touching
// the store.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return ErrNoDraft
	}
	s.draft = nil
	return nil
}

// IsOpen reports whether a draft is in progress.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft != nil
}
