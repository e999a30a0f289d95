package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/mockforge/mockforge/internal/editor"
	"github.com/mockforge/mockforge/internal/types"
)

// EditorHandler implements HTTP handlers for the field editor session.
type EditorHandler struct {
	session *editor.Session
}

// NewEditorHandler creates a new EditorHandler.
func NewEditorHandler(session *editor.Session) *EditorHandler {
	return &EditorHandler{session: session}
}

func (h *EditorHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.session.Draft()
	if err != nil {
		if errors.Is(err, editor.ErrNoDraft) {
			writeJSON(w, http.StatusOK, map[string]any{"open": false})
			return
		}
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"open": true, "draft": draft})
}

type openEditorRequest struct {
	ID *string `json:"id,omitempty"`
}

func (h *EditorHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openEditorRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
			return
		}
	}

	existing := uuid.Nil
	if req.ID != nil {
		id, err := uuid.Parse(*req.ID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_ID", "invalid UUID: "+*req.ID)
			return
		}
		existing = id
	}

	draft, err := h.session.Open(existing)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

type setDraftRequest struct {
	Name       *string `json:"name,omitempty"`
	Type       *string `json:"type,omitempty"`
	PrimaryKey *bool   `json:"primaryKey,omitempty"`
}

func (h *EditorHandler) SetDraft(w http.ResponseWriter, r *http.Request) {
	var req setDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	var ft *types.FieldType
	if req.Type != nil {
		parsed, err := types.ParseFieldType(*req.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_FIELD_TYPE", err.Error())
			return
		}
		ft = &parsed
	}

	draft, err := h.session.SetDraft(req.Name, ft, req.PrimaryKey)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *EditorHandler) Commit(w http.ResponseWriter, r *http.Request) {
	f, err := h.session.Commit(r.Context())
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *EditorHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Cancel(); err != nil {
		errorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
