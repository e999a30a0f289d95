package handler

import (
	"net/http"

	"github.com/mockforge/mockforge/internal/schema"
	"github.com/mockforge/mockforge/internal/types"
)

// SchemaHandler implements HTTP handlers for the field list: add,
// update, delete, primary-key toggle, and reorder.
type SchemaHandler struct {
	store *schema.Store
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(store *schema.Store) *SchemaHandler {
	return &SchemaHandler{store: store}
}

func (h *SchemaHandler) ListFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"fields": h.store.Fields(),
	})
}

type addFieldRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primaryKey"`
}

func (h *SchemaHandler) AddField(w http.ResponseWriter, r *http.Request) {
	var req addFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	ft, err := types.ParseFieldType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FIELD_TYPE", err.Error())
		return
	}

	f, err := h.store.AddField(r.Context(), schema.Candidate{
		Name:       req.Name,
		Type:       ft,
		PrimaryKey: req.PrimaryKey,
	})
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

type updateFieldRequest struct {
	Name       *string `json:"name,omitempty"`
	Type       *string `json:"type,omitempty"`
	PrimaryKey *bool   `json:"primaryKey,omitempty"`
}

func (h *SchemaHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req updateFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	patch := schema.Patch{Name: req.Name, PrimaryKey: req.PrimaryKey}
	if req.Type != nil {
		ft, err := types.ParseFieldType(*req.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_FIELD_TYPE", err.Error())
			return
		}
		patch.Type = &ft
	}

	f, err := h.store.UpdateField(r.Context(), id, patch)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *SchemaHandler) DeleteField(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteField(r.Context(), id); err != nil {
		errorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setPrimaryKeyRequest struct {
	Value bool `json:"value"`
}

func (h *SchemaHandler) SetPrimaryKey(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req setPrimaryKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	f, err := h.store.SetPrimaryKey(r.Context(), id, req.Value)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

type reorderRequest struct {
	Source      int `json:"source"`
	Destination int `json:"destination"`
}

// Reorder applies a drag-release move. Out-of-range indices are the
// "dropped outside a valid target" case and leave the order unchanged.
func (h *SchemaHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	h.store.Reorder(r.Context(), req.Source, req.Destination)
	writeJSON(w, http.StatusOK, map[string]any{
		"fields": h.store.Fields(),
	})
}
