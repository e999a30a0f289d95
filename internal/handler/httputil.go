package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mockforge/mockforge/internal/editor"
	"github.com/mockforge/mockforge/internal/generate"
	"github.com/mockforge/mockforge/internal/schema"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// parseUUID extracts and validates a UUID path parameter.
func parseUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, paramName)
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "invalid UUID: "+raw)
		return uuid.Nil, false
	}
	return id, true
}

// errorToHTTP maps domain errors to appropriate HTTP responses. Every
// error class in the system is classified here, once.
func errorToHTTP(w http.ResponseWriter, err error) {
	switch {
	case schema.IsValidation(err):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case schema.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, schema.ErrEmptySchema):
		writeError(w, http.StatusUnprocessableEntity, "EMPTY_SCHEMA", err.Error())
	case errors.Is(err, schema.ErrNoPrimaryKey):
		writeError(w, http.StatusUnprocessableEntity, "NO_PRIMARY_KEY", err.Error())
	case errors.Is(err, editor.ErrNoDraft):
		writeError(w, http.StatusConflict, "NO_DRAFT", err.Error())
	case errors.Is(err, generate.ErrGenerationInFlight):
		writeError(w, http.StatusConflict, "GENERATION_IN_FLIGHT", err.Error())
	case generate.IsGenerationFailed(err):
		writeError(w, http.StatusBadGateway, "GENERATION_FAILED", err.Error())
	case errors.Is(err, generate.ErrInvalidHandle):
		writeError(w, http.StatusGone, "INVALID_HANDLE", err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
