package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/mockforge/mockforge/internal/generate"
	"github.com/mockforge/mockforge/internal/history"
	"github.com/mockforge/mockforge/internal/schema"
	"github.com/mockforge/mockforge/internal/types"
)

// GenerateHandler implements HTTP handlers for generation requests,
// artifact download, and run history.
type GenerateHandler struct {
	client *generate.Client
	store  *schema.Store
	runs   history.Store
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(client *generate.Client, store *schema.Store, runs history.Store) *GenerateHandler {
	return &GenerateHandler{client: client, store: store, runs: runs}
}

type generateRequest struct {
	FileType string `json:"fileType"`
	FileSize int    `json:"fileSize"`
}

func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	ft, err := types.ParseFileType(req.FileType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FILE_TYPE", err.Error())
		return
	}

	fileSize := generate.ClampFileSize(req.FileSize)
	art, err := h.client.Generate(r.Context(), ft, fileSize)
	h.record(r, ft, fileSize, err)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, art)
}

func (h *GenerateHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	art := h.client.Current()
	if art == nil {
		writeError(w, http.StatusNotFound, "NO_ARTIFACT", "no artifact available")
		return
	}
	writeJSON(w, http.StatusOK, art)
}

// Download streams the artifact's bytes as a file attachment and
// consumes the handle; a second download hits the invalid-handle path.
func (h *GenerateHandler) Download(w http.ResponseWriter, r *http.Request) {
	art := h.client.Current()
	if art == nil {
		writeError(w, http.StatusGone, "INVALID_HANDLE", "no artifact available")
		return
	}

	data, contentType, err := art.Consume()
	if err != nil {
		errorToHTTP(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+art.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		log.Printf("download write error: %v", err)
	}
}

func (h *GenerateHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := h.runs.ListRuns(r.Context(), limit)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// record writes the run outcome to history. Validation refusals
// (empty schema, missing primary key, in-flight) never reached the
// service, so they are not recorded as runs.
func (h *GenerateHandler) record(r *http.Request, ft types.FileType, fileSize int, genErr error) {
	if h.runs == nil {
		return
	}
	if genErr != nil && !generate.IsGenerationFailed(genErr) {
		return
	}
	run := history.Run{
		FileType:    ft,
		FileSize:    fileSize,
		FieldCount:  h.store.Len(),
		Status:      "succeeded",
		RequestedAt: time.Now(),
	}
	if genErr != nil {
		run.Status = "failed"
		run.Error = genErr.Error()
	}
	if err := h.runs.WriteRun(r.Context(), run); err != nil {
		log.Printf("recording generation run: %v", err)
	}
}
