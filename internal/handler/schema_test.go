package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockforge/mockforge/internal/editor"
	"github.com/mockforge/mockforge/internal/generate"
	"github.com/mockforge/mockforge/internal/history"
	"github.com/mockforge/mockforge/internal/schema"
	"github.com/mockforge/mockforge/internal/types"
)

// testServer wires the handlers onto a router the way internal/server
// does, backed by a stub generation service.
func testServer(t *testing.T) (*httptest.Server, *schema.Store) {
	t.Helper()

	gen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1}]`))
	}))
	t.Cleanup(gen.Close)

	store := schema.NewStore()
	session := editor.NewSession(store)
	client := generate.NewClient(gen.URL, store)
	t.Cleanup(client.Close)

	sh := NewSchemaHandler(store)
	eh := NewEditorHandler(session)
	gh := NewGenerateHandler(client, store, history.NewMemoryStore())

	r := chi.NewRouter()
	r.Get("/api/schema", sh.ListFields)
	r.Post("/api/schema/fields", sh.AddField)
	r.Patch("/api/schema/fields/{id}", sh.UpdateField)
	r.Delete("/api/schema/fields/{id}", sh.DeleteField)
	r.Post("/api/schema/fields/{id}/primary-key", sh.SetPrimaryKey)
	r.Post("/api/schema/reorder", sh.Reorder)
	r.Post("/api/editor/open", eh.Open)
	r.Patch("/api/editor/draft", eh.SetDraft)
	r.Post("/api/editor/commit", eh.Commit)
	r.Post("/api/generate", gh.Generate)
	r.Get("/api/artifact/download", gh.Download)
	r.Get("/api/history", gh.ListRuns)

	srv := httptest.NewServer(Recovery(Logging(r)))
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["code"]
}

func TestAddField_HTTP(t *testing.T) {
	srv, store := testServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/schema/fields", `{"name":"id","type":"number"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var f types.Field
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
	assert.Equal(t, "id", f.Name)
	assert.Equal(t, 1, store.Len())
}

func TestAddField_HTTP_DuplicateName(t *testing.T) {
	srv, store := testServer(t)

	doJSON(t, http.MethodPost, srv.URL+"/api/schema/fields", `{"name":"Email","type":"email"}`)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/schema/fields", `{"name":"email","type":"string"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, resp))
	assert.Equal(t, 1, store.Len())
}

func TestAddField_HTTP_UnknownType(t *testing.T) {
	srv, _ := testServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/schema/fields", `{"name":"x","type":"blob"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_FIELD_TYPE", errorCode(t, resp))
}

func TestSetPrimaryKey_HTTP(t *testing.T) {
	srv, store := testServer(t)

	x, err := store.AddField(context.Background(), schema.Candidate{Name: "x", Type: types.FieldString})
	require.NoError(t, err)
	y, err := store.AddField(context.Background(), schema.Candidate{Name: "y", Type: types.FieldString})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/schema/fields/"+x.ID.String()+"/primary-key", `{"value":true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/schema/fields/"+y.ID.String()+"/primary-key", `{"value":true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	fields := store.Fields()
	assert.False(t, fields[0].PrimaryKey)
	assert.True(t, fields[1].PrimaryKey)
}

func TestReorder_HTTP(t *testing.T) {
	srv, store := testServer(t)

	for _, n := range []string{"a", "b", "c"} {
		_, err := store.AddField(context.Background(), schema.Candidate{Name: n, Type: types.FieldString})
		require.NoError(t, err)
	}

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/schema/reorder", `{"source":0,"destination":2}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	fields := store.Fields()
	assert.Equal(t, "b", fields[0].Name)
	assert.Equal(t, "c", fields[1].Name)
	assert.Equal(t, "a", fields[2].Name)
}

func TestDeleteField_HTTP_Unknown(t *testing.T) {
	srv, _ := testServer(t)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/schema/fields/1b4e28ba-2fa1-11d2-883f-0016d3cca427", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestEditorCommit_HTTP(t *testing.T) {
	srv, store := testServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/editor/open", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/editor/draft", `{"name":"id","type":"number","primaryKey":true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/editor/commit", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	fields := store.Fields()
	require.Len(t, fields, 1)
	assert.True(t, fields[0].PrimaryKey)
}

func TestEditorCommit_HTTP_Closed(t *testing.T) {
	srv, _ := testServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/editor/commit", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NO_DRAFT", errorCode(t, resp))
}

func TestGenerate_HTTP_EmptySchema(t *testing.T) {
	srv, _ := testServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/generate", `{"fileType":"json","fileSize":10}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "EMPTY_SCHEMA", errorCode(t, resp))
}

func TestGenerate_HTTP_NonNumericSize(t *testing.T) {
	srv, _ := testServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/generate", `{"fileType":"json","fileSize":"lots"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_JSON", errorCode(t, resp))
}

func TestGenerateAndDownload_HTTP(t *testing.T) {
	srv, store := testServer(t)

	_, err := store.AddField(context.Background(), schema.Candidate{Name: "id", Type: types.FieldNumber, PrimaryKey: true})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/generate", `{"fileType":"json","fileSize":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/artifact/download", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="generated_file.json"`, resp.Header.Get("Content-Disposition"))

	// The handle was consumed by the first download.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/artifact/download", "")
	assert.Equal(t, http.StatusGone, resp.StatusCode)

	// The run was recorded.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/history", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Runs []history.Run `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Runs, 1)
	assert.Equal(t, "succeeded", body.Runs[0].Status)
}
