package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/miniBill/sdc-map/store"
)

func testServer(t *testing.T, adminKey, geoDir string) (*httptest.Server, store.Store) {
	t.Helper()

	submissions := store.NewMemStore()
	handler := NewHandler(submissions, adminKey, geoDir, slog.Default())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, submissions
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func TestSubmitAssignsID(t *testing.T) {
	srv, submissions := testServer(t, "sesame", "")

	resp := postJSON(t, srv.URL+"/submit", SubmitRequest{Encrypted: "blob", Captcha: "lemonade"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var submitResp SubmitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&submitResp))
	require.NotEmpty(t, submitResp.ID)

	all, err := submissions.All(t.Context())
	require.NoError(t, err)
	require.Equal(t, "blob", all[submitResp.ID].Encrypted)
	require.Equal(t, "lemonade", all[submitResp.ID].Captcha)
}

func TestSubmitRejectsEmptyPayload(t *testing.T) {
	srv, _ := testServer(t, "sesame", "")

	resp := postJSON(t, srv.URL+"/submit", SubmitRequest{Captcha: "lemonade"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnswersRequiresAdminKey(t *testing.T) {
	srv, _ := testServer(t, "sesame", "")

	resp := postJSON(t, srv.URL+"/admin/answers", AnswersRequest{Key: "wrong"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAnswersReturnsFullMap(t *testing.T) {
	srv, submissions := testServer(t, "sesame", "")

	id, err := submissions.Save(t.Context(), store.Submission{Encrypted: "blob", Captcha: "tea"})
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/admin/answers", AnswersRequest{Key: "sesame"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var answers map[string]store.Submission
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&answers))
	require.Len(t, answers, 1)
	require.Equal(t, "blob", answers[id].Encrypted)
}

func TestGeoFilesServed(t *testing.T) {
	geoDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(geoDir, "index.json"), []byte(`{"Italy":{"code":"ITA","level":3}}`), 0o644))

	srv, _ := testServer(t, "sesame", geoDir)

	resp, err := http.Get(srv.URL + "/geo/index.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	missing, err := http.Get(srv.URL + "/geo/XXX_9.json")
	require.NoError(t, err)
	defer missing.Body.Close()
	require.Equal(t, http.StatusNotFound, missing.StatusCode)
}
