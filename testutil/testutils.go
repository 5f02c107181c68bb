package testutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/miniBill/sdc-map/crypto"
	"github.com/miniBill/sdc-map/record"
	"github.com/miniBill/sdc-map/server"
	"github.com/miniBill/sdc-map/store"
)

// Keys generates a fresh operator key pair.
func Keys(t *testing.T) (crypto.PublicKey, crypto.PrivateKey) {
	t.Helper()

	pub, priv, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	return pub, priv
}

// Logger returns a logger that routes through t.Log.
func Logger(t *testing.T) *slog.Logger {
	return slog.New(slog.NewTextHandler(&testWriter{t: t}, nil))
}

// NewCollectionServer starts a collection server over an in-memory store,
// gated by adminKey. The server is shut down with the test.
func NewCollectionServer(t *testing.T, adminKey string) *httptest.Server {
	t.Helper()

	handler := server.NewHandler(store.NewMemStore(), adminKey, "", Logger(t))

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// Submit seals each record for the operator key and posts it to the
// server's public submit endpoint.
func Submit(t *testing.T, srv *httptest.Server, operatorPub crypto.PublicKey, records ...record.Record) {
	t.Helper()

	for _, r := range records {
		plaintext, err := record.Encode(r)
		require.NoError(t, err)

		_, senderPriv, err := crypto.GenerateKeyPair()
		require.NoError(t, err)
		envelope, err := crypto.Seal(plaintext, operatorPub, senderPriv)
		require.NoError(t, err)

		body, err := json.Marshal(server.SubmitRequest{
			Encrypted: string(envelope),
			Captcha:   r.CaptchaAnswer,
		})
		require.NoError(t, err)

		resp, err := http.Post(srv.URL+"/submit", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
}

// SampleRecords returns the small respondent set most pipeline tests start
// from: two public markers in Italy, one statistics-only respondent, and a
// spam entry sharing the "lemonade" captcha answer.
func SampleRecords() []record.Record {
	yes, no := true, false
	return []record.Record{
		{Name: "Ana", Country: "Italy", Location: "Tuscany", NameOnMap: &yes, CaptchaAnswer: "dog"},
		{Name: "Bruno", Country: "Italy", Location: "Lazio", NameOnMap: &yes, CaptchaAnswer: "cat"},
		{Name: "Cleo", Country: "Monaco", NameOnMap: &no, CaptchaAnswer: "dog"},
		{Name: "Spam", Country: "Italy", NameOnMap: &yes, CaptchaAnswer: "lemonade"},
	}
}

// NewGeoServer serves a minimal boundary dataset (Italy at level 3, Monaco
// indexed but with no data files) the way the collection server's /geo
// prefix does.
func NewGeoServer(t *testing.T) *httptest.Server {
	t.Helper()

	files := map[string]string{
		"index.json":    `{"Italy":{"code":"ITA","level":3},"Monaco":{"code":"MCO","level":1}}`,
		"capitals.json": `{"Italy":[12.48,41.89],"Monaco":[7.42,43.73]}`,
		"ITA_1.json": `[
			{"name":"Tuscany","alternative_names":["Toscana"],"center":[11.0,43.4],
			 "geometry":{"type":"Polygon","coordinates":[[[10,43],[12,43],[12,44],[11.5,44.2],[10.5,44.1],[10,43]]]}},
			{"name":"Lazio","center":[12.5,41.5],
			 "geometry":{"type":"Polygon","coordinates":[[[12,41],[13,41],[13,42],[12.6,42.3],[12.2,42.1],[12,41]]]}}
		]`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := files[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// testWriter routes log output through t.Log so it lands with the test that
// produced it.
type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
