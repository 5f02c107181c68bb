package geo

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// testDataServer serves a small italy-only dataset the way the collection
// server's /geo prefix does.
func testDataServer(t *testing.T) *httptest.Server {
	t.Helper()

	files := map[string]any{
		"index.json": Index{
			"Italy":  {Code: "ITA", Level: 3},
			"Monaco": {Code: "MCO", Level: 1},
		},
		"capitals.json": map[string][]float64{
			"Italy":  {12.48, 41.89},
			"Monaco": {7.42, 43.73},
		},
		"ITA_1.json": []map[string]any{
			{
				"name":              "Tuscany",
				"alternative_names": []string{"Toscana"},
				"geometry":          json.RawMessage(`{"type":"Point","coordinates":[11.0,43.4]}`),
				"center":            []float64{11.0, 43.4},
			},
			{
				"name":     "Lazio",
				"geometry": json.RawMessage(`{"type":"Polygon","coordinates":[[[12,41],[13,41],[13,42],[12,42],[12,41]]]}`),
			},
		},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := files[r.URL.Path[1:]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(payload)
	}))
}

func testLoader(t *testing.T) *Loader {
	t.Helper()

	srv := testDataServer(t)
	t.Cleanup(srv.Close)

	loader := NewLoader(srv.URL, slog.Default())
	require.NoError(t, loader.LoadIndex(context.Background()))
	require.NoError(t, loader.LoadCapitals(context.Background()))
	return loader
}

func TestResolveCapitalFallback(t *testing.T) {
	loader := testLoader(t)

	coordinate, resolveErr := loader.Resolve(Query{Country: "Italy"})
	require.Nil(t, resolveErr)
	require.Equal(t, Coordinate{Lon: 12.48, Lat: 41.89}, coordinate)
}

func TestResolveBeforeLoad(t *testing.T) {
	loader := testLoader(t)

	_, resolveErr := loader.Resolve(Query{Country: "Italy", Location: "Tuscany"})
	require.NotNil(t, resolveErr)
	require.Equal(t, ResolveMissing, resolveErr.Kind)
}

func TestResolvePrimaryName(t *testing.T) {
	loader := testLoader(t)
	loader.EnsureCountry(context.Background(), "Italy")

	coordinate, resolveErr := loader.Resolve(Query{Country: "Italy", Location: "tuscany"})
	require.Nil(t, resolveErr)
	require.Equal(t, Coordinate{Lon: 11.0, Lat: 43.4}, coordinate)
}

func TestResolveAlternativeNamePrecedence(t *testing.T) {
	loader := testLoader(t)
	loader.EnsureCountry(context.Background(), "Italy")

	// "TOSCANA " matches only through the alternative-names list, modulo
	// case and spaces.
	coordinate, resolveErr := loader.Resolve(Query{Country: "Italy", Location: " TOSCANA "})
	require.Nil(t, resolveErr)
	require.Equal(t, Coordinate{Lon: 11.0, Lat: 43.4}, coordinate)
}

func TestResolveComputedCenter(t *testing.T) {
	loader := testLoader(t)
	loader.EnsureCountry(context.Background(), "Italy")

	coordinate, resolveErr := loader.Resolve(Query{Country: "Italy", Location: "Lazio"})
	require.Nil(t, resolveErr)
	require.InDelta(t, 12.5, coordinate.Lon, 1e-9)
	require.InDelta(t, 41.5, coordinate.Lat, 1e-9)
}

func TestResolveNotFoundAndBestEffort(t *testing.T) {
	loader := testLoader(t)
	loader.EnsureCountry(context.Background(), "Italy")

	_, resolveErr := loader.Resolve(Query{Country: "Italy", Location: "Atlantis"})
	require.NotNil(t, resolveErr)
	require.Equal(t, ResolveNotFound, resolveErr.Kind)

	// Best effort falls back to the capital.
	coordinate, resolveErr := loader.ResolveBestEffort(Query{Country: "Italy", Location: "Atlantis"})
	require.Nil(t, resolveErr)
	require.Equal(t, Coordinate{Lon: 12.48, Lat: 41.89}, coordinate)
}

func TestResolveCountryAlias(t *testing.T) {
	loader := testLoader(t)
	loader.EnsureCountry(context.Background(), "italy")

	coordinate, resolveErr := loader.Resolve(Query{Country: "italy", Location: "Tuscany"})
	require.Nil(t, resolveErr)
	require.Equal(t, Coordinate{Lon: 11.0, Lat: 43.4}, coordinate)
}

func TestEnsureCountryNoSubdivisions(t *testing.T) {
	loader := testLoader(t)

	// Monaco has level 1: no boundary files exist at all.
	loader.EnsureCountry(context.Background(), "Monaco")

	entry := loader.CountryState("Monaco")
	require.Equal(t, Loaded, entry.State)
	require.Empty(t, entry.Locations)

	_, resolveErr := loader.Resolve(Query{Country: "Monaco", Location: "Monte Carlo"})
	require.NotNil(t, resolveErr)
	require.Equal(t, ResolveNoDataLoaded, resolveErr.Kind)
}

func TestEnsureCountryUnknown(t *testing.T) {
	loader := testLoader(t)
	loader.EnsureCountry(context.Background(), "Narnia")

	entry := loader.CountryState("Narnia")
	require.Equal(t, Failed, entry.State)

	_, resolveErr := loader.Resolve(Query{Country: "Narnia", Location: "Cair Paravel"})
	require.NotNil(t, resolveErr)
	require.Equal(t, ResolveFailed, resolveErr.Kind)
}

func TestReloadAfterFailure(t *testing.T) {
	loader := testLoader(t)
	loader.EnsureCountry(context.Background(), "Narnia")
	require.Equal(t, Failed, loader.CountryState("Narnia").State)

	// EnsureCountry does not retry a failed entry on its own; retry is
	// manual only.
	loader.EnsureCountry(context.Background(), "Narnia")
	require.Equal(t, Failed, loader.CountryState("Narnia").State)

	// Reload retries (and fails again for an unknown country).
	loader.Reload(context.Background(), "Narnia")
	require.Equal(t, Failed, loader.CountryState("Narnia").State)
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, NormalizeName("São Paulo"), NormalizeName("sãopaulo"))
	require.Equal(t, "montecarlo", NormalizeName(" Monte  Carlo "))
}

func TestCanonicalCountry(t *testing.T) {
	require.Equal(t, "USA", CanonicalCountry("United States of America"))
	require.Equal(t, "UK", CanonicalCountry("united kingdom"))
	require.Equal(t, "Italy", CanonicalCountry(" Italy "))
	require.Equal(t, "Freedonia", CanonicalCountry("Freedonia"))
}
