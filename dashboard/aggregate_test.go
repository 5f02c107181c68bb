package dashboard_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miniBill/sdc-map/curation"
	"github.com/miniBill/sdc-map/dashboard"
	"github.com/miniBill/sdc-map/geo"
	"github.com/miniBill/sdc-map/mapping"
	"github.com/miniBill/sdc-map/record"
	"github.com/miniBill/sdc-map/testutil"
)

func testGeoLoader(t *testing.T) *geo.Loader {
	t.Helper()

	srv := testutil.NewGeoServer(t)
	loader := geo.NewLoader(srv.URL, testutil.Logger(t))
	require.NoError(t, loader.LoadIndex(context.Background()))
	require.NoError(t, loader.LoadCapitals(context.Background()))
	return loader
}

func validSample(flagged curation.Set) []record.Record {
	return dashboard.Valid(testutil.SampleRecords(), flagged)
}

func TestValidDropsIncompleteRecords(t *testing.T) {
	records := append(testutil.SampleRecords(), record.Record{Name: "NoCountry", CaptchaAnswer: "dog"})

	valid := dashboard.Valid(records, curation.NewSet())
	require.Len(t, valid, 4)
}

func TestCountsByCountryOrdering(t *testing.T) {
	counts := dashboard.CountsByCountry(validSample(curation.NewSet()))

	require.Equal(t, []dashboard.CountryCount{
		{Country: "Italy", Count: 3},
		{Country: "Monaco", Count: 1},
	}, counts)
}

func TestCountsByCountryCanonicalizes(t *testing.T) {
	records := []record.Record{
		{Name: "A", Country: "United States of America", CaptchaAnswer: "dog"},
		{Name: "B", Country: "USA", CaptchaAnswer: "cat"},
	}

	counts := dashboard.CountsByCountry(records)
	require.Equal(t, []dashboard.CountryCount{{Country: "USA", Count: 2}}, counts)
}

func TestMarkersOnlyForOptedIn(t *testing.T) {
	loader := testGeoLoader(t)
	valid := validSample(curation.NewSet().Toggle("lemonade"))
	dashboard.LoadGeoData(context.Background(), loader, valid)

	markers, unresolved := dashboard.Markers(loader, valid)
	require.Empty(t, unresolved)
	require.Len(t, markers, 2)

	labels := []string{markers[0].Label, markers[1].Label}
	require.ElementsMatch(t, []string{"Ana", "Bruno"}, labels)
}

func TestMarkersFallBackToCapital(t *testing.T) {
	loader := testGeoLoader(t)
	yes := true
	records := []record.Record{
		{Name: "Dora", Country: "Italy", Location: "Atlantis", NameOnMap: &yes, CaptchaAnswer: "dog"},
	}
	dashboard.LoadGeoData(context.Background(), loader, records)

	markers, unresolved := dashboard.Markers(loader, records)
	require.Empty(t, unresolved)
	require.Len(t, markers, 1)
	require.Equal(t, geo.Coordinate{Lon: 12.48, Lat: 41.89}, markers[0].At)
}

func TestPiesGroupByLocation(t *testing.T) {
	loader := testGeoLoader(t)
	valid := validSample(curation.NewSet().Toggle("lemonade"))
	dashboard.LoadGeoData(context.Background(), loader, valid)

	pies := dashboard.Pies(loader, valid)
	require.Len(t, pies, 2)

	// Countries come out sorted, Italy first.
	require.Equal(t, []mapping.PieSlice{
		{Label: "Lazio", Count: 1},
		{Label: "Tuscany", Count: 1},
	}, pies[0].Slices)

	// Cleo is statistics-only but still counts toward Monaco's pie.
	require.Equal(t, []mapping.PieSlice{{Label: "Monaco", Count: 1}}, pies[1].Slices)
}

func TestBordersOnlyForLoadedCountries(t *testing.T) {
	loader := testGeoLoader(t)
	valid := validSample(curation.NewSet())

	// Nothing loaded yet: no borders.
	require.Empty(t, dashboard.Borders(loader, valid))

	dashboard.LoadGeoData(context.Background(), loader, valid)

	// Monaco is indexed at level 1 so it has no boundary files; Italy
	// contributes its two region outlines.
	borders := dashboard.Borders(loader, valid)
	require.Len(t, borders, 1)
	require.Equal(t, "Italy", borders[0].Country)
	require.Len(t, borders[0].Rings, 2)
}

func TestBuildModelRenders(t *testing.T) {
	loader := testGeoLoader(t)
	records := testutil.SampleRecords()
	flagged := curation.NewSet().Toggle("lemonade")
	dashboard.LoadGeoData(context.Background(), loader, dashboard.Valid(records, flagged))

	model, unresolved := dashboard.BuildModel(loader, records, flagged)
	require.Empty(t, unresolved)

	var buf bytes.Buffer
	mapping.Render(&buf, model)
	svg := buf.String()

	require.Contains(t, svg, "<polygon")
	require.Contains(t, svg, "Ana")
	require.Contains(t, svg, "Bruno")
	require.NotContains(t, svg, "Spam")
	require.NotContains(t, svg, "Cleo")
}
