package mapping

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miniBill/sdc-map/geo"
)

// degenerate ring: all points project to the same rounded position.
func tinyRing() []geo.Coordinate {
	return []geo.Coordinate{
		{Lon: 10, Lat: 10},
		{Lon: 10.00001, Lat: 10},
		{Lon: 10, Lat: 10.00001},
		{Lon: 10.00001, Lat: 10.00001},
		{Lon: 10, Lat: 10},
		{Lon: 10, Lat: 10},
	}
}

func squareRing() []geo.Coordinate {
	return []geo.Coordinate{
		{Lon: 0, Lat: 0}, {Lon: 10, Lat: 0}, {Lon: 10, Lat: 10},
		{Lon: 5, Lat: 12}, {Lon: 0, Lat: 10}, {Lon: 0, Lat: 0},
	}
}

func TestDedupeRingDropsRepeats(t *testing.T) {
	points := dedupeRing(tinyRing())
	require.Less(t, len(points), minRingPoints)

	distinct := dedupeRing(squareRing())
	require.GreaterOrEqual(t, len(distinct), minRingPoints)
}

func TestRenderSkipsDegenerateRings(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, Model{
		Borders: []Border{{Country: "Tinyland", Rings: [][]geo.Coordinate{tinyRing()}}},
	})

	out := buf.String()
	require.Contains(t, out, "<svg")
	require.NotContains(t, out, "polygon")
}

func TestRenderBordersMarkersPies(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, Model{
		Width:  800,
		Height: 500,
		Borders: []Border{
			{Country: "Squareland", Rings: [][]geo.Coordinate{squareRing()}},
		},
		Markers: []Marker{
			{Label: "Ana", At: geo.Coordinate{Lon: 12.48, Lat: 41.89}},
		},
		Pies: []Pie{
			{
				At: geo.Coordinate{Lon: 2, Lat: 48},
				Slices: []PieSlice{
					{Label: "Paris", Count: 3},
					{Label: "Lyon", Count: 1},
				},
			},
		},
	})

	out := buf.String()
	require.Contains(t, out, "<polygon")
	require.Contains(t, out, "<circle")
	require.Contains(t, out, "Ana")
	require.Equal(t, 2, strings.Count(out, "<path"))
	require.Contains(t, out, "</svg>")
}

func TestFillStyleStable(t *testing.T) {
	require.Equal(t, fillStyle("Italy"), fillStyle("Italy"))
	require.NotEqual(t, fillStyle("Italy"), fillStyle("France"))
	require.Contains(t, fillStyle("Italy"), "fill-opacity:0.50")
}

func TestSingleSlicePieIsCircle(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, Model{
		Pies: []Pie{{At: geo.Coordinate{}, Slices: []PieSlice{{Label: "Rome", Count: 5}}}},
	})

	out := buf.String()
	require.Contains(t, out, "<circle")
	require.NotContains(t, out, "<path")
}

func TestSortedBorders(t *testing.T) {
	sorted := SortedBorders([]Border{{Country: "Italy"}, {Country: "France"}})
	require.Equal(t, "France", sorted[0].Country)
	require.Equal(t, "Italy", sorted[1].Country)
}
