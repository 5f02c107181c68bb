package mapping

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miniBill/sdc-map/geo"
)

func TestProjectOrigin(t *testing.T) {
	p := Project(geo.Coordinate{Lon: 0, Lat: 0})
	require.Zero(t, p.X)
	require.Zero(t, p.Y)
}

func TestProjectMirroredExtremes(t *testing.T) {
	east := Project(geo.Coordinate{Lon: 180, Lat: 0})
	west := Project(geo.Coordinate{Lon: -180, Lat: 0})

	require.InDelta(t, east.X, -west.X, 1e-9)
	require.InDelta(t, east.Y, west.Y, 1e-9)
	require.Greater(t, east.X, 0.0)
}

func TestProjectDeterministic(t *testing.T) {
	c := geo.Coordinate{Lon: 11.25, Lat: 43.77}

	first := Project(c)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Project(c))
	}
}

func TestProjectFlipsVertically(t *testing.T) {
	north := Project(geo.Coordinate{Lon: 0, Lat: 45})
	south := Project(geo.Coordinate{Lon: 0, Lat: -45})

	// Positive latitude goes up on screen, i.e. negative y.
	require.Less(t, north.Y, 0.0)
	require.Greater(t, south.Y, 0.0)
	require.InDelta(t, north.Y, -south.Y, 1e-9)
}

func TestProjectKnownValue(t *testing.T) {
	// At lon 180, lat 0: alpha = pi/2, sinc alpha = 2/pi, and the formula
	// reduces to x = (2 + pi)/2 in world units.
	p := Project(geo.Coordinate{Lon: 180, Lat: 0})
	require.InDelta(t, (2+3.141592653589793)/2*Scale, p.X, 1e-6)
	require.InDelta(t, 0, p.Y, 1e-9)
}
