package mapping

import (
	"math"

	"github.com/miniBill/sdc-map/geo"
)

// Scale is the fixed factor from projected world units to plot units.
const Scale = 100

// phi1 is the standard parallel of the equirectangular term.
var phi1 = math.Acos(2 / math.Pi)

// XY is a point in plot space. Positive y points down, screen style.
type XY struct {
	X float64
	Y float64
}

// Project flattens a longitude/latitude pair (degrees) into plot space.
//
// With λ and φ in radians:
//
//	α  = acos(cos φ · cos(λ/2))
//	φ₁ = acos(2/π)
//	x  = ½ · (λ·cos φ₁ + 2·cos φ·sin(λ/2) / sinc α)
//	y  = ½ · (φ + sin φ / sinc α)
//
// where sinc 0 = 1 and sinc x = sin x / x otherwise. The result is scaled by
// Scale and flipped vertically for screen coordinates. Projection is pure:
// identical input is bit-identical output.
func Project(c geo.Coordinate) XY {
	lambda := c.Lon * math.Pi / 180
	phi := c.Lat * math.Pi / 180

	alpha := math.Acos(math.Cos(phi) * math.Cos(lambda/2))

	x := 0.5 * (lambda*math.Cos(phi1) + 2*math.Cos(phi)*math.Sin(lambda/2)/sinc(alpha))
	y := 0.5 * (phi + math.Sin(phi)/sinc(alpha))

	return XY{X: x * Scale, Y: -y * Scale}
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(x) / x
}
