package geo

import (
	"encoding/json"
	"fmt"
)

// Coordinate is a longitude/latitude pair in degrees.
type Coordinate struct {
	Lon float64
	Lat float64
}

// Geometry is the sum type over the shapes a boundary file can carry.
// Consumers switch exhaustively over the variants; adding a shape kind means
// extending the switch in every consumer.
type Geometry interface {
	isGeometry()
}

// Point is a single coordinate.
type Point Coordinate

// MultiPoint is a bag of coordinates.
type MultiPoint []Coordinate

// LineString is an ordered path of coordinates.
type LineString []Coordinate

// Polygon is a list of rings; the first ring is the outer boundary.
type Polygon [][]Coordinate

// MultiPolygon is a list of polygons.
type MultiPolygon []Polygon

// Collection nests arbitrary geometries.
type Collection []Geometry

func (Point) isGeometry()        {}
func (MultiPoint) isGeometry()   {}
func (LineString) isGeometry()   {}
func (Polygon) isGeometry()      {}
func (MultiPolygon) isGeometry() {}
func (Collection) isGeometry()   {}

// Centroid computes a representative coordinate for a geometry, used when a
// boundary file carries no precomputed center. The second return value is
// false for empty geometry.
func Centroid(g Geometry) (Coordinate, bool) {
	switch shape := g.(type) {
	case Point:
		return Coordinate(shape), true
	case MultiPoint:
		return meanOf(shape)
	case LineString:
		return meanOf(shape)
	case Polygon:
		if len(shape) == 0 {
			return Coordinate{}, false
		}
		return meanOf(withoutClosingPoint(shape[0]))
	case MultiPolygon:
		centers := make([]Coordinate, 0, len(shape))
		for _, polygon := range shape {
			if c, ok := Centroid(polygon); ok {
				centers = append(centers, c)
			}
		}
		return meanOf(centers)
	case Collection:
		centers := make([]Coordinate, 0, len(shape))
		for _, member := range shape {
			if c, ok := Centroid(member); ok {
				centers = append(centers, c)
			}
		}
		return meanOf(centers)
	default:
		return Coordinate{}, false
	}
}

// Rings extracts every polygon ring of a geometry for border rendering.
// Points and lines contribute no rings.
func Rings(g Geometry) [][]Coordinate {
	switch shape := g.(type) {
	case Point, MultiPoint, LineString:
		return nil
	case Polygon:
		return shape
	case MultiPolygon:
		var rings [][]Coordinate
		for _, polygon := range shape {
			rings = append(rings, polygon...)
		}
		return rings
	case Collection:
		var rings [][]Coordinate
		for _, member := range shape {
			rings = append(rings, Rings(member)...)
		}
		return rings
	default:
		return nil
	}
}

func meanOf(points []Coordinate) (Coordinate, bool) {
	if len(points) == 0 {
		return Coordinate{}, false
	}
	var lon, lat float64
	for _, p := range points {
		lon += p.Lon
		lat += p.Lat
	}
	n := float64(len(points))
	return Coordinate{Lon: lon / n, Lat: lat / n}, true
}

// withoutClosingPoint drops the repeated final vertex of a closed ring so it
// does not skew the mean.
func withoutClosingPoint(ring []Coordinate) []Coordinate {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		return ring[:len(ring)-1]
	}
	return ring
}

// geometryJSON is the raw GeoJSON-style form of a geometry.
type geometryJSON struct {
	Type        string            `json:"type"`
	Coordinates json.RawMessage   `json:"coordinates"`
	Geometries  []json.RawMessage `json:"geometries"`
}

// DecodeGeometry parses a GeoJSON-style geometry object.
func DecodeGeometry(data []byte) (Geometry, error) {
	var raw geometryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("geometry: %w", err)
	}

	switch raw.Type {
	case "Point":
		p, err := decodePosition(raw.Coordinates)
		if err != nil {
			return nil, err
		}
		return Point(p), nil
	case "MultiPoint":
		points, err := decodePositions(raw.Coordinates)
		if err != nil {
			return nil, err
		}
		return MultiPoint(points), nil
	case "LineString":
		points, err := decodePositions(raw.Coordinates)
		if err != nil {
			return nil, err
		}
		return LineString(points), nil
	case "Polygon":
		rings, err := decodeRings(raw.Coordinates)
		if err != nil {
			return nil, err
		}
		return Polygon(rings), nil
	case "MultiPolygon":
		var rawPolygons []json.RawMessage
		if err := json.Unmarshal(raw.Coordinates, &rawPolygons); err != nil {
			return nil, fmt.Errorf("geometry: %w", err)
		}
		polygons := make(MultiPolygon, 0, len(rawPolygons))
		for _, rawPolygon := range rawPolygons {
			rings, err := decodeRings(rawPolygon)
			if err != nil {
				return nil, err
			}
			polygons = append(polygons, Polygon(rings))
		}
		return polygons, nil
	case "GeometryCollection":
		members := make(Collection, 0, len(raw.Geometries))
		for _, rawMember := range raw.Geometries {
			member, err := DecodeGeometry(rawMember)
			if err != nil {
				return nil, err
			}
			members = append(members, member)
		}
		return members, nil
	default:
		return nil, fmt.Errorf("geometry: unsupported type %q", raw.Type)
	}
}

// decodePosition reads a GeoJSON position, tolerating trailing dimensions
// beyond lon/lat.
func decodePosition(data []byte) (Coordinate, error) {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return Coordinate{}, fmt.Errorf("position: %w", err)
	}
	if len(values) < 2 {
		return Coordinate{}, fmt.Errorf("position: expected lon and lat, got %d values", len(values))
	}
	return Coordinate{Lon: values[0], Lat: values[1]}, nil
}

func decodePositions(data []byte) ([]Coordinate, error) {
	var rawPoints []json.RawMessage
	if err := json.Unmarshal(data, &rawPoints); err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	points := make([]Coordinate, 0, len(rawPoints))
	for _, rawPoint := range rawPoints {
		p, err := decodePosition(rawPoint)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func decodeRings(data []byte) ([][]Coordinate, error) {
	var rawRings []json.RawMessage
	if err := json.Unmarshal(data, &rawRings); err != nil {
		return nil, fmt.Errorf("rings: %w", err)
	}
	rings := make([][]Coordinate, 0, len(rawRings))
	for _, rawRing := range rawRings {
		ring, err := decodePositions(rawRing)
		if err != nil {
			return nil, err
		}
		rings = append(rings, ring)
	}
	return rings, nil
}
