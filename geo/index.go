package geo

import (
	"encoding/json"
	"fmt"
)

// IndexEntry is the per-country metadata from the dataset index: the
// three-letter code boundary files are named by, and the administrative
// subdivision depth available for the country.
type IndexEntry struct {
	Code  string `json:"code"`
	Level int    `json:"level"`
}

// Index maps canonical country names to their dataset metadata. Loaded once
// at dashboard start, read-only afterwards.
type Index map[string]IndexEntry

// DecodeIndex parses the country index file.
func DecodeIndex(data []byte) (Index, error) {
	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	return index, nil
}

// DecodeCapitals parses the capitals file: one [lon, lat] coordinate per
// country, used when a respondent left the location blank.
func DecodeCapitals(data []byte) (map[string]Coordinate, error) {
	var raw map[string][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("capitals: %w", err)
	}

	capitals := make(map[string]Coordinate, len(raw))
	for country, position := range raw {
		if len(position) < 2 {
			return nil, fmt.Errorf("capitals: %s: expected lon and lat, got %d values", country, len(position))
		}
		capitals[country] = Coordinate{Lon: position[0], Lat: position[1]}
	}
	return capitals, nil
}

// Location is a named region inside a country, with the alternative names
// respondents might have used for it and a representative coordinate.
type Location struct {
	Name             string
	AlternativeNames []string
	Geometry         Geometry
	Center           Coordinate
}

// locationJSON is the raw file form of a Location.
type locationJSON struct {
	Name             string          `json:"name"`
	AlternativeNames []string        `json:"alternative_names"`
	Geometry         json.RawMessage `json:"geometry"`
	Center           []float64       `json:"center"`
}

// DecodeLocations parses one boundary file: a flat list of named regions.
// A missing precomputed center is filled in from the geometry's centroid.
func DecodeLocations(data []byte) ([]Location, error) {
	var raw []locationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("locations: %w", err)
	}

	locations := make([]Location, 0, len(raw))
	for _, entry := range raw {
		geometry, err := DecodeGeometry(entry.Geometry)
		if err != nil {
			return nil, fmt.Errorf("locations: %s: %w", entry.Name, err)
		}

		location := Location{
			Name:             entry.Name,
			AlternativeNames: entry.AlternativeNames,
			Geometry:         geometry,
		}
		if len(entry.Center) >= 2 {
			location.Center = Coordinate{Lon: entry.Center[0], Lat: entry.Center[1]}
		} else if center, ok := Centroid(geometry); ok {
			location.Center = center
		}
		locations = append(locations, location)
	}
	return locations, nil
}
