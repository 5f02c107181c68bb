package dashboard

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/miniBill/sdc-map/curation"
	"github.com/miniBill/sdc-map/geo"
	"github.com/miniBill/sdc-map/mapping"
	"github.com/miniBill/sdc-map/record"
)

// Valid filters the decrypted records down to the ones that participate in
// aggregate views: complete and not flagged by the curation set.
func Valid(records []record.Record, flagged curation.Set) []record.Record {
	valid := make([]record.Record, 0, len(records))
	for _, r := range records {
		if !r.Complete() {
			continue
		}
		if flagged.IsInvalid(r.CaptchaAnswer) {
			continue
		}
		valid = append(valid, r)
	}
	return valid
}

// CountryCount is one row of the per-country statistics table.
type CountryCount struct {
	Country string
	Count   int
}

// CountsByCountry groups valid records by canonical country, ordered by
// count descending then name, for the statistics table.
func CountsByCountry(records []record.Record) []CountryCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[geo.CanonicalCountry(r.Country)]++
	}

	rows := make([]CountryCount, 0, len(counts))
	for country, count := range counts {
		rows = append(rows, CountryCount{Country: country, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Country < rows[j].Country
	})
	return rows
}

// CaptchaFrequency counts case-folded captcha answers over all decrypted
// records, curated or not. This is the table the admin curates from, so it
// must keep showing flagged answers.
func CaptchaFrequency(records []record.Record) map[string]int {
	frequency := make(map[string]int)
	for _, r := range records {
		frequency[strings.ToLower(r.CaptchaAnswer)]++
	}
	return frequency
}

// LoadGeoData issues one boundary load per distinct country among the valid
// records and waits for all of them. Loads run concurrently and may
// complete in any order; the cache absorbs each completion independently.
func LoadGeoData(ctx context.Context, loader *geo.Loader, records []record.Record) {
	countries := make(map[string]struct{})
	for _, r := range records {
		countries[geo.CanonicalCountry(r.Country)] = struct{}{}
	}

	var wg sync.WaitGroup
	for country := range countries {
		wg.Add(1)
		go func(country string) {
			defer wg.Done()
			loader.EnsureCountry(ctx, country)
		}(country)
	}
	wg.Wait()
}

// Unresolved is a record the resolver could not place, with the reason for
// the per-row status cell.
type Unresolved struct {
	Record record.Record
	Reason *geo.ResolveError
}

// Markers resolves a coordinate for every valid record that opted into a
// public marker. Resolution is best effort: a record whose stated location
// cannot be matched falls back to the country capital.
func Markers(loader *geo.Loader, records []record.Record) ([]mapping.Marker, []Unresolved) {
	var markers []mapping.Marker
	var unresolved []Unresolved

	for _, r := range records {
		if !r.OnMap() {
			continue
		}

		coordinate, resolveErr := loader.ResolveBestEffort(geo.Query{
			Country:  r.Country,
			Location: r.Location,
		})
		if resolveErr != nil {
			unresolved = append(unresolved, Unresolved{Record: r, Reason: resolveErr})
			continue
		}

		markers = append(markers, mapping.Marker{Label: r.Name, At: coordinate})
	}
	return markers, unresolved
}

// Pies builds one pie chart per country, anchored at the country capital,
// with a slice per stated location. Statistics-only respondents count here
// even though they get no marker.
func Pies(loader *geo.Loader, records []record.Record) []mapping.Pie {
	type key struct{ country, location string }
	counts := make(map[key]int)
	for _, r := range records {
		counts[key{geo.CanonicalCountry(r.Country), r.Location}]++
	}

	byCountry := make(map[string]map[string]int)
	for k, count := range counts {
		if byCountry[k.country] == nil {
			byCountry[k.country] = make(map[string]int)
		}
		label := k.location
		if label == "" {
			label = k.country
		}
		byCountry[k.country][label] += count
	}

	countries := make([]string, 0, len(byCountry))
	for country := range byCountry {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	var pies []mapping.Pie
	for _, country := range countries {
		at, resolveErr := loader.Resolve(geo.Query{Country: country})
		if resolveErr != nil {
			continue
		}

		labels := make([]string, 0, len(byCountry[country]))
		for label := range byCountry[country] {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		slices := make([]mapping.PieSlice, 0, len(labels))
		for _, label := range labels {
			slices = append(slices, mapping.PieSlice{Label: label, Count: byCountry[country][label]})
		}
		pies = append(pies, mapping.Pie{At: at, Slices: slices})
	}
	return pies
}

// Borders collects the loaded boundary rings per country for the map
// backdrop. Countries still loading or failed contribute nothing; the map
// re-renders incrementally as loads complete.
func Borders(loader *geo.Loader, records []record.Record) []mapping.Border {
	seen := make(map[string]struct{})
	var borders []mapping.Border

	for _, r := range records {
		country := geo.CanonicalCountry(r.Country)
		if _, ok := seen[country]; ok {
			continue
		}
		seen[country] = struct{}{}

		entry := loader.CountryState(country)
		if entry.State != geo.Loaded {
			continue
		}

		var rings [][]geo.Coordinate
		for _, location := range entry.Locations {
			rings = append(rings, geo.Rings(location.Geometry)...)
		}
		if len(rings) == 0 {
			continue
		}
		borders = append(borders, mapping.Border{Country: country, Rings: rings})
	}
	return mapping.SortedBorders(borders)
}

// BuildModel composes the full render model from the decrypted records and
// the current geo cache state.
func BuildModel(loader *geo.Loader, records []record.Record, flagged curation.Set) (mapping.Model, []Unresolved) {
	valid := Valid(records, flagged)
	markers, unresolved := Markers(loader, valid)

	return mapping.Model{
		Borders: Borders(loader, valid),
		Markers: markers,
		Pies:    Pies(loader, valid),
	}, unresolved
}
