package geo

import "fmt"

// ResolveErrorKind enumerates why a (country, location) pair has no
// coordinate yet.
type ResolveErrorKind int

const (
	// ResolveLoading means the needed dataset is still in flight.
	ResolveLoading ResolveErrorKind = iota
	// ResolveMissing means no load was requested for the country yet.
	ResolveMissing
	// ResolveFailed carries the recorded per-country load failure.
	ResolveFailed
	// ResolveNotFound means the data is loaded but nothing matched.
	ResolveNotFound
	// ResolveNoDataLoaded means the country loaded with an empty boundary
	// list.
	ResolveNoDataLoaded
)

// ResolveError is the tagged failure of a resolution attempt. The dashboard
// shows the kind in the per-row status cell; only Failed carries a reason.
type ResolveError struct {
	Kind   ResolveErrorKind
	Reason string
}

func (e *ResolveError) Error() string {
	switch e.Kind {
	case ResolveLoading:
		return "geo: still loading"
	case ResolveMissing:
		return "geo: data not requested"
	case ResolveFailed:
		return fmt.Sprintf("geo: load failed: %s", e.Reason)
	case ResolveNotFound:
		return "geo: location not found"
	case ResolveNoDataLoaded:
		return "geo: no boundary data for country"
	default:
		return "geo: unresolved"
	}
}

// Query is a resolution request taken from one survey record.
type Query struct {
	Country  string
	Location string
}

// Resolve maps a query to a coordinate.
//
// An empty location falls back to the country's capital. Otherwise the
// country's boundary list is scanned linearly and the first region whose
// normalized name or any normalized alternative name equals the normalized
// query wins; the dataset's ordering decides ties.
func (l *Loader) Resolve(query Query) (Coordinate, *ResolveError) {
	key := countryKey(query.Country)

	if query.Location == "" {
		return l.resolveCapital(key)
	}

	entry := l.cache.Get(key)
	switch entry.State {
	case NotRequested:
		return Coordinate{}, &ResolveError{Kind: ResolveMissing}
	case Loading:
		return Coordinate{}, &ResolveError{Kind: ResolveLoading}
	case Failed:
		return Coordinate{}, &ResolveError{Kind: ResolveFailed, Reason: entry.Reason}
	}

	if len(entry.Locations) == 0 {
		return Coordinate{}, &ResolveError{Kind: ResolveNoDataLoaded}
	}

	wanted := NormalizeName(query.Location)
	for _, location := range entry.Locations {
		if NormalizeName(location.Name) == wanted {
			return location.Center, nil
		}
		for _, alternative := range location.AlternativeNames {
			if NormalizeName(alternative) == wanted {
				return location.Center, nil
			}
		}
	}
	return Coordinate{}, &ResolveError{Kind: ResolveNotFound}
}

// ResolveBestEffort retries a failed full match with an empty location, so a
// respondent whose stated region cannot be matched still lands on their
// country's capital. Favors map density over stated precision.
func (l *Loader) ResolveBestEffort(query Query) (Coordinate, *ResolveError) {
	coordinate, resolveErr := l.Resolve(query)
	if resolveErr == nil || query.Location == "" {
		return coordinate, resolveErr
	}
	return l.Resolve(Query{Country: query.Country})
}

func (l *Loader) resolveCapital(key string) (Coordinate, *ResolveError) {
	l.mu.RLock()
	capitals := l.capitals
	l.mu.RUnlock()

	if capitals == nil {
		return Coordinate{}, &ResolveError{Kind: ResolveLoading}
	}
	if coordinate, ok := capitals[key]; ok {
		return coordinate, nil
	}
	return Coordinate{}, &ResolveError{Kind: ResolveNotFound}
}
