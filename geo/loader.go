package geo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Loader fetches the geo datasets over HTTP and owns the session's lazy
// per-country cache. One Loader serves one admin dashboard session; building
// a fresh one on reload is cheap and side-effect free.
type Loader struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger

	cache *Cache

	mu       sync.RWMutex
	index    Index
	capitals map[string]Coordinate
}

// NewLoader creates a loader for the dataset files under baseURL
// (typically the collection server's /geo prefix).
func NewLoader(baseURL string, log *slog.Logger) *Loader {
	return &Loader{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
		cache:      NewCache(),
	}
}

// CountryState reports the load state for a country, resolving aliases and
// case the same way loads do. This backs the dashboard's per-country status
// rows.
func (l *Loader) CountryState(country string) CacheEntry {
	return l.cache.Get(countryKey(country))
}

// LoadIndex fetches and parses the country index. Must complete before any
// country load is issued. Index keys are normalized so lookups tolerate the
// free-text spellings respondents use.
func (l *Loader) LoadIndex(ctx context.Context) error {
	data, _, err := l.fetch(ctx, "index.json")
	if err != nil {
		return err
	}
	index, err := DecodeIndex(data)
	if err != nil {
		return err
	}

	keyed := make(Index, len(index))
	for country, entry := range index {
		keyed[countryKey(country)] = entry
	}

	l.mu.Lock()
	l.index = keyed
	l.mu.Unlock()
	return nil
}

// LoadCapitals fetches and parses the capital coordinates file.
func (l *Loader) LoadCapitals(ctx context.Context) error {
	data, _, err := l.fetch(ctx, "capitals.json")
	if err != nil {
		return err
	}
	capitals, err := DecodeCapitals(data)
	if err != nil {
		return err
	}

	keyed := make(map[string]Coordinate, len(capitals))
	for country, coordinate := range capitals {
		keyed[countryKey(country)] = coordinate
	}

	l.mu.Lock()
	l.capitals = keyed
	l.mu.Unlock()
	return nil
}

// IndexEntry looks up the dataset metadata for a country name.
func (l *Loader) IndexEntry(country string) (IndexEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entry, ok := l.index[countryKey(country)]
	return entry, ok
}

// EnsureCountry loads a country's boundary files if no load happened yet.
// Safe to call repeatedly and from the completion of any other load; the
// cache entry flips to Loading exactly once per attempt, and a failed entry
// stays failed until an explicit Reload.
func (l *Loader) EnsureCountry(ctx context.Context, country string) {
	key := countryKey(country)
	if !l.cache.BeginLoad(key) {
		return
	}

	entry, ok := l.IndexEntry(country)
	if !ok {
		l.cache.Fail(key, fmt.Sprintf("country %q not in index", CanonicalCountry(country)))
		return
	}

	locations, err := l.fetchCountry(ctx, entry)
	if err != nil {
		l.log.Warn("country load failed", "country", country, "err", err)
		l.cache.Fail(key, err.Error())
		return
	}

	l.log.Debug("country loaded", "country", country, "locations", len(locations))
	l.cache.Complete(key, locations)
}

// Reload drops a country's cache entry and fetches it again. This is the
// manual retry affordance; there is no automatic retry.
func (l *Loader) Reload(ctx context.Context, country string) {
	l.cache.Reset(countryKey(country))
	l.EnsureCountry(ctx, country)
}

// fetchCountry pulls every boundary file the index promises for a country:
// levels 1 through Level-1. A 404 means the country is not represented at
// that depth and is skipped, not failed.
func (l *Loader) fetchCountry(ctx context.Context, entry IndexEntry) ([]Location, error) {
	var locations []Location
	for level := 1; level < entry.Level; level++ {
		data, status, err := l.fetch(ctx, fmt.Sprintf("%s_%d.json", entry.Code, level))
		if err != nil {
			if status == http.StatusNotFound {
				continue
			}
			return nil, err
		}

		fromLevel, err := DecodeLocations(data)
		if err != nil {
			return nil, err
		}
		locations = append(locations, fromLevel...)
	}
	return locations, nil
}

// fetch retrieves one dataset file, returning the HTTP status alongside the
// error so 404 can be told apart from transport failures.
func (l *Loader) fetch(ctx context.Context, name string) ([]byte, int, error) {
	url := l.baseURL + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request for %s: %w", name, err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("fetch %s: status %d", name, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", name, err)
	}
	return data, resp.StatusCode, nil
}
