package geo

import "sync"

// LoadState is the lifecycle of one country's boundary data.
type LoadState int

const (
	// NotRequested means no load was issued for the country yet.
	NotRequested LoadState = iota
	// Loading means a fetch is in flight.
	Loading
	// Loaded means the cache holds the country's boundary list (possibly
	// empty when the dataset has no subdivisions for it).
	Loaded
	// Failed means the last load ended with an error; the reason is kept
	// for display next to the per-country retry affordance.
	Failed
)

// String returns the state name for status cells and logs.
func (s LoadState) String() string {
	switch s {
	case NotRequested:
		return "not requested"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// CacheEntry is the load state of one country plus its payload.
type CacheEntry struct {
	State     LoadState
	Locations []Location
	Reason    string
}

// Cache holds per-country boundary data keyed by canonical country name.
// Entries are updated atomically per fetch completion, so interleaved or
// out-of-order completions cannot corrupt state.
type Cache struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]CacheEntry)}
}

// Get returns the entry for a country; a country never requested reports
// NotRequested.
func (c *Cache) Get(country string) CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[country]
}

// BeginLoad marks a country Loading and reports whether the caller should
// actually fetch: false means a load is already in flight, done, or failed.
// A failed entry stays failed until an explicit Reset; retry is manual only.
func (c *Cache) BeginLoad(country string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries[country].State != NotRequested {
		return false
	}
	c.entries[country] = CacheEntry{State: Loading}
	return true
}

// Complete records a successful load.
func (c *Cache) Complete(country string, locations []Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[country] = CacheEntry{State: Loaded, Locations: locations}
}

// Fail records a failed load with its reason.
func (c *Cache) Fail(country string, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[country] = CacheEntry{State: Failed, Reason: reason}
}

// Reset drops a country's entry so the next EnsureCountry refetches it.
// This backs the manual per-country reload action.
func (c *Cache) Reset(country string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, country)
}

// Countries returns every country the cache has an entry for.
func (c *Cache) Countries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	countries := make([]string, 0, len(c.entries))
	for country := range c.entries {
		countries = append(countries, country)
	}
	return countries
}
