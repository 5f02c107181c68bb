// Package geo resolves (country, free-text location) pairs from decrypted
// survey records to geographic coordinates.
//
// The datasets are static files served by the collection server: a country
// index (three-letter code plus available administrative depth), a capitals
// file used as fallback when a respondent left the location blank, and
// per-country boundary files fetched lazily by the deterministic pattern
// {code}_{level}.json.
//
// Boundary loads complete in any order; the per-country cache records one of
// NotRequested, Loading, Loaded or Failed for each country, and the resolver
// reports partial state through ResolveError instead of blocking. A stale
// completion arriving after a reload merges safely because countries are
// stable keys.
package geo
