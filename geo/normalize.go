package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// NormalizeName folds case and strips all whitespace, so "São Paulo",
// "sãopaulo" and "SÃO PAULO" compare equal. Used for location matching and
// as the cache key form of country names.
func NormalizeName(name string) string {
	folded := foldCaser.String(name)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, folded)
}

// countryAliases maps normalized alternative spellings to the canonical
// short country names the datasets are indexed by. The short forms mirror
// the ones the record codec migrates legacy payloads to.
var countryAliases = map[string]string{
	"unitedstatesofamerica": "USA",
	"unitedstates":          "USA",
	"us":                    "USA",
	"america":               "USA",
	"unitedkingdomofgreatbritainandnorthernireland": "UK",
	"unitedkingdom":                  "UK",
	"greatbritain":                   "UK",
	"netherlandskingdomofthe":        "Netherlands",
	"thenetherlands":                 "Netherlands",
	"holland":                        "Netherlands",
	"russianfederation":              "Russia",
	"iranislamicrepublicof":          "Iran",
	"venezuelabolivarianrepublicof":  "Venezuela",
	"boliviaplurinationalstateof":    "Bolivia",
	"republicofkorea":                "South Korea",
	"korearepublicof":                "South Korea",
	"syrianarabrepublic":             "Syria",
	"vietnam":                        "Vietnam",
	"republicofmoldova":              "Moldova",
	"unitedrepublicoftanzania":       "Tanzania",
	"czechrepublic":                  "Czechia",
	"turkiye":                        "Turkey",
}

// countryKey is the cache and lookup key form of a country name: aliased to
// the canonical short name, then normalized.
func countryKey(name string) string {
	return NormalizeName(CanonicalCountry(name))
}

// CanonicalCountry maps a free-text country name to its canonical short
// form. Unknown names are returned trimmed but otherwise untouched, so they
// still group consistently in aggregates.
func CanonicalCountry(name string) string {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := countryAliases[NormalizeName(trimmed)]; ok {
		return canonical
	}
	return trimmed
}
