package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrDecode is returned when a payload matches no known schema tier.
var ErrDecode = errors.New("record: cannot decode payload")

// Encode serializes a record with the current schema.
func Encode(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// decoderTier is one decode attempt: a decoder for a schema version plus the
// migration applied to records it recovers.
type decoderTier struct {
	name    string
	decode  func([]byte) (Record, error)
	migrate func(Record) Record
}

// tiers are tried in order; the current schema always comes first.
var tiers = []decoderTier{
	{name: "current", decode: decodeCurrent, migrate: func(r Record) Record { return r }},
	{name: "legacy", decode: decodeLegacy, migrate: migrateLegacy},
}

// Decode parses a plaintext payload into a record, attempting the current
// schema first and falling back to the previous one. The result is a tagged
// error rather than a panic so bulk decryption can skip bad entries.
func Decode(data []byte) (Record, error) {
	for _, tier := range tiers {
		r, err := tier.decode(data)
		if err != nil {
			continue
		}
		r = tier.migrate(r)
		if r.Name == "" || r.Country == "" || r.CaptchaAnswer == "" {
			continue
		}
		return r, nil
	}
	return Record{}, ErrDecode
}

func decodeCurrent(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var r Record
	if err := dec.Decode(&r); err != nil {
		return Record{}, fmt.Errorf("current schema: %w", err)
	}
	return r, nil
}

// decodeLegacy parses the previous wire format: a fixed-order array of
// strings [name, country, location, nameOnMap, contact, captcha], where the
// visibility preference is "true", "false" or "" for unanswered.
func decodeLegacy(data []byte) (Record, error) {
	var fields []string
	if err := json.Unmarshal(data, &fields); err != nil {
		return Record{}, fmt.Errorf("legacy schema: %w", err)
	}
	if len(fields) != 6 {
		return Record{}, fmt.Errorf("legacy schema: expected 6 fields, got %d", len(fields))
	}

	r := Record{
		Name:          fields[0],
		Country:       fields[1],
		Location:      fields[2],
		ContactInfo:   fields[4],
		CaptchaAnswer: fields[5],
	}
	switch fields[3] {
	case "true":
		v := true
		r.NameOnMap = &v
	case "false":
		v := false
		r.NameOnMap = &v
	case "":
		// Preference never answered; record stays incomplete.
	default:
		return Record{}, fmt.Errorf("legacy schema: invalid preference %q", fields[3])
	}
	return r, nil
}

// legacyCountryNames maps the long-form country names the previous schema
// stored to the short forms the rest of the pipeline uses.
var legacyCountryNames = map[string]string{
	"United States of America": "USA",
	"United Kingdom of Great Britain and Northern Ireland": "UK",
	"Netherlands (Kingdom of the)":                         "Netherlands",
	"Russian Federation":                                   "Russia",
	"Iran (Islamic Republic of)":                           "Iran",
	"Venezuela (Bolivarian Republic of)":                   "Venezuela",
	"Bolivia (Plurinational State of)":                     "Bolivia",
	"Republic of Korea":                                    "South Korea",
	"Syrian Arab Republic":                                 "Syria",
	"Viet Nam":                                             "Vietnam",
	"Republic of Moldova":                                  "Moldova",
	"United Republic of Tanzania":                          "Tanzania",
}

// migrateLegacy rewrites historical country names to their short forms and
// case-folds the captcha answer, which older clients stored verbatim.
func migrateLegacy(r Record) Record {
	if short, ok := legacyCountryNames[r.Country]; ok {
		r.Country = short
	}
	r.CaptchaAnswer = strings.ToLower(r.CaptchaAnswer)
	return r
}
