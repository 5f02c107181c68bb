// Package record defines the survey record and its wire codec.
//
// Records are serialized in the submitting client before encryption, so the
// stored ciphertexts can never be migrated server-side. The decoder
// therefore keeps an ordered list of schema tiers: the current schema is
// tried first, and payloads produced by the previous schema are migrated on
// read (long-form country names rewritten to their short forms, captcha
// answers case-folded).
package record
