// Package curation implements the admin-maintained set of captcha answers
// flagged as spam.
//
// The set is session-local state of the admin console: it is never persisted
// server-side and never alters stored records, it only changes which
// decrypted records participate in aggregate views. Operations have value
// semantics so a previous set stays usable after a toggle.
package curation

import "strings"

// Set holds the lower-cased captcha answers the admin flagged as invalid.
// The zero value is an empty set.
type Set struct {
	flagged map[string]struct{}
}

// NewSet builds a set from the given answers. Comparison is
// case-insensitive, so answers are folded on the way in.
func NewSet(answers ...string) Set {
	flagged := make(map[string]struct{}, len(answers))
	for _, answer := range answers {
		flagged[strings.ToLower(answer)] = struct{}{}
	}
	return Set{flagged: flagged}
}

// Toggle returns a new set with the answer's flag flipped. The receiver is
// left untouched; toggling the same answer twice returns a set equivalent to
// the original.
func (s Set) Toggle(answer string) Set {
	folded := strings.ToLower(answer)

	flagged := make(map[string]struct{}, len(s.flagged)+1)
	for a := range s.flagged {
		flagged[a] = struct{}{}
	}

	if _, ok := flagged[folded]; ok {
		delete(flagged, folded)
	} else {
		flagged[folded] = struct{}{}
	}
	return Set{flagged: flagged}
}

// IsInvalid reports whether the answer is flagged, ignoring case.
func (s Set) IsInvalid(answer string) bool {
	_, ok := s.flagged[strings.ToLower(answer)]
	return ok
}

// Len returns the number of flagged answers.
func (s Set) Len() int {
	return len(s.flagged)
}

// Answers returns the flagged answers in no particular order.
func (s Set) Answers() []string {
	answers := make([]string, 0, len(s.flagged))
	for a := range s.flagged {
		answers = append(answers, a)
	}
	return answers
}
