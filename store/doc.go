// Package store persists encrypted survey submissions.
//
// The store is an append-only map from an opaque random id to a ciphertext
// envelope plus the plaintext captcha answer (kept in clear for grouping
// only; the server never validates it). There is no mutation or deletion
// endpoint: submitted answers are immutable, and the server cannot rewrite
// what it cannot read.
package store
