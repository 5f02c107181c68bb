// Package dashboard implements the admin console pipeline: fetch the
// ciphertext map from the collection server, decrypt it with the operator's
// secret key, curate out flagged captcha answers, and aggregate what remains
// into per-country statistics and map content.
//
// Bulk decryption has partial-success semantics: a record that cannot be
// decrypted or decoded is dropped from the result list, never aborting the
// batch. The decrypted list is immutable for the rest of the session; a
// re-run replaces it wholesale.
package dashboard
