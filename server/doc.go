// Package server implements the collection server's HTTP API.
//
// The server is deliberately blind: it stores envelopes it cannot open and
// hands the full id to ciphertext map to anyone presenting the shared admin
// key. That key only gates transport access; reading the answers still
// requires the operator's decryption secret, which never reaches this
// process.
package server
