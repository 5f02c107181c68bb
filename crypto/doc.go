// Package crypto implements the end-to-end encryption scheme used for
// survey submissions.
//
// Respondents encrypt their answers in the submitting client with an
// ephemeral key pair and the operator's public key; the collection server
// only ever stores the resulting envelope. The envelope embeds the sender's
// public key so the box construction needs no separate handshake:
//
//	base64( nonce || ciphertext || senderPublicKey )
//
// Decryption deliberately reports a single opaque error for every failure
// mode (bad base64, truncated envelope, authentication failure) so that the
// stored ciphertexts cannot be used as a padding or format oracle.
package crypto
