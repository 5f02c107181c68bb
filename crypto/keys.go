package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

// KeySize is the length in bytes of X25519 public and private keys.
const KeySize = 32

// PublicKey represents an X25519 public key.
// Public keys identify submission senders and the operator, and are safe to
// embed in envelopes and transmit in the clear.
type PublicKey []byte

// NewPublicKeyFromBytes creates a PublicKey from a byte slice.
// The input is copied so later mutation of data does not affect the key.
func NewPublicKeyFromBytes(data []byte) PublicKey {
	pk := make([]byte, len(data))
	copy(pk, data)
	return PublicKey(pk)
}

// NewPublicKeyFromString creates a PublicKey from a hex-encoded string.
func NewPublicKeyFromString(data string) (PublicKey, error) {
	rawBytes, err := hex.DecodeString(data)
	if err != nil {
		return nil, err
	}
	if len(rawBytes) != KeySize {
		return nil, errors.New("invalid public key size")
	}
	return NewPublicKeyFromBytes(rawBytes), nil
}

// Bytes returns the public key as a byte slice.
func (pk PublicKey) Bytes() []byte {
	return pk
}

// Equal compares two public keys for equality in constant time.
func (pk PublicKey) Equal(other PublicKey) bool {
	return subtle.ConstantTimeCompare(pk, other) == 1
}

// String returns a hex-encoded representation of the public key, suitable
// for logging and for use as a map key.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk)
}

// PrivateKey represents an X25519 private key.
// Private keys are held in memory only and must never be persisted.
type PrivateKey []byte

// NewPrivateKeyFromBytes creates a PrivateKey from a byte slice.
// The input is copied so later mutation of data does not affect the key.
func NewPrivateKeyFromBytes(data []byte) PrivateKey {
	sk := make([]byte, len(data))
	copy(sk, data)
	return PrivateKey(sk)
}

// NewPrivateKeyFromString creates a PrivateKey from a hex-encoded string.
// This is how the operator supplies the decryption secret to the admin
// console.
func NewPrivateKeyFromString(data string) (PrivateKey, error) {
	rawBytes, err := hex.DecodeString(data)
	if err != nil {
		return nil, err
	}
	if len(rawBytes) != KeySize {
		return nil, errors.New("invalid private key size")
	}
	return NewPrivateKeyFromBytes(rawBytes), nil
}

// Bytes returns the private key as a byte slice. Handle with care: this
// exposes sensitive key material.
func (sk PrivateKey) Bytes() []byte {
	return sk
}

// String returns a hex-encoded representation of the private key.
// Only the operator-facing key management commands should print this.
func (sk PrivateKey) String() string {
	return hex.EncodeToString(sk)
}

// PublicKey derives the public key corresponding to this private key.
func (sk PrivateKey) PublicKey() (PublicKey, error) {
	if len(sk) != KeySize {
		return nil, errors.New("invalid private key size")
	}
	pub, err := curve25519.X25519(sk, curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(pub), nil
}

// GenerateKeyPair generates a new X25519 key pair.
// Submitting clients call this once per submission for an ephemeral sender
// identity; the operator calls it once to establish the fixed recipient
// identity.
func GenerateKeyPair() (PublicKey, PrivateKey, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return NewPublicKeyFromBytes(pub[:]), NewPrivateKeyFromBytes(priv[:]), nil
}
