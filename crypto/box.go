package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// NonceSize is the length in bytes of the random nonce prefixed to every
// envelope.
const NonceSize = 24

// ErrDecrypt is returned for every envelope that cannot be opened.
// Malformed base64, truncated envelopes and authentication failures are
// intentionally not distinguished.
var ErrDecrypt = errors.New("crypto: cannot decrypt envelope")

// Envelope is a sealed submission in transport form.
// Layout before base64 encoding: nonce || ciphertext || senderPublicKey.
type Envelope string

// sealedMessage is the parsed binary form of an envelope.
type sealedMessage struct {
	Nonce     []byte
	Box       []byte
	SenderKey PublicKey
}

func (m *sealedMessage) bytes() []byte {
	result := make([]byte, 0, len(m.Nonce)+len(m.Box)+len(m.SenderKey))
	result = append(result, m.Nonce...)
	result = append(result, m.Box...)
	result = append(result, m.SenderKey...)
	return result
}

// parseSealedMessage splits the binary envelope back into its three parts.
// The sender key sits at the tail so the variable-length box can be carved
// out between the fixed-size nonce and key.
func parseSealedMessage(data []byte) (*sealedMessage, error) {
	minLen := NonceSize + box.Overhead + KeySize
	if len(data) < minLen {
		return nil, errors.New("envelope too short")
	}

	keyStart := len(data) - KeySize
	return &sealedMessage{
		Nonce:     data[:NonceSize],
		Box:       data[NonceSize:keyStart],
		SenderKey: NewPublicKeyFromBytes(data[keyStart:]),
	}, nil
}

// Seal encrypts plaintext to the recipient's public key using the sender's
// private key and a fresh random nonce, and returns the transport envelope.
func Seal(plaintext []byte, recipientPub PublicKey, senderPriv PrivateKey) (Envelope, error) {
	senderPub, err := senderPriv.PublicKey()
	if err != nil {
		return "", fmt.Errorf("derive sender public key: %w", err)
	}

	var nonce [NonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	var peer, priv [KeySize]byte
	copy(peer[:], recipientPub)
	copy(priv[:], senderPriv)

	sealed := &sealedMessage{
		Nonce:     nonce[:],
		Box:       box.Seal(nil, plaintext, &nonce, &peer, &priv),
		SenderKey: senderPub,
	}

	return Envelope(base64.StdEncoding.EncodeToString(sealed.bytes())), nil
}

// Open authenticates and decrypts an envelope with the recipient's private
// key, re-deriving the shared secret from the embedded sender public key.
// Every failure mode returns ErrDecrypt.
func Open(envelope Envelope, recipientPriv PrivateKey) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(string(envelope))
	if err != nil {
		return nil, ErrDecrypt
	}

	sealed, err := parseSealedMessage(raw)
	if err != nil {
		return nil, ErrDecrypt
	}

	var nonce [NonceSize]byte
	copy(nonce[:], sealed.Nonce)

	var peer, priv [KeySize]byte
	copy(peer[:], sealed.SenderKey)
	copy(priv[:], recipientPriv)

	plaintext, ok := box.Open(nil, sealed.Box, &nonce, &peer, &priv)
	if !ok {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}
