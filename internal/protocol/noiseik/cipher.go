package noiseik

import (
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// TagSize is the length of the authentication tag appended to every
// sealed record.
const TagSize = 16

// ErrAEAD reports a record-cipher failure, in practice always an
// authentication-tag mismatch on decryption.
var ErrAEAD = errors.New("noiseik: aead failure")

// nonce builds the 12-byte record nonce: four zero bytes followed by
// the counter in little-endian. This is the appliance's layout, not
// the RFC 8439 one, and must not be swapped for a generic helper.
func nonce(counter uint64) []byte {
	var n [chacha20poly1305.NonceSize]byte
	binary.LittleEndian.PutUint64(n[4:], counter)
	return n[:]
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) < chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: key shorter than %d bytes", ErrAEAD, chacha20poly1305.KeySize)
	}
	return chacha20poly1305.New(key[:chacha20poly1305.KeySize])
}

// EncryptWithAD seals plaintext with ChaCha20-Poly1305 under the first
// 32 bytes of key, using the record nonce for counter and ad as
// associated data. Output length is always len(plaintext)+TagSize.
func EncryptWithAD(key []byte, counter uint64, ad, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce(counter), plaintext, ad), nil
}

// DecryptWithAD opens a record sealed by EncryptWithAD with the same
// key, counter and associated data.
func DecryptWithAD(key []byte, counter uint64, ad, ciphertext []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce(counter), ciphertext, ad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAEAD, err)
	}
	return plaintext, nil
}
