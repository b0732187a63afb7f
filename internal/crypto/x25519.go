package crypto

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
)

// KeySize is the byte length of X25519 private keys, public keys and
// shared secrets.
const KeySize = 32

// ErrInvalidKey reports key material that is not exactly KeySize bytes.
var ErrInvalidKey = errors.New("crypto: invalid key length")

type (
	// PrivateKey is a clamped X25519 scalar.
	PrivateKey [KeySize]byte
	// PublicKey is an X25519 curve point.
	PublicKey [KeySize]byte
)

func (k PrivateKey) Slice() []byte { return k[:] }
func (k PublicKey) Slice() []byte  { return k[:] }

// Keypair holds one X25519 key pair.
type Keypair struct {
	Private PrivateKey
	Public  PublicKey
}

// GenerateKeypair returns a fresh X25519 key pair with the private
// scalar read from rand and clamped per RFC 7748.
func GenerateKeypair(rand io.Reader) (Keypair, error) {
	var kp Keypair
	if _, err := io.ReadFull(rand, kp.Private[:]); err != nil {
		return Keypair{}, fmt.Errorf("read key material: %w", err)
	}
	clamp(&kp.Private)
	pub, err := curve25519.X25519(kp.Private.Slice(), curve25519.Basepoint)
	if err != nil {
		return Keypair{}, err
	}
	copy(kp.Public[:], pub)
	return kp, nil
}

// SharedSecret computes the X25519 shared secret between a private key
// and a peer public key. Both must be exactly KeySize bytes.
func SharedSecret(priv, pub []byte) ([]byte, error) {
	if len(priv) != KeySize || len(pub) != KeySize {
		return nil, ErrInvalidKey
	}
	return curve25519.X25519(priv, pub)
}

func clamp(k *PrivateKey) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
