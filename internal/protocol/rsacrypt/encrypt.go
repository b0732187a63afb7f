package rsacrypt

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"math/big"
)

var (
	// ErrInvalidModulus reports a modulus string that is not unsigned hex.
	ErrInvalidModulus = errors.New("rsacrypt: invalid modulus hex")
	// ErrInvalidExponent reports an exponent string that is not unsigned hex.
	ErrInvalidExponent = errors.New("rsacrypt: invalid exponent hex")
	// ErrKeyTooSmall reports a modulus too small to hold the padded message.
	ErrKeyTooSmall = errors.New("rsacrypt: key too small for message")
)

// pemType frames the SubjectPublicKeyInfo block.
const pemType = "PUBLIC KEY"

// parseHex converts an ASCII hex string to an unsigned big integer.
// Odd-length strings such as the conventional exponent "10001" are
// accepted; signs and prefixes are not.
func parseHex(s string) (*big.Int, bool) {
	if len(s) == 0 || s[0] == '+' || s[0] == '-' {
		return nil, false
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, false
	}
	return n, true
}

// PublicKeyPEM builds the PEM-framed SubjectPublicKeyInfo for an RSA
// public key the appliance publishes as raw hex modulus and exponent
// strings.
func PublicKeyPEM(modulusHex, exponentHex string) ([]byte, error) {
	modulus, ok := parseHex(modulusHex)
	if !ok {
		return nil, ErrInvalidModulus
	}
	exponent, ok := parseHex(exponentHex)
	if !ok {
		return nil, ErrInvalidExponent
	}
	der := SubjectPublicKeyInfo(modulus, exponent)
	return pem.EncodeToMemory(&pem.Block{Type: pemType, Bytes: der}), nil
}

// Encrypt performs RSA PKCS#1 v1.5 public-key encryption of data under
// the appliance's published key. The key takes the same route a stored
// key would: hex strings to SubjectPublicKeyInfo to PEM, then parsed
// back by the platform RSA implementation, so the generated PEM is
// exercised on every call rather than only in tests.
func Encrypt(rand io.Reader, modulusHex, exponentHex string, data []byte) ([]byte, error) {
	pemBytes, err := PublicKeyPEM(modulusHex, exponentHex)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("rsacrypt: generated pem does not parse")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("parse public key: unexpected type %T", parsed)
	}
	// RFC 8017 7.2.1: the message must fit the modulus minus the
	// eleven padding bytes.
	if k := (pub.N.BitLen() + 7) / 8; len(data) > k-11 {
		return nil, fmt.Errorf("%w: %d-byte message, %d-byte modulus", ErrKeyTooSmall, len(data), k)
	}
	out, err := rsa.EncryptPKCS1v15(rand, pub, data)
	if err != nil {
		if errors.Is(err, rsa.ErrMessageTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrKeyTooSmall, err)
		}
		return nil, fmt.Errorf("rsa encrypt: %w", err)
	}
	return out, nil
}
