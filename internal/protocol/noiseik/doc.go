// Package noiseik implements the initiator side of the
// Noise_IK_25519_ChaChaPoly_BLAKE2b handshake used by the appliance's
// secure login.
//
// # Overview
//
// A secure login sends exactly one handshake message and nothing after
// it: the client's ephemeral public key in the clear, a per-login
// static public key encrypted under the first derived key, and the
// login payload encrypted under the second. Only the holder of the
// static private key the session cookie advertises can open either
// ciphertext, so the payload reaches the appliance confidentially even
// without a TLS-terminated channel. There is no transport phase and no
// rekeying; the handshake is a single-shot authenticated encryption of
// the login payload.
//
// # Construction
//
// The symmetric state mirrors the Noise specification: a 64-byte
// transcript hash h and chaining key ck, both seeded from the protocol
// name, advanced by MixHash and MixKey. Hashing is BLAKE2b-512; key
// derivation is the two-output Noise HKDF built on an HMAC written out
// longhand in this package. The record cipher is ChaCha20-Poly1305
// with a 12-byte nonce of four zero bytes and a little-endian 64-bit
// counter. Every one of these details is fixed by the appliance's own
// implementation and verified by it; none can be substituted.
//
// # Errors
//
// ErrAEAD is returned for record-cipher failures. Wrong-length key
// material surfaces as crypto.ErrInvalidKey from the handshake entry
// point.
package noiseik
