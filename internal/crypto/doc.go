// Package crypto exposes the X25519 primitives the handshake builds on.
//
// Contents
//
//   - X25519 key generation with RFC 7748 clamping (GenerateKeypair)
//   - X25519 Diffie-Hellman shared secrets (SharedSecret)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Randomness is always taken from an injected io.Reader rather than a
// package-level source, so tests can substitute fixed bytes and replay
// known-answer vectors. Callers should treat private keys and shared
// secrets as sensitive and wipe them once used.
package crypto
