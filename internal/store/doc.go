// Package store provides file-based persistence for appliance sessions.
//
// It contains the concrete implementation of the domain storage
// interface. Session records are serialised as JSON, sealed into an
// encrypted envelope under a passphrase-derived key, and written with
// owner-only permissions inside the configured home directory. All
// methods are concurrency-safe via internal locking.
//
// The envelope uses scrypt for key derivation and ChaCha20-Poly1305
// for encryption; the scrypt parameters are stored alongside the
// ciphertext so they can be raised later without breaking old files.
package store
