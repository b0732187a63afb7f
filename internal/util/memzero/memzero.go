// Package memzero clears key material from buffers that are about to
// go out of scope. Callers defer Zero on private keys, shared secrets
// and credential payloads as soon as the values exist.
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros. The copy goes through crypto/subtle so
// the compiler cannot elide it as a dead store.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
