package crypto

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Fingerprint returns a short display fingerprint of a public key: the
// first ten bytes of its SHA-256 hash as colon-separated hex pairs.
//
// It identifies the appliance's handshake key in command output and
// logs; it has no role in the protocol itself.
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	var sb strings.Builder
	for i, b := range sum[:10] {
		if i > 0 {
			sb.WriteByte(':')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}
