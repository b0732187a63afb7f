// Package b64url implements the URL-safe base64 variant the appliance
// uses for session cookies: the standard alphabet with '+' and '/'
// replaced by '-' and '_', and trailing '=' padding stripped.
package b64url

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrDecode reports input that is not valid URL-safe base64.
var ErrDecode = errors.New("b64url: malformed input")

var (
	toStandard = strings.NewReplacer("-", "+", "_", "/")
	toURLSafe  = strings.NewReplacer("+", "-", "/", "_")
)

// Decode converts a URL-safe base64 string back to bytes. Padded and
// unpadded input are both accepted.
func Decode(s string) ([]byte, error) {
	t := toStandard.Replace(s)
	if m := len(t) % 4; m != 0 {
		t += strings.Repeat("=", 4-m)
	}
	b, err := base64.StdEncoding.DecodeString(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return b, nil
}

// Encode converts bytes to the unpadded URL-safe form. It never fails.
func Encode(b []byte) string {
	s := base64.StdEncoding.EncodeToString(b)
	return strings.TrimRight(toURLSafe.Replace(s), "=")
}
