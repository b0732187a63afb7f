// Package appliance provides the HTTP implementation of the
// domain.ApplianceClient interface.
//
// The appliance exposes a small JSON API for discovery and
// authentication. This package offers a concrete client for it:
//
//   - Fetching the unauthenticated info document (API version,
//     firmware, capabilities, legacy RSA key material).
//   - Opening a secure login and collecting the challenge cookie.
//   - Submitting the raw handshake message that finishes it.
//   - The legacy RSA-encrypted login for older firmware.
//   - Logging a session out.
//
// Every response arrives in a {success, data, error} envelope;
// failures carry a numeric code that dispatch maps onto
// ErrUnauthorized or ErrAPI. All requests take a context for
// cancellation and deadlines, retry transient failures with a bounded
// budget, and log outcomes at debug level.
package appliance
