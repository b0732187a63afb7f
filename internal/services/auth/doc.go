// Package auth picks and drives the appliance login flow.
//
// It inspects the discovery document, runs either the handshake or the
// RSA password mechanism against the appliance, and persists the
// established session through the session store.
package auth
