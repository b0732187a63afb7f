package domain

import "time"

// Mechanism names the login path a session was established with.
type Mechanism string

const (
	// MechanismSecure is the handshake-based login on newer firmware.
	MechanismSecure Mechanism = "secure"
	// MechanismLegacy is the RSA parameter encryption on older firmware.
	MechanismLegacy Mechanism = "legacy"
)

// ApplianceInfo is the discovery document the appliance serves without
// authentication.
type ApplianceInfo struct {
	APIVersion  int    `json:"api_version"`
	Firmware    string `json:"firmware"`
	SecureLogin bool   `json:"secure_login"`

	// Legacy RSA key material, raw hex. Exponent is conventionally
	// "10001". Empty on firmware that only offers secure login.
	RSAModulus  string `json:"rsa_modulus,omitempty"`
	RSAExponent string `json:"rsa_exponent,omitempty"`
}

// LoginChallenge is issued when a secure login begins. The cookie is
// the appliance's URL-safe base64 session identifier; decoded, it is
// the appliance's 32-byte handshake public key.
type LoginChallenge struct {
	Cookie string
}

// Credentials carry what a login needs. DeviceID may be left empty, in
// which case one is generated per login.
type Credentials struct {
	Account  string
	Password string
	DeviceID string
}

// Session is an authenticated login session as stored locally.
type Session struct {
	Token     string    `json:"token"`
	Cookie    string    `json:"cookie,omitempty"`
	URL       string    `json:"url"`
	Account   string    `json:"account"`
	Mechanism Mechanism `json:"mechanism"`
	CreatedAt time.Time `json:"created_at"`
}
