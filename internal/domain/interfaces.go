package domain

import "context"

// ApplianceClient talks to the appliance's HTTP API.
type ApplianceClient interface {
	// Info fetches the unauthenticated discovery document.
	Info(ctx context.Context) (ApplianceInfo, error)

	// BeginSecureLogin opens a handshake attempt and returns the
	// challenge cookie carrying the appliance's handshake key.
	BeginSecureLogin(ctx context.Context) (LoginChallenge, error)

	// FinishSecureLogin submits the raw handshake message under the
	// challenge cookie and returns the established session.
	FinishSecureLogin(ctx context.Context, challenge LoginChallenge, message []byte) (Session, error)

	// LegacyLogin submits RSA-encrypted login parameters, base64url
	// encoded, for firmware without secure login.
	LegacyLogin(ctx context.Context, account, encrypted string) (Session, error)

	// Logout invalidates the session on the appliance.
	Logout(ctx context.Context, session Session) error
}

// SessionStore persists the current session encrypted under a local
// passphrase.
type SessionStore interface {
	SaveSession(passphrase string, s Session) error
	LoadSession(passphrase string) (Session, bool, error)
	ClearSession() error
}

// AuthService drives complete logins and logouts against an appliance.
type AuthService interface {
	Login(ctx context.Context, passphrase string, creds Credentials) (Session, error)
	Logout(ctx context.Context, passphrase string) error
	Status(passphrase string) (Session, bool, error)
}
