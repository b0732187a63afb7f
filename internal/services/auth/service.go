package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nasauth/internal/appliance"
	"nasauth/internal/b64url"
	"nasauth/internal/crypto"
	"nasauth/internal/domain"
	"nasauth/internal/protocol/noiseik"
	"nasauth/internal/protocol/rsacrypt"
	"nasauth/internal/util/memzero"
)

// ErrNoMechanism is returned when the appliance advertises neither
// secure login nor an RSA key to encrypt the password under.
var ErrNoMechanism = errors.New("appliance offers no supported login mechanism")

// Options tunes a Service.
type Options struct {
	// Rand is the entropy source for handshake and password
	// encryption. Nil means crypto/rand.Reader.
	Rand io.Reader
	// Logger receives step-level logs. Nil silences them.
	Logger logrus.FieldLogger
	// PinnedServerKey, when set, replaces the handshake key the
	// appliance advertises in its challenge cookie.
	PinnedServerKey *crypto.PublicKey
}

// Service drives logins against one appliance and persists the result.
//
// It selects a mechanism from the appliance's discovery document:
// firmware that advertises secure login gets the handshake flow, older
// firmware gets RSA password encryption.
type Service struct {
	client domain.ApplianceClient
	store  domain.SessionStore
	rand   io.Reader
	log    logrus.FieldLogger
	pinned *crypto.PublicKey
}

// New constructs an auth Service over the given client and store.
func New(client domain.ApplianceClient, store domain.SessionStore, opts Options) *Service {
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.Reader
	}
	log := opts.Logger
	if log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		log = silent
	}
	return &Service{
		client: client,
		store:  store,
		rand:   rnd,
		log:    log,
		pinned: opts.PinnedServerKey,
	}
}

// loginPayload is the JSON carried inside the handshake message.
type loginPayload struct {
	Account  string `json:"account"`
	Password string `json:"passwd"`
	DeviceID string `json:"device_id"`
	Time     int64  `json:"time"`
}

// Login authenticates creds against the appliance and stores the
// resulting session under passphrase.
//
// Steps:
//  1. Fetch the discovery document to learn which mechanisms the
//     firmware supports.
//  2. Run the handshake login when the appliance advertises it, or
//     fall back to RSA password encryption.
//  3. Persist the established session, sealed under passphrase.
func (s *Service) Login(ctx context.Context, passphrase string, creds domain.Credentials) (domain.Session, error) {
	info, err := s.client.Info(ctx)
	if err != nil {
		loginFailures.Inc()
		return domain.Session{}, err
	}

	var session domain.Session
	if info.SecureLogin {
		session, err = s.secureLogin(ctx, creds)
	} else {
		session, err = s.legacyLogin(ctx, info, creds)
	}
	if err != nil {
		loginFailures.Inc()
		return domain.Session{}, err
	}
	session.Account = creds.Account

	if err := s.store.SaveSession(passphrase, session); err != nil {
		loginFailures.Inc()
		return domain.Session{}, err
	}
	return session, nil
}

// secureLogin runs the one-message handshake flow.
//
// Steps:
//  1. Open a handshake attempt; the appliance answers with a session
//     cookie whose value decodes to its handshake public key.
//  2. Build the credential payload and seal it into a handshake
//     message addressed to that key.
//  3. Submit the message under the same cookie.
func (s *Service) secureLogin(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	challenge, err := s.client.BeginSecureLogin(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	serverKey, err := s.serverKey(challenge)
	if err != nil {
		return domain.Session{}, err
	}

	payload, err := json.Marshal(loginPayload{
		Account:  creds.Account,
		Password: creds.Password,
		DeviceID: s.deviceID(creds),
		Time:     time.Now().Unix(),
	})
	if err != nil {
		return domain.Session{}, err
	}
	defer memzero.Zero(payload)

	msg, err := noiseik.Initiate(s.rand, serverKey.Slice(), payload)
	if err != nil {
		return domain.Session{}, err
	}

	s.log.WithFields(logrus.Fields{
		"mechanism":  domain.MechanismSecure,
		"server_key": crypto.Fingerprint(serverKey.Slice()),
	}).Debug("submitting handshake")
	session, err := s.client.FinishSecureLogin(ctx, challenge, msg.Bytes())
	if err != nil {
		return domain.Session{}, err
	}
	secureLogins.Inc()
	return session, nil
}

// serverKey resolves the handshake key for a login attempt, preferring
// the pinned key when one is configured.
func (s *Service) serverKey(challenge domain.LoginChallenge) (crypto.PublicKey, error) {
	if s.pinned != nil {
		return *s.pinned, nil
	}
	raw, err := b64url.Decode(challenge.Cookie)
	if err != nil {
		return crypto.PublicKey{}, fmt.Errorf("challenge cookie: %w", err)
	}
	if len(raw) != crypto.KeySize {
		return crypto.PublicKey{}, fmt.Errorf("challenge cookie: %w", crypto.ErrInvalidKey)
	}
	var key crypto.PublicKey
	copy(key[:], raw)
	return key, nil
}

// deviceID returns the device identifier for a login, minting one when
// the caller did not supply any.
func (s *Service) deviceID(creds domain.Credentials) string {
	if creds.DeviceID != "" {
		return creds.DeviceID
	}
	return uuid.NewString()
}

// legacyLogin encrypts the password under the appliance's RSA key and
// submits the form login.
func (s *Service) legacyLogin(ctx context.Context, info domain.ApplianceInfo, creds domain.Credentials) (domain.Session, error) {
	if info.RSAModulus == "" || info.RSAExponent == "" {
		return domain.Session{}, ErrNoMechanism
	}

	ct, err := rsacrypt.Encrypt(s.rand, info.RSAModulus, info.RSAExponent, []byte(creds.Password))
	if err != nil {
		return domain.Session{}, err
	}

	s.log.WithField("mechanism", domain.MechanismLegacy).Debug("submitting encrypted password")
	session, err := s.client.LegacyLogin(ctx, creds.Account, b64url.Encode(ct))
	if err != nil {
		return domain.Session{}, err
	}
	legacyLogins.Inc()
	return session, nil
}

// Logout invalidates the stored session on the appliance and clears it
// locally. A session the appliance already expired is still cleared.
func (s *Service) Logout(ctx context.Context, passphrase string) error {
	session, ok, err := s.store.LoadSession(passphrase)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := s.client.Logout(ctx, session); err != nil {
		if !errors.Is(err, appliance.ErrUnauthorized) {
			return err
		}
		s.log.Debug("session already invalid on appliance")
	}
	return s.store.ClearSession()
}

// Status reports the stored session, if any.
func (s *Service) Status(passphrase string) (domain.Session, bool, error) {
	return s.store.LoadSession(passphrase)
}

// Compile-time assertion that Service implements domain.AuthService.
var _ domain.AuthService = (*Service)(nil)
