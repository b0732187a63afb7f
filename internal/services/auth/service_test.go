package auth_test

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"hash"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"

	"nasauth/internal/appliance"
	"nasauth/internal/b64url"
	"nasauth/internal/crypto"
	"nasauth/internal/domain"
	"nasauth/internal/protocol/noiseik"
	"nasauth/internal/services/auth"
	"nasauth/internal/store"
)

// fakeClient plays the appliance side of the API from memory,
// capturing what the service submits.
type fakeClient struct {
	info      domain.ApplianceInfo
	cookie    string
	handshake []byte
	legacyAcc string
	legacyEnc string
	logouts   int
	logoutErr error
}

func (f *fakeClient) Info(ctx context.Context) (domain.ApplianceInfo, error) {
	return f.info, nil
}

func (f *fakeClient) BeginSecureLogin(ctx context.Context) (domain.LoginChallenge, error) {
	return domain.LoginChallenge{Cookie: f.cookie}, nil
}

func (f *fakeClient) FinishSecureLogin(ctx context.Context, challenge domain.LoginChallenge, message []byte) (domain.Session, error) {
	if challenge.Cookie != f.cookie {
		return domain.Session{}, appliance.ErrUnauthorized
	}
	f.handshake = append([]byte(nil), message...)
	return domain.Session{
		Token:     "tok-secure",
		Cookie:    challenge.Cookie,
		URL:       "https://nas.local:5001",
		Mechanism: domain.MechanismSecure,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeClient) LegacyLogin(ctx context.Context, account, encrypted string) (domain.Session, error) {
	f.legacyAcc, f.legacyEnc = account, encrypted
	return domain.Session{
		Token:     "tok-legacy",
		URL:       "https://nas.local:5001",
		Account:   account,
		Mechanism: domain.MechanismLegacy,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeClient) Logout(ctx context.Context, session domain.Session) error {
	f.logouts++
	return f.logoutErr
}

var _ domain.ApplianceClient = (*fakeClient)(nil)

// failingStore rejects writes, standing in for an unwritable home
// directory.
type failingStore struct {
	err error
}

func (f *failingStore) SaveSession(passphrase string, s domain.Session) error {
	return f.err
}

func (f *failingStore) LoadSession(passphrase string) (domain.Session, bool, error) {
	return domain.Session{}, false, nil
}

func (f *failingStore) ClearSession() error { return nil }

var _ domain.SessionStore = (*failingStore)(nil)

func responderKeypair(t *testing.T) crypto.Keypair {
	t.Helper()
	kp, err := crypto.GenerateKeypair(rand.Reader)
	if err != nil {
		t.Fatalf("generate responder keypair: %v", err)
	}
	return kp
}

// openHandshake decrypts a captured handshake message with the
// responder's private key and returns the credential payload. The
// transcript is rebuilt from library primitives so it checks the
// initiator rather than mirroring it.
func openHandshake(t *testing.T, resp crypto.Keypair, wire []byte) []byte {
	t.Helper()

	if len(wire) < 96 {
		t.Fatalf("handshake message too short: %d bytes", len(wire))
	}
	ephemeral := wire[:32]
	encStatic := wire[32:80]
	encPayload := wire[80:]

	newHash := func() hash.Hash {
		h, _ := blake2b.New512(nil)
		return h
	}
	mac := func(key, data []byte) []byte {
		m := hmac.New(newHash, key)
		m.Write(data)
		return m.Sum(nil)
	}

	h := make([]byte, 64)
	copy(h, noiseik.ProtocolName)
	ck := append([]byte(nil), h...)

	mix := func(data []byte) {
		sum := blake2b.Sum512(append(append([]byte(nil), h...), data...))
		h = sum[:]
	}
	kdf := func(ikm []byte) []byte {
		temp := mac(ck, ikm)
		out1 := mac(temp, []byte{0x01})
		out2 := mac(temp, append(append([]byte(nil), out1...), 0x02))
		ck = out1
		return out2
	}
	open := func(key, ad, ct []byte) []byte {
		aead, err := chacha20poly1305.New(key[:32])
		if err != nil {
			t.Fatalf("aead: %v", err)
		}
		var nonce [12]byte
		pt, err := aead.Open(nil, nonce[:], ct, ad)
		if err != nil {
			t.Fatalf("open handshake ciphertext: %v", err)
		}
		return pt
	}

	mix(nil)
	mix(resp.Public.Slice())
	mix(ephemeral)

	es, err := crypto.SharedSecret(resp.Private.Slice(), ephemeral)
	if err != nil {
		t.Fatalf("ephemeral dh: %v", err)
	}
	k1 := kdf(es)
	staticPub := open(k1, h, encStatic)
	mix(encStatic)

	ss, err := crypto.SharedSecret(resp.Private.Slice(), staticPub)
	if err != nil {
		t.Fatalf("static dh: %v", err)
	}
	k2 := kdf(ss)
	return open(k2, h, encPayload)
}

// payloadFields is the decrypted credential payload.
type payloadFields struct {
	Account  string `json:"account"`
	Password string `json:"passwd"`
	DeviceID string `json:"device_id"`
	Time     int64  `json:"time"`
}

func TestLogin_Secure(t *testing.T) {
	resp := responderKeypair(t)
	fake := &fakeClient{
		info:   domain.ApplianceInfo{APIVersion: 7, Firmware: "2.1.4", SecureLogin: true},
		cookie: b64url.Encode(resp.Public.Slice()),
	}
	st := store.NewSessionFileStore(t.TempDir())
	svc := auth.New(fake, st, auth.Options{})

	creds := domain.Credentials{Account: "admin", Password: "hunter2", DeviceID: "dev-1"}
	session, err := svc.Login(context.Background(), "pass", creds)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token != "tok-secure" || session.Account != "admin" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.Mechanism != domain.MechanismSecure {
		t.Fatalf("mechanism = %q, want %q", session.Mechanism, domain.MechanismSecure)
	}

	// The appliance side must recover exactly what the user typed.
	var got payloadFields
	if err := json.Unmarshal(openHandshake(t, resp, fake.handshake), &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.Account != "admin" || got.Password != "hunter2" || got.DeviceID != "dev-1" {
		t.Fatalf("payload fields = %+v", got)
	}
	now := time.Now().Unix()
	if got.Time < now-60 || got.Time > now+60 {
		t.Fatalf("payload time %d not near %d", got.Time, now)
	}

	stored, ok, err := st.LoadSession("pass")
	if err != nil || !ok {
		t.Fatalf("expected persisted session, got ok=%v err=%v", ok, err)
	}
	if stored.Token != "tok-secure" {
		t.Fatalf("stored token = %q", stored.Token)
	}
}

func TestLogin_Secure_MintsDeviceID(t *testing.T) {
	resp := responderKeypair(t)
	fake := &fakeClient{
		info:   domain.ApplianceInfo{SecureLogin: true},
		cookie: b64url.Encode(resp.Public.Slice()),
	}
	svc := auth.New(fake, store.NewSessionFileStore(t.TempDir()), auth.Options{})

	creds := domain.Credentials{Account: "admin", Password: "pw"}
	if _, err := svc.Login(context.Background(), "pass", creds); err != nil {
		t.Fatalf("login: %v", err)
	}

	var got payloadFields
	if err := json.Unmarshal(openHandshake(t, resp, fake.handshake), &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if _, err := uuid.Parse(got.DeviceID); err != nil {
		t.Fatalf("minted device id %q is not a UUID: %v", got.DeviceID, err)
	}
}

func TestLogin_Secure_PinnedKey(t *testing.T) {
	resp := responderKeypair(t)
	fake := &fakeClient{
		info:   domain.ApplianceInfo{SecureLogin: true},
		cookie: "definitely-not-a-key",
	}
	pinned := resp.Public
	svc := auth.New(fake, store.NewSessionFileStore(t.TempDir()), auth.Options{
		PinnedServerKey: &pinned,
	})

	creds := domain.Credentials{Account: "admin", Password: "pw", DeviceID: "dev-1"}
	if _, err := svc.Login(context.Background(), "pass", creds); err != nil {
		t.Fatalf("login with pinned key: %v", err)
	}

	// The message must be addressed to the pinned key, not the cookie.
	var got payloadFields
	if err := json.Unmarshal(openHandshake(t, resp, fake.handshake), &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.Account != "admin" {
		t.Fatalf("payload account = %q", got.Account)
	}
}

func TestLogin_Secure_BadCookie(t *testing.T) {
	fake := &fakeClient{
		info:   domain.ApplianceInfo{SecureLogin: true},
		cookie: b64url.Encode([]byte("short")),
	}
	svc := auth.New(fake, store.NewSessionFileStore(t.TempDir()), auth.Options{})

	_, err := svc.Login(context.Background(), "pass", domain.Credentials{Account: "a", Password: "b"})
	if !errors.Is(err, crypto.ErrInvalidKey) {
		t.Fatalf("expected invalid key error, got %v", err)
	}
}

func TestLogin_Legacy(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	fake := &fakeClient{
		info: domain.ApplianceInfo{
			APIVersion:  3,
			SecureLogin: false,
			RSAModulus:  key.N.Text(16),
			RSAExponent: strconv.FormatInt(int64(key.E), 16),
		},
	}
	st := store.NewSessionFileStore(t.TempDir())
	svc := auth.New(fake, st, auth.Options{})

	creds := domain.Credentials{Account: "admin", Password: "hunter2"}
	session, err := svc.Login(context.Background(), "pass", creds)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Mechanism != domain.MechanismLegacy || session.Account != "admin" {
		t.Fatalf("unexpected session: %+v", session)
	}

	if fake.legacyAcc != "admin" {
		t.Fatalf("submitted account = %q", fake.legacyAcc)
	}
	ct, err := b64url.Decode(fake.legacyEnc)
	if err != nil {
		t.Fatalf("decode submitted ciphertext: %v", err)
	}
	pw, err := rsa.DecryptPKCS1v15(nil, key, ct)
	if err != nil {
		t.Fatalf("decrypt submitted ciphertext: %v", err)
	}
	if string(pw) != "hunter2" {
		t.Fatalf("decrypted password = %q", pw)
	}
}

func TestLogin_NoMechanism(t *testing.T) {
	fake := &fakeClient{info: domain.ApplianceInfo{SecureLogin: false}}
	svc := auth.New(fake, store.NewSessionFileStore(t.TempDir()), auth.Options{})

	_, err := svc.Login(context.Background(), "pass", domain.Credentials{Account: "a", Password: "b"})
	if !errors.Is(err, auth.ErrNoMechanism) {
		t.Fatalf("expected ErrNoMechanism, got %v", err)
	}
}

// loginFailureCount reads the failure counter from the process-wide
// prometheus registry.
func loginFailureCount(t *testing.T) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "nasauth_login_failures_total" {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatal("login failure counter not registered")
	return 0
}

func TestLogin_StoreFailureCounted(t *testing.T) {
	resp := responderKeypair(t)
	fake := &fakeClient{
		info:   domain.ApplianceInfo{SecureLogin: true},
		cookie: b64url.Encode(resp.Public.Slice()),
	}
	storeErr := errors.New("session file not writable")
	svc := auth.New(fake, &failingStore{err: storeErr}, auth.Options{})

	before := loginFailureCount(t)
	_, err := svc.Login(context.Background(), "pass", domain.Credentials{Account: "a", Password: "b"})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if got := loginFailureCount(t); got != before+1 {
		t.Fatalf("login failure counter = %v, want %v", got, before+1)
	}
}

func TestLogout(t *testing.T) {
	fake := &fakeClient{}
	st := store.NewSessionFileStore(t.TempDir())
	if err := st.SaveSession("pass", domain.Session{Token: "tok"}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	svc := auth.New(fake, st, auth.Options{})

	if err := svc.Logout(context.Background(), "pass"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if fake.logouts != 1 {
		t.Fatalf("appliance logout calls = %d, want 1", fake.logouts)
	}
	if _, ok, _ := st.LoadSession("pass"); ok {
		t.Fatal("session still stored after logout")
	}
}

func TestLogout_ExpiredOnAppliance(t *testing.T) {
	fake := &fakeClient{logoutErr: appliance.ErrUnauthorized}
	st := store.NewSessionFileStore(t.TempDir())
	if err := st.SaveSession("pass", domain.Session{Token: "tok"}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	svc := auth.New(fake, st, auth.Options{})

	if err := svc.Logout(context.Background(), "pass"); err != nil {
		t.Fatalf("logout of expired session: %v", err)
	}
	if _, ok, _ := st.LoadSession("pass"); ok {
		t.Fatal("expired session still stored after logout")
	}
}

func TestLogout_NothingStored(t *testing.T) {
	fake := &fakeClient{}
	svc := auth.New(fake, store.NewSessionFileStore(t.TempDir()), auth.Options{})

	if err := svc.Logout(context.Background(), "pass"); err != nil {
		t.Fatalf("logout with nothing stored: %v", err)
	}
	if fake.logouts != 0 {
		t.Fatalf("appliance logout calls = %d, want 0", fake.logouts)
	}
}

func TestStatus(t *testing.T) {
	st := store.NewSessionFileStore(t.TempDir())
	svc := auth.New(&fakeClient{}, st, auth.Options{})

	if _, ok, err := svc.Status("pass"); err != nil || ok {
		t.Fatalf("expected no session, got ok=%v err=%v", ok, err)
	}

	if err := st.SaveSession("pass", domain.Session{Token: "tok", Account: "admin"}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	session, ok, err := svc.Status("pass")
	if err != nil || !ok {
		t.Fatalf("expected session, got ok=%v err=%v", ok, err)
	}
	if session.Token != "tok" || session.Account != "admin" {
		t.Fatalf("unexpected session: %+v", session)
	}
}
