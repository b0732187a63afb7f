package appliance

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"nasauth/internal/domain"
)

const (
	// sessionCookie names the cookie carrying the appliance's session
	// identifier during a secure login.
	sessionCookie = "nas_sid"
	// authTokenHeader carries the session token on authenticated calls.
	authTokenHeader = "X-Auth-Token"

	defaultTimeout  = 30 * time.Second
	defaultRetryMax = 3
)

// Options tunes the HTTP behaviour of a Client.
type Options struct {
	// Timeout bounds each request attempt. Zero means defaultTimeout.
	Timeout time.Duration
	// RetryMax caps retries of transient failures. Zero means
	// defaultRetryMax; negative disables retries.
	RetryMax int
	// InsecureTLS skips certificate verification, for appliances with
	// self-signed certificates on private networks.
	InsecureTLS bool
	// Logger receives request-level logs. Nil silences them.
	Logger logrus.FieldLogger
}

// Client talks to one appliance over its HTTP API.
type Client struct {
	base string
	http *http.Client
	log  logrus.FieldLogger
}

var _ domain.ApplianceClient = (*Client)(nil)

// New returns a Client for the appliance at base, e.g.
// "https://nas.local:5001".
func New(base string, opts Options) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = defaultRetryMax
	if opts.RetryMax > 0 {
		rc.RetryMax = opts.RetryMax
	} else if opts.RetryMax < 0 {
		rc.RetryMax = 0
	}
	rc.HTTPClient.Timeout = defaultTimeout
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	if opts.InsecureTLS {
		rc.HTTPClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	log := opts.Logger
	if log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		log = silent
	}

	return &Client{
		base: strings.TrimRight(base, "/"),
		http: rc.StandardClient(),
		log:  log,
	}
}

// apiResponse is the envelope every API endpoint answers with.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *apiError       `json:"error,omitempty"`
}

// loginResult is the data payload of a successful login call.
type loginResult struct {
	Token string `json:"token"`
}

// Info fetches the unauthenticated discovery document.
func (c *Client) Info(ctx context.Context) (domain.ApplianceInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/info", nil)
	if err != nil {
		return domain.ApplianceInfo{}, err
	}
	var out domain.ApplianceInfo
	if _, err := c.request(req, &out); err != nil {
		return domain.ApplianceInfo{}, err
	}
	return out, nil
}

// BeginSecureLogin opens a handshake attempt. The challenge cookie the
// appliance sets decodes to its handshake public key.
func (c *Client) BeginSecureLogin(ctx context.Context) (domain.LoginChallenge, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/auth/begin", nil)
	if err != nil {
		return domain.LoginChallenge{}, err
	}
	resp, err := c.request(req, nil)
	if err != nil {
		return domain.LoginChallenge{}, err
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie {
			return domain.LoginChallenge{Cookie: ck.Value}, nil
		}
	}
	return domain.LoginChallenge{}, fmt.Errorf("appliance: begin login: missing %s cookie", sessionCookie)
}

// FinishSecureLogin submits the raw handshake message under the
// challenge cookie.
func (c *Client) FinishSecureLogin(ctx context.Context, challenge domain.LoginChallenge, message []byte) (domain.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/auth/finish", bytes.NewReader(message))
	if err != nil {
		return domain.Session{}, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: challenge.Cookie})

	var res loginResult
	if _, err := c.request(req, &res); err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		Token:     res.Token,
		Cookie:    challenge.Cookie,
		URL:       c.base,
		Mechanism: domain.MechanismSecure,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// LegacyLogin submits RSA-encrypted login parameters for firmware
// without secure login. encrypted is the base64url ciphertext.
func (c *Client) LegacyLogin(ctx context.Context, account, encrypted string) (domain.Session, error) {
	form := url.Values{}
	form.Set("account", account)
	form.Set("encrypted", encrypted)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Session{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var res loginResult
	if _, err := c.request(req, &res); err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		Token:     res.Token,
		URL:       c.base,
		Account:   account,
		Mechanism: domain.MechanismLegacy,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Logout invalidates the session on the appliance.
func (c *Client) Logout(ctx context.Context, session domain.Session) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/auth/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set(authTokenHeader, session.Token)
	if session.Cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: session.Cookie})
	}
	_, err = c.request(req, nil)
	return err
}

// request issues one API call and decodes the standard response
// envelope. A nil out skips decoding the data field. The returned
// response has its body drained and closed; only headers remain
// usable.
func (c *Client) request(req *http.Request, out any) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("appliance %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method": req.Method,
		"path":   req.URL.Path,
		"status": resp.StatusCode,
	}).Debug("appliance request")

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("appliance %s %s: %s", req.Method, req.URL.Path, resp.Status)
	}
	var env apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("appliance %s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	if !env.Success {
		return nil, dispatch(env.Error)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("appliance %s %s: decode data: %w", req.Method, req.URL.Path, err)
		}
	}
	return resp, nil
}
