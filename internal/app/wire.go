package app

import (
	"time"

	"github.com/sirupsen/logrus"

	"nasauth/internal/appliance"
	"nasauth/internal/domain"
	authsvc "nasauth/internal/services/auth"
	"nasauth/internal/store"
)

// Wire bundles the store, client and service for the CLI.
type Wire struct {
	Auth     domain.AuthService
	Client   domain.ApplianceClient
	Sessions domain.SessionStore
}

// NewWire constructs the dependency graph from cfg. An empty URL is
// allowed here: local-only commands never dial, and the ones that do
// check for a configured appliance themselves.
func NewWire(cfg Config, log logrus.FieldLogger) (*Wire, error) {
	pinned, err := cfg.PinnedKey()
	if err != nil {
		return nil, err
	}

	sessionStore := store.NewSessionFileStore(cfg.Home)

	client := appliance.New(cfg.URL, appliance.Options{
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		RetryMax:    cfg.RetryMax,
		InsecureTLS: cfg.InsecureTLS,
		Logger:      log,
	})

	authSvc := authsvc.New(client, sessionStore, authsvc.Options{
		Logger:          log,
		PinnedServerKey: pinned,
	})

	return &Wire{
		Auth:     authSvc,
		Client:   client,
		Sessions: sessionStore,
	}, nil
}
