package app

import (
	"errors"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"

	"nasauth/internal/b64url"
	"nasauth/internal/crypto"
)

// DefaultConfigName is the config file looked up inside Home.
const DefaultConfigName = "config.yaml"

// Config holds the CLI's runtime settings, read from a YAML file in
// the config home.
type Config struct {
	// URL is the appliance base URL, e.g. "https://nas.local:5001".
	URL string `yaml:"url"`
	// Account is the default account name offered at login.
	Account string `yaml:"account"`
	// PinnedServerKey optionally pins the appliance's handshake key,
	// base64url encoded. When set, the challenge cookie is no longer
	// trusted as a key source.
	PinnedServerKey string `yaml:"pinned_server_key"`
	// TimeoutSeconds bounds each API request attempt. Zero keeps the
	// client default.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// RetryMax caps retries of transient API failures. Zero keeps the
	// client default, negative disables retries.
	RetryMax int `yaml:"retry_max"`
	// InsecureTLS skips certificate verification, for appliances with
	// self-signed certificates.
	InsecureTLS bool `yaml:"insecure_tls"`

	// Home is the directory session state lives in. Set by the CLI,
	// not read from the file.
	Home string `yaml:"-"`
}

// Load reads the config file at path. A missing file is not an error:
// the zero Config is returned and flags fill in the rest.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// PinnedKey decodes the pinned handshake key, if one is configured.
func (c Config) PinnedKey() (*crypto.PublicKey, error) {
	if c.PinnedServerKey == "" {
		return nil, nil
	}
	raw, err := b64url.Decode(c.PinnedServerKey)
	if err != nil {
		return nil, fmt.Errorf("pinned_server_key: %w", err)
	}
	if len(raw) != crypto.KeySize {
		return nil, fmt.Errorf("pinned_server_key: %w", crypto.ErrInvalidKey)
	}
	var key crypto.PublicKey
	copy(key[:], raw)
	return &key, nil
}
