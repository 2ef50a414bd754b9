// Package config persists the registry API key at
// $XDG_CONFIG_HOME/skilzy/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// FileName is the credentials file name within the config directory.
const FileName = "config.toml"

// EnvAPIKey is the environment variable overriding the stored key.
const EnvAPIKey = "SKILZY_API_KEY"

// MinKeyLength is the minimum accepted API key length.
const MinKeyLength = 10

// fileContent is the on-disk layout of config.toml.
type fileContent struct {
	Auth authSection `toml:"auth"`
}

type authSection struct {
	APIKey string `toml:"api_key"`
}

// Store manages the credentials file.
type Store struct {
	path string
}

// DefaultStore creates a store at the standard XDG config location.
func DefaultStore() *Store {
	return &Store{path: filepath.Join(xdg.ConfigHome, "skilzy", FileName)}
}

// NewStoreWithPath creates a store at a custom path (for testing).
func NewStoreWithPath(path string) *Store {
	return &Store{path: path}
}

// Path returns the credentials file path.
func (s *Store) Path() string {
	return s.path
}

// SaveAPIKey writes the API key, creating the config directory if needed.
// The file is restricted to the owning user.
func (s *Store) SaveAPIKey(key string) error {
	if len(key) < MinKeyLength {
		return fmt.Errorf("invalid API key: must be at least %d characters", MinKeyLength)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(fileContent{Auth: authSection{APIKey: key}}); err != nil {
		return fmt.Errorf("encoding credentials file: %w", err)
	}
	return nil
}

// LoadAPIKey reads the stored API key. A missing or unreadable file yields
// an empty key, not an error, so callers can fall through to other sources.
func (s *Store) LoadAPIKey() string {
	var content fileContent
	if _, err := toml.DecodeFile(s.path, &content); err != nil {
		return ""
	}
	return content.Auth.APIKey
}

// ResolveAPIKey determines the effective API key, in priority order:
// the explicit argument, the SKILZY_API_KEY environment variable, then the
// credentials file.
func (s *Store) ResolveAPIKey(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvAPIKey); env != "" {
		return env
	}
	return s.LoadAPIKey()
}
