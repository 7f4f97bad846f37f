// Package keyring persists the API bearer token in the system keychain.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "transcribe"
	tokenEntry  = "api-token"
)

// Store reads and writes the bearer token through the system keychain.
// It satisfies the session package's TokenStore interface.
type Store struct{}

// NewStore creates a keychain-backed token store.
func NewStore() *Store {
	return &Store{}
}

// Load retrieves the saved bearer token. A missing entry is not an error; it
// returns an empty token so the client starts unauthenticated.
func (s *Store) Load() (string, error) {
	value, err := keyring.Get(serviceName, tokenEntry)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}

		return "", fmt.Errorf("failed to get token from keychain: %w", err)
	}

	return value, nil
}

// Save stores the bearer token in the keychain.
func (s *Store) Save(token string) error {
	if err := keyring.Set(serviceName, tokenEntry, token); err != nil {
		return fmt.Errorf("failed to set token in keychain: %w", err)
	}

	return nil
}

// Clear removes the bearer token from the keychain. Clearing an absent entry
// is a no-op.
func (s *Store) Clear() error {
	if err := keyring.Delete(serviceName, tokenEntry); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keychain: %w", err)
	}

	return nil
}
