// Package session owns the bearer token and the login, registration and
// logout flows. Everything that talks to the backend is gated on it.
package session

import (
	"sync"
)

// TokenStore persists the bearer token between runs. The keyring package
// provides the keychain-backed implementation.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Store holds the current bearer token. Exactly one Store exists per client
// instance; request-issuing components borrow it read-only through the
// api.TokenSource interface.
type Store struct {
	mu      sync.RWMutex
	token   string
	persist TokenStore
	onReset []func()
}

// NewStore creates a Store, restoring any previously persisted token so the
// client starts authenticated when a valid session was saved.
func NewStore(persist TokenStore) (*Store, error) {
	token, err := persist.Load()
	if err != nil {
		return nil, err
	}

	return &Store{token: token, persist: persist}, nil
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Authenticated reports whether a session token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores and persists a new session token.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	return s.persist.Save(token)
}

// OnReset registers a hook run when the session is cleared. Components
// holding per-principal state (history, previews, job status) register here
// so logout is a full reset, not merely a token clear.
func (s *Store) OnReset(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onReset = append(s.onReset, fn)
}

// Reset clears the token, removes it from persistence and runs all reset
// hooks.
func (s *Store) Reset() error {
	s.mu.Lock()
	s.token = ""
	hooks := make([]func(), len(s.onReset))
	copy(hooks, s.onReset)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	return s.persist.Clear()
}
