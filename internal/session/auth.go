package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/tarminik/transcribe/internal/api"
)

// minPasswordLength mirrors the backend's registration policy; checking it
// locally saves a round trip for an outcome that is already known.
const minPasswordLength = 8

// ErrPasswordTooShort is returned by Register before any network call when
// the password fails the local length check.
var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// AuthClient is the slice of the API surface the auth flow needs.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (api.Token, error)
	Register(ctx context.Context, email, password string) error
}

// Manager drives login, registration and logout against the auth
// collaborator, storing the resulting token in the Store.
type Manager struct {
	store *Store
	auth  AuthClient
}

// NewManager wires the auth flow to a token store.
func NewManager(store *Store, auth AuthClient) *Manager {
	return &Manager{store: store, auth: auth}
}

// Login exchanges credentials for a bearer token and stores it.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := m.store.SetToken(token.AccessToken); err != nil {
		return fmt.Errorf("failed to persist session token: %w", err)
	}

	return nil
}

// Register creates an account and immediately logs in with the same
// credentials, so registration yields an authenticated session in one step.
func (m *Manager) Register(ctx context.Context, email, password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}

	if err := m.auth.Register(ctx, email, password); err != nil {
		return err
	}

	return m.Login(ctx, email, password)
}

// Logout clears the session and all per-principal derived state.
func (m *Manager) Logout() error {
	return m.store.Reset()
}
