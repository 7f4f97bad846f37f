package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarminik/transcribe/internal/api"
	"github.com/tarminik/transcribe/internal/session"
)

// memStore keeps the token in memory so tests never touch the keychain.
type memStore struct {
	token string
}

func (m *memStore) Load() (string, error) { return m.token, nil }

func (m *memStore) Save(token string) error {
	m.token = token
	return nil
}

func (m *memStore) Clear() error {
	m.token = ""
	return nil
}

// fakeAuth records calls so tests can assert which network operations ran.
type fakeAuth struct {
	loginCalls    int
	registerCalls int
	loginErr      error
	registerErr   error
	token         string
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (api.Token, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return api.Token{}, f.loginErr
	}

	return api.Token{AccessToken: f.token}, nil
}

func (f *fakeAuth) Register(_ context.Context, _, _ string) error {
	f.registerCalls++
	return f.registerErr
}

func newManager(t *testing.T, auth *fakeAuth) (*session.Manager, *session.Store) {
	t.Helper()

	store, err := session.NewStore(&memStore{})
	require.NoError(t, err)

	return session.NewManager(store, auth), store
}

func TestLogin_StoresToken(t *testing.T) {
	auth := &fakeAuth{token: "tok-1"}
	mgr, store := newManager(t, auth)

	require.NoError(t, mgr.Login(context.Background(), "user@example.com", "pw123456"))

	assert.Equal(t, "tok-1", store.Token())
	assert.True(t, store.Authenticated())
}

func TestRegister_RejectsShortPasswordWithoutNetworkCall(t *testing.T) {
	auth := &fakeAuth{token: "tok-1"}
	mgr, store := newManager(t, auth)

	err := mgr.Register(context.Background(), "user@example.com", "short")

	assert.ErrorIs(t, err, session.ErrPasswordTooShort)
	assert.Zero(t, auth.registerCalls, "short password must be rejected locally")
	assert.Zero(t, auth.loginCalls)
	assert.False(t, store.Authenticated())
}

func TestRegister_LogsInAfterSuccess(t *testing.T) {
	auth := &fakeAuth{token: "tok-2"}
	mgr, store := newManager(t, auth)

	require.NoError(t, mgr.Register(context.Background(), "user@example.com", "longenough"))

	assert.Equal(t, 1, auth.registerCalls)
	assert.Equal(t, 1, auth.loginCalls, "registration should yield a session in one step")
	assert.Equal(t, "tok-2", store.Token())
}

func TestRegister_PropagatesBackendRejection(t *testing.T) {
	auth := &fakeAuth{registerErr: errors.New("email already registered")}
	mgr, store := newManager(t, auth)

	err := mgr.Register(context.Background(), "user@example.com", "longenough")

	assert.Error(t, err)
	assert.Zero(t, auth.loginCalls, "no login after a failed registration")
	assert.False(t, store.Authenticated())
}

func TestStore_RestoresPersistedToken(t *testing.T) {
	store, err := session.NewStore(&memStore{token: "saved"})
	require.NoError(t, err)

	assert.Equal(t, "saved", store.Token())
	assert.True(t, store.Authenticated())
}

func TestLogout_IsAFullReset(t *testing.T) {
	auth := &fakeAuth{token: "tok-3"}
	mgr, store := newManager(t, auth)

	resets := 0
	store.OnReset(func() { resets++ })

	require.NoError(t, mgr.Login(context.Background(), "user@example.com", "pw123456"))
	require.NoError(t, mgr.Logout())

	assert.False(t, store.Authenticated())
	assert.Equal(t, 1, resets, "logout must drop all per-principal state")
}
