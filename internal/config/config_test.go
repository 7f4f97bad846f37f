package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarminik/transcribe/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/api", cfg.APIBase)
	assert.Equal(t, "http://localhost:8000", cfg.BackendOrigin)
	assert.Equal(t, 2*time.Second, cfg.PollInterval())
	assert.Equal(t, 10*time.Minute, cfg.MaxWait())
	assert.False(t, cfg.APIBaseIsOrigin())
}

func TestLoad_TrimsTrailingSlashes(t *testing.T) {
	t.Setenv("TRANSCRIBE_API_BASE", "https://api.example.com/")
	t.Setenv("TRANSCRIBE_BACKEND_ORIGIN", "https://api.example.com/")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBase)
	assert.Equal(t, "https://api.example.com", cfg.BackendOrigin)
	assert.True(t, cfg.APIBaseIsOrigin())
}

func TestLoad_RejectsInvalidBackendOrigin(t *testing.T) {
	tests := []struct {
		name   string
		origin string
	}{
		{"no scheme", "localhost:8000"},
		{"bad scheme", "ftp://localhost:8000"},
		{"no host", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TRANSCRIBE_BACKEND_ORIGIN", tt.origin)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_RejectsBadMountPath(t *testing.T) {
	t.Setenv("TRANSCRIBE_API_BASE", "api")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveIntervals(t *testing.T) {
	t.Setenv("TRANSCRIBE_POLL_INTERVAL_MS", "0")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_OverridesPolling(t *testing.T) {
	t.Setenv("TRANSCRIBE_POLL_INTERVAL_MS", "500")
	t.Setenv("TRANSCRIBE_MAX_WAIT_MS", "1000")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, time.Second, cfg.MaxWait())
}
