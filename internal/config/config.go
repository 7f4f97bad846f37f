// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all client configuration.
//
// APIBase may be either a mount path ("/api") served from the same origin as
// the frontend, or a full origin ("https://api.example.com"). The two forms
// drive different credential and proxying behavior, see the origin package.
type Config struct {
	// Backend settings
	APIBase       string `envconfig:"TRANSCRIBE_API_BASE" default:"/api"`
	BackendOrigin string `envconfig:"TRANSCRIBE_BACKEND_ORIGIN" default:"http://localhost:8000"`

	// Polling settings
	PollIntervalMS int `envconfig:"TRANSCRIBE_POLL_INTERVAL_MS" default:"2000"`
	MaxWaitMS      int `envconfig:"TRANSCRIBE_MAX_WAIT_MS" default:"600000"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from a .env file (if present) and environment
// variables, then normalizes and validates it.
func Load() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist (expected outside development)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// normalize trims trailing slashes and checks the origin invariants that URL
// classification depends on. A misconfigured backend origin would silently
// misroute storage requests, so it is rejected here instead.
func (c *Config) normalize() error {
	c.APIBase = strings.TrimRight(c.APIBase, "/")
	c.BackendOrigin = strings.TrimRight(c.BackendOrigin, "/")

	u, err := url.Parse(c.BackendOrigin)
	if err != nil {
		return fmt.Errorf("invalid backend origin %q: %w", c.BackendOrigin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend origin %q: scheme must be http or https", c.BackendOrigin)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid backend origin %q: host is required", c.BackendOrigin)
	}

	if c.APIBaseIsOrigin() {
		base, err := url.Parse(c.APIBase)
		if err != nil || base.Host == "" {
			return fmt.Errorf("invalid API base %q: must be a mount path or a full origin", c.APIBase)
		}
	} else if c.APIBase != "" && !strings.HasPrefix(c.APIBase, "/") {
		return fmt.Errorf("invalid API base %q: mount path must start with '/'", c.APIBase)
	}

	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("poll interval must be positive, got %d", c.PollIntervalMS)
	}
	if c.MaxWaitMS <= 0 {
		return fmt.Errorf("max wait must be positive, got %d", c.MaxWaitMS)
	}

	return nil
}

// APIBaseIsOrigin reports whether the API base is a full origin rather than a
// same-origin mount path.
func (c *Config) APIBaseIsOrigin() bool {
	return strings.HasPrefix(c.APIBase, "http")
}

// PollInterval returns the delay between job status fetches.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// MaxWait returns how long a job may stay non-terminal before the one-shot
// slow-job notice is emitted.
func (c *Config) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitMS) * time.Millisecond
}
