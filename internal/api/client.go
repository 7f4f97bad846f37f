// Package api is the authenticated HTTP client for the transcription
// backend. Every component reaches the backend through it; bypassing it
// would break the auth and error-shape guarantees.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/tarminik/transcribe/internal/config"
	"github.com/tarminik/transcribe/internal/origin"
)

// TokenSource supplies the current bearer token. An empty token means
// unauthenticated. The token is read once per request so a logout cannot
// race an in-flight call.
type TokenSource interface {
	Token() string
}

// Client wraps every backend call with bearer-token injection and uniform
// error decoding.
type Client struct {
	apiBase       string
	backendOrigin string
	baseIsOrigin  bool
	tokens        TokenSource
	resolver      *origin.Resolver
	httpClient    *http.Client
}

// NewClient builds the request client. When the API base is a foreign
// origin the underlying client carries a cookie jar, so credentials set by
// that origin are included on subsequent requests; for a same-origin mount
// no jar is installed.
func NewClient(cfg *config.Config, tokens TokenSource, resolver *origin.Resolver) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if cfg.APIBaseIsOrigin() {
		// Ignoring the error: cookiejar.New never fails with nil options.
		jar, _ := cookiejar.New(nil)
		httpClient.Jar = jar
	}

	return &Client{
		apiBase:       cfg.APIBase,
		backendOrigin: cfg.BackendOrigin,
		baseIsOrigin:  cfg.APIBaseIsOrigin(),
		tokens:        tokens,
		resolver:      resolver,
		httpClient:    httpClient,
	}
}

// Resolver exposes the origin resolver so upload and download paths share
// one classification policy.
func (c *Client) Resolver() *origin.Resolver {
	return c.resolver
}

// buildURL resolves a path against the configured API base. Absolute URLs
// pass through untouched.
func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http") {
		return path
	}
	if c.baseIsOrigin {
		return c.apiBase + path
	}
	if !strings.HasPrefix(path, "/") {
		return c.apiBase + "/" + path
	}

	return c.apiBase + path
}

// transportURL makes a resolved URL fetchable. A browser resolves
// path-relative URLs against the page origin; this client resolves them
// against the backend origin, which serves the same mount.
func (c *Client) transportURL(resolved string) string {
	if strings.HasPrefix(resolved, "/") {
		return c.backendOrigin + resolved
	}

	return resolved
}

// Do issues an authenticated request for a path relative to the API base.
// On any non-2xx response the body is decoded into a *RequestError and a
// nil response is returned. On success the caller owns the response body.
func (c *Client) Do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	target := c.transportURL(c.buildURL(path))

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	return resp, nil
}

// decodeError extracts the backend's {detail} error shape, falling back to
// the raw body text when the JSON decode fails.
func decodeError(resp *http.Response) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		raw = nil
	}

	message := ""

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
		message = detail.Detail
	} else {
		message = strings.TrimSpace(string(raw))
	}

	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &RequestError{Status: resp.StatusCode, Message: message}
}

// getJSON issues a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}

	return decodeJSON(resp, out)
}

// postJSON issues a POST with a JSON body and decodes the JSON response
// into out when out is non-nil.
func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request body for %s: %w", path, err)
	}

	resp, err := c.Do(ctx, http.MethodPost, path, "application/json", strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	if out == nil {
		resp.Body.Close()
		return nil
	}

	return decodeJSON(resp, out)
}

func decodeJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}

	return nil
}
