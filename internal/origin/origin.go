// Package origin classifies URLs as backend-owned or storage-owned and
// rewrites storage URLs for same-origin proxying.
//
// Presigned storage URLs are issued with the storage origin baked in. When
// the API is mounted on the same origin as the frontend, requests to the
// storage origin would need separate CORS and credential handling, so they
// are funneled through the API's reverse-proxy mount instead. When the API
// base is itself a full origin, the client already has a direct path and no
// rewriting happens.
package origin

import (
	"log/slog"
	"net/url"
	"strings"
)

// Resolver performs pure URL classification against a configured API base
// and backend origin. Both inputs are expected pre-normalized (no trailing
// slash), see the config package.
type Resolver struct {
	apiBase       string
	backendOrigin *url.URL
	baseIsOrigin  bool
}

// NewResolver builds a resolver. backendOrigin must be an absolute URL;
// configuration validation guarantees that before this point.
func NewResolver(apiBase, backendOrigin string) (*Resolver, error) {
	parsed, err := url.Parse(backendOrigin)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		apiBase:       apiBase,
		backendOrigin: parsed,
		baseIsOrigin:  strings.HasPrefix(apiBase, "http"),
	}, nil
}

// IsBackendOwned reports whether a URL points at the backend rather than at
// object storage. Path-relative URLs are always backend-owned. Malformed
// input never panics; it is logged and classified as foreign.
func (r *Resolver) IsBackendOwned(raw string) bool {
	if strings.HasPrefix(raw, "/") {
		return true
	}

	target, err := url.Parse(raw)
	if err != nil {
		slog.Warn("invalid URL in origin classification", "url", raw, "error", err)
		return false
	}
	if target.Scheme == "" || target.Host == "" {
		return false
	}

	return sameOrigin(target, r.backendOrigin)
}

// ToProxiedURL rewrites a backend-owned URL so it is requested through the
// API mount, preserving path and query while discarding scheme and host.
// When the API base is a full origin the input is returned unchanged: the
// client already reaches the API origin directly with the right credentials.
func (r *Resolver) ToProxiedURL(raw string) string {
	if r.baseIsOrigin {
		return raw
	}

	parsed, err := r.backendOrigin.Parse(raw)
	if err != nil {
		slog.Warn("invalid URL in proxy rewrite", "url", raw, "error", err)
		return raw
	}

	proxied := r.apiBase + parsed.Path
	if parsed.RawQuery != "" {
		proxied += "?" + parsed.RawQuery
	}

	return proxied
}

// sameOrigin compares scheme and host (including port) of two URLs.
func sameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host
}
