package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DoStorage issues a raw request against a presigned storage URL, applying
// the origin policy shared by uploads and downloads: backend-owned targets
// get bearer auth and are rewritten through the API proxy mount, foreign
// storage targets are requested as-is because the presigned URL itself
// carries the authorization.
//
// Unlike Do, a non-2xx response is returned to the caller: upload and
// download surface status codes differently (413 has a distinct meaning on
// upload), so error mapping stays with them.
func (c *Client) DoStorage(ctx context.Context, method, rawURL, contentType string, body io.Reader) (*http.Response, error) {
	target := rawURL
	authorized := false
	if c.resolver.IsBackendOwned(rawURL) {
		target = c.resolver.ToProxiedURL(rawURL)
		authorized = true
	}
	target = c.transportURL(target)

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build storage request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authorized {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage request failed: %w", err)
	}

	return resp, nil
}
