package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Login exchanges form-encoded credentials for a bearer token. The caller
// decides whether and where to persist it.
func (c *Client) Login(ctx context.Context, email, password string) (Token, error) {
	form := url.Values{}
	form.Set("username", strings.TrimSpace(email))
	form.Set("password", password)

	resp, err := c.Do(ctx, http.MethodPost, "/auth/login",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, err
	}

	var token Token
	if err := decodeJSON(resp, &token); err != nil {
		return Token{}, err
	}

	return token, nil
}

// Register creates a new account. It does not log in; see the session
// package for the combined register-then-login flow.
func (c *Client) Register(ctx context.Context, email, password string) error {
	payload := map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}

	return c.postJSON(ctx, "/auth/register", payload, nil)
}

// Me returns the authenticated principal.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.getJSON(ctx, "/auth/me", &user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Presign obtains a one-shot upload target for a new object.
func (c *Client) Presign(ctx context.Context, filename, contentType string) (UploadTarget, error) {
	payload := map[string]string{
		"filename":     filename,
		"content_type": contentType,
	}

	var target UploadTarget
	if err := c.postJSON(ctx, "/files/presign", payload, &target); err != nil {
		return UploadTarget{}, err
	}

	return target, nil
}

// CreateJob registers a transcription job for an uploaded object.
func (c *Client) CreateJob(ctx context.Context, req JobRequest) (Job, error) {
	var job Job
	if err := c.postJSON(ctx, "/jobs/", req, &job); err != nil {
		return Job{}, err
	}

	return job, nil
}

// Job fetches the current snapshot of one job.
func (c *Client) Job(ctx context.Context, id string) (Job, error) {
	var job Job
	if err := c.getJSON(ctx, "/jobs/"+id, &job); err != nil {
		return Job{}, err
	}

	return job, nil
}

// Download resolves a short-lived location for a completed job's
// transcript.
func (c *Client) Download(ctx context.Context, jobID string) (DownloadTarget, error) {
	var target DownloadTarget
	if err := c.getJSON(ctx, "/jobs/"+jobID+"/download", &target); err != nil {
		return DownloadTarget{}, err
	}

	return target, nil
}

// History lists the principal's prior transcriptions in the order the
// backend returns them.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	if err := c.getJSON(ctx, "/history/", &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// HistoryDetail fetches one history entry with its transcript text.
func (c *Client) HistoryDetail(ctx context.Context, id string) (HistoryDetail, error) {
	var detail HistoryDetail
	if err := c.getJSON(ctx, "/history/"+id, &detail); err != nil {
		return HistoryDetail{}, err
	}

	return detail, nil
}
