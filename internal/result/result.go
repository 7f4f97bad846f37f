// Package result resolves a completed job's download location and fetches
// the transcript text. It depends only on a job id, so the live submission
// path and history previews share it.
package result

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tarminik/transcribe/internal/api"
)

// Transcript is a fetched transcript with a filename suggestion for saving
// it. It is regenerated on every fetch, never cached.
type Transcript struct {
	Text              string
	SuggestedFilename string
}

// DownloadClient is the slice of the API surface the fetcher needs.
type DownloadClient interface {
	Download(ctx context.Context, jobID string) (api.DownloadTarget, error)
	DoStorage(ctx context.Context, method, rawURL, contentType string, body io.Reader) (*http.Response, error)
}

// Fetcher retrieves transcript text for completed jobs.
type Fetcher struct {
	client DownloadClient
}

// NewFetcher creates a result fetcher.
func NewFetcher(client DownloadClient) *Fetcher {
	return &Fetcher{client: client}
}

// FetchTranscript resolves the job's short-lived download URL and fetches
// the transcript body. The storage client applies the same origin policy as
// uploads: backend-owned targets get bearer auth and proxying, foreign
// storage targets are fetched as-is.
func (f *Fetcher) FetchTranscript(ctx context.Context, jobID string) (Transcript, error) {
	target, err := f.client.Download(ctx, jobID)
	if err != nil {
		return Transcript{}, err
	}

	resp, err := f.client.DoStorage(ctx, http.MethodGet, target.DownloadURL, "", nil)
	if err != nil {
		return Transcript{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Transcript{}, fmt.Errorf("failed to fetch transcript (%d)", resp.StatusCode)
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return Transcript{}, fmt.Errorf("failed to read transcript body: %w", err)
	}

	return Transcript{
		Text:              string(text),
		SuggestedFilename: Filename(jobID),
	}, nil
}

// Filename derives the suggested transcript filename for a job.
func Filename(jobID string) string {
	return fmt.Sprintf("transcript-%s.txt", jobID)
}
