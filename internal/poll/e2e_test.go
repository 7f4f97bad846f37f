package poll_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarminik/transcribe/internal/api"
	"github.com/tarminik/transcribe/internal/config"
	"github.com/tarminik/transcribe/internal/origin"
	"github.com/tarminik/transcribe/internal/poll"
	"github.com/tarminik/transcribe/internal/result"
	"github.com/tarminik/transcribe/internal/upload"
)

type tokens struct{ token string }

func (s *tokens) Token() string { return s.token }

// fakeBackend scripts the whole submission surface on one httptest server:
// presign, storage PUT, job creation, polling, download resolution and the
// transcript object itself.
type fakeBackend struct {
	mux         *http.ServeMux
	server      *httptest.Server
	jobPolls    atomic.Int32
	uploads     atomic.Int32
	downloads   atomic.Int32
	jobStatuses []api.Job
	transcript  string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{mux: http.NewServeMux()}
	b.server = httptest.NewServer(b.mux)
	t.Cleanup(b.server.Close)

	b.mux.HandleFunc("POST /files/presign", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{
			"upload_url": b.server.URL + "/storage/k1?sig=upload",
			"object_key": "k1",
		})
	})
	b.mux.HandleFunc("PUT /storage/k1", func(w http.ResponseWriter, r *http.Request) {
		b.uploads.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	b.mux.HandleFunc("POST /jobs/", func(w http.ResponseWriter, r *http.Request) {
		var req api.JobRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "k1", req.ObjectKey)

		writeJSON(w, api.Job{ID: "j1", Status: api.JobStatusPending, Language: req.Language, Mode: req.Mode})
	})
	b.mux.HandleFunc("GET /jobs/j1", func(w http.ResponseWriter, r *http.Request) {
		idx := int(b.jobPolls.Add(1)) - 1
		if idx >= len(b.jobStatuses) {
			idx = len(b.jobStatuses) - 1
		}

		writeJSON(w, b.jobStatuses[idx])
	})
	b.mux.HandleFunc("GET /jobs/j1/download", func(w http.ResponseWriter, r *http.Request) {
		b.downloads.Add(1)
		writeJSON(w, map[string]string{"download_url": b.server.URL + "/storage/r1?sig=download"})
	})
	b.mux.HandleFunc("GET /storage/r1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, b.transcript)
	})

	return b
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// components wires the real client stack against the fake backend.
func (b *fakeBackend) components(t *testing.T) (*upload.Coordinator, *api.Client, *poll.Watcher) {
	t.Helper()

	cfg := &config.Config{
		APIBase:        b.server.URL,
		BackendOrigin:  b.server.URL,
		PollIntervalMS: 1,
		MaxWaitMS:      600000,
		LogLevel:       "info",
	}

	resolver, err := origin.NewResolver(cfg.APIBase, cfg.BackendOrigin)
	require.NoError(t, err)

	client := api.NewClient(cfg, &tokens{token: "tok"}, resolver)
	fetcher := result.NewFetcher(client)
	watcher := poll.NewWatcher(client, fetcher, cfg.PollInterval(), cfg.MaxWait())

	return upload.NewCoordinator(client), client, watcher
}

func TestSubmission_EndToEnd(t *testing.T) {
	backend := newFakeBackend(t)
	backend.transcript = "hello world"
	backend.jobStatuses = []api.Job{
		{ID: "j1", Status: api.JobStatusProcessing},
		{ID: "j1", Status: api.JobStatusCompleted, ResultObjectKey: "r1"},
	}

	uploads, client, watcher := backend.components(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "memo.mp3")
	//nolint:gosec // Test file
	require.NoError(t, os.WriteFile(path, []byte("fake audio"), 0o644))

	objectKey, err := uploads.PresignAndUpload(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "k1", objectKey)
	assert.EqualValues(t, 1, backend.uploads.Load())

	job, err := client.CreateJob(ctx, api.JobRequest{ObjectKey: objectKey, Language: "auto", Mode: "mono"})
	require.NoError(t, err)
	require.Equal(t, "j1", job.ID)

	var final poll.Snapshot
	for snap := range watcher.Watch(ctx, job.ID) {
		final = snap
	}

	require.Equal(t, poll.KindReady, final.Kind)
	require.NotNil(t, final.Transcript)
	assert.Equal(t, "hello world", final.Transcript.Text)
	assert.Equal(t, "transcript-j1.txt", final.Transcript.SuggestedFilename)
	assert.EqualValues(t, 1, backend.downloads.Load())
}

func TestSubmission_EndToEndFailure(t *testing.T) {
	backend := newFakeBackend(t)
	backend.jobStatuses = []api.Job{
		{ID: "j1", Status: api.JobStatusFailed, ErrorMessage: "unsupported codec"},
	}

	_, client, watcher := backend.components(t)
	ctx := context.Background()

	job, err := client.CreateJob(ctx, api.JobRequest{ObjectKey: "k1", Language: "auto", Mode: "mono"})
	require.NoError(t, err)

	var final poll.Snapshot
	for snap := range watcher.Watch(ctx, job.ID) {
		final = snap
	}

	assert.Equal(t, poll.KindFailed, final.Kind)
	assert.Equal(t, "unsupported codec", final.Message)
	assert.Zero(t, backend.downloads.Load(), "no download is attempted for a failed job")
}

func TestSubmission_SlowBackendStillCompletes(t *testing.T) {
	backend := newFakeBackend(t)
	backend.transcript = "late but fine"
	backend.jobStatuses = []api.Job{
		{ID: "j1", Status: api.JobStatusPending},
		{ID: "j1", Status: api.JobStatusProcessing},
		{ID: "j1", Status: api.JobStatusProcessing},
		{ID: "j1", Status: api.JobStatusCompleted, ResultObjectKey: "r1"},
	}

	_, client, _ := backend.components(t)

	// Rebuild the watcher with a zero slow-job threshold.
	fetcher := result.NewFetcher(client)
	watcher := poll.NewWatcher(client, fetcher, time.Millisecond, 0)

	notices := 0
	var final poll.Snapshot
	for snap := range watcher.Watch(context.Background(), "j1") {
		if snap.Kind == poll.KindSlowJob {
			notices++
		}
		final = snap
	}

	assert.Equal(t, 1, notices)
	assert.Equal(t, poll.KindReady, final.Kind)
}
