// Package poll drives a single transcription job from creation to a
// terminal state, publishing a cancellable stream of snapshots.
package poll

import (
	"context"
	"time"

	"github.com/tarminik/transcribe/internal/api"
	"github.com/tarminik/transcribe/internal/result"
)

// Kind tags each snapshot so consumers can match exhaustively instead of
// probing loosely shaped payloads.
type Kind string

const (
	// KindStarted is announced once, immediately, before the first fetch.
	KindStarted Kind = "started"
	// KindStatus carries the job snapshot fetched on one poll tick.
	KindStatus Kind = "status"
	// KindSlowJob is the one-shot notice that the job exceeded the
	// configured maximum wait. Polling continues after it.
	KindSlowJob Kind = "slow_job"
	// KindReady carries the fetched transcript; the stream ends after it.
	KindReady Kind = "ready"
	// KindFailed carries the job's error message; the stream ends after it.
	KindFailed Kind = "failed"
	// KindError reports a request failure mid-poll; the stream ends after it.
	KindError Kind = "error"
)

// Snapshot is one observation published while watching a job. JobID is
// always set so a consumer can discard snapshots from a superseded flow.
type Snapshot struct {
	JobID      string
	Kind       Kind
	Job        *api.Job
	Transcript *result.Transcript
	Message    string
}

const slowJobNotice = "Transcription is still processing. This is taking longer than usual; continuing to wait."

// JobService fetches job snapshots by id.
type JobService interface {
	Job(ctx context.Context, id string) (api.Job, error)
}

// TranscriptService fetches the transcript once a job completes.
type TranscriptService interface {
	FetchTranscript(ctx context.Context, jobID string) (result.Transcript, error)
}

// Watcher polls jobs on a fixed cadence. Completion time is backend
// determined and unbounded, so there is no attempt limit and no backoff;
// the caller cancels by context when it loses interest.
type Watcher struct {
	jobs        JobService
	transcripts TranscriptService
	interval    time.Duration
	maxWait     time.Duration
}

// NewWatcher creates a watcher with the given cadence and slow-job
// threshold.
func NewWatcher(jobs JobService, transcripts TranscriptService, interval, maxWait time.Duration) *Watcher {
	return &Watcher{
		jobs:        jobs,
		transcripts: transcripts,
		interval:    interval,
		maxWait:     maxWait,
	}
}

// Watch starts tracking a job and returns the snapshot stream. The channel
// closes after a terminal snapshot or once ctx is cancelled; a cancelled
// watch publishes nothing further, so a late tick cannot leak into a flow
// tracking a different job.
func (w *Watcher) Watch(ctx context.Context, jobID string) <-chan Snapshot {
	out := make(chan Snapshot)
	go w.run(ctx, jobID, out)

	return out
}

func (w *Watcher) run(ctx context.Context, jobID string, out chan<- Snapshot) {
	defer close(out)

	if !w.send(ctx, out, Snapshot{JobID: jobID, Kind: KindStarted, Message: "Processing transcription..."}) {
		return
	}

	start := time.Now()
	warned := false

	for {
		job, err := w.jobs.Job(ctx, jobID)
		if err != nil {
			w.send(ctx, out, Snapshot{JobID: jobID, Kind: KindError, Message: err.Error()})
			return
		}

		if !w.send(ctx, out, Snapshot{JobID: jobID, Kind: KindStatus, Job: &job}) {
			return
		}

		switch job.Status {
		case api.JobStatusCompleted:
			transcript, err := w.transcripts.FetchTranscript(ctx, jobID)
			if err != nil {
				w.send(ctx, out, Snapshot{JobID: jobID, Kind: KindError, Message: err.Error()})
				return
			}

			w.send(ctx, out, Snapshot{
				JobID:      jobID,
				Kind:       KindReady,
				Transcript: &transcript,
				Message:    "Transcription ready!",
			})

			return
		case api.JobStatusFailed:
			message := job.ErrorMessage
			if message == "" {
				message = "Transcription failed."
			}

			w.send(ctx, out, Snapshot{JobID: jobID, Kind: KindFailed, Job: &job, Message: message})

			return
		case api.JobStatusPending, api.JobStatusProcessing:
			// keep polling
		}

		if !warned && time.Since(start) > w.maxWait {
			if !w.send(ctx, out, Snapshot{JobID: jobID, Kind: KindSlowJob, Message: slowJobNotice}) {
				return
			}
			warned = true
		}

		if !w.sleep(ctx) {
			return
		}
	}
}

// send delivers a snapshot unless the watch has been cancelled.
func (w *Watcher) send(ctx context.Context, out chan<- Snapshot, snap Snapshot) bool {
	select {
	case out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}

// sleep waits one poll interval, returning false when cancelled.
func (w *Watcher) sleep(ctx context.Context) bool {
	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
