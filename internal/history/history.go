// Package history fetches the list of prior transcriptions and lazily
// loads a single selected entry's transcript preview.
package history

import (
	"context"
	"strings"
	"sync"

	"github.com/tarminik/transcribe/internal/api"
	"github.com/tarminik/transcribe/internal/result"
)

// failedPreviewMessage is shown in place of a transcript when the preview
// fetch fails. The failure stays scoped to the one entry; the rest of the
// list is untouched.
const failedPreviewMessage = "Failed to load transcript."

// ListClient is the slice of the API surface the reconciler needs for the
// list itself.
type ListClient interface {
	History(ctx context.Context) ([]api.HistoryEntry, error)
}

// TranscriptService loads a preview for a selected entry.
type TranscriptService interface {
	FetchTranscript(ctx context.Context, jobID string) (result.Transcript, error)
}

// Selection is the currently expanded entry, if any. Preview holds either
// the transcript text or a visible failure message.
type Selection struct {
	ID       string
	Preview  string
	Filename string
	Failed   bool
}

// Reconciler keeps a snapshot of the history list plus at most one expanded
// entry. Staleness between refreshes is acceptable; refresh is explicit.
type Reconciler struct {
	mu          sync.Mutex
	client      ListClient
	transcripts TranscriptService
	entries     []api.HistoryEntry
	selection   Selection
}

// NewReconciler creates a history reconciler.
func NewReconciler(client ListClient, transcripts TranscriptService) *Reconciler {
	return &Reconciler{client: client, transcripts: transcripts}
}

// Refresh fetches the list, preserving the backend's ordering. The current
// selection is left undisturbed.
func (r *Reconciler) Refresh(ctx context.Context) ([]api.HistoryEntry, error) {
	entries, err := r.client.History(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()

	return entries, nil
}

// Entries returns the last fetched list.
func (r *Reconciler) Entries() []api.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.entries
}

// Selected returns the current selection, empty when nothing is expanded.
func (r *Reconciler) Selected() Selection {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.selection
}

// Select toggles the preview for one entry. Selecting the already expanded
// entry collapses it and discards its preview without refetching anything.
// Otherwise the entry becomes selected with its stale preview cleared
// before the transcript loads, so a previous entry's text is never shown
// against the new selection. A preview fetch failure becomes a visible
// message, never an error.
func (r *Reconciler) Select(ctx context.Context, id string) Selection {
	r.mu.Lock()
	if r.selection.ID == id {
		r.selection = Selection{}
		r.mu.Unlock()

		return Selection{}
	}

	entry, found := r.findLocked(id)
	r.selection = Selection{ID: id}
	r.mu.Unlock()

	if !found || !previewable(entry) {
		return r.Selected()
	}

	transcript, err := r.transcripts.FetchTranscript(ctx, entry.JobID)

	r.mu.Lock()
	defer r.mu.Unlock()

	// The selection may have moved on while the fetch was in flight;
	// a stale result must not overwrite the new entry's preview.
	if r.selection.ID != id {
		return r.selection
	}

	if err != nil {
		r.selection.Preview = failedPreviewMessage
		r.selection.Failed = true
	} else {
		r.selection.Preview = transcript.Text
		r.selection.Filename = EntryFilename(entry)
	}

	return r.selection
}

// Reset drops all cached list and preview state. Wired to session logout.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.selection = Selection{}
}

func (r *Reconciler) findLocked(id string) (api.HistoryEntry, bool) {
	for _, entry := range r.entries {
		if entry.ID == id {
			return entry, true
		}
	}

	return api.HistoryEntry{}, false
}

// previewable reports whether an entry has a transcript to load. Entries
// without a status are history rows, which exist only for completed jobs.
func previewable(entry api.HistoryEntry) bool {
	if entry.Status == "" {
		return entry.JobID != ""
	}

	return entry.Status == api.JobStatusCompleted
}

// EntryFilename derives a save filename from the entry's sanitized title,
// falling back to the job id.
func EntryFilename(entry api.HistoryEntry) string {
	base := sanitizeTitle(entry.Title)
	if base == "" {
		return result.Filename(entry.JobID)
	}

	return base + ".txt"
}

func sanitizeTitle(title string) string {
	trimmed := strings.TrimSpace(title)
	replacer := strings.NewReplacer("/", "-", "\\", "-")

	return replacer.Replace(trimmed)
}
