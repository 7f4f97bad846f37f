package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/tarminik/transcribe/internal/api"
	"github.com/tarminik/transcribe/internal/history"
	"github.com/tarminik/transcribe/internal/poll"
	"github.com/tarminik/transcribe/internal/result"
	"github.com/tarminik/transcribe/internal/tui"
	"golang.org/x/term"
)

// LoginCmd signs in with email and password.
type LoginCmd struct {
	Email    string `arg:"" help:"Account email"`
	Password string `flag:"" optional:"" help:"Password (prompted when omitted)"`
}

// Run executes the login command.
func (c *LoginCmd) Run() error {
	a, err := newApp()
	if err != nil {
		return err
	}

	password, err := resolvePassword(c.Password)
	if err != nil {
		return err
	}

	if err := a.sessions.Login(context.Background(), c.Email, password); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s\n", strings.TrimSpace(c.Email))

	return nil
}

// RegisterCmd creates an account and signs in with it.
type RegisterCmd struct {
	Email    string `arg:"" help:"Account email"`
	Password string `flag:"" optional:"" help:"Password, minimum 8 characters (prompted when omitted)"`
}

// Run executes the register command.
func (c *RegisterCmd) Run() error {
	a, err := newApp()
	if err != nil {
		return err
	}

	password, err := resolvePassword(c.Password)
	if err != nil {
		return err
	}

	if err := a.sessions.Register(context.Background(), c.Email, password); err != nil {
		return err
	}

	fmt.Println("Account created and you are now signed in.")

	return nil
}

// LogoutCmd clears the stored session and all cached state.
type LogoutCmd struct{}

// Run executes the logout command.
func (c *LogoutCmd) Run() error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if err := a.sessions.Logout(); err != nil {
		return err
	}

	fmt.Println("Signed out.")

	return nil
}

// SubmitCmd submits a media file and tracks the job to completion.
type SubmitCmd struct {
	File     string `arg:"" help:"Path to an audio or video file"`
	Language string `flag:"" default:"auto" enum:"auto,en,ru,es,de,fr,it,pt,hi,zh,ja" help:"Spoken language"`
	Mode     string `flag:"" default:"mono" enum:"mono,dialogue,multi" help:"Speaker mode"`
	Output   string `flag:"" optional:"" help:"Transcript output path (default: suggested filename)"`
	Plain    bool   `flag:"" help:"Log progress lines instead of the interactive view"`
}

// Run executes the submit command: presign, upload, create job, poll, fetch
// result. Each step begins only after the previous one succeeds.
func (c *SubmitCmd) Run() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}
	if _, err := os.Stat(c.File); err != nil {
		return fmt.Errorf("file not found: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	slog.Info("Requesting upload URL and uploading file", "file", c.File)

	objectKey, err := a.uploads.PresignAndUpload(ctx, c.File)
	if err != nil {
		return err
	}

	slog.Info("Creating transcription job", "objectKey", objectKey)

	job, err := a.client.CreateJob(ctx, api.JobRequest{
		ObjectKey: objectKey,
		Language:  c.Language,
		Mode:      c.Mode,
	})
	if err != nil {
		return err
	}

	snapshots := a.watcher.Watch(ctx, job.ID)

	var (
		transcript *result.Transcript
		failure    string
	)

	if c.Plain {
		transcript, failure = consumePlain(snapshots)
	} else {
		model, err := tui.Watch(job.ID, snapshots, cancel)
		if err != nil {
			return err
		}
		transcript = model.Transcript()
		failure = model.Failure()
	}

	// The list should reflect the outcome without a manual refresh.
	if _, err := a.history.Refresh(ctx); err != nil {
		slog.Warn("failed to refresh history", "error", err)
	}

	if failure != "" {
		return fmt.Errorf("%s", failure)
	}
	if transcript == nil {
		return fmt.Errorf("transcription abandoned before completion")
	}

	return writeTranscript(transcript, c.Output)
}

// consumePlain drains the snapshot stream, logging status changes instead
// of repainting a view.
func consumePlain(snapshots <-chan poll.Snapshot) (*result.Transcript, string) {
	var (
		transcript *result.Transcript
		failure    string
		lastStatus api.JobStatus
	)

	for snap := range snapshots {
		switch snap.Kind {
		case poll.KindStarted:
			slog.Info(snap.Message, "jobID", snap.JobID)
		case poll.KindStatus:
			if snap.Job.Status != lastStatus {
				slog.Info("Job status changed", "jobID", snap.JobID, "status", snap.Job.Status)
				lastStatus = snap.Job.Status
			}
		case poll.KindSlowJob:
			slog.Warn(snap.Message, "jobID", snap.JobID)
		case poll.KindReady:
			slog.Info(snap.Message, "jobID", snap.JobID)
			transcript = snap.Transcript
		case poll.KindFailed, poll.KindError:
			failure = snap.Message
		}
	}

	return transcript, failure
}

func writeTranscript(transcript *result.Transcript, output string) error {
	path := output
	if path == "" {
		path = transcript.SuggestedFilename
	}

	//nolint:gosec // Transcript files need to be readable
	if err := os.WriteFile(path, []byte(transcript.Text), 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}

	fmt.Printf("Transcript saved to %s\n", path)

	return nil
}

// HistoryCmd groups history-related subcommands.
type HistoryCmd struct {
	List HistoryListCmd `cmd:"" default:"1" help:"List past transcriptions"`
	Open HistoryOpenCmd `cmd:"" help:"Show one past transcription"`
}

// HistoryListCmd lists past transcriptions.
type HistoryListCmd struct{}

// Run executes the history list command.
func (c *HistoryListCmd) Run() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	entries, err := a.history.Refresh(context.Background())
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No completed transcriptions yet. Submit a file to see it here.")
		return nil
	}

	for _, entry := range entries {
		title := entry.Title
		if strings.TrimSpace(title) == "" {
			title = "Untitled transcription"
		}

		fmt.Printf("%s  %s  (id %s, job %s)\n",
			entry.CreatedAt.Local().Format(time.DateTime), title, entry.ID, entry.JobID)
	}

	return nil
}

// HistoryOpenCmd shows one past transcription.
type HistoryOpenCmd struct {
	ID     string `arg:"" help:"History entry id"`
	Output string `flag:"" optional:"" help:"Save the transcript to this path instead of printing it"`
}

// Run executes the history open command.
func (c *HistoryOpenCmd) Run() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	detail, err := a.client.HistoryDetail(context.Background(), c.ID)
	if err != nil {
		return err
	}

	if c.Output != "" {
		transcript := &result.Transcript{
			Text:              detail.TranscriptText,
			SuggestedFilename: history.EntryFilename(detail.HistoryEntry),
		}

		return writeTranscript(transcript, c.Output)
	}

	if title := strings.TrimSpace(detail.Title); title != "" {
		fmt.Printf("Showing transcript: %s\n\n", title)
	}
	fmt.Println(detail.TranscriptText)

	return nil
}

// StatusCmd shows the signed-in account and optionally one job.
type StatusCmd struct {
	Job string `arg:"" optional:"" help:"Job id to inspect"`
}

// Run executes the status command.
func (c *StatusCmd) Run() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	ctx := context.Background()

	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Signed in as %s\n", user.Email)

	if c.Job == "" {
		return nil
	}

	job, err := a.client.Job(ctx, c.Job)
	if err != nil {
		return err
	}

	fmt.Printf("Job %s: %s\n", job.ID, job.Status)
	if job.ErrorMessage != "" {
		fmt.Printf("Error: %s\n", job.ErrorMessage)
	}

	return nil
}

// resolvePassword uses the flag value when given, otherwise prompts without
// echo.
func resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(raw), nil
}
