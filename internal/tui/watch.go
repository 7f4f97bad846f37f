// Package tui renders a live transcription job as it is polled.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tarminik/transcribe/internal/api"
	"github.com/tarminik/transcribe/internal/poll"
	"github.com/tarminik/transcribe/internal/result"
	"github.com/tarminik/transcribe/internal/tui/style"
)

// SnapshotMsg delivers one poll snapshot into the model.
type SnapshotMsg poll.Snapshot

// StreamClosedMsg signals that the snapshot stream ended without a terminal
// snapshot, e.g. after an external cancellation.
type StreamClosedMsg struct{}

// Model displays the lifecycle of one tracked job. Snapshots tagged with a
// different job id are discarded, so a stale flow cannot repaint the view.
type Model struct {
	spinner    spinner.Model
	jobID      string
	statusLine string
	job        *api.Job
	notice     string
	transcript *result.Transcript
	failure    string
	done       bool
	cancel     context.CancelFunc
}

// NewModel creates a watch model for one job. cancel stops the underlying
// poll when the user abandons the watch.
func NewModel(jobID string, cancel context.CancelFunc) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		spinner: sp,
		jobID:   jobID,
		cancel:  cancel,
	}
}

// Transcript returns the fetched transcript after the program finishes, nil
// when the job failed or the watch was abandoned.
func (m *Model) Transcript() *result.Transcript {
	return m.transcript
}

// Failure returns the terminal failure message, empty on success.
func (m *Model) Failure() string {
	return m.failure
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles spinner ticks, key presses and poll snapshots.
func (m *Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			m.done = true

			return m, tea.Quit
		}

		return m, nil
	case SnapshotMsg:
		return m.applySnapshot(poll.Snapshot(msg))
	case StreamClosedMsg:
		if !m.done {
			m.done = true
			return m, tea.Quit
		}

		return m, nil
	}

	return m, nil
}

func (m *Model) applySnapshot(snap poll.Snapshot) (tea.Model, tea.Cmd) {
	if snap.JobID != m.jobID {
		return m, nil
	}

	switch snap.Kind {
	case poll.KindStarted:
		m.statusLine = snap.Message
	case poll.KindStatus:
		m.job = snap.Job
	case poll.KindSlowJob:
		m.notice = snap.Message
	case poll.KindReady:
		m.transcript = snap.Transcript
		m.statusLine = snap.Message
		m.done = true

		return m, tea.Quit
	case poll.KindFailed, poll.KindError:
		m.failure = snap.Message
		m.done = true

		return m, tea.Quit
	}

	return m, nil
}

// View renders the spinner, the latest job status, the optional slow-job
// notice and the final outcome.
func (m *Model) View() string {
	var sb strings.Builder

	if !m.done {
		sb.WriteString(m.spinner.View())
		sb.WriteString(" ")
	}

	sb.WriteString(style.Title.Render("Transcribing"))
	sb.WriteString(" ")
	sb.WriteString(style.Muted.Render(m.jobID))
	sb.WriteString("\n\n")

	if m.statusLine != "" {
		sb.WriteString(style.Status.Render(m.statusLine))
		sb.WriteString("\n")
	}

	if m.job != nil {
		sb.WriteString(style.Status.Render(fmt.Sprintf("Status: %s", m.job.Status)))
		sb.WriteString("\n")
	}

	if m.notice != "" {
		sb.WriteString(style.Warning.Render(m.notice))
		sb.WriteString("\n")
	}

	switch {
	case m.failure != "":
		sb.WriteString("\n")
		sb.WriteString(style.Error.Render(m.failure))
		sb.WriteString("\n")
	case m.transcript != nil:
		sb.WriteString("\n")
		sb.WriteString(style.Success.Render("Transcript ready: " + m.transcript.SuggestedFilename))
		sb.WriteString("\n")
	default:
		sb.WriteString("\n")
		sb.WriteString(style.Help.Render("press q to stop watching"))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Watch runs the watch view over a snapshot stream and returns the final
// model once the job reaches a terminal state or the user quits.
func Watch(jobID string, snapshots <-chan poll.Snapshot, cancel context.CancelFunc) (*Model, error) {
	model := NewModel(jobID, cancel)
	p := tea.NewProgram(model)

	go func() {
		for snap := range snapshots {
			p.Send(SnapshotMsg(snap))
		}
		p.Send(StreamClosedMsg{})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run watch view: %w", err)
	}

	watched, ok := final.(*Model)
	if !ok {
		return model, nil
	}

	return watched, nil
}
