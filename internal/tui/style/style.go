// Package style defines lipgloss styles for the watch view.
package style

import "github.com/charmbracelet/lipgloss"

// Lipgloss styles are value types and safe for concurrent use, so these are
// package-level. Names omit a "Style" suffix; style.Title reads better than
// style.TitleStyle.
var (
	// Title is used for the watch view header.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Status is used for the current job status line.
	Status = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Success is used for the completion message.
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// Error is used for failure messages.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	// Warning is used for the slow-job notice.
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Muted is used for de-emphasized text such as job ids.
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))
)
