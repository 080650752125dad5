package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the shared lipgloss styles of the plain (non-TUI) commands.
// The border colors match the chat TUI palette so both surfaces look like
// one tool.
var Styles = struct {
	Bold       lipgloss.Style
	SuccessBox lipgloss.Style
	ErrorBox   lipgloss.Style
}{
	Bold: lipgloss.NewStyle().Bold(true),

	// SuccessBox frames the recommendation summary of the profile command.
	SuccessBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("42")).
		Padding(0, 1).
		Width(64),

	// ErrorBox frames the generic failure message shown to the customer.
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196")).
		Padding(0, 1).
		Width(64),
}
