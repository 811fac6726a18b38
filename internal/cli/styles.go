// Package cli provides styled terminal output and prompts for the offers CLI.
package cli

import (
	"github.com/Veraticus/offer-desk/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// Shared styles. UseTheme rebuilds them from a TUI theme so both front ends
// agree on colors.
var (
	TitleStyle    lipgloss.Style
	SubtleStyle   lipgloss.Style
	BoldStyle     lipgloss.Style
	InfoStyle     lipgloss.Style
	BoxStyle      lipgloss.Style
	ProgressStyle lipgloss.Style

	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
	promptStyle  lipgloss.Style
)

func init() {
	UseTheme(themes.Default)
}

// UseTheme restyles CLI output with the colors of t.
func UseTheme(t themes.Theme) {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	SubtleStyle = lipgloss.NewStyle().Foreground(t.Muted)
	BoldStyle = lipgloss.NewStyle().Bold(true)
	InfoStyle = lipgloss.NewStyle().Foreground(t.Info)
	BoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border)
	ProgressStyle = lipgloss.NewStyle().Foreground(t.Primary)

	successStyle = lipgloss.NewStyle().Foreground(t.Success)
	warningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
}

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string {
	return successStyle.Render("✓ " + message)
}

// FormatError prefixes message with a cross.
func FormatError(message string) string {
	return errorStyle.Render("✗ " + message)
}

// FormatWarning prefixes message with a warning sign.
func FormatWarning(message string) string {
	return warningStyle.Render("⚠️ " + message)
}

// FormatInfo prefixes message with an info sign.
func FormatInfo(message string) string {
	return InfoStyle.Render("ℹ️ " + message)
}

// FormatTitle renders a section title behind a plane.
func FormatTitle(title string) string {
	return TitleStyle.Render("✈️ " + title)
}

// FormatPrompt renders the question part of a prompt.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// StyleTitle renders text as a plain title.
func StyleTitle(text string) string {
	return TitleStyle.Render(text)
}
