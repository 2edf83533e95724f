// Package style defines the terminal styles used by aidots output.
// Colors are adaptive and resolved against the detected terminal
// background, so output stays readable on light and dark themes.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic styles for command output
var (
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "40"})

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"}).
		Bold(true)

	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "243"})

	Header = lipgloss.NewStyle().
		Bold(true).
		Underline(true)

	ToolName = lipgloss.NewStyle().
			Bold(true)
)

// ColorEnabled reports whether the terminal supports color output at
// all. Callers fall back to plain text when it doesn't.
func ColorEnabled() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
}

// Render applies the style when color is enabled and returns the bare
// string otherwise.
func Render(s lipgloss.Style, text string) string {
	if !ColorEnabled() {
		return text
	}
	return s.Render(text)
}
