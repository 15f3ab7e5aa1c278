package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles groups the lipgloss styles used by the status reporter and the
// CLI presenters. Each field maps to a severity or display role.
type Styles struct {
	// Info is used for routine progress messages.
	Info lipgloss.Style
	// Success indicates an established tunnel or completed task.
	Success lipgloss.Style
	// Warning is used for degraded-but-continuing conditions.
	Warning lipgloss.Style
	// Error indicates a failed probe or task.
	Error lipgloss.Style
	// Accent highlights URLs and other load-bearing values.
	Accent lipgloss.Style
	// Dim is used for secondary detail such as durations.
	Dim lipgloss.Style
	// Bold emphasizes headers.
	Bold lipgloss.Style
}

var (
	// ColorStyles is the default palette for color-capable terminals.
	ColorStyles = Styles{
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Bold:    lipgloss.NewStyle().Bold(true),
	}

	// PlainStyles renders everything with the terminal's default colors.
	// Used when NO_COLOR is set or -no-color is provided.
	PlainStyles = Styles{
		Info:    lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Accent:  lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle(),
	}

	current    = ColorStyles
	styleMutex sync.RWMutex
)

// Current returns the active style set in a thread-safe manner.
func Current() Styles {
	styleMutex.RLock()
	defer styleMutex.RUnlock()
	return current
}

// SetStyles replaces the active style set. Primarily used by tests to
// restore state.
func SetStyles(s Styles) {
	styleMutex.Lock()
	defer styleMutex.Unlock()
	current = s
}

// InitStyles initializes the style set based on the noColor flag and
// environment. It respects the NO_COLOR environment variable
// (https://no-color.org/): any non-empty presence disables colors.
func InitStyles(noColor bool) {
	styleMutex.Lock()
	defer styleMutex.Unlock()

	if noColor {
		current = PlainStyles
		return
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		current = PlainStyles
		return
	}
	current = ColorStyles
}
