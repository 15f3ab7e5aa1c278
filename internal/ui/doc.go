// Package ui provides severity styling for the tunnel hub's terminal output.
// It defines lipgloss styles for status lines and summary tables and honors
// the NO_COLOR convention.
//
// This package is designed to be a shared dependency for packages that need
// styled output, reducing coupling between orchestration logic and
// presentation.
package ui
