package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a component-tagged console logger writing to w.
// Console output uses short timestamps; the component field identifies
// which part of the orchestrator emitted the line.
func New(w io.Writer, component string, level zerolog.Level) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(cw).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// Nop returns a disabled logger. Used by components whose callers did not
// supply one and by tests that do not assert on log output.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel converts a textual level ("debug", "info", "warn", "error")
// into a zerolog level, defaulting to info for unrecognized values.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
