package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewIncludesComponent(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := New(&buf, "probe", zerolog.InfoLevel)
	logger.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, "probe") {
		t.Errorf("expected component tag in output, got: %s", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("expected message in output, got: %s", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := New(&buf, "fetch", zerolog.WarnLevel)
	logger.Info().Msg("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info line should be suppressed at warn level, got: %s", buf.String())
	}
	logger.Warn().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("warn line missing, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
