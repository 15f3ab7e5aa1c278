package status

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// syncBuffer guards a bytes.Buffer for concurrent writes from the reporter
// goroutine and reads from the test goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReporterPrintsInFIFOOrder(t *testing.T) {
	t.Parallel()
	var buf syncBuffer
	r := NewReporter(&buf)

	for i := 0; i < 10; i++ {
		r.Publish(Info("event %d", i))
	}
	r.Stop()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d: %q", len(lines), buf.String())
	}
	for i, line := range lines {
		if !strings.Contains(line, fmt.Sprintf("event %d", i)) {
			t.Errorf("line %d = %q, want event %d", i, line, i)
		}
	}
}

func TestReporterDrainsOnStop(t *testing.T) {
	t.Parallel()
	var buf syncBuffer
	r := NewReporter(&buf)

	// Fill well past any internal buffering before stopping; every event
	// must still appear.
	const n = 200
	for i := 0; i < n; i++ {
		r.Publish(Success("task %d", i))
	}
	r.Stop()

	got := strings.Count(buf.String(), "\n")
	if got != n {
		t.Errorf("expected %d lines after Stop, got %d", n, got)
	}
}

func TestReporterConsumesFromConstruction(t *testing.T) {
	t.Parallel()
	var buf syncBuffer
	r := NewReporter(&buf)

	// Publish far past the internal buffer immediately after construction.
	// The consumer must already be running, so this completes without any
	// further setup call.
	const n = eventBuffer * 3
	for i := 0; i < n; i++ {
		r.Publish(Info("event %d", i))
	}
	r.Stop()

	if got := strings.Count(buf.String(), "\n"); got != n {
		t.Errorf("expected %d lines, got %d", n, got)
	}
}

func TestReporterPublishAfterStopIsNoop(t *testing.T) {
	t.Parallel()
	var buf syncBuffer
	r := NewReporter(&buf)
	r.Publish(Info("before stop"))
	r.Stop()

	// Must not panic or print.
	r.Publish(Error("after stop"))

	if strings.Contains(buf.String(), "after stop") {
		t.Errorf("event published after Stop should be dropped")
	}
	if !strings.Contains(buf.String(), "before stop") {
		t.Errorf("event published before Stop is missing")
	}
}

func TestReporterStopIsIdempotent(t *testing.T) {
	t.Parallel()
	r := NewReporter(&bytes.Buffer{})
	r.Stop()
	r.Stop()
}

func TestReporterConcurrentPublishers(t *testing.T) {
	t.Parallel()
	var buf syncBuffer
	r := NewReporter(&buf)

	var wg sync.WaitGroup
	const publishers = 8
	const perPublisher = 25
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				r.Publish(Info("publisher %d event %d", p, i))
			}
		}(p)
	}
	wg.Wait()
	r.Stop()

	// Every event must appear exactly once, each on its own line.
	if got := strings.Count(buf.String(), "\n"); got != publishers*perPublisher {
		t.Errorf("expected %d lines, got %d", publishers*perPublisher, got)
	}
}

func TestEventConstructors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		ev       Event
		severity Severity
		message  string
	}{
		{"info", Info("a %s", "b"), SeverityInfo, "a b"},
		{"success", Success("ok"), SeveritySuccess, "ok"},
		{"warning", Warning("careful"), SeverityWarning, "careful"},
		{"error", Error("bad %d", 7), SeverityError, "bad 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.ev.Severity != tt.severity {
				t.Errorf("severity = %v, want %v", tt.ev.Severity, tt.severity)
			}
			if tt.ev.Message != tt.message {
				t.Errorf("message = %q, want %q", tt.ev.Message, tt.message)
			}
		})
	}
}
