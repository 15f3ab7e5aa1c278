package status

import (
	"fmt"
	"io"
	"sync"

	"github.com/sdlaunch/tunnelhub/internal/ui"
)

// Severity classifies a status event for display styling.
type Severity int

const (
	// SeverityInfo marks routine progress messages.
	SeverityInfo Severity = iota
	// SeveritySuccess marks an established tunnel or completed task.
	SeveritySuccess
	// SeverityWarning marks degraded-but-continuing conditions.
	SeverityWarning
	// SeverityError marks a failed probe or task.
	SeverityError
)

// Event is a single transient status message. Events are consumed by the
// reporter and discarded after display.
type Event struct {
	Message  string
	Severity Severity
}

// Info builds an informational event.
func Info(format string, args ...any) Event {
	return Event{Message: fmt.Sprintf(format, args...), Severity: SeverityInfo}
}

// Success builds a success event.
func Success(format string, args ...any) Event {
	return Event{Message: fmt.Sprintf(format, args...), Severity: SeveritySuccess}
}

// Warning builds a warning event.
func Warning(format string, args ...any) Event {
	return Event{Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

// Error builds an error event.
func Error(format string, args ...any) Event {
	return Event{Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

// eventBuffer sizes the event channel. Publishers block once the buffer is
// full rather than dropping, preserving FIFO completeness.
const eventBuffer = 64

// Reporter is the single-consumer status printer. Create one with
// NewReporter, publish from any goroutine, and call Stop to drain and shut
// down. No event published before Stop is dropped.
type Reporter struct {
	out    io.Writer
	events chan Event
	done   chan struct{}

	mu      sync.Mutex
	stopped bool
}

// NewReporter creates a reporter writing to out and launches its consumer
// goroutine. The consumer runs from construction, so Publish never blocks
// indefinitely on a full buffer. Pass io.Discard for quiet mode.
func NewReporter(out io.Writer) *Reporter {
	r := &Reporter{
		out:    out,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Reporter) loop() {
	defer close(r.done)
	for ev := range r.events {
		fmt.Fprintln(r.out, render(ev))
	}
}

// Publish enqueues an event for display. Events published concurrently are
// printed in queue order. Publishing after Stop is a no-op.
func (r *Reporter) Publish(ev Event) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	// Holding the lock across the send keeps Stop from closing the channel
	// between the check and the send.
	r.events <- ev
	r.mu.Unlock()
}

// Stop signals termination and blocks until every queued event has been
// printed.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.stopped = true
	close(r.events)
	r.mu.Unlock()
	<-r.done
}

// render formats an event with its severity glyph and style.
func render(ev Event) string {
	styles := ui.Current()
	switch ev.Severity {
	case SeveritySuccess:
		return styles.Success.Render("✓ " + ev.Message)
	case SeverityWarning:
		return styles.Warning.Render("⚠ " + ev.Message)
	case SeverityError:
		return styles.Error.Render("✗ " + ev.Message)
	default:
		return styles.Info.Render("• " + ev.Message)
	}
}
