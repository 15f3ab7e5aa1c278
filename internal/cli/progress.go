package cli

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/sdlaunch/tunnelhub/internal/fetch"
	"github.com/sdlaunch/tunnelhub/internal/format"
)

// ProgressRefreshRate defines the refresh frequency of the activity spinner.
const ProgressRefreshRate = 200 * time.Millisecond

// Spinner is an interface that abstracts the behavior of a terminal spinner,
// decoupling progress display from a specific spinner implementation and
// making it testable.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner wraps spinner.Spinner to implement the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

// NewSpinner creates a terminal spinner writing to w.
func NewSpinner(w io.Writer) Spinner {
	return &realSpinner{
		s: spinner.New(spinner.CharSets[14], ProgressRefreshRate, spinner.WithWriter(w)),
	}
}

// InstallProgress animates a spinner while an install batch runs and keeps
// its suffix current with the completed-task count. Completed is safe to call
// from concurrent workers.
type InstallProgress struct {
	spinner Spinner
	total   int

	mu   sync.Mutex
	done int
}

// NewInstallProgress creates a progress display for a batch of total tasks
// and starts the spinner.
func NewInstallProgress(sp Spinner, total int) *InstallProgress {
	p := &InstallProgress{spinner: sp, total: total}
	sp.UpdateSuffix(" installing " + format.Count(0, total))
	sp.Start()
	return p
}

// Completed records one finished task and refreshes the spinner suffix.
// It has the signature fetch.InstallOptions.Notify expects.
func (p *InstallProgress) Completed(fetch.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	p.spinner.UpdateSuffix(" installing " + format.Count(p.done, p.total))
}

// Finish stops the spinner.
func (p *InstallProgress) Finish() {
	p.spinner.Stop()
}
