package fetch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/sdlaunch/tunnelhub/internal/errors"
	"github.com/sdlaunch/tunnelhub/internal/logging"
	"github.com/sdlaunch/tunnelhub/internal/metrics"
)

// runner executes an external command and returns its combined output.
// Injected so tests can stub the subprocess boundary.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Fetcher performs single download and shallow-clone operations. Expected
// failures (unreachable host, non-zero exit) are captured into the Outcome,
// never returned as errors, so the installer needs no per-task error
// handling.
type Fetcher struct {
	// DownloadTool is the external retrieval binary, default "curl".
	DownloadTool string
	// GitTool is the version-control client, default "git".
	GitTool string

	logger zerolog.Logger
	run    runner
}

// FetcherOption configures a Fetcher during construction.
type FetcherOption func(*Fetcher)

// WithLogger sets the fetcher's logger.
func WithLogger(logger zerolog.Logger) FetcherOption {
	return func(f *Fetcher) { f.logger = logger }
}

// WithDownloadTool overrides the retrieval binary (e.g. "aria2c").
func WithDownloadTool(tool string) FetcherOption {
	return func(f *Fetcher) { f.DownloadTool = tool }
}

// withRunner replaces the subprocess runner. Test hook.
func withRunner(r runner) FetcherOption {
	return func(f *Fetcher) { f.run = r }
}

// NewFetcher creates a Fetcher with defaults applied.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		DownloadTool: "curl",
		GitTool:      "git",
		logger:       logging.Nop(),
		run:          execRunner,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch executes one task and returns its outcome. It never returns an
// error to the caller; every failure mode lands in Outcome.Error.
func (f *Fetcher) Fetch(ctx context.Context, task Task) Outcome {
	var out Outcome
	if err := task.Validate(); err != nil {
		out = Outcome{Task: task, Error: err.Error()}
	} else {
		switch task.Kind {
		case KindDownload:
			out = f.download(ctx, task)
		case KindClone:
			out = f.clone(ctx, task)
		}
	}

	metrics.ObserveFetch(string(task.Kind), out.Succeeded)
	if out.Succeeded {
		f.logger.Debug().Str("task", task.Label()).Str("kind", string(task.Kind)).Msg("fetch completed")
	} else {
		f.logger.Warn().Str("task", task.Label()).Str("kind", string(task.Kind)).Str("error", out.Error).Msg("fetch failed")
	}
	return out
}

// download retrieves task.Source to task.Destination. Any file already at
// the destination is removed first so the result is never a stale partial
// from a prior run.
func (f *Fetcher) download(ctx context.Context, task Task) Outcome {
	if err := os.MkdirAll(filepath.Dir(task.Destination), 0o755); err != nil {
		return Outcome{Task: task, Error: "create destination directory: " + err.Error()}
	}
	if err := os.Remove(task.Destination); err != nil && !os.IsNotExist(err) {
		return Outcome{Task: task, Error: "remove stale destination: " + err.Error()}
	}

	output, err := f.run(ctx, f.DownloadTool, "-fsSL", "-o", task.Destination, task.Source)
	if err != nil {
		return Outcome{Task: task, Error: failureDetail(f.DownloadTool, output, err)}
	}
	return Outcome{Task: task, Succeeded: true}
}

// clone performs a depth-1 checkout of task.Source into task.Destination.
func (f *Fetcher) clone(ctx context.Context, task Task) Outcome {
	if err := os.MkdirAll(filepath.Dir(task.Destination), 0o755); err != nil {
		return Outcome{Task: task, Error: "create extensions directory: " + err.Error()}
	}

	output, err := f.run(ctx, f.GitTool, "clone", "--depth", "1", task.Source, task.Destination)
	if err != nil {
		return Outcome{Task: task, Error: failureDetail(f.GitTool, output, err)}
	}
	return Outcome{Task: task, Succeeded: true}
}

// failureDetail merges the runner error with the tool's captured output into
// a single diagnostic string. Non-zero tool exits are described through
// ProcessError; anything else keeps the raw error text.
func failureDetail(tool string, output []byte, err error) string {
	detail := tool + ": " + err.Error()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		detail = apperrors.ProcessError{Command: tool, ExitCode: exitErr.ExitCode(), Output: string(output), Cause: err}.Error()
	}
	if text := strings.TrimSpace(string(output)); text != "" {
		detail += ": " + text
	}
	return detail
}
