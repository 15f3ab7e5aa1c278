package tunnel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/sdlaunch/tunnelhub/internal/errors"
	"github.com/sdlaunch/tunnelhub/internal/logging"
)

// Result is the immutable outcome of one probe. Exactly one Result exists
// per attempted provider.
type Result struct {
	// Provider is the name of the probed provider.
	Provider string
	// Succeeded reports whether the success pattern matched in time.
	Succeeded bool
	// PublicURL is the discovered URL; non-empty iff Succeeded.
	PublicURL string
	// ErrorDetail carries the captured diagnostic text on failure.
	ErrorDetail string
	// Elapsed is the time from spawn to terminal state.
	Elapsed time.Duration
}

// ProbeFunc is the probe entry point signature, injectable for tests.
type ProbeFunc func(ctx context.Context, cfg ProviderConfig, port int, token string) Result

// tailLines bounds the captured output kept for failure diagnostics.
const tailLines = 20

// drainGrace bounds how long a concluded probe waits for the output scanner
// to catch up before reporting.
const drainGrace = 500 * time.Millisecond

// outputTail retains the last tailLines lines of merged subprocess output.
type outputTail struct {
	mu    sync.Mutex
	lines []string
}

func (t *outputTail) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > tailLines {
		t.lines = t.lines[len(t.lines)-tailLines:]
	}
}

func (t *outputTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "\n")
}

// Prober launches tunnel client processes and watches their output for the
// provider's success pattern.
type Prober struct {
	logger zerolog.Logger
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithProberLogger sets the logger used for subprocess output lines.
func WithProberLogger(logger zerolog.Logger) ProberOption {
	return func(p *Prober) { p.logger = logger }
}

// NewProber creates a Prober.
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{logger: logging.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe runs one provider client and races three terminal conditions: the
// success pattern appearing, the provider timeout elapsing, and the process
// exiting on its own. Whichever happens first decides the result; a match
// read before the timeout fires wins ties. On success with KeepAlive the
// client is deliberately left running so it keeps relaying traffic; every
// failure path terminates the client's whole process group so dead probes
// do not leak processes.
//
// Expected failures never surface as errors: the Result carries them.
func (p *Prober) Probe(ctx context.Context, cfg ProviderConfig, port int, token string) Result {
	start := time.Now()
	logger := p.logger.With().Str("provider", cfg.Name).Logger()

	fail := func(detail string) Result {
		return Result{Provider: cfg.Name, ErrorDetail: detail, Elapsed: time.Since(start)}
	}

	argv, err := splitCommand(cfg.expandCommand(port, token))
	if err != nil {
		return fail(err.Error())
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return fail(fmt.Sprintf("%s client not installed", argv[0]))
	}

	// Merge stdout and stderr onto one pipe: tunnel clients print their URL
	// to either stream.
	pr, pw, err := os.Pipe()
	if err != nil {
		return fail("create output pipe: " + err.Error())
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = pw
	cmd.Stderr = pw
	if cfg.CredentialEnv != "" && token != "" {
		cmd.Env = append(os.Environ(), cfg.CredentialEnv+"="+token)
	}
	// The client runs in its own process group so that killing a failed
	// probe also reaps helpers the client may have spawned. Caller-level
	// cancellation terminates the group through cmd.Cancel.
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		return terminateProcessGroup(cmd.Process.Pid)
	}

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return fail(apperrors.ProcessError{Command: argv[0], ExitCode: -1, Cause: err}.Error())
	}
	// Close the parent's copy of the write end; the child holds its own.
	pw.Close()

	tail := &outputTail{}
	matched := make(chan string, 1)
	scanDone := make(chan struct{})
	go scanOutput(pr, cfg.Pattern, tail, matched, scanDone, logger)

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	timer := time.NewTimer(cfg.timeout())
	defer timer.Stop()

	succeed := func(url string) Result {
		res := Result{Provider: cfg.Name, Succeeded: true, PublicURL: url, Elapsed: time.Since(start)}
		if !cfg.KeepAlive {
			_ = terminateProcessGroup(cmd.Process.Pid)
		}
		return res
	}

	select {
	case url := <-matched:
		return succeed(url)

	case <-timer.C:
		// A match read just before the deadline wins the tie.
		select {
		case url := <-matched:
			return succeed(url)
		default:
		}
		_ = terminateProcessGroup(cmd.Process.Pid)
		detail := apperrors.TimeoutError{Operation: cfg.Name + " tunnel probe", Limit: cfg.timeout()}.Error()
		if out := tail.String(); out != "" {
			detail += "\n" + out
		}
		return fail(detail)

	case err := <-exited:
		// The exit notification can outrun the scanner; give it a moment to
		// drain output the client wrote just before dying. A URL printed on
		// the way out still counts as success.
		select {
		case url := <-matched:
			return succeed(url)
		case <-scanDone:
		case <-time.After(drainGrace):
		}
		select {
		case url := <-matched:
			return succeed(url)
		default:
		}
		detail := "tunnel client exited before publishing a URL"
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				detail = apperrors.ProcessError{Command: argv[0], ExitCode: exitErr.ExitCode(), Output: tail.String(), Cause: err}.Error()
			} else {
				detail = "tunnel client " + err.Error()
			}
		}
		if out := tail.String(); out != "" {
			detail += "\n" + out
		}
		return fail(detail)

	case <-ctx.Done():
		_ = terminateProcessGroup(cmd.Process.Pid)
		return fail("probe canceled: " + ctx.Err().Error())
	}
}

// scanOutput reads merged subprocess output line by line until EOF. It keeps
// the diagnostic tail current and delivers the first pattern match. The
// goroutine intentionally outlives a successful probe: it keeps draining the
// pipe for the lifetime of a kept-alive tunnel client so the client never
// blocks on a full pipe.
func scanOutput(r *os.File, pattern *regexp.Regexp, tail *outputTail, matched chan<- string, done chan<- struct{}, logger zerolog.Logger) {
	defer close(done)
	defer r.Close()

	sent := false
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		line := scanner.Text()
		tail.add(line)
		logger.Debug().Msg(line)

		if sent {
			continue
		}
		if m := pattern.FindString(line); m != "" {
			if !strings.HasPrefix(m, "http") {
				m = "http://" + m
			}
			matched <- m
			sent = true
		}
	}
}
