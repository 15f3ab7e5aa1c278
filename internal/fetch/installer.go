package fetch

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrency bounds the worker pool when the caller does not
// choose a limit. Eight keeps dozens of small downloads moving without
// exhausting file descriptors or connections on notebook hosts.
const DefaultMaxConcurrency = 8

// InstallOptions configures a batch run.
type InstallOptions struct {
	// MaxConcurrency caps simultaneous fetches. Values <= 0 fall back to
	// DefaultMaxConcurrency.
	MaxConcurrency int
	// Notify, if set, is invoked once per completed task. Calls are
	// serialized; implementations need no locking.
	Notify func(Outcome)
}

// InstallAll fans tasks out over the fetcher with bounded concurrency and
// returns one outcome per task, in input order. One task's failure never
// cancels or blocks its siblings, and the call returns only after every task
// has finished. There is no automatic retry: a failed outcome is reported
// verbatim and resubmission is the caller's decision.
func InstallAll(ctx context.Context, fetcher *Fetcher, tasks []Task, opts InstallOptions) []Outcome {
	limit := opts.MaxConcurrency
	if limit <= 0 {
		limit = DefaultMaxConcurrency
	}

	outcomes := make([]Outcome, len(tasks))
	sem := semaphore.NewWeighted(int64(limit))

	var notifyMu sync.Mutex
	notify := func(out Outcome) {
		if opts.Notify == nil {
			return
		}
		notifyMu.Lock()
		defer notifyMu.Unlock()
		opts.Notify(out)
	}

	var wg sync.WaitGroup
	for i, task := range tasks {
		idx, tsk := i, task
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := ctx.Err()
			if err == nil {
				err = sem.Acquire(ctx, 1)
			}
			if err != nil {
				// Caller-level cancellation. The task still yields an
				// outcome; nothing is silently dropped.
				outcomes[idx] = Outcome{Task: tsk, Error: "canceled: " + err.Error()}
				notify(outcomes[idx])
				return
			}
			defer sem.Release(1)

			outcomes[idx] = fetcher.Fetch(ctx, tsk)
			notify(outcomes[idx])
		}()
	}
	wg.Wait()

	return outcomes
}

// CountOutcomes tallies successes and failures in a batch result.
func CountOutcomes(outcomes []Outcome) (succeeded, failed int) {
	for _, out := range outcomes {
		if out.Succeeded {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
