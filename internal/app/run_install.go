package app

import (
	"context"
	"io"
	"time"

	"github.com/sdlaunch/tunnelhub/internal/cli"
	apperrors "github.com/sdlaunch/tunnelhub/internal/errors"
	"github.com/sdlaunch/tunnelhub/internal/fetch"
)

// runInstall loads the task manifest and runs the batch through the bounded
// installer. Partial failure is tolerated: the batch exits non-zero only when
// every task failed or the run was interrupted.
func (a *Application) runInstall(ctx context.Context, out io.Writer) int {
	tasks, err := fetch.LoadManifest(a.Config.Manifest)
	if err != nil {
		a.logger.Error().Err(err).Str("manifest", a.Config.Manifest).Msg("cannot load manifest")
		return apperrors.ExitErrorConfig
	}

	opts := fetch.InstallOptions{MaxConcurrency: a.Config.Workers}
	var progress *cli.InstallProgress
	if !a.Config.Quiet {
		progress = cli.NewInstallProgress(cli.NewSpinner(out), len(tasks))
		opts.Notify = progress.Completed
	}

	fetcher := fetch.NewFetcher(fetch.WithLogger(a.logger))

	start := time.Now()
	outcomes := fetch.InstallAll(ctx, fetcher, tasks, opts)
	elapsed := time.Since(start)
	if progress != nil {
		progress.Finish()
	}

	if ctx.Err() != nil {
		return exitCodeForContext(ctx)
	}

	cli.PresentInstallSummary(out, outcomes, elapsed)

	succeeded, _ := fetch.CountOutcomes(outcomes)
	if succeeded == 0 && len(outcomes) > 0 {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
