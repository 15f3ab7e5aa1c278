package app

import (
	"context"
	"errors"
	"io"

	"github.com/sdlaunch/tunnelhub/internal/cli"
	apperrors "github.com/sdlaunch/tunnelhub/internal/errors"
	"github.com/sdlaunch/tunnelhub/internal/settings"
	"github.com/sdlaunch/tunnelhub/internal/status"
	"github.com/sdlaunch/tunnelhub/internal/tunnel"
)

// runTunnel races the provider catalog against the configured port and
// prints the resulting URLs. At least one live tunnel counts as success;
// individual provider failures are reported, not fatal.
func (a *Application) runTunnel(ctx context.Context, out io.Writer, store settings.Store) int {
	catalog := tunnel.DefaultCatalog()
	if a.Config.ProbeTimeout > 0 {
		for i := range catalog {
			catalog[i].Timeout = a.Config.ProbeTimeout
		}
	}

	statusOut := out
	if a.Config.Quiet {
		statusOut = io.Discard
	}
	reporter := status.NewReporter(statusOut)

	orchestrator := tunnel.NewOrchestrator(store,
		tunnel.WithCatalog(catalog),
		tunnel.WithReporter(reporter),
		tunnel.WithOrchestratorLogger(a.logger),
	)

	summary, err := orchestrator.Establish(ctx, a.Config.Port)
	reporter.Stop()

	if err != nil {
		if apperrors.IsContextError(err) {
			return exitCodeForContext(ctx)
		}
		var cfgErr apperrors.ConfigError
		if errors.As(err, &cfgErr) {
			return apperrors.ExitErrorConfig
		}
		return apperrors.ExitErrorGeneric
	}

	cli.PresentTunnelSummary(out, summary, catalog)

	if summary.SuccessCount == 0 {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
