// Package app wires configuration, logging, and the domain packages into the
// two run modes the binary exposes: tunnel and install.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/sdlaunch/tunnelhub/internal/config"
	apperrors "github.com/sdlaunch/tunnelhub/internal/errors"
	"github.com/sdlaunch/tunnelhub/internal/logging"
	"github.com/sdlaunch/tunnelhub/internal/settings"
	"github.com/sdlaunch/tunnelhub/internal/ui"
)

// Application represents the tunnelhub application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	logger zerolog.Logger
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "tunnelhub"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	return &Application{Config: cfg, ErrWriter: errWriter}, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	ui.InitStyles(a.Config.NoColor)
	a.logger = logging.New(a.ErrWriter, "tunnelhub", logging.ParseLevel(a.Config.LogLevel))

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	store, err := settings.Open(a.Config.SettingsPath)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error opening settings store: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	switch a.Config.Mode {
	case config.ModeTunnel:
		return a.runTunnel(ctx, out, store)
	case config.ModeInstall:
		return a.runInstall(ctx, out)
	default:
		fmt.Fprintf(a.ErrWriter, "Unknown mode %q\n", a.Config.Mode)
		return apperrors.ExitErrorConfig
	}
}

// exitCodeForContext maps a finished context to an exit code: canceled means
// an interrupt, deadline means a timeout.
func exitCodeForContext(ctx context.Context) int {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.ExitErrorTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		return apperrors.ExitErrorCanceled
	default:
		return apperrors.ExitSuccess
	}
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
