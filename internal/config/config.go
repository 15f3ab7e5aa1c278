// Package config defines the application configuration and its sources:
// command-line flags, TUNNELHUB_-prefixed environment variables, and
// defaults, in that priority order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	apperrors "github.com/sdlaunch/tunnelhub/internal/errors"
	"github.com/sdlaunch/tunnelhub/internal/tunnel"
)

// EnvPrefix is prepended to every environment override key.
const EnvPrefix = "TUNNELHUB_"

// Run modes selected by the first positional argument.
const (
	ModeTunnel  = "tunnel"
	ModeInstall = "install"
)

// Defaults for flag values.
const (
	DefaultPort         = 7860
	DefaultSettingsPath = "settings.json"
	DefaultWorkers      = 8
)

// AppConfig holds the full application configuration.
type AppConfig struct {
	// Mode is the selected subcommand: ModeTunnel or ModeInstall.
	Mode string
	// Port is the local port to expose (tunnel mode).
	Port int
	// SettingsPath locates the JSON settings store (tokens, cached IP).
	SettingsPath string
	// ProbeTimeout overrides the per-provider probe deadline when positive.
	ProbeTimeout time.Duration
	// Manifest is the YAML task-list path (install mode).
	Manifest string
	// Workers bounds concurrent install tasks.
	Workers int
	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string
	// Quiet suppresses per-event status output, leaving only the summary.
	Quiet bool
	// NoColor disables ANSI styling.
	NoColor bool
	// ShowVersion prints the version and exits.
	ShowVersion bool
}

// ParseConfig parses command-line arguments into an AppConfig and applies
// environment overrides for flags not set explicitly. The first positional
// argument selects the mode; flags follow it.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	config := AppConfig{
		Port:         DefaultPort,
		SettingsPath: DefaultSettingsPath,
		Workers:      DefaultWorkers,
		LogLevel:     "info",
	}

	if len(args) > 0 && args[0] == "-version" {
		config.ShowVersion = true
		return config, nil
	}
	if len(args) == 0 {
		printUsage(programName, errWriter)
		return config, apperrors.NewConfigError("missing command: expected %q or %q", ModeTunnel, ModeInstall)
	}

	config.Mode = args[0]
	switch config.Mode {
	case ModeTunnel, ModeInstall:
	default:
		printUsage(programName, errWriter)
		return config, apperrors.NewConfigError("unknown command %q: expected %q or %q", config.Mode, ModeTunnel, ModeInstall)
	}

	fs := flag.NewFlagSet(programName+" "+config.Mode, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	// Mode-specific flags.
	switch config.Mode {
	case ModeTunnel:
		fs.IntVar(&config.Port, "port", DefaultPort, "Local port to expose through the tunnels")
		fs.DurationVar(&config.ProbeTimeout, "timeout", 0, "Per-provider probe deadline (0 uses each provider's default)")
	case ModeInstall:
		fs.StringVar(&config.Manifest, "manifest", "", "YAML task manifest to install (required)")
		fs.IntVar(&config.Workers, "workers", DefaultWorkers, "Maximum concurrent install tasks")
	}

	// Shared flags.
	fs.StringVar(&config.SettingsPath, "settings", DefaultSettingsPath, "Path to the JSON settings store")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&config.Quiet, "quiet", false, "Suppress per-event status output")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config, err
		}
		return config, apperrors.NewConfigError("%v", err)
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks the parsed configuration for contradictions.
func (c AppConfig) Validate() error {
	if c.ShowVersion {
		return nil
	}
	switch c.Mode {
	case ModeTunnel:
		if c.Port <= 0 || c.Port > 65535 {
			return apperrors.NewConfigError("port %d out of range 1-65535", c.Port)
		}
		if c.ProbeTimeout < 0 {
			return apperrors.NewConfigError("timeout must not be negative")
		}
	case ModeInstall:
		if c.Manifest == "" {
			return apperrors.NewConfigError("install requires -manifest")
		}
		if c.Workers < 1 {
			return apperrors.NewConfigError("workers must be at least 1")
		}
	}
	if c.SettingsPath == "" {
		return apperrors.NewConfigError("settings path must not be empty")
	}
	return nil
}

// EffectiveProbeTimeout returns the probe deadline the -timeout flag imposes,
// or the built-in default when unset.
func (c AppConfig) EffectiveProbeTimeout() time.Duration {
	if c.ProbeTimeout > 0 {
		return c.ProbeTimeout
	}
	return tunnel.DefaultProbeTimeout
}

func printUsage(programName string, w io.Writer) {
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s tunnel [-port 7860] [-settings settings.json] [-timeout 20s]\n", programName)
	fmt.Fprintf(w, "  %s install -manifest tasks.yaml [-workers 8]\n", programName)
	fmt.Fprintf(w, "Shared flags: -log-level, -quiet, -no-color, -version\n")
}
