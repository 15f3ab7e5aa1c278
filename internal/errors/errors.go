package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution (including partial success).
	ExitErrorGeneric  = 1   // Indicates a generic error (no tunnel established, all tasks failed).
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags,
// a malformed provider definition, or a broken task manifest. It indicates
// that the application cannot proceed due to incorrect input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ProcessError describes a subprocess that could not be spawned or that
// exited with a non-zero status. It carries the command name, the exit code
// (-1 when the process never started), and the captured output, which is the
// only diagnostic signal tunnel clients and fetch tools provide.
type ProcessError struct {
	// Command is the name of the external program that failed.
	Command string
	// ExitCode is the process exit status, or -1 if the spawn itself failed.
	ExitCode int
	// Output is the captured combined stdout/stderr text.
	Output string
	// Cause is the underlying error from the OS, if any.
	Cause error
}

// Error returns a formatted message describing the process failure.
func (e ProcessError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("command %q failed to start: %v", e.Command, e.Cause)
	}
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
}

// Unwrap returns the underlying cause, allowing errors.Is/As inspection.
func (e ProcessError) Unwrap() error { return e.Cause }

// NetworkError represents a failed network operation, such as a download or
// the public-IP echo request.
type NetworkError struct {
	// URL is the address the operation targeted.
	URL string
	// Cause is the underlying transport or HTTP error.
	Cause error
}

// Error returns a formatted message describing the network failure.
func (e NetworkError) Error() string {
	return fmt.Sprintf("network request to %s failed: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying cause.
func (e NetworkError) Unwrap() error { return e.Cause }

// NewNetworkError creates a NetworkError for the given URL and cause.
func NewNetworkError(url string, cause error) error {
	return NetworkError{URL: url, Cause: cause}
}

// TimeoutError represents an operation that exceeded its deadline. It captures
// the operation name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
