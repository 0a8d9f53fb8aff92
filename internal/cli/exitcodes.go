package cli

import (
	"errors"
)

// Exit codes for jnav.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates a query that did not resolve, a failed check or
	// any other unclassified error.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration or check file errors.
	ExitConfigError = 65

	// ExitInputError indicates an input that could not be read or tokenized.
	ExitInputError = 66

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70
)

var (
	// ErrUsage marks invalid flags or arguments.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration and check file errors.
	ErrConfig = errors.New("configuration error")

	// ErrInput marks inputs that could not be loaded.
	ErrInput = errors.New("input error")

	// ErrInternal marks invariant violations inside jnav itself.
	ErrInternal = errors.New("internal error")

	// ErrQueryFailed is returned when at least one path did not resolve.
	// The failures have already been reported.
	ErrQueryFailed = errors.New("query failed")

	// ErrChecksFailed is returned when at least one check failed.
	// The failures have already been reported.
	ErrChecksFailed = errors.New("checks failed")
)

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrQueryFailed), errors.Is(err, ErrChecksFailed):
		return ExitFailure
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrInput):
		return ExitInputError
	case errors.Is(err, ErrInternal):
		return ExitInternalError
	default:
		return ExitFailure
	}
}

// IsReported reports whether err only signals an outcome that the command
// already printed.
func IsReported(err error) bool {
	return errors.Is(err, ErrQueryFailed) || errors.Is(err, ErrChecksFailed)
}
