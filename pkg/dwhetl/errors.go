package dwhetl

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := pipeline.Run(ctx, config)
//	if errors.Is(err, dwhetl.ErrExecutionFailed) {
//	    // A statement failed; later statements were not executed
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConfigNotFound indicates the dwh.cfg file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrQueriesNotFound indicates the statement manifest does not exist.
	ErrQueriesNotFound = errors.New("statement manifest not found")

	// ErrConnectionFailed indicates the cluster connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrExecutionFailed indicates SQL execution or commit failed.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrRenderFailed indicates a result set could not be rendered.
	ErrRenderFailed = errors.New("render failed")
)

// usageErrorPatterns are message prefixes produced by cobra/pflag for
// command line misuse.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrConfigNotFound):
		return ExitConfigError
	case errors.Is(err, ErrQueriesNotFound):
		return ExitQueriesMissing
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	case errors.Is(err, ErrRenderFailed):
		return ExitRenderFailed
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.HasPrefix(errStr, pattern) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
