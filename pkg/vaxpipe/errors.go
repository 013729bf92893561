package vaxpipe

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	summary, err := runner.Run(ctx, cfg)
//	if errors.Is(err, vaxpipe.ErrExtractFailed) {
//	    // An input spreadsheet was missing or malformed
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrExtractFailed indicates an input file was missing, unreadable or malformed.
	ErrExtractFailed = errors.New("extract failed")

	// ErrSchemaFailed indicates the target database or its tables could not be created.
	ErrSchemaFailed = errors.New("schema setup failed")

	// ErrLoadFailed indicates at least one table could not be written.
	ErrLoadFailed = errors.New("load failed")
)

// usageErrorPatterns are the prefixes cobra and pflag use for argument errors.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
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
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrExtractFailed):
		return ExitExtractFailed
	case errors.Is(err, ErrSchemaFailed):
		return ExitSchemaFailed
	case errors.Is(err, ErrLoadFailed):
		return ExitLoadFailed
	}

	errStr := err.Error()
	for _, p := range usageErrorPatterns {
		if strings.HasPrefix(errStr, p) {
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
