package cmd

import "errors"

// Exit codes for the asserts CLI
const (
	// ExitSuccess indicates all checks passed
	ExitSuccess = 0

	// ExitCheckFailure indicates one or more checks failed or could not be evaluated
	ExitCheckFailure = 1

	// ExitParseError indicates a suite file that could not be parsed or validated
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code for a command error. An empty
// message exits without printing anything.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode maps a command error to the process exit code. Errors raised by
// cobra itself (unknown flags, wrong argument counts) are usage errors.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsageError
}
