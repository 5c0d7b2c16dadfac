package main

import "fmt"

// Exit codes for the tablepub CLI.
const (
	ExitOK           = 0 // Command succeeded.
	ExitInvalidArgs  = 1 // Invalid arguments, bad input file, or bad config.
	ExitAuthFailure  = 2 // Credentials missing, malformed, or rejected.
	ExitPublishError = 3 // GitHub API failure during the publish workflow.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the process exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError with a formatted message.
func exitError(code int, format string, args ...any) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}
