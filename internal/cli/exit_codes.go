package cli

import "fmt"

// Exit codes for the relog CLI. These codes support programmatic
// composition and CI integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitValidationFailed indicates document validation failed
	ExitValidationFailed = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingPrerequisite indicates a required prerequisite is
	// missing (e.g. no git repository for verify-tags)
	ExitMissingPrerequisite = 4

	// ExitTimeout indicates command execution timed out
	ExitTimeout = 5
)

// ExitError carries a specific process exit code through cobra's error
// return path. The root Execute unwraps it; no message is printed
// because the command already reported the failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}
