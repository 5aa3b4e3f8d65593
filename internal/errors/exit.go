package errors

// Exit codes returned by the opsartisan process.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates descriptor validation failed.
	ExitValidationError = 2

	// ExitResolutionError indicates dependency resolution failed
	// (cycle or missing dependency).
	ExitResolutionError = 3

	// ExitNotFound indicates a template or bundle was not found.
	ExitNotFound = 4

	// ExitGenerationFailed indicates generation completed with failures
	// recorded in the report.
	ExitGenerationFailed = 5
)

// ExitError carries a process exit code alongside the underlying error.
// The command layer sets Printed when it has already displayed the error,
// so main does not print it twice.
type ExitError struct {
	// Code is the process exit code.
	Code int

	// Err is the underlying error.
	Err error

	// Printed indicates the error has already been displayed.
	Printed bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit error"
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}
