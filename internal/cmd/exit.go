package cmd

import (
	"errors"

	oerrors "github.com/mehrdadmoradabadi/OpsArtisan/internal/errors"
)

// exitCodeFor maps an error to a process exit code via the sentinel it
// wraps.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, oerrors.ErrNotFound):
		return oerrors.ExitNotFound
	case errors.Is(err, oerrors.ErrResolution):
		return oerrors.ExitResolutionError
	case errors.Is(err, oerrors.ErrValidation):
		return oerrors.ExitValidationError
	default:
		return oerrors.ExitGeneralError
	}
}

// exitWith wraps err with its mapped exit code for main to consume.
func exitWith(err error) error {
	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &oerrors.ExitError{Code: exitCodeFor(err), Err: err}
}

// exitPrinted wraps err with code after the command layer has already
// displayed it, so main exits silently.
func exitPrinted(code int, err error) error {
	return &oerrors.ExitError{Code: code, Err: err, Printed: true}
}
