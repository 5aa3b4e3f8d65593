package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates a descriptor schema validation failure.
	ErrValidation = errors.New("validation error")

	// ErrResolution indicates a dependency resolution failure
	// (cycle or missing dependency).
	ErrResolution = errors.New("resolution error")

	// ErrRender indicates a template rendering failure.
	ErrRender = errors.New("render error")

	// ErrNotFound indicates a template, bundle, or file was not found.
	ErrNotFound = errors.New("not found")
)
