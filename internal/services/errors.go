package services

import "errors"

// Service-level error taxonomy. Handlers map these to HTTP statuses;
// anything else is an internal error and its detail stays in the logs.
var (
	// ErrValidation covers bad caller input: missing file, oversized file,
	// unsupported type, empty query. Checked before any state mutation.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound - the target document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrForbidden - the caller does not own the target document.
	ErrForbidden = errors.New("document is not owned by the caller")

	// ErrConflict - the document is mid-processing, or a transition outside
	// the lifecycle table was requested.
	ErrConflict = errors.New("document is busy")

	// ErrProcessingFailed is the only error a caller sees from a failed
	// pipeline run; the underlying cause is logged, never returned.
	ErrProcessingFailed = errors.New("document processing failed")
)
