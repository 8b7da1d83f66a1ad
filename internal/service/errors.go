package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrStageNotFound is returned when a stage name is not in the configured pipeline
	ErrStageNotFound = errors.New("pipeline stage not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrStageInUse is returned when deleting a stage that deals still reference
	ErrStageInUse = errors.New("pipeline stage still referenced by deals")
)
