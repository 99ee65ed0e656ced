package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceFormat indicates the upstream page did not contain the
	// expected embedded dataset.
	ErrSourceFormat = errors.New("prohibited list not found in source data")

	// ErrNoChanges indicates a run completed without any new changes.
	// The check command maps it to a non-zero exit code so workflow
	// callers can gate follow-up steps on it.
	ErrNoChanges = errors.New("no changes detected")
)
