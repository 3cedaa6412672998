package domain

import "errors"

var (
	// ErrNotFound is returned when an entity does not exist or is soft-deleted.
	ErrNotFound = errors.New("resource not found")

	// ErrUnavailable is returned when the store could not be reached after retrying.
	ErrUnavailable = errors.New("store unavailable")

	// ErrConflict is returned when a unique value is already taken.
	ErrConflict = errors.New("resource already exists")
)
