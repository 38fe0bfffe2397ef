package database

import "errors"

var (
	// ErrNotFound is returned when a referenced restaurant, table or
	// reservation does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a requested table and time window
	// overlaps an existing active reservation.
	ErrConflict = errors.New("time window is already reserved")

	// ErrTableInUse is returned when a table cannot be deleted because
	// active reservations still reference it.
	ErrTableInUse = errors.New("table has active reservations")

	// ErrConcurrentModification is returned when a version-guarded update
	// lost against a concurrent writer.
	ErrConcurrentModification = errors.New("reservation was modified concurrently")
)
