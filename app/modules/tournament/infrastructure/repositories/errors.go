package tournamentdb

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoRowsAffected indicates an UPDATE matched zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")

	// ErrConflict indicates an insert collided with a unique constraint.
	ErrConflict = errors.New("unique constraint conflict")
)
