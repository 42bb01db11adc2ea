package pickdb

import "errors"

var (
	ErrNotFound = errors.New("pick: not found")
	ErrConflict = errors.New("pick: unique constraint conflict")
)
