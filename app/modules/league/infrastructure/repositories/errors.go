package leaguedb

import "errors"

var (
	ErrNotFound = errors.New("league: not found")
	ErrConflict = errors.New("league: already exists")
)
