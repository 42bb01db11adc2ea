package leagueservice

import "errors"

var (
	ErrLeagueNotFound     = errors.New("league not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrInvalidLeague      = errors.New("invalid league")
	ErrAlreadyMember      = errors.New("already a member of this league")
)
