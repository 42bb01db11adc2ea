package scoringservice

import "errors"

var (
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrLeagueNotFound       = errors.New("league not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrInvalidWinner        = errors.New("winner is not a player in this match")
	ErrInvalidRetiredPlayer = errors.New("retired player is not a player in this match")
	ErrAlreadyResolved      = errors.New("match already has a result")
	ErrMatchNotResolved     = errors.New("match has no result to correct")
)
