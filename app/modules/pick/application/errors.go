package pickservice

import "errors"

var (
	ErrNotMember         = errors.New("user is not a member of the league")
	ErrLeagueNotFound    = errors.New("league not found")
	ErrRoundNotFound     = errors.New("round not found")
	ErrRoundLocked       = errors.New("round is locked")
	ErrWrongPickCount    = errors.New("wrong number of picks")
	ErrDuplicatePlayer   = errors.New("player picked more than once")
	ErrAlreadySubmitted  = errors.New("picks already submitted for this round")
	ErrPlayerAlreadyUsed = errors.New("player already used in a previous round")
	ErrInvalidPlayer     = errors.New("player is not in this tournament")
	ErrUserEliminated    = errors.New("user has been eliminated")
)
