package tournamentservice

import "errors"

var (
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentExists        = errors.New("tournament already exists")
	ErrInvalidTournament       = errors.New("invalid tournament")
	ErrUnknownLevel            = errors.New("unknown tournament level")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrRoundNotFound           = errors.New("round not found")
	ErrRoundLocked             = errors.New("round is locked")
	ErrInvalidLockTime         = errors.New("invalid lock time")
	ErrDuplicatePlayer         = errors.New("player already exists in tournament")
	ErrInvalidMatch            = errors.New("invalid match")
	ErrImportFailed            = errors.New("import failed")
)
