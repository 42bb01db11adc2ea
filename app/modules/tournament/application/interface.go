package tournamentservice

import (
	"context"
	"time"

	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	"github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/parsers"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/google/uuid"
)

// Service manages tournaments and their draws.
type Service interface {
	CreateTournament(ctx context.Context, req CreateTournamentRequest) (*TournamentDetail, error)
	GetTournament(ctx context.Context, id uuid.UUID) (*TournamentDetail, error)
	ListTournaments(ctx context.Context, status *tournamentdomain.Status) ([]tournamentdb.Tournament, error)
	UpdateTournamentStatus(ctx context.Context, id uuid.UUID, status tournamentdomain.Status) (*tournamentdb.Tournament, error)
	UpdateRoundLockTime(ctx context.Context, roundID uuid.UUID, input string) (*tournamentdb.Round, error)

	AddPlayers(ctx context.Context, tournamentID uuid.UUID, players []tournamentdomain.PlayerInput) ([]tournamentdb.Player, error)
	AddMatch(ctx context.Context, roundID, player1ID, player2ID uuid.UUID) (*tournamentdb.Match, error)
	GetUpcomingMatches(ctx context.Context, tournamentID uuid.UUID) ([]tournamentdb.Match, error)
	GetCompletedMatches(ctx context.Context, tournamentID uuid.UUID) ([]tournamentdb.Match, error)

	ImportPlayers(ctx context.Context, tournamentID uuid.UUID, fileName string, data []byte) ([]tournamentdb.Player, error)
	ImportMatches(ctx context.Context, tournamentID uuid.UUID, fileName string, data []byte) ([]tournamentdb.Match, error)
}

// CreateTournamentRequest describes a new tournament. Rounds come from the level preset.
type CreateTournamentRequest struct {
	Name   string
	Year   int
	Gender tournamentdomain.Gender
	Level  tournamentdomain.Level
	// StartsAt is the first round's lock time. Defaults to June 1st of Year.
	StartsAt           *time.Time
	StrikesToEliminate *int
}

// TournamentDetail is a tournament with its rounds ordered by number.
type TournamentDetail struct {
	Tournament tournamentdb.Tournament
	Rounds     []tournamentdb.Round
}

// RecomputeEnqueuer schedules an asynchronous standings recompute.
type RecomputeEnqueuer interface {
	EnqueueRecompute(ctx context.Context, tournamentID uuid.UUID, reason string) error
}

// ParserProvider selects an import parser by file name.
type ParserProvider interface {
	GetParser(fileName string) (parsers.Parser, error)
}
