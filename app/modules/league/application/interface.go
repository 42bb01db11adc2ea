package leagueservice

import (
	"context"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service manages leagues and their memberships.
type Service interface {
	CreateLeague(ctx context.Context, req CreateLeagueRequest) (*leaguedb.League, error)
	JoinLeague(ctx context.Context, userID string, leagueID uuid.UUID) (*leaguedb.League, error)
	GetLeague(ctx context.Context, leagueID uuid.UUID) (*leaguedb.League, error)
	ListLeagues(ctx context.Context, gender *tournamentdomain.Gender) ([]leaguedb.League, error)
	ListUserLeagues(ctx context.Context, userID string) ([]leaguedb.League, error)
}

// CreateLeagueRequest describes a new league. The creator joins it automatically.
type CreateLeagueRequest struct {
	Name         string
	Description  *string
	TournamentID uuid.UUID
	CreatorID    string
}

// TournamentLookup is the slice of the tournament store leagues depend on.
type TournamentLookup interface {
	GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Tournament, error)
}

// StandingsInitializer creates the zeroed standing of a new member.
type StandingsInitializer interface {
	InitStanding(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) error
}
