package pickservice

import (
	"context"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	pickdb "github.com/Black-And-White-Club/survivor-pool/app/modules/pick/infrastructure/repositories"
	scoringdb "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service validates and stores pick submissions.
type Service interface {
	SubmitPicks(ctx context.Context, req SubmitPicksRequest) ([]pickdb.Pick, error)
	GetUserPicks(ctx context.Context, userID string, leagueID uuid.UUID) ([]pickdb.Pick, error)
	GetRoundPicks(ctx context.Context, userID string, leagueID, roundID uuid.UUID) ([]pickdb.Pick, error)
	GetAvailablePlayers(ctx context.Context, userID string, leagueID uuid.UUID) ([]tournamentdb.Player, error)
}

// SubmitPicksRequest is one user's complete set of picks for a round.
type SubmitPicksRequest struct {
	UserID    string
	LeagueID  uuid.UUID
	RoundID   uuid.UUID
	PlayerIDs []uuid.UUID
}

// LeagueLookup is the slice of the league store picks depend on.
type LeagueLookup interface {
	GetLeague(ctx context.Context, db bun.IDB, id uuid.UUID) (*leaguedb.League, error)
	IsMember(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) (bool, error)
}

// DrawLookup is the slice of the tournament store picks depend on.
type DrawLookup interface {
	GetRound(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Round, error)
	ListPlayers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamentdb.Player, error)
	GetPlayersByIDs(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, ids []uuid.UUID) ([]tournamentdb.Player, error)
}

// StandingLookup reads a member's current standing.
type StandingLookup interface {
	GetStanding(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) (*scoringdb.Standing, error)
}
