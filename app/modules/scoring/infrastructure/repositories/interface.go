package scoringdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StandingsRepository persists league standings.
type StandingsRepository interface {
	// AcquireTournamentLock serializes recomputes of one tournament for the rest of the transaction.
	AcquireTournamentLock(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) error
	// InitStanding creates a zeroed row for a new member. Existing rows are left untouched.
	InitStanding(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) error
	BulkUpsertStandings(ctx context.Context, db bun.IDB, standings []Standing) error
	// GetStandingsByLeague returns rows ordered by rank (unranked last) then user id.
	GetStandingsByLeague(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]Standing, error)
	GetStanding(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) (*Standing, error)
}
