package pickdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for pick persistence.
//
// Error semantics:
//   - ErrConflict: a submission for the round or a pick of the same player already exists
//   - Other errors: Infrastructure failures (DB connection, query errors)
type Repository interface {
	CreateSubmission(ctx context.Context, db bun.IDB, submission *PickSubmission) error
	// InsertPicks inserts all picks or reports ErrConflict if any of them already exists.
	InsertPicks(ctx context.Context, db bun.IDB, picks []Pick) error
	HasSubmission(ctx context.Context, db bun.IDB, userID string, leagueID, roundID uuid.UUID) (bool, error)
	// GetUsedPlayers returns every player the user has picked in the league, across all rounds.
	GetUsedPlayers(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) ([]uuid.UUID, error)
	// GetPicksByUser returns picks ordered by round number then submission time.
	GetPicksByUser(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) ([]Pick, error)
	GetPicksByRound(ctx context.Context, db bun.IDB, userID string, leagueID, roundID uuid.UUID) ([]Pick, error)
	// GetPicksByLeagues returns the picks of every member of the given leagues with round numbers.
	GetPicksByLeagues(ctx context.Context, db bun.IDB, leagueIDs []uuid.UUID) ([]Pick, error)
}
