package tournamentdb

import (
	"context"
	"time"

	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for tournament, round, player and match persistence.
//
// Error semantics:
//   - ErrNotFound: Record does not exist
//   - ErrNoRowsAffected: UPDATE matched no rows
//   - ErrConflict: insert hit a unique constraint
//   - Other errors: Infrastructure failures (DB connection, query errors)
type Repository interface {
	// --- Tournaments ---

	CreateTournament(ctx context.Context, db bun.IDB, tournament *Tournament) error
	GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*Tournament, error)
	// FindTournament looks a tournament up by its natural identity.
	FindTournament(ctx context.Context, db bun.IDB, name string, year int, gender tournamentdomain.Gender) (*Tournament, error)
	// ListTournaments returns tournaments newest year first. A nil status lists all.
	ListTournaments(ctx context.Context, db bun.IDB, status *tournamentdomain.Status) ([]Tournament, error)
	UpdateTournamentStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status tournamentdomain.Status) error

	// --- Rounds ---

	CreateRounds(ctx context.Context, db bun.IDB, rounds []Round) error
	GetRound(ctx context.Context, db bun.IDB, id uuid.UUID) (*Round, error)
	// ListRounds returns the tournament's rounds ordered by round number.
	ListRounds(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]Round, error)
	UpdateRoundLockTime(ctx context.Context, db bun.IDB, id uuid.UUID, lockTime time.Time) error

	// --- Players ---

	InsertPlayers(ctx context.Context, db bun.IDB, players []Player) error
	// ListPlayers returns players ordered by seed (unseeded last) then name.
	ListPlayers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]Player, error)
	// GetPlayersByIDs returns only those ids that belong to the tournament.
	GetPlayersByIDs(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, ids []uuid.UUID) ([]Player, error)

	// --- Matches ---

	InsertMatch(ctx context.Context, db bun.IDB, match *Match) error
	// GetMatchForUpdate loads a match with its tournament and round number and locks the row.
	GetMatchForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Match, error)
	ListMatchesByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Match, error)
	// ListMatches returns the tournament's matches filtered by resolution, ordered by round number.
	ListMatches(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, resolved bool) ([]Match, error)
	UpdateMatchResult(ctx context.Context, db bun.IDB, match *Match) error
}
