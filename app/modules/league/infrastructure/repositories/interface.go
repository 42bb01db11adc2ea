package leaguedb

import (
	"context"

	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists leagues and memberships.
//
// Error semantics:
//   - ErrNotFound: league does not exist
//   - ErrConflict: membership already exists
type Repository interface {
	CreateLeague(ctx context.Context, db bun.IDB, league *League) error
	GetLeague(ctx context.Context, db bun.IDB, id uuid.UUID) (*League, error)
	// ListLeagues returns leagues newest first, optionally only those on tournaments of gender.
	ListLeagues(ctx context.Context, db bun.IDB, gender *tournamentdomain.Gender) ([]League, error)
	ListUserLeagues(ctx context.Context, db bun.IDB, userID string) ([]League, error)

	AddMember(ctx context.Context, db bun.IDB, membership *Membership) error
	IsMember(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) (bool, error)
	// ListMembershipsByTournament returns every membership of every league on the tournament.
	ListMembershipsByTournament(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]Membership, error)
}
