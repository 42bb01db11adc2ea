package leaguedb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// League is a private pool layered on one tournament.
type League struct {
	bun.BaseModel `bun:"table:leagues,alias:l"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	TournamentID uuid.UUID `bun:"tournament_id,notnull,type:uuid"`
	CreatorID    string    `bun:"creator_id,notnull"`
	Name         string    `bun:"name,notnull"`
	Description  *string   `bun:"description"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`

	// MemberCount is filled by list queries.
	MemberCount int `bun:"member_count,scanonly"`
}

// Membership links a user to a league. Unique per (user, league).
type Membership struct {
	bun.BaseModel `bun:"table:league_memberships,alias:lm"`

	UserID   string    `bun:"user_id,pk"`
	LeagueID uuid.UUID `bun:"league_id,pk,type:uuid"`
	JoinedAt time.Time `bun:"joined_at,notnull,default:current_timestamp"`

	TournamentID uuid.UUID `bun:"tournament_id,scanonly"`
}
