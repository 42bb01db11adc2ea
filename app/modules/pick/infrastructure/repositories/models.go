package pickdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PickSubmission marks that a user has submitted their picks for a round.
// The primary key makes a second submission for the same round impossible.
type PickSubmission struct {
	bun.BaseModel `bun:"table:pick_submissions,alias:ps"`

	UserID      string    `bun:"user_id,pk"`
	LeagueID    uuid.UUID `bun:"league_id,pk,type:uuid"`
	RoundID     uuid.UUID `bun:"round_id,pk,type:uuid"`
	SubmittedAt time.Time `bun:"submitted_at,notnull"`
}

// Pick is one selected player. A player can be picked at most once per user and league.
type Pick struct {
	bun.BaseModel `bun:"table:picks,alias:pc"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	UserID      string    `bun:"user_id,notnull,unique:picks_user_league_player"`
	LeagueID    uuid.UUID `bun:"league_id,notnull,type:uuid,unique:picks_user_league_player"`
	RoundID     uuid.UUID `bun:"round_id,notnull,type:uuid"`
	PlayerID    uuid.UUID `bun:"player_id,notnull,type:uuid,unique:picks_user_league_player"`
	SubmittedAt time.Time `bun:"submitted_at,notnull"`

	// Populated by queries that join rounds.
	RoundNumber int `bun:"round_number,scanonly"`
}
