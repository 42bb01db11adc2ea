package tournamentdb

import (
	"time"

	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tournament is a bracket the pool is layered on.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID     uuid.UUID               `bun:"id,pk,type:uuid"`
	Name   string                  `bun:"name,notnull,unique:tournaments_identity"`
	Year   int                     `bun:"year,notnull,unique:tournaments_identity"`
	Gender tournamentdomain.Gender `bun:"gender,notnull,unique:tournaments_identity"`
	Level  tournamentdomain.Level  `bun:"level,notnull"`
	Status tournamentdomain.Status `bun:"status,notnull,default:'UPCOMING'"`
	// StrikesToEliminate overrides the configured elimination threshold when set.
	StrikesToEliminate *int      `bun:"strikes_to_eliminate"`
	CreatedAt          time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt          time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Round is one stage of a tournament with its own pick requirement and lock.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	TournamentID  uuid.UUID `bun:"tournament_id,notnull,type:uuid,unique:rounds_tournament_number"`
	RoundNumber   int       `bun:"round_number,notnull,unique:rounds_tournament_number"`
	Name          string    `bun:"name,notnull"`
	RequiredPicks int       `bun:"required_picks,notnull"`
	LockTime      time.Time `bun:"lock_time,notnull"`
}

// Locked reports whether picks for the round are closed at now.
func (r *Round) Locked(now time.Time) bool {
	return !now.Before(r.LockTime)
}

// Player is a bracket entrant. Immutable once created.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	TournamentID uuid.UUID `bun:"tournament_id,notnull,type:uuid,unique:players_tournament_name"`
	Name         string    `bun:"name,notnull,unique:players_tournament_name"`
	Seed         *int      `bun:"seed"`
	Country      *string   `bun:"country"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Match pairs two players in a round. WinnerID is set exactly once by result intake.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid"`
	RoundID         uuid.UUID  `bun:"round_id,notnull,type:uuid"`
	Player1ID       uuid.UUID  `bun:"player1_id,notnull,type:uuid"`
	Player2ID       uuid.UUID  `bun:"player2_id,notnull,type:uuid"`
	WinnerID        *uuid.UUID `bun:"winner_id,type:uuid"`
	IsWalkover      bool       `bun:"is_walkover,notnull,default:false"`
	RetiredPlayerID *uuid.UUID `bun:"retired_player_id,type:uuid"`
	ResultEnteredAt *time.Time `bun:"result_entered_at"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp"`

	// Populated by tournament-scoped queries that join rounds.
	TournamentID uuid.UUID `bun:"tournament_id,scanonly"`
	RoundNumber  int       `bun:"round_number,scanonly"`
}

// Resolved reports whether a result has been entered.
func (m *Match) Resolved() bool {
	return m.WinnerID != nil
}

// HasPlayer reports whether id is one of the two players.
func (m *Match) HasPlayer(id uuid.UUID) bool {
	return m.Player1ID == id || m.Player2ID == id
}

// Opponent returns the other player of the match.
func (m *Match) Opponent(id uuid.UUID) uuid.UUID {
	if m.Player1ID == id {
		return m.Player2ID
	}
	return m.Player1ID
}
