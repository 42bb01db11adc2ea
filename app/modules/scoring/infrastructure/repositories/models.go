package scoringdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Standing is the derived score of one member in one league.
// Rows are rewritten wholesale by the scoring recompute.
type Standing struct {
	bun.BaseModel `bun:"table:standings,alias:s"`

	UserID               string     `bun:"user_id,pk"`
	LeagueID             uuid.UUID  `bun:"league_id,pk,type:uuid"`
	Strikes              int        `bun:"strikes,notnull,default:0"`
	CorrectPicks         int        `bun:"correct_picks,notnull,default:0"`
	Eliminated           bool       `bun:"eliminated,notnull,default:false"`
	Rank                 *int       `bun:"rank"`
	FinalRoundSubmission *time.Time `bun:"final_round_submission"`
	LastUpdated          time.Time  `bun:"last_updated,notnull,default:current_timestamp"`
}
