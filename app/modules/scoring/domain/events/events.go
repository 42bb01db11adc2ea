package scoringevents

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	SurvivorStreamName     = "survivor"
	SurvivorStreamSubjects = "survivor.>"
)

// Scoring topics
const (
	MatchResultRecordedV1 = "survivor.match.result.recorded.v1"
	StandingsUpdatedV1    = "survivor.standings.updated.v1"
	RecomputeRequestedV1  = "survivor.scoring.recompute.requested.v1"
)

// MatchResultRecordedPayloadV1 is published after a result is stored and standings are recomputed.
type MatchResultRecordedPayloadV1 struct {
	MatchID         uuid.UUID  `json:"match_id"`
	TournamentID    uuid.UUID  `json:"tournament_id"`
	RoundNumber     int        `json:"round_number"`
	WinnerID        uuid.UUID  `json:"winner_id"`
	IsWalkover      bool       `json:"is_walkover"`
	RetiredPlayerID *uuid.UUID `json:"retired_player_id,omitempty"`
	Corrected       bool       `json:"corrected"`
}

// StandingsUpdatedPayloadV1 is published once per league after a recompute commits.
type StandingsUpdatedPayloadV1 struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	LeagueID     uuid.UUID `json:"league_id"`
	Members      int       `json:"members"`
	Eliminated   int       `json:"eliminated"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecomputeRequestedPayloadV1 asks the scoring engine to rebuild a tournament's standings.
type RecomputeRequestedPayloadV1 struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	Reason       string    `json:"reason,omitempty"`
}
