package scoringdomain

import (
	"github.com/google/uuid"
)

// DefaultStrikesToEliminate is the elimination threshold when neither config nor tournament set one.
const DefaultStrikesToEliminate = 2

// Outcome is how a single pick scored.
type Outcome string

const (
	OutcomePending         Outcome = "PENDING"
	OutcomeWon             Outcome = "WON"
	OutcomeWalkover        Outcome = "WALKOVER"
	OutcomeOpponentRetired Outcome = "OPPONENT_RETIRED"
	OutcomeRetired         Outcome = "RETIRED"
	OutcomeLost            Outcome = "LOST"
)

// MatchResult is a resolved match as seen by scoring.
type MatchResult struct {
	RoundID         uuid.UUID
	Player1ID       uuid.UUID
	Player2ID       uuid.UUID
	WinnerID        uuid.UUID
	IsWalkover      bool
	RetiredPlayerID *uuid.UUID
}

// Classify reports how a pick on playerID scored in m.
// The retired player may also be recorded as the winner; the loser then advanced on a retirement.
func Classify(playerID uuid.UUID, m MatchResult) Outcome {
	if playerID == m.WinnerID {
		if m.IsWalkover {
			return OutcomeWalkover
		}
		return OutcomeWon
	}
	if m.RetiredPlayerID != nil {
		if *m.RetiredPlayerID == playerID {
			return OutcomeRetired
		}
		return OutcomeOpponentRetired
	}
	return OutcomeLost
}

// Points converts an outcome into correct picks and strikes.
// A walkover win counts twice.
func (o Outcome) Points() (correct, strikes int) {
	switch o {
	case OutcomeWon, OutcomeOpponentRetired:
		return 1, 0
	case OutcomeWalkover:
		return 2, 0
	case OutcomeRetired, OutcomeLost:
		return 0, 1
	default:
		return 0, 0
	}
}

// ClassifyPick is Classify followed by Points.
func ClassifyPick(playerID uuid.UUID, m MatchResult) (correct, strikes int) {
	return Classify(playerID, m).Points()
}

// ResolveThreshold returns a valid tournament override, else a valid fallback,
// else DefaultStrikesToEliminate.
func ResolveThreshold(override *int, fallback int) int {
	if override != nil && *override >= 1 {
		return *override
	}
	if fallback >= 1 {
		return fallback
	}
	return DefaultStrikesToEliminate
}
