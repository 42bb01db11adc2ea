package scoringdomain

import (
	"time"

	"github.com/google/uuid"
)

// PickEntry is one stored pick.
type PickEntry struct {
	UserID      string
	LeagueID    uuid.UUID
	RoundID     uuid.UUID
	RoundNumber int
	PlayerID    uuid.UUID
	SubmittedAt time.Time
}

type matchKey struct {
	roundID  uuid.UUID
	playerID uuid.UUID
}

// MatchIndex finds the resolved match of a player within a round.
type MatchIndex map[matchKey]MatchResult

// IndexMatches indexes resolved matches by round and by each of their players.
func IndexMatches(matches []MatchResult) MatchIndex {
	idx := make(MatchIndex, len(matches)*2)
	for _, m := range matches {
		idx[matchKey{m.RoundID, m.Player1ID}] = m
		idx[matchKey{m.RoundID, m.Player2ID}] = m
	}
	return idx
}

// Lookup returns the match playerID played in roundID, if it has been resolved.
func (idx MatchIndex) Lookup(roundID, playerID uuid.UUID) (MatchResult, bool) {
	m, ok := idx[matchKey{roundID, playerID}]
	return m, ok
}

// Tally is the score of one member in one league.
type Tally struct {
	Strikes              int
	CorrectPicks         int
	Pending              int
	Eliminated           bool
	FinalRoundSubmission *time.Time
}

// TallyMember scores a member's picks against the resolved matches.
// Picks without a resolved match in their round are pending and count for nothing.
// FinalRoundSubmission is the earliest submission among picks in finalRound.
func TallyMember(picks []PickEntry, matches MatchIndex, finalRound int, threshold int) Tally {
	var t Tally
	for _, p := range picks {
		if finalRound > 0 && p.RoundNumber == finalRound {
			if t.FinalRoundSubmission == nil || p.SubmittedAt.Before(*t.FinalRoundSubmission) {
				at := p.SubmittedAt
				t.FinalRoundSubmission = &at
			}
		}

		m, ok := matches.Lookup(p.RoundID, p.PlayerID)
		if !ok {
			t.Pending++
			continue
		}
		correct, strikes := ClassifyPick(p.PlayerID, m)
		t.CorrectPicks += correct
		t.Strikes += strikes
	}
	t.Eliminated = t.Strikes >= threshold
	return t
}

// FinalRoundNumber returns the highest round number, or 0 when there are no rounds.
func FinalRoundNumber(roundNumbers []int) int {
	final := 0
	for _, n := range roundNumbers {
		final = max(final, n)
	}
	return final
}
