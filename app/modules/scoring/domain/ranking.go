package scoringdomain

import (
	"cmp"
	"slices"
	"time"
)

// StandingEntry is a member's tally waiting for a rank.
type StandingEntry struct {
	UserID string
	Tally
	Rank int
}

// RankStandings orders one league's entries and assigns ranks 1..N.
//
// Order: fewest strikes, then most correct picks, then the earliest final round
// submission (members without one go after members with one), then user id.
// Eliminated members are ranked by the same rules.
func RankStandings(entries []StandingEntry) []StandingEntry {
	if len(entries) == 0 {
		return nil
	}

	ranked := make([]StandingEntry, len(entries))
	copy(ranked, entries)

	slices.SortFunc(ranked, compareEntries)
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func compareEntries(a, b StandingEntry) int {
	if c := cmp.Compare(a.Strikes, b.Strikes); c != 0 {
		return c
	}
	if c := cmp.Compare(b.CorrectPicks, a.CorrectPicks); c != 0 {
		return c
	}
	if c := compareSubmission(a.FinalRoundSubmission, b.FinalRoundSubmission); c != 0 {
		return c
	}
	return cmp.Compare(a.UserID, b.UserID)
}

func compareSubmission(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
