package scoringservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	scoringdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/domain"
	scoringdb "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/Black-And-White-Club/survivor-pool/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type recomputeResult = results.OperationResult[*RecomputeSummary, error]

// RecomputeScoring rebuilds the tournament's standings in one transaction.
func (s *ScoringService) RecomputeScoring(ctx context.Context, tournamentID uuid.UUID) (*RecomputeSummary, error) {
	summary, err := unwrap(withTelemetry(s, ctx, "RecomputeScoring", tournamentID.String(), func(ctx context.Context) (recomputeResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (recomputeResult, error) {
			return s.recomputeLogic(ctx, db, tournamentID)
		})
	}))
	if err != nil {
		return nil, err
	}
	s.publishStandingsUpdated(ctx, summary)
	return summary, nil
}

// recomputeLogic must run inside a transaction. It takes the tournament advisory lock first,
// so concurrent recomputes of one tournament apply one after the other.
func (s *ScoringService) recomputeLogic(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (recomputeResult, error) {
	if err := s.standings.AcquireTournamentLock(ctx, db, tournamentID); err != nil {
		return recomputeResult{}, err
	}

	tournament, err := s.tournaments.GetTournament(ctx, db, tournamentID)
	if err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return results.FailureResult[*RecomputeSummary, error](ErrTournamentNotFound), nil
		}
		return recomputeResult{}, fmt.Errorf("failed to get tournament: %w", err)
	}

	rounds, err := s.tournaments.ListRounds(ctx, db, tournamentID)
	if err != nil {
		return recomputeResult{}, fmt.Errorf("failed to list rounds: %w", err)
	}
	roundNumbers := make([]int, len(rounds))
	for i, r := range rounds {
		roundNumbers[i] = r.RoundNumber
	}

	matches, err := s.tournaments.ListMatches(ctx, db, tournamentID, true)
	if err != nil {
		return recomputeResult{}, fmt.Errorf("failed to list resolved matches: %w", err)
	}

	memberships, err := s.leagues.ListMembershipsByTournament(ctx, db, tournamentID)
	if err != nil {
		return recomputeResult{}, fmt.Errorf("failed to list memberships: %w", err)
	}
	members := groupMembers(memberships)
	leagueIDs := make([]uuid.UUID, 0, len(members))
	for id := range members {
		leagueIDs = append(leagueIDs, id)
	}
	slices.SortFunc(leagueIDs, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })

	picks, err := s.picks.GetPicksByLeagues(ctx, db, leagueIDs)
	if err != nil {
		return recomputeResult{}, fmt.Errorf("failed to list picks: %w", err)
	}
	picksByMember := make(map[memberKey][]scoringdomain.PickEntry)
	for _, p := range picks {
		key := memberKey{leagueID: p.LeagueID, userID: p.UserID}
		picksByMember[key] = append(picksByMember[key], scoringdomain.PickEntry{
			UserID:      p.UserID,
			LeagueID:    p.LeagueID,
			RoundID:     p.RoundID,
			RoundNumber: p.RoundNumber,
			PlayerID:    p.PlayerID,
			SubmittedAt: p.SubmittedAt,
		})
	}

	now := s.clock.Now()
	summary := &RecomputeSummary{
		TournamentID:     tournamentID,
		Threshold:        scoringdomain.ResolveThreshold(tournament.StrikesToEliminate, s.strikesToEliminate),
		FinalRoundNumber: scoringdomain.FinalRoundNumber(roundNumbers),
		ResolvedMatches:  len(matches),
		ComputedAt:       now,
	}
	index := scoringdomain.IndexMatches(toMatchResults(matches))

	var rows []scoringdb.Standing
	for _, leagueID := range leagueIDs {
		entries := make([]scoringdomain.StandingEntry, 0, len(members[leagueID]))
		for _, userID := range members[leagueID] {
			tally := scoringdomain.TallyMember(
				picksByMember[memberKey{leagueID: leagueID, userID: userID}],
				index,
				summary.FinalRoundNumber,
				summary.Threshold,
			)
			entries = append(entries, scoringdomain.StandingEntry{UserID: userID, Tally: tally})
		}

		league := LeagueSummary{LeagueID: leagueID}
		for _, e := range scoringdomain.RankStandings(entries) {
			rows = append(rows, toStanding(leagueID, e, now))
			league.Members++
			if e.Eliminated {
				league.Eliminated++
			}
		}
		summary.Leagues = append(summary.Leagues, league)
	}

	if err := s.standings.BulkUpsertStandings(ctx, db, rows); err != nil {
		return recomputeResult{}, fmt.Errorf("failed to write standings: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordStandingsWritten(ctx, len(rows))
	}

	s.logger.InfoContext(ctx, "Standings recomputed",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("tournament_id", tournamentID),
		attr.Int("leagues", len(summary.Leagues)),
		attr.Int("standings", len(rows)),
		attr.Int("resolved_matches", len(matches)),
		attr.Int("threshold", summary.Threshold),
	)

	return results.SuccessResult[*RecomputeSummary, error](summary), nil
}

type memberKey struct {
	leagueID uuid.UUID
	userID   string
}

// groupMembers returns each league's user ids in membership order.
func groupMembers(memberships []leaguedb.Membership) map[uuid.UUID][]string {
	out := make(map[uuid.UUID][]string)
	for _, m := range memberships {
		out[m.LeagueID] = append(out[m.LeagueID], m.UserID)
	}
	return out
}

func toMatchResults(matches []tournamentdb.Match) []scoringdomain.MatchResult {
	out := make([]scoringdomain.MatchResult, 0, len(matches))
	for _, m := range matches {
		if m.WinnerID == nil {
			continue
		}
		out = append(out, scoringdomain.MatchResult{
			RoundID:         m.RoundID,
			Player1ID:       m.Player1ID,
			Player2ID:       m.Player2ID,
			WinnerID:        *m.WinnerID,
			IsWalkover:      m.IsWalkover,
			RetiredPlayerID: m.RetiredPlayerID,
		})
	}
	return out
}

func toStanding(leagueID uuid.UUID, e scoringdomain.StandingEntry, now time.Time) scoringdb.Standing {
	rank := e.Rank
	return scoringdb.Standing{
		UserID:               e.UserID,
		LeagueID:             leagueID,
		Strikes:              e.Strikes,
		CorrectPicks:         e.CorrectPicks,
		Eliminated:           e.Eliminated,
		Rank:                 &rank,
		FinalRoundSubmission: e.FinalRoundSubmission,
		LastUpdated:          now,
	}
}
