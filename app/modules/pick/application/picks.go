package pickservice

import (
	"context"
	"errors"
	"fmt"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	pickdb "github.com/Black-And-White-Club/survivor-pool/app/modules/pick/infrastructure/repositories"
	scoringdb "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/Black-And-White-Club/survivor-pool/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type (
	picksResult   = results.OperationResult[[]pickdb.Pick, error]
	playersResult = results.OperationResult[[]tournamentdb.Player, error]
)

func pickFailure(err error) picksResult {
	return results.FailureResult[[]pickdb.Pick, error](err)
}

// SubmitPicks validates and stores a user's picks for one round.
// The whole set is accepted or nothing is written.
func (s *PickService) SubmitPicks(ctx context.Context, req SubmitPicksRequest) ([]pickdb.Pick, error) {
	return unwrap(withTelemetry(s, ctx, "SubmitPicks", req.RoundID.String(), func(ctx context.Context) (picksResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (picksResult, error) {
			return s.submitPicksLogic(ctx, db, req)
		})
	}))
}

func (s *PickService) submitPicksLogic(ctx context.Context, db bun.IDB, req SubmitPicksRequest) (picksResult, error) {
	member, err := s.leagues.IsMember(ctx, db, req.UserID, req.LeagueID)
	if err != nil {
		return picksResult{}, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return pickFailure(ErrNotMember), nil
	}

	league, err := s.leagues.GetLeague(ctx, db, req.LeagueID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return pickFailure(ErrNotMember), nil
		}
		return picksResult{}, fmt.Errorf("failed to get league: %w", err)
	}

	round, err := s.draw.GetRound(ctx, db, req.RoundID)
	if err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return pickFailure(ErrRoundNotFound), nil
		}
		return picksResult{}, fmt.Errorf("failed to get round: %w", err)
	}
	if round.TournamentID != league.TournamentID {
		return pickFailure(ErrRoundNotFound), nil
	}

	now := s.clock.Now()
	if round.Locked(now) {
		return pickFailure(ErrRoundLocked), nil
	}

	if len(req.PlayerIDs) != round.RequiredPicks {
		return pickFailure(fmt.Errorf("%w: round requires %d, got %d", ErrWrongPickCount, round.RequiredPicks, len(req.PlayerIDs))), nil
	}
	if id, ok := firstDuplicate(req.PlayerIDs); ok {
		return pickFailure(fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)), nil
	}

	submitted, err := s.repo.HasSubmission(ctx, db, req.UserID, req.LeagueID, req.RoundID)
	if err != nil {
		return picksResult{}, fmt.Errorf("failed to check submission: %w", err)
	}
	if submitted {
		return pickFailure(ErrAlreadySubmitted), nil
	}

	used, err := s.repo.GetUsedPlayers(ctx, db, req.UserID, req.LeagueID)
	if err != nil {
		return picksResult{}, fmt.Errorf("failed to get used players: %w", err)
	}
	usedSet := make(map[uuid.UUID]struct{}, len(used))
	for _, id := range used {
		usedSet[id] = struct{}{}
	}
	for _, id := range req.PlayerIDs {
		if _, ok := usedSet[id]; ok {
			return pickFailure(fmt.Errorf("%w: %s", ErrPlayerAlreadyUsed, id)), nil
		}
	}

	players, err := s.draw.GetPlayersByIDs(ctx, db, league.TournamentID, req.PlayerIDs)
	if err != nil {
		return picksResult{}, fmt.Errorf("failed to get players: %w", err)
	}
	if len(players) != len(req.PlayerIDs) {
		return pickFailure(fmt.Errorf("%w: %s", ErrInvalidPlayer, firstMissing(req.PlayerIDs, players))), nil
	}

	standing, err := s.standings.GetStanding(ctx, db, req.UserID, req.LeagueID)
	switch {
	case errors.Is(err, scoringdb.ErrNotFound):
	case err != nil:
		return picksResult{}, fmt.Errorf("failed to get standing: %w", err)
	case standing.Eliminated:
		return pickFailure(ErrUserEliminated), nil
	}

	if err := s.repo.CreateSubmission(ctx, db, &pickdb.PickSubmission{
		UserID:      req.UserID,
		LeagueID:    req.LeagueID,
		RoundID:     req.RoundID,
		SubmittedAt: now,
	}); err != nil {
		if errors.Is(err, pickdb.ErrConflict) {
			return pickFailure(ErrAlreadySubmitted), nil
		}
		return picksResult{}, fmt.Errorf("failed to create submission: %w", err)
	}

	picks := make([]pickdb.Pick, len(req.PlayerIDs))
	for i, playerID := range req.PlayerIDs {
		picks[i] = pickdb.Pick{
			ID:          uuid.New(),
			UserID:      req.UserID,
			LeagueID:    req.LeagueID,
			RoundID:     req.RoundID,
			PlayerID:    playerID,
			SubmittedAt: now,
			RoundNumber: round.RoundNumber,
		}
	}
	if err := s.repo.InsertPicks(ctx, db, picks); err != nil {
		if errors.Is(err, pickdb.ErrConflict) {
			return pickFailure(ErrPlayerAlreadyUsed), nil
		}
		return picksResult{}, fmt.Errorf("failed to insert picks: %w", err)
	}

	s.logger.InfoContext(ctx, "Picks submitted",
		attr.ExtractCorrelationID(ctx),
		attr.String("user_id", req.UserID),
		attr.UUID("league_id", req.LeagueID),
		attr.Int("round_number", round.RoundNumber),
		attr.Int("picks", len(picks)),
	)

	return results.SuccessResult[[]pickdb.Pick, error](picks), nil
}

func firstDuplicate(ids []uuid.UUID) (uuid.UUID, bool) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return uuid.Nil, false
}

func firstMissing(ids []uuid.UUID, players []tournamentdb.Player) uuid.UUID {
	found := make(map[uuid.UUID]struct{}, len(players))
	for _, p := range players {
		found[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return id
		}
	}
	return uuid.Nil
}

// GetUserPicks returns all of a user's picks in a league ordered by round.
func (s *PickService) GetUserPicks(ctx context.Context, userID string, leagueID uuid.UUID) ([]pickdb.Pick, error) {
	return unwrap(withTelemetry(s, ctx, "GetUserPicks", leagueID.String(), func(ctx context.Context) (picksResult, error) {
		picks, err := s.repo.GetPicksByUser(ctx, nil, userID, leagueID)
		if err != nil {
			return picksResult{}, err
		}
		return results.SuccessResult[[]pickdb.Pick, error](picks), nil
	}))
}

// GetRoundPicks returns a user's picks for one round.
func (s *PickService) GetRoundPicks(ctx context.Context, userID string, leagueID, roundID uuid.UUID) ([]pickdb.Pick, error) {
	return unwrap(withTelemetry(s, ctx, "GetRoundPicks", roundID.String(), func(ctx context.Context) (picksResult, error) {
		picks, err := s.repo.GetPicksByRound(ctx, nil, userID, leagueID, roundID)
		if err != nil {
			return picksResult{}, err
		}
		return results.SuccessResult[[]pickdb.Pick, error](picks), nil
	}))
}

// GetAvailablePlayers lists the tournament's players the user has not picked yet in the league.
func (s *PickService) GetAvailablePlayers(ctx context.Context, userID string, leagueID uuid.UUID) ([]tournamentdb.Player, error) {
	return unwrap(withTelemetry(s, ctx, "GetAvailablePlayers", leagueID.String(), func(ctx context.Context) (playersResult, error) {
		league, err := s.leagues.GetLeague(ctx, nil, leagueID)
		if err != nil {
			if errors.Is(err, leaguedb.ErrNotFound) {
				return results.FailureResult[[]tournamentdb.Player, error](ErrLeagueNotFound), nil
			}
			return playersResult{}, err
		}

		players, err := s.draw.ListPlayers(ctx, nil, league.TournamentID)
		if err != nil {
			return playersResult{}, err
		}
		used, err := s.repo.GetUsedPlayers(ctx, nil, userID, leagueID)
		if err != nil {
			return playersResult{}, err
		}
		usedSet := make(map[uuid.UUID]struct{}, len(used))
		for _, id := range used {
			usedSet[id] = struct{}{}
		}

		available := make([]tournamentdb.Player, 0, len(players))
		for _, p := range players {
			if _, ok := usedSet[p.ID]; !ok {
				available = append(available, p)
			}
		}
		return results.SuccessResult[[]tournamentdb.Player, error](available), nil
	}))
}
