package scoringservice

import (
	"context"
	"errors"
	"fmt"

	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/Black-And-White-Club/survivor-pool/pkg/results"
	"github.com/uptrace/bun"
)

type resultResult = results.OperationResult[*ResultSummary, error]

// RecordResult stores the first result of a match. Standings are current when it returns.
func (s *ScoringService) RecordResult(ctx context.Context, req RecordResultRequest) (*ResultSummary, error) {
	return s.applyResult(ctx, "RecordResult", req, false)
}

// CorrectResult replaces the result of an already resolved match.
func (s *ScoringService) CorrectResult(ctx context.Context, req RecordResultRequest) (*ResultSummary, error) {
	return s.applyResult(ctx, "CorrectResult", req, true)
}

func (s *ScoringService) applyResult(ctx context.Context, operation string, req RecordResultRequest, correction bool) (*ResultSummary, error) {
	summary, err := unwrap(withTelemetry(s, ctx, operation, req.MatchID.String(), func(ctx context.Context) (resultResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (resultResult, error) {
			return s.applyResultLogic(ctx, db, req, correction)
		})
	}))
	if err != nil {
		return nil, err
	}
	s.publishResultRecorded(ctx, summary)
	s.publishStandingsUpdated(ctx, summary.Recompute)
	return summary, nil
}

func (s *ScoringService) applyResultLogic(ctx context.Context, db bun.IDB, req RecordResultRequest, correction bool) (resultResult, error) {
	match, err := s.tournaments.GetMatchForUpdate(ctx, db, req.MatchID)
	if err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return results.FailureResult[*ResultSummary, error](ErrMatchNotFound), nil
		}
		return resultResult{}, fmt.Errorf("failed to get match: %w", err)
	}

	if !match.HasPlayer(req.WinnerID) {
		return results.FailureResult[*ResultSummary, error](ErrInvalidWinner), nil
	}
	if req.RetiredPlayerID != nil && !match.HasPlayer(*req.RetiredPlayerID) {
		return results.FailureResult[*ResultSummary, error](ErrInvalidRetiredPlayer), nil
	}
	if !correction && match.Resolved() {
		return results.FailureResult[*ResultSummary, error](ErrAlreadyResolved), nil
	}
	if correction && !match.Resolved() {
		return results.FailureResult[*ResultSummary, error](ErrMatchNotResolved), nil
	}

	winner := req.WinnerID
	enteredAt := s.clock.Now()
	match.WinnerID = &winner
	match.IsWalkover = req.IsWalkover
	match.RetiredPlayerID = nil
	if req.RetiredPlayerID != nil {
		retired := *req.RetiredPlayerID
		match.RetiredPlayerID = &retired
	}
	match.ResultEnteredAt = &enteredAt

	if err := s.tournaments.UpdateMatchResult(ctx, db, match); err != nil {
		return resultResult{}, fmt.Errorf("failed to store result: %w", err)
	}

	s.logger.InfoContext(ctx, "Match result stored",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("match_id", match.ID),
		attr.UUID("tournament_id", match.TournamentID),
		attr.UUID("winner_id", winner),
		attr.Bool("walkover", req.IsWalkover),
		attr.Bool("corrected", correction),
	)

	recompute, err := s.recomputeLogic(ctx, db, match.TournamentID)
	if err != nil {
		return resultResult{}, err
	}
	if recompute.IsFailure() {
		return results.FailureResult[*ResultSummary, error](*recompute.Failure), nil
	}

	return results.SuccessResult[*ResultSummary, error](&ResultSummary{
		Match:     match,
		Recompute: *recompute.Success,
		Corrected: correction,
	}), nil
}
