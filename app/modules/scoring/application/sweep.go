package scoringservice

import (
	"context"
	"fmt"

	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/Black-And-White-Club/survivor-pool/pkg/results"
)

type sweepResult = results.OperationResult[*SweepSummary, error]

// SweepActiveTournaments recomputes each ACTIVE tournament in its own transaction.
// A failing tournament is recorded and the sweep moves on.
func (s *ScoringService) SweepActiveTournaments(ctx context.Context) (*SweepSummary, error) {
	return unwrap(withTelemetry(s, ctx, "SweepActiveTournaments", "active", func(ctx context.Context) (sweepResult, error) {
		active := tournamentdomain.StatusActive
		tournaments, err := s.tournaments.ListTournaments(ctx, nil, &active)
		if err != nil {
			return sweepResult{}, fmt.Errorf("failed to list active tournaments: %w", err)
		}

		summary := &SweepSummary{}
		for _, t := range tournaments {
			if err := ctx.Err(); err != nil {
				return sweepResult{}, err
			}
			if s.sweepLimiter != nil {
				if err := s.sweepLimiter.Wait(ctx); err != nil {
					return sweepResult{}, fmt.Errorf("sweep paused: %w", err)
				}
			}
			if _, err := s.RecomputeScoring(ctx, t.ID); err != nil {
				summary.Failed = append(summary.Failed, t.ID)
				s.logger.ErrorContext(ctx, "Sweep recompute failed",
					attr.ExtractCorrelationID(ctx),
					attr.UUID("tournament_id", t.ID),
					attr.Error(err),
				)
				continue
			}
			summary.Recomputed++
		}

		s.logger.InfoContext(ctx, "Scoring sweep finished",
			attr.ExtractCorrelationID(ctx),
			attr.Int("recomputed", summary.Recomputed),
			attr.Int("failed", len(summary.Failed)),
		)
		return results.SuccessResult[*SweepSummary, error](summary), nil
	}))
}
