package scoringservice

import (
	"context"
	"errors"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	scoringdb "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type (
	standingsResult = results.OperationResult[[]scoringdb.Standing, error]
	chartResult     = results.OperationResult[[]byte, error]
)

// GetStandings returns a league's standings by rank. It never writes.
func (s *ScoringService) GetStandings(ctx context.Context, leagueID uuid.UUID) ([]scoringdb.Standing, error) {
	return unwrap(withTelemetry(s, ctx, "GetStandings", leagueID.String(), func(ctx context.Context) (standingsResult, error) {
		return s.loadStandings(ctx, leagueID)
	}))
}

// RenderStandingsChart draws correct picks per member in rank order as a PNG.
func (s *ScoringService) RenderStandingsChart(ctx context.Context, leagueID uuid.UUID) ([]byte, error) {
	return unwrap(withTelemetry(s, ctx, "RenderStandingsChart", leagueID.String(), func(ctx context.Context) (chartResult, error) {
		loaded, err := s.loadStandings(ctx, leagueID)
		if err != nil {
			return chartResult{}, err
		}
		if loaded.IsFailure() {
			return results.FailureResult[[]byte, error](*loaded.Failure), nil
		}
		png, err := GenerateStandingsChart(*loaded.Success, defaultPalette)
		if err != nil {
			return chartResult{}, err
		}
		return results.SuccessResult[[]byte, error](png), nil
	}))
}

func (s *ScoringService) loadStandings(ctx context.Context, leagueID uuid.UUID) (standingsResult, error) {
	if _, err := s.leagues.GetLeague(ctx, nil, leagueID); err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			return results.FailureResult[[]scoringdb.Standing, error](ErrLeagueNotFound), nil
		}
		return standingsResult{}, err
	}
	standings, err := s.standings.GetStandingsByLeague(ctx, s.reader(), leagueID)
	if err != nil {
		return standingsResult{}, err
	}
	return results.SuccessResult[[]scoringdb.Standing, error](standings), nil
}

// reader returns the pool for reads outside a transaction.
func (s *ScoringService) reader() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}
