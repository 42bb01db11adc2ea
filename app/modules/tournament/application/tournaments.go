package tournamentservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/Black-And-White-Club/survivor-pool/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	minNameLength = 3
	minYear       = 2024
	maxYear       = 2100
)

type detailResult = results.OperationResult[*TournamentDetail, error]

// CreateTournament creates a tournament and seeds its rounds from the level preset.
func (s *TournamentService) CreateTournament(ctx context.Context, req CreateTournamentRequest) (*TournamentDetail, error) {
	return unwrap(withTelemetry(s, ctx, "CreateTournament", req.Name, func(ctx context.Context) (detailResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (detailResult, error) {
			return s.createTournamentLogic(ctx, db, req)
		})
	}))
}

func (s *TournamentService) createTournamentLogic(ctx context.Context, db bun.IDB, req CreateTournamentRequest) (detailResult, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateTournament(name, req); err != nil {
		return results.FailureResult[*TournamentDetail, error](err), nil
	}

	presets, ok := s.presets.Rounds(req.Level)
	if !ok {
		return results.FailureResult[*TournamentDetail, error](fmt.Errorf("%w: %s", ErrUnknownLevel, req.Level)), nil
	}

	_, err := s.repo.FindTournament(ctx, db, name, req.Year, req.Gender)
	switch {
	case err == nil:
		return results.FailureResult[*TournamentDetail, error](ErrTournamentExists), nil
	case !errors.Is(err, tournamentdb.ErrNotFound):
		return detailResult{}, fmt.Errorf("failed to check existing tournament: %w", err)
	}

	now := s.clock.Now()
	tournament := tournamentdb.Tournament{
		ID:                 uuid.New(),
		Name:               name,
		Year:               req.Year,
		Gender:             req.Gender,
		Level:              req.Level,
		Status:             tournamentdomain.StatusUpcoming,
		StrikesToEliminate: req.StrikesToEliminate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.CreateTournament(ctx, db, &tournament); err != nil {
		if errors.Is(err, tournamentdb.ErrConflict) {
			return results.FailureResult[*TournamentDetail, error](ErrTournamentExists), nil
		}
		return detailResult{}, fmt.Errorf("failed to create tournament: %w", err)
	}

	base := tournamentdomain.DefaultStart(req.Year)
	if req.StartsAt != nil {
		base = req.StartsAt.UTC()
	}
	rounds := make([]tournamentdb.Round, 0, len(presets))
	for _, rc := range presets {
		rounds = append(rounds, tournamentdb.Round{
			ID:            uuid.New(),
			TournamentID:  tournament.ID,
			RoundNumber:   rc.RoundNumber,
			Name:          rc.Name,
			RequiredPicks: rc.RequiredPicks,
			LockTime:      tournamentdomain.DefaultLockTime(base, rc.RoundNumber),
		})
	}
	if err := s.repo.CreateRounds(ctx, db, rounds); err != nil {
		return detailResult{}, fmt.Errorf("failed to create rounds: %w", err)
	}

	return results.SuccessResult[*TournamentDetail, error](&TournamentDetail{
		Tournament: tournament,
		Rounds:     rounds,
	}), nil
}

func validateTournament(name string, req CreateTournamentRequest) error {
	if len(name) < minNameLength {
		return fmt.Errorf("%w: name must be at least %d characters", ErrInvalidTournament, minNameLength)
	}
	if req.Year < minYear || req.Year > maxYear {
		return fmt.Errorf("%w: year %d outside %d..%d", ErrInvalidTournament, req.Year, minYear, maxYear)
	}
	if !req.Gender.Valid() {
		return fmt.Errorf("%w: gender %q", ErrInvalidTournament, req.Gender)
	}
	if req.StrikesToEliminate != nil && *req.StrikesToEliminate < 1 {
		return fmt.Errorf("%w: strikes to eliminate must be at least 1", ErrInvalidTournament)
	}
	return nil
}

// GetTournament returns a tournament with its rounds.
func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*TournamentDetail, error) {
	return unwrap(withTelemetry(s, ctx, "GetTournament", id.String(), func(ctx context.Context) (detailResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (detailResult, error) {
			t, err := s.repo.GetTournament(ctx, db, id)
			if err != nil {
				if errors.Is(err, tournamentdb.ErrNotFound) {
					return results.FailureResult[*TournamentDetail, error](ErrTournamentNotFound), nil
				}
				return detailResult{}, fmt.Errorf("failed to get tournament: %w", err)
			}
			rounds, err := s.repo.ListRounds(ctx, db, id)
			if err != nil {
				return detailResult{}, fmt.Errorf("failed to list rounds: %w", err)
			}
			return results.SuccessResult[*TournamentDetail, error](&TournamentDetail{Tournament: *t, Rounds: rounds}), nil
		})
	}))
}

// ListTournaments lists tournaments, optionally filtered by status.
func (s *TournamentService) ListTournaments(ctx context.Context, status *tournamentdomain.Status) ([]tournamentdb.Tournament, error) {
	identifier := "all"
	if status != nil {
		identifier = string(*status)
	}
	return unwrap(withTelemetry(s, ctx, "ListTournaments", identifier, func(ctx context.Context) (results.OperationResult[[]tournamentdb.Tournament, error], error) {
		if status != nil && !status.Valid() {
			return results.FailureResult[[]tournamentdb.Tournament, error](fmt.Errorf("%w: unknown status %q", ErrInvalidTournament, *status)), nil
		}
		tournaments, err := s.repo.ListTournaments(ctx, nil, status)
		if err != nil {
			return results.OperationResult[[]tournamentdb.Tournament, error]{}, err
		}
		return results.SuccessResult[[]tournamentdb.Tournament, error](tournaments), nil
	}))
}

// UpdateTournamentStatus moves a tournament one step forward in its lifecycle.
// Completing a tournament schedules a final standings recompute.
func (s *TournamentService) UpdateTournamentStatus(ctx context.Context, id uuid.UUID, status tournamentdomain.Status) (*tournamentdb.Tournament, error) {
	type tournamentResult = results.OperationResult[*tournamentdb.Tournament, error]

	updated, err := unwrap(withTelemetry(s, ctx, "UpdateTournamentStatus", id.String(), func(ctx context.Context) (tournamentResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (tournamentResult, error) {
			t, err := s.repo.GetTournament(ctx, db, id)
			if err != nil {
				if errors.Is(err, tournamentdb.ErrNotFound) {
					return results.FailureResult[*tournamentdb.Tournament, error](ErrTournamentNotFound), nil
				}
				return tournamentResult{}, fmt.Errorf("failed to get tournament: %w", err)
			}
			if !t.Status.CanTransitionTo(status) {
				return results.FailureResult[*tournamentdb.Tournament, error](
					fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, t.Status, status),
				), nil
			}
			if err := s.repo.UpdateTournamentStatus(ctx, db, id, status); err != nil {
				return tournamentResult{}, fmt.Errorf("failed to update status: %w", err)
			}
			t.Status = status
			t.UpdatedAt = s.clock.Now()
			return results.SuccessResult[*tournamentdb.Tournament, error](t), nil
		})
	}))
	if err != nil {
		return nil, err
	}

	if status == tournamentdomain.StatusCompleted && s.enqueuer != nil {
		if err := s.enqueuer.EnqueueRecompute(ctx, id, "tournament_completed"); err != nil {
			s.logger.ErrorContext(ctx, "Failed to enqueue final recompute",
				attr.ExtractCorrelationID(ctx),
				attr.UUID("tournament_id", id),
				attr.Error(err),
			)
		}
	}
	return updated, nil
}

// UpdateRoundLockTime moves a round's lock. Input is RFC3339 or natural language.
func (s *TournamentService) UpdateRoundLockTime(ctx context.Context, roundID uuid.UUID, input string) (*tournamentdb.Round, error) {
	type roundResult = results.OperationResult[*tournamentdb.Round, error]

	return unwrap(withTelemetry(s, ctx, "UpdateRoundLockTime", roundID.String(), func(ctx context.Context) (roundResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (roundResult, error) {
			round, err := s.repo.GetRound(ctx, db, roundID)
			if err != nil {
				if errors.Is(err, tournamentdb.ErrNotFound) {
					return results.FailureResult[*tournamentdb.Round, error](ErrRoundNotFound), nil
				}
				return roundResult{}, fmt.Errorf("failed to get round: %w", err)
			}

			now := s.clock.Now()
			if round.Locked(now) {
				return results.FailureResult[*tournamentdb.Round, error](ErrRoundLocked), nil
			}

			lockTime, err := s.lockParser.Parse(input, now)
			if err != nil {
				return results.FailureResult[*tournamentdb.Round, error](fmt.Errorf("%w: %v", ErrInvalidLockTime, err)), nil
			}
			if !lockTime.After(now) {
				return results.FailureResult[*tournamentdb.Round, error](
					fmt.Errorf("%w: %s is not in the future", ErrInvalidLockTime, lockTime.Format(time.RFC3339)),
				), nil
			}

			if err := s.repo.UpdateRoundLockTime(ctx, db, roundID, lockTime); err != nil {
				return roundResult{}, fmt.Errorf("failed to update lock time: %w", err)
			}
			round.LockTime = lockTime
			return results.SuccessResult[*tournamentdb.Round, error](round), nil
		})
	}))
}
