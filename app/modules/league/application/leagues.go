package leagueservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	minNameLength        = 3
	maxNameLength        = 50
	maxDescriptionLength = 500
)

type (
	leagueResult  = results.OperationResult[*leaguedb.League, error]
	leaguesResult = results.OperationResult[[]leaguedb.League, error]
)

// CreateLeague creates a league and enrolls its creator with a zeroed standing.
func (s *LeagueService) CreateLeague(ctx context.Context, req CreateLeagueRequest) (*leaguedb.League, error) {
	return unwrap(withTelemetry(s, ctx, "CreateLeague", req.TournamentID.String(), func(ctx context.Context) (leagueResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (leagueResult, error) {
			return s.createLeagueLogic(ctx, db, req)
		})
	}))
}

func (s *LeagueService) createLeagueLogic(ctx context.Context, db bun.IDB, req CreateLeagueRequest) (leagueResult, error) {
	league, err := normalizeLeague(req)
	if err != nil {
		return results.FailureResult[*leaguedb.League, error](err), nil
	}

	if _, err := s.tournaments.GetTournament(ctx, db, req.TournamentID); err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return results.FailureResult[*leaguedb.League, error](ErrTournamentNotFound), nil
		}
		return leagueResult{}, fmt.Errorf("failed to get tournament: %w", err)
	}

	league.ID = uuid.New()
	league.CreatedAt = s.clock.Now()
	if err := s.repo.CreateLeague(ctx, db, league); err != nil {
		return leagueResult{}, fmt.Errorf("failed to create league: %w", err)
	}
	if err := s.enroll(ctx, db, league.CreatorID, league.ID); err != nil {
		return leagueResult{}, err
	}
	league.MemberCount = 1

	return results.SuccessResult[*leaguedb.League, error](league), nil
}

func normalizeLeague(req CreateLeagueRequest) (*leaguedb.League, error) {
	name := strings.TrimSpace(req.Name)
	if n := utf8.RuneCountInString(name); n < minNameLength || n > maxNameLength {
		return nil, fmt.Errorf("%w: name must be %d to %d characters", ErrInvalidLeague, minNameLength, maxNameLength)
	}
	creator := strings.TrimSpace(req.CreatorID)
	if creator == "" {
		return nil, fmt.Errorf("%w: creator is required", ErrInvalidLeague)
	}

	league := &leaguedb.League{
		TournamentID: req.TournamentID,
		CreatorID:    creator,
		Name:         name,
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if utf8.RuneCountInString(desc) > maxDescriptionLength {
			return nil, fmt.Errorf("%w: description exceeds %d characters", ErrInvalidLeague, maxDescriptionLength)
		}
		if desc != "" {
			league.Description = &desc
		}
	}
	return league, nil
}

// enroll adds the membership and the member's initial standing.
func (s *LeagueService) enroll(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) error {
	if err := s.repo.AddMember(ctx, db, &leaguedb.Membership{
		UserID:   userID,
		LeagueID: leagueID,
		JoinedAt: s.clock.Now(),
	}); err != nil {
		return err
	}
	if err := s.standings.InitStanding(ctx, db, userID, leagueID); err != nil {
		return fmt.Errorf("failed to create standing: %w", err)
	}
	return nil
}

// JoinLeague enrolls a user. Joining twice is an error.
func (s *LeagueService) JoinLeague(ctx context.Context, userID string, leagueID uuid.UUID) (*leaguedb.League, error) {
	return unwrap(withTelemetry(s, ctx, "JoinLeague", leagueID.String(), func(ctx context.Context) (leagueResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (leagueResult, error) {
			userID = strings.TrimSpace(userID)
			if userID == "" {
				return results.FailureResult[*leaguedb.League, error](fmt.Errorf("%w: user is required", ErrInvalidLeague)), nil
			}

			league, err := s.repo.GetLeague(ctx, db, leagueID)
			if err != nil {
				if errors.Is(err, leaguedb.ErrNotFound) {
					return results.FailureResult[*leaguedb.League, error](ErrLeagueNotFound), nil
				}
				return leagueResult{}, fmt.Errorf("failed to get league: %w", err)
			}

			member, err := s.repo.IsMember(ctx, db, userID, leagueID)
			if err != nil {
				return leagueResult{}, fmt.Errorf("failed to check membership: %w", err)
			}
			if member {
				return results.FailureResult[*leaguedb.League, error](ErrAlreadyMember), nil
			}

			if err := s.enroll(ctx, db, userID, leagueID); err != nil {
				if errors.Is(err, leaguedb.ErrConflict) {
					return results.FailureResult[*leaguedb.League, error](ErrAlreadyMember), nil
				}
				return leagueResult{}, fmt.Errorf("failed to join league: %w", err)
			}
			league.MemberCount++
			return results.SuccessResult[*leaguedb.League, error](league), nil
		})
	}))
}

// GetLeague returns one league with its member count.
func (s *LeagueService) GetLeague(ctx context.Context, leagueID uuid.UUID) (*leaguedb.League, error) {
	return unwrap(withTelemetry(s, ctx, "GetLeague", leagueID.String(), func(ctx context.Context) (leagueResult, error) {
		league, err := s.repo.GetLeague(ctx, nil, leagueID)
		if err != nil {
			if errors.Is(err, leaguedb.ErrNotFound) {
				return results.FailureResult[*leaguedb.League, error](ErrLeagueNotFound), nil
			}
			return leagueResult{}, err
		}
		return results.SuccessResult[*leaguedb.League, error](league), nil
	}))
}

// ListLeagues lists all leagues, optionally only those on tournaments of gender.
func (s *LeagueService) ListLeagues(ctx context.Context, gender *tournamentdomain.Gender) ([]leaguedb.League, error) {
	identifier := "all"
	if gender != nil {
		identifier = string(*gender)
	}
	return unwrap(withTelemetry(s, ctx, "ListLeagues", identifier, func(ctx context.Context) (leaguesResult, error) {
		if gender != nil && !gender.Valid() {
			return results.FailureResult[[]leaguedb.League, error](fmt.Errorf("%w: unknown gender %q", ErrInvalidLeague, *gender)), nil
		}
		leagues, err := s.repo.ListLeagues(ctx, nil, gender)
		if err != nil {
			return leaguesResult{}, err
		}
		return results.SuccessResult[[]leaguedb.League, error](leagues), nil
	}))
}

// ListUserLeagues lists the leagues a user belongs to, most recently joined first.
func (s *LeagueService) ListUserLeagues(ctx context.Context, userID string) ([]leaguedb.League, error) {
	return unwrap(withTelemetry(s, ctx, "ListUserLeagues", userID, func(ctx context.Context) (leaguesResult, error) {
		leagues, err := s.repo.ListUserLeagues(ctx, nil, userID)
		if err != nil {
			return leaguesResult{}, err
		}
		return results.SuccessResult[[]leaguedb.League, error](leagues), nil
	}))
}
