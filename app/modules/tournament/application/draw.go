package tournamentservice

import (
	"context"
	"errors"
	"fmt"

	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	"github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/parsers"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type (
	playersResult = results.OperationResult[[]tournamentdb.Player, error]
	matchResult   = results.OperationResult[*tournamentdb.Match, error]
	matchesResult = results.OperationResult[[]tournamentdb.Match, error]
)

// playerEntry is an input with the import record it came from (0 when entered directly).
type playerEntry struct {
	row   int
	input tournamentdomain.PlayerInput
}

func rowFailure(row int, err error) error {
	if row == 0 {
		return err
	}
	return &parsers.RowError{Row: row, Err: err}
}

// AddPlayers registers entrants. Names are unique per tournament.
func (s *TournamentService) AddPlayers(ctx context.Context, tournamentID uuid.UUID, players []tournamentdomain.PlayerInput) ([]tournamentdb.Player, error) {
	entries := make([]playerEntry, len(players))
	for i, p := range players {
		entries[i] = playerEntry{input: p}
	}
	return unwrap(withTelemetry(s, ctx, "AddPlayers", tournamentID.String(), func(ctx context.Context) (playersResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (playersResult, error) {
			return s.addPlayersLogic(ctx, db, tournamentID, entries)
		})
	}))
}

func (s *TournamentService) addPlayersLogic(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, entries []playerEntry) (playersResult, error) {
	if len(entries) == 0 {
		return results.FailureResult[[]tournamentdb.Player, error](fmt.Errorf("%w: no players given", tournamentdomain.ErrInvalidPlayer)), nil
	}
	if _, err := s.repo.GetTournament(ctx, db, tournamentID); err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return results.FailureResult[[]tournamentdb.Player, error](ErrTournamentNotFound), nil
		}
		return playersResult{}, fmt.Errorf("failed to get tournament: %w", err)
	}

	existing, err := s.repo.ListPlayers(ctx, db, tournamentID)
	if err != nil {
		return playersResult{}, fmt.Errorf("failed to list players: %w", err)
	}
	taken := make(map[string]struct{}, len(existing)+len(entries))
	for _, p := range existing {
		taken[p.Name] = struct{}{}
	}

	now := s.clock.Now()
	players := make([]tournamentdb.Player, 0, len(entries))
	for _, e := range entries {
		in, err := e.input.Normalize()
		if err != nil {
			return results.FailureResult[[]tournamentdb.Player, error](rowFailure(e.row, err)), nil
		}
		if _, dup := taken[in.Name]; dup {
			return results.FailureResult[[]tournamentdb.Player, error](
				rowFailure(e.row, fmt.Errorf("%w: %s", ErrDuplicatePlayer, in.Name)),
			), nil
		}
		taken[in.Name] = struct{}{}
		players = append(players, tournamentdb.Player{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Name:         in.Name,
			Seed:         in.Seed,
			Country:      in.Country,
			CreatedAt:    now,
		})
	}

	if err := s.repo.InsertPlayers(ctx, db, players); err != nil {
		if errors.Is(err, tournamentdb.ErrConflict) {
			return results.FailureResult[[]tournamentdb.Player, error](ErrDuplicatePlayer), nil
		}
		return playersResult{}, fmt.Errorf("failed to insert players: %w", err)
	}
	return results.SuccessResult[[]tournamentdb.Player, error](players), nil
}

// AddMatch schedules two players of the round's tournament against each other.
func (s *TournamentService) AddMatch(ctx context.Context, roundID, player1ID, player2ID uuid.UUID) (*tournamentdb.Match, error) {
	return unwrap(withTelemetry(s, ctx, "AddMatch", roundID.String(), func(ctx context.Context) (matchResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (matchResult, error) {
			round, err := s.repo.GetRound(ctx, db, roundID)
			if err != nil {
				if errors.Is(err, tournamentdb.ErrNotFound) {
					return results.FailureResult[*tournamentdb.Match, error](ErrRoundNotFound), nil
				}
				return matchResult{}, fmt.Errorf("failed to get round: %w", err)
			}
			return s.addMatchLogic(ctx, db, round, player1ID, player2ID)
		})
	}))
}

func (s *TournamentService) addMatchLogic(ctx context.Context, db bun.IDB, round *tournamentdb.Round, player1ID, player2ID uuid.UUID) (matchResult, error) {
	if player1ID == player2ID {
		return results.FailureResult[*tournamentdb.Match, error](fmt.Errorf("%w: a player cannot face themselves", ErrInvalidMatch)), nil
	}

	players, err := s.repo.GetPlayersByIDs(ctx, db, round.TournamentID, []uuid.UUID{player1ID, player2ID})
	if err != nil {
		return matchResult{}, fmt.Errorf("failed to get players: %w", err)
	}
	if len(players) != 2 {
		return results.FailureResult[*tournamentdb.Match, error](fmt.Errorf("%w: players must belong to the tournament", ErrInvalidMatch)), nil
	}

	scheduled, err := s.repo.ListMatchesByRound(ctx, db, round.ID)
	if err != nil {
		return matchResult{}, fmt.Errorf("failed to list round matches: %w", err)
	}
	for _, m := range scheduled {
		if m.HasPlayer(player1ID) || m.HasPlayer(player2ID) {
			return results.FailureResult[*tournamentdb.Match, error](
				fmt.Errorf("%w: player already scheduled in round %d", ErrInvalidMatch, round.RoundNumber),
			), nil
		}
	}

	match := &tournamentdb.Match{
		ID:           uuid.New(),
		RoundID:      round.ID,
		Player1ID:    player1ID,
		Player2ID:    player2ID,
		CreatedAt:    s.clock.Now(),
		TournamentID: round.TournamentID,
		RoundNumber:  round.RoundNumber,
	}
	if err := s.repo.InsertMatch(ctx, db, match); err != nil {
		return matchResult{}, fmt.Errorf("failed to insert match: %w", err)
	}
	return results.SuccessResult[*tournamentdb.Match, error](match), nil
}

// GetUpcomingMatches lists matches still awaiting a result.
func (s *TournamentService) GetUpcomingMatches(ctx context.Context, tournamentID uuid.UUID) ([]tournamentdb.Match, error) {
	return s.listMatches(ctx, "GetUpcomingMatches", tournamentID, false)
}

// GetCompletedMatches lists resolved matches.
func (s *TournamentService) GetCompletedMatches(ctx context.Context, tournamentID uuid.UUID) ([]tournamentdb.Match, error) {
	return s.listMatches(ctx, "GetCompletedMatches", tournamentID, true)
}

func (s *TournamentService) listMatches(ctx context.Context, op string, tournamentID uuid.UUID, resolved bool) ([]tournamentdb.Match, error) {
	return unwrap(withTelemetry(s, ctx, op, tournamentID.String(), func(ctx context.Context) (matchesResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (matchesResult, error) {
			if _, err := s.repo.GetTournament(ctx, db, tournamentID); err != nil {
				if errors.Is(err, tournamentdb.ErrNotFound) {
					return results.FailureResult[[]tournamentdb.Match, error](ErrTournamentNotFound), nil
				}
				return matchesResult{}, fmt.Errorf("failed to get tournament: %w", err)
			}
			matches, err := s.repo.ListMatches(ctx, db, tournamentID, resolved)
			if err != nil {
				return matchesResult{}, fmt.Errorf("failed to list matches: %w", err)
			}
			return results.SuccessResult[[]tournamentdb.Match, error](matches), nil
		})
	}))
}
