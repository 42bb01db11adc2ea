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

// ImportPlayers registers entrants from a CSV or XLSX file.
func (s *TournamentService) ImportPlayers(ctx context.Context, tournamentID uuid.UUID, fileName string, data []byte) ([]tournamentdb.Player, error) {
	return unwrap(withTelemetry(s, ctx, "ImportPlayers", fileName, func(ctx context.Context) (playersResult, error) {
		parser, err := s.parsers.GetParser(fileName)
		if err != nil {
			return results.FailureResult[[]tournamentdb.Player, error](fmt.Errorf("%w: %v", ErrImportFailed, err)), nil
		}
		rows, err := parser.ParsePlayers(data)
		if err != nil {
			return results.FailureResult[[]tournamentdb.Player, error](fmt.Errorf("%w: %w", ErrImportFailed, err)), nil
		}

		entries := make([]playerEntry, len(rows))
		for i, r := range rows {
			entries[i] = playerEntry{
				row:   r.Row,
				input: tournamentdomain.PlayerInput{Name: r.Name, Seed: r.Seed, Country: r.Country},
			}
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (playersResult, error) {
			return s.addPlayersLogic(ctx, db, tournamentID, entries)
		})
	}))
}

// ImportMatches schedules matches from a file of (round, player1, player2) rows, resolving names to players.
func (s *TournamentService) ImportMatches(ctx context.Context, tournamentID uuid.UUID, fileName string, data []byte) ([]tournamentdb.Match, error) {
	return unwrap(withTelemetry(s, ctx, "ImportMatches", fileName, func(ctx context.Context) (matchesResult, error) {
		parser, err := s.parsers.GetParser(fileName)
		if err != nil {
			return results.FailureResult[[]tournamentdb.Match, error](fmt.Errorf("%w: %v", ErrImportFailed, err)), nil
		}
		rows, err := parser.ParseMatches(data)
		if err != nil {
			return results.FailureResult[[]tournamentdb.Match, error](fmt.Errorf("%w: %w", ErrImportFailed, err)), nil
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (matchesResult, error) {
			return s.importMatchesLogic(ctx, db, tournamentID, rows)
		})
	}))
}

func (s *TournamentService) importMatchesLogic(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, rows []parsers.MatchRow) (matchesResult, error) {
	if _, err := s.repo.GetTournament(ctx, db, tournamentID); err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return results.FailureResult[[]tournamentdb.Match, error](ErrTournamentNotFound), nil
		}
		return matchesResult{}, fmt.Errorf("failed to get tournament: %w", err)
	}

	rounds, err := s.repo.ListRounds(ctx, db, tournamentID)
	if err != nil {
		return matchesResult{}, fmt.Errorf("failed to list rounds: %w", err)
	}
	roundsByNumber := make(map[int]*tournamentdb.Round, len(rounds))
	for i := range rounds {
		roundsByNumber[rounds[i].RoundNumber] = &rounds[i]
	}

	players, err := s.repo.ListPlayers(ctx, db, tournamentID)
	if err != nil {
		return matchesResult{}, fmt.Errorf("failed to list players: %w", err)
	}
	playersByName := make(map[string]uuid.UUID, len(players))
	for _, p := range players {
		playersByName[p.Name] = p.ID
	}

	matches := make([]tournamentdb.Match, 0, len(rows))
	for _, r := range rows {
		round, ok := roundsByNumber[r.RoundNumber]
		if !ok {
			return results.FailureResult[[]tournamentdb.Match, error](
				rowFailure(r.Row, fmt.Errorf("%w: round %d", ErrRoundNotFound, r.RoundNumber)),
			), nil
		}
		p1, ok1 := playersByName[r.Player1]
		p2, ok2 := playersByName[r.Player2]
		if !ok1 || !ok2 {
			return results.FailureResult[[]tournamentdb.Match, error](
				rowFailure(r.Row, fmt.Errorf("%w: unknown player in %q vs %q", ErrInvalidMatch, r.Player1, r.Player2)),
			), nil
		}

		res, err := s.addMatchLogic(ctx, db, round, p1, p2)
		if err != nil {
			return matchesResult{}, err
		}
		if res.IsFailure() {
			return results.FailureResult[[]tournamentdb.Match, error](rowFailure(r.Row, *res.Failure)), nil
		}
		matches = append(matches, **res.Success)
	}
	return results.SuccessResult[[]tournamentdb.Match, error](matches), nil
}
