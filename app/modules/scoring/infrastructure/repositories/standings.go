package scoringdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type StandingsRepo struct {
	db bun.IDB
}

func NewStandingsRepo(db bun.IDB) StandingsRepository {
	return &StandingsRepo{db: db}
}

func (r *StandingsRepo) resolveDB(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.db
}

func (r *StandingsRepo) AcquireTournamentLock(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) error {
	db = r.resolveDB(db)
	key := "scoring:" + tournamentID.String()
	if _, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", key).Exec(ctx); err != nil {
		return fmt.Errorf("scoringdb.AcquireTournamentLock: %w", err)
	}
	return nil
}

func (r *StandingsRepo) InitStanding(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) error {
	db = r.resolveDB(db)
	s := &Standing{
		UserID:      userID,
		LeagueID:    leagueID,
		LastUpdated: time.Now().UTC(),
	}
	_, err := db.NewInsert().
		Model(s).
		On("CONFLICT (user_id, league_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoringdb.InitStanding: %w", err)
	}
	return nil
}

func (r *StandingsRepo) BulkUpsertStandings(ctx context.Context, db bun.IDB, standings []Standing) error {
	db = r.resolveDB(db)
	if len(standings) == 0 {
		return nil
	}
	_, err := db.NewInsert().
		Model(&standings).
		On("CONFLICT (user_id, league_id) DO UPDATE").
		Set("strikes = EXCLUDED.strikes").
		Set("correct_picks = EXCLUDED.correct_picks").
		Set("eliminated = EXCLUDED.eliminated").
		Set("rank = EXCLUDED.rank").
		Set("final_round_submission = EXCLUDED.final_round_submission").
		Set("last_updated = EXCLUDED.last_updated").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoringdb.BulkUpsertStandings: %w", err)
	}
	return nil
}

func (r *StandingsRepo) GetStandingsByLeague(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]Standing, error) {
	db = r.resolveDB(db)
	var standings []Standing
	err := db.NewSelect().
		Model(&standings).
		Where("s.league_id = ?", leagueID).
		OrderExpr("s.rank ASC NULLS LAST").
		Order("s.user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoringdb.GetStandingsByLeague: %w", err)
	}
	return standings, nil
}

func (r *StandingsRepo) GetStanding(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) (*Standing, error) {
	db = r.resolveDB(db)
	s := new(Standing)
	err := db.NewSelect().
		Model(s).
		Where("s.user_id = ?", userID).
		Where("s.league_id = ?", leagueID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scoringdb.GetStanding: %w", err)
	}
	return s, nil
}
