package pickdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new pick repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.db
}

func (r *Impl) CreateSubmission(ctx context.Context, db bun.IDB, submission *PickSubmission) error {
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(submission).
		On("CONFLICT (user_id, league_id, round_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("pickdb.CreateSubmission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

func (r *Impl) InsertPicks(ctx context.Context, db bun.IDB, picks []Pick) error {
	if len(picks) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(&picks).
		On("CONFLICT (user_id, league_id, player_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("pickdb.InsertPicks: %w", err)
	}
	if n, _ := res.RowsAffected(); n != int64(len(picks)) {
		return ErrConflict
	}
	return nil
}

func (r *Impl) HasSubmission(ctx context.Context, db bun.IDB, userID string, leagueID, roundID uuid.UUID) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*PickSubmission)(nil)).
		Where("user_id = ?", userID).
		Where("league_id = ?", leagueID).
		Where("round_id = ?", roundID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("pickdb.HasSubmission: %w", err)
	}
	return exists, nil
}

func (r *Impl) GetUsedPlayers(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) ([]uuid.UUID, error) {
	db = r.resolveDB(db)
	var ids []uuid.UUID
	err := db.NewSelect().
		Model((*Pick)(nil)).
		Column("player_id").
		Where("user_id = ?", userID).
		Where("league_id = ?", leagueID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("pickdb.GetUsedPlayers: %w", err)
	}
	return ids, nil
}

func (r *Impl) GetPicksByUser(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) ([]Pick, error) {
	db = r.resolveDB(db)
	var picks []Pick
	err := db.NewSelect().
		Model(&picks).
		ColumnExpr("pc.*").
		ColumnExpr("r.round_number").
		Join("JOIN rounds AS r ON r.id = pc.round_id").
		Where("pc.user_id = ?", userID).
		Where("pc.league_id = ?", leagueID).
		Order("r.round_number ASC", "pc.submitted_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("pickdb.GetPicksByUser: %w", err)
	}
	return picks, nil
}

func (r *Impl) GetPicksByRound(ctx context.Context, db bun.IDB, userID string, leagueID, roundID uuid.UUID) ([]Pick, error) {
	db = r.resolveDB(db)
	var picks []Pick
	err := db.NewSelect().
		Model(&picks).
		ColumnExpr("pc.*").
		ColumnExpr("r.round_number").
		Join("JOIN rounds AS r ON r.id = pc.round_id").
		Where("pc.user_id = ?", userID).
		Where("pc.league_id = ?", leagueID).
		Where("pc.round_id = ?", roundID).
		Order("pc.submitted_at ASC", "pc.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("pickdb.GetPicksByRound: %w", err)
	}
	return picks, nil
}

func (r *Impl) GetPicksByLeagues(ctx context.Context, db bun.IDB, leagueIDs []uuid.UUID) ([]Pick, error) {
	if len(leagueIDs) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var picks []Pick
	err := db.NewSelect().
		Model(&picks).
		ColumnExpr("pc.*").
		ColumnExpr("r.round_number").
		Join("JOIN rounds AS r ON r.id = pc.round_id").
		Where("pc.league_id IN (?)", bun.In(leagueIDs)).
		Order("pc.league_id ASC", "pc.user_id ASC", "r.round_number ASC", "pc.submitted_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("pickdb.GetPicksByLeagues: %w", err)
	}
	return picks, nil
}
