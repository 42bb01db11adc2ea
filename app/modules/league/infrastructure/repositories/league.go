package leaguedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Impl struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.db
}

func (r *Impl) CreateLeague(ctx context.Context, db bun.IDB, league *League) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(league).Exec(ctx); err != nil {
		return fmt.Errorf("leaguedb.CreateLeague: %w", err)
	}
	return nil
}

func (r *Impl) GetLeague(ctx context.Context, db bun.IDB, id uuid.UUID) (*League, error) {
	db = r.resolveDB(db)
	league := new(League)
	err := db.NewSelect().
		Model(league).
		ColumnExpr("l.*").
		ColumnExpr("(SELECT COUNT(*) FROM league_memberships AS lm WHERE lm.league_id = l.id) AS member_count").
		Where("l.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("leaguedb.GetLeague: %w", err)
	}
	return league, nil
}

func (r *Impl) ListLeagues(ctx context.Context, db bun.IDB, gender *tournamentdomain.Gender) ([]League, error) {
	db = r.resolveDB(db)
	var leagues []League
	q := db.NewSelect().
		Model(&leagues).
		ColumnExpr("l.*").
		ColumnExpr("(SELECT COUNT(*) FROM league_memberships AS lm WHERE lm.league_id = l.id) AS member_count")
	if gender != nil {
		q = q.Join("JOIN tournaments AS t ON t.id = l.tournament_id").Where("t.gender = ?", *gender)
	}
	if err := q.Order("l.created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("leaguedb.ListLeagues: %w", err)
	}
	return leagues, nil
}

func (r *Impl) ListUserLeagues(ctx context.Context, db bun.IDB, userID string) ([]League, error) {
	db = r.resolveDB(db)
	var leagues []League
	err := db.NewSelect().
		Model(&leagues).
		ColumnExpr("l.*").
		ColumnExpr("(SELECT COUNT(*) FROM league_memberships AS c WHERE c.league_id = l.id) AS member_count").
		Join("JOIN league_memberships AS lm ON lm.league_id = l.id").
		Where("lm.user_id = ?", userID).
		Order("lm.joined_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaguedb.ListUserLeagues: %w", err)
	}
	return leagues, nil
}

func (r *Impl) AddMember(ctx context.Context, db bun.IDB, membership *Membership) error {
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(membership).
		On("CONFLICT (user_id, league_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaguedb.AddMember: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

func (r *Impl) IsMember(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*Membership)(nil)).
		Where("user_id = ?", userID).
		Where("league_id = ?", leagueID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("leaguedb.IsMember: %w", err)
	}
	return exists, nil
}

func (r *Impl) ListMembershipsByTournament(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]Membership, error) {
	db = r.resolveDB(db)
	var memberships []Membership
	err := db.NewSelect().
		Model(&memberships).
		ColumnExpr("lm.*").
		ColumnExpr("l.tournament_id").
		Join("JOIN leagues AS l ON l.id = lm.league_id").
		Where("l.tournament_id = ?", tournamentID).
		Order("lm.league_id ASC", "lm.user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaguedb.ListMembershipsByTournament: %w", err)
	}
	return memberships, nil
}
