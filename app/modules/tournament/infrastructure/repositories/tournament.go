package tournamentdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new tournament repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.db
}

// --- Tournaments ---

func (r *Impl) CreateTournament(ctx context.Context, db bun.IDB, tournament *Tournament) error {
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(tournament).
		On("CONFLICT (name, year, gender) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.CreateTournament: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

func (r *Impl) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*Tournament, error) {
	db = r.resolveDB(db)
	t := new(Tournament)
	err := db.NewSelect().Model(t).Where("t.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tournamentdb.GetTournament: %w", err)
	}
	return t, nil
}

func (r *Impl) FindTournament(ctx context.Context, db bun.IDB, name string, year int, gender tournamentdomain.Gender) (*Tournament, error) {
	db = r.resolveDB(db)
	t := new(Tournament)
	err := db.NewSelect().
		Model(t).
		Where("t.name = ?", name).
		Where("t.year = ?", year).
		Where("t.gender = ?", gender).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tournamentdb.FindTournament: %w", err)
	}
	return t, nil
}

func (r *Impl) ListTournaments(ctx context.Context, db bun.IDB, status *tournamentdomain.Status) ([]Tournament, error) {
	db = r.resolveDB(db)
	var tournaments []Tournament
	q := db.NewSelect().Model(&tournaments)
	if status != nil {
		q = q.Where("t.status = ?", *status)
	}
	if err := q.Order("t.year DESC", "t.gender ASC", "t.name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("tournamentdb.ListTournaments: %w", err)
	}
	return tournaments, nil
}

func (r *Impl) UpdateTournamentStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status tournamentdomain.Status) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Tournament)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.UpdateTournamentStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// --- Rounds ---

func (r *Impl) CreateRounds(ctx context.Context, db bun.IDB, rounds []Round) error {
	if len(rounds) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&rounds).Exec(ctx); err != nil {
		return fmt.Errorf("tournamentdb.CreateRounds: %w", err)
	}
	return nil
}

func (r *Impl) GetRound(ctx context.Context, db bun.IDB, id uuid.UUID) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().Model(round).Where("r.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tournamentdb.GetRound: %w", err)
	}
	return round, nil
}

func (r *Impl) ListRounds(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]Round, error) {
	db = r.resolveDB(db)
	var rounds []Round
	err := db.NewSelect().
		Model(&rounds).
		Where("r.tournament_id = ?", tournamentID).
		Order("r.round_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("tournamentdb.ListRounds: %w", err)
	}
	return rounds, nil
}

func (r *Impl) UpdateRoundLockTime(ctx context.Context, db bun.IDB, id uuid.UUID, lockTime time.Time) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Round)(nil)).
		Set("lock_time = ?", lockTime).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.UpdateRoundLockTime: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// --- Players ---

func (r *Impl) InsertPlayers(ctx context.Context, db bun.IDB, players []Player) error {
	if len(players) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(&players).
		On("CONFLICT (tournament_id, name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.InsertPlayers: %w", err)
	}
	if n, _ := res.RowsAffected(); n != int64(len(players)) {
		return ErrConflict
	}
	return nil
}

func (r *Impl) ListPlayers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]Player, error) {
	db = r.resolveDB(db)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		Where("p.tournament_id = ?", tournamentID).
		Order("p.seed ASC NULLS LAST", "p.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("tournamentdb.ListPlayers: %w", err)
	}
	return players, nil
}

func (r *Impl) GetPlayersByIDs(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, ids []uuid.UUID) ([]Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		Where("p.tournament_id = ?", tournamentID).
		Where("p.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("tournamentdb.GetPlayersByIDs: %w", err)
	}
	return players, nil
}

// --- Matches ---

func (r *Impl) InsertMatch(ctx context.Context, db bun.IDB, match *Match) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(match).Exec(ctx); err != nil {
		return fmt.Errorf("tournamentdb.InsertMatch: %w", err)
	}
	return nil
}

func (r *Impl) GetMatchForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Match, error) {
	db = r.resolveDB(db)
	m := new(Match)
	err := db.NewSelect().
		Model(m).
		ColumnExpr("m.*").
		ColumnExpr("r.tournament_id, r.round_number").
		Join("JOIN rounds AS r ON r.id = m.round_id").
		Where("m.id = ?", id).
		For("UPDATE OF m").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tournamentdb.GetMatchForUpdate: %w", err)
	}
	return m, nil
}

func (r *Impl) ListMatchesByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Match, error) {
	db = r.resolveDB(db)
	var matches []Match
	err := db.NewSelect().
		Model(&matches).
		ColumnExpr("m.*").
		ColumnExpr("r.tournament_id, r.round_number").
		Join("JOIN rounds AS r ON r.id = m.round_id").
		Where("m.round_id = ?", roundID).
		Order("m.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("tournamentdb.ListMatchesByRound: %w", err)
	}
	return matches, nil
}

func (r *Impl) ListMatches(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, resolved bool) ([]Match, error) {
	db = r.resolveDB(db)
	var matches []Match
	q := db.NewSelect().
		Model(&matches).
		ColumnExpr("m.*").
		ColumnExpr("r.tournament_id, r.round_number").
		Join("JOIN rounds AS r ON r.id = m.round_id").
		Where("r.tournament_id = ?", tournamentID)
	if resolved {
		q = q.Where("m.winner_id IS NOT NULL").Order("r.round_number ASC", "m.result_entered_at DESC")
	} else {
		q = q.Where("m.winner_id IS NULL").Order("r.round_number ASC", "m.created_at ASC")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("tournamentdb.ListMatches: %w", err)
	}
	return matches, nil
}

func (r *Impl) UpdateMatchResult(ctx context.Context, db bun.IDB, match *Match) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model(match).
		Column("winner_id", "is_walkover", "retired_player_id", "result_entered_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.UpdateMatchResult: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
