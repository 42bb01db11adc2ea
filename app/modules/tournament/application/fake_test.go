package tournamentservice

import (
	"context"
	"time"

	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Tournament Repo
// ------------------------

type FakeTournamentRepo struct {
	trace []string

	CreateTournamentFunc       func(ctx context.Context, db bun.IDB, t *tournamentdb.Tournament) error
	GetTournamentFunc          func(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Tournament, error)
	FindTournamentFunc         func(ctx context.Context, db bun.IDB, name string, year int, gender tournamentdomain.Gender) (*tournamentdb.Tournament, error)
	ListTournamentsFunc        func(ctx context.Context, db bun.IDB, status *tournamentdomain.Status) ([]tournamentdb.Tournament, error)
	UpdateTournamentStatusFunc func(ctx context.Context, db bun.IDB, id uuid.UUID, status tournamentdomain.Status) error
	CreateRoundsFunc           func(ctx context.Context, db bun.IDB, rounds []tournamentdb.Round) error
	GetRoundFunc               func(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Round, error)
	ListRoundsFunc             func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamentdb.Round, error)
	UpdateRoundLockTimeFunc    func(ctx context.Context, db bun.IDB, id uuid.UUID, lockTime time.Time) error
	InsertPlayersFunc          func(ctx context.Context, db bun.IDB, players []tournamentdb.Player) error
	ListPlayersFunc            func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamentdb.Player, error)
	GetPlayersByIDsFunc        func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, ids []uuid.UUID) ([]tournamentdb.Player, error)
	InsertMatchFunc            func(ctx context.Context, db bun.IDB, match *tournamentdb.Match) error
	GetMatchForUpdateFunc      func(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Match, error)
	ListMatchesByRoundFunc     func(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]tournamentdb.Match, error)
	ListMatchesFunc            func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, resolved bool) ([]tournamentdb.Match, error)
	UpdateMatchResultFunc      func(ctx context.Context, db bun.IDB, match *tournamentdb.Match) error
}

func NewFakeTournamentRepo() *FakeTournamentRepo {
	return &FakeTournamentRepo{
		trace: []string{},
	}
}

func (f *FakeTournamentRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeTournamentRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Repository Interface Implementation ---

func (f *FakeTournamentRepo) CreateTournament(ctx context.Context, db bun.IDB, t *tournamentdb.Tournament) error {
	f.record("CreateTournament")
	if f.CreateTournamentFunc != nil {
		return f.CreateTournamentFunc(ctx, db, t)
	}
	return nil
}

func (f *FakeTournamentRepo) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Tournament, error) {
	f.record("GetTournament")
	if f.GetTournamentFunc != nil {
		return f.GetTournamentFunc(ctx, db, id)
	}
	return nil, tournamentdb.ErrNotFound
}

func (f *FakeTournamentRepo) FindTournament(ctx context.Context, db bun.IDB, name string, year int, gender tournamentdomain.Gender) (*tournamentdb.Tournament, error) {
	f.record("FindTournament")
	if f.FindTournamentFunc != nil {
		return f.FindTournamentFunc(ctx, db, name, year, gender)
	}
	return nil, tournamentdb.ErrNotFound
}

func (f *FakeTournamentRepo) ListTournaments(ctx context.Context, db bun.IDB, status *tournamentdomain.Status) ([]tournamentdb.Tournament, error) {
	f.record("ListTournaments")
	if f.ListTournamentsFunc != nil {
		return f.ListTournamentsFunc(ctx, db, status)
	}
	return nil, nil
}

func (f *FakeTournamentRepo) UpdateTournamentStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status tournamentdomain.Status) error {
	f.record("UpdateTournamentStatus")
	if f.UpdateTournamentStatusFunc != nil {
		return f.UpdateTournamentStatusFunc(ctx, db, id, status)
	}
	return nil
}

func (f *FakeTournamentRepo) CreateRounds(ctx context.Context, db bun.IDB, rounds []tournamentdb.Round) error {
	f.record("CreateRounds")
	if f.CreateRoundsFunc != nil {
		return f.CreateRoundsFunc(ctx, db, rounds)
	}
	return nil
}

func (f *FakeTournamentRepo) GetRound(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Round, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, db, id)
	}
	return nil, tournamentdb.ErrNotFound
}

func (f *FakeTournamentRepo) ListRounds(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamentdb.Round, error) {
	f.record("ListRounds")
	if f.ListRoundsFunc != nil {
		return f.ListRoundsFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

func (f *FakeTournamentRepo) UpdateRoundLockTime(ctx context.Context, db bun.IDB, id uuid.UUID, lockTime time.Time) error {
	f.record("UpdateRoundLockTime")
	if f.UpdateRoundLockTimeFunc != nil {
		return f.UpdateRoundLockTimeFunc(ctx, db, id, lockTime)
	}
	return nil
}

func (f *FakeTournamentRepo) InsertPlayers(ctx context.Context, db bun.IDB, players []tournamentdb.Player) error {
	f.record("InsertPlayers")
	if f.InsertPlayersFunc != nil {
		return f.InsertPlayersFunc(ctx, db, players)
	}
	return nil
}

func (f *FakeTournamentRepo) ListPlayers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamentdb.Player, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

func (f *FakeTournamentRepo) GetPlayersByIDs(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, ids []uuid.UUID) ([]tournamentdb.Player, error) {
	f.record("GetPlayersByIDs")
	if f.GetPlayersByIDsFunc != nil {
		return f.GetPlayersByIDsFunc(ctx, db, tournamentID, ids)
	}
	return nil, nil
}

func (f *FakeTournamentRepo) InsertMatch(ctx context.Context, db bun.IDB, match *tournamentdb.Match) error {
	f.record("InsertMatch")
	if f.InsertMatchFunc != nil {
		return f.InsertMatchFunc(ctx, db, match)
	}
	return nil
}

func (f *FakeTournamentRepo) GetMatchForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Match, error) {
	f.record("GetMatchForUpdate")
	if f.GetMatchForUpdateFunc != nil {
		return f.GetMatchForUpdateFunc(ctx, db, id)
	}
	return nil, tournamentdb.ErrNotFound
}

func (f *FakeTournamentRepo) ListMatchesByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]tournamentdb.Match, error) {
	f.record("ListMatchesByRound")
	if f.ListMatchesByRoundFunc != nil {
		return f.ListMatchesByRoundFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeTournamentRepo) ListMatches(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, resolved bool) ([]tournamentdb.Match, error) {
	f.record("ListMatches")
	if f.ListMatchesFunc != nil {
		return f.ListMatchesFunc(ctx, db, tournamentID, resolved)
	}
	return nil, nil
}

func (f *FakeTournamentRepo) UpdateMatchResult(ctx context.Context, db bun.IDB, match *tournamentdb.Match) error {
	f.record("UpdateMatchResult")
	if f.UpdateMatchResultFunc != nil {
		return f.UpdateMatchResultFunc(ctx, db, match)
	}
	return nil
}

var _ tournamentdb.Repository = (*FakeTournamentRepo)(nil)

// ------------------------
// Fake Enqueuer
// ------------------------

type FakeEnqueuer struct {
	calls []uuid.UUID
	err   error
}

func (f *FakeEnqueuer) EnqueueRecompute(ctx context.Context, tournamentID uuid.UUID, reason string) error {
	f.calls = append(f.calls, tournamentID)
	return f.err
}

var _ RecomputeEnqueuer = (*FakeEnqueuer)(nil)
