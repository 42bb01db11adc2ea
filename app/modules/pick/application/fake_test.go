package pickservice

import (
	"context"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	pickdb "github.com/Black-And-White-Club/survivor-pool/app/modules/pick/infrastructure/repositories"
	scoringdb "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Pick Repo
// ------------------------

type FakePickRepo struct {
	trace []string

	CreateSubmissionFunc  func(ctx context.Context, db bun.IDB, submission *pickdb.PickSubmission) error
	InsertPicksFunc       func(ctx context.Context, db bun.IDB, picks []pickdb.Pick) error
	HasSubmissionFunc     func(ctx context.Context, db bun.IDB, userID string, leagueID, roundID uuid.UUID) (bool, error)
	GetUsedPlayersFunc    func(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) ([]uuid.UUID, error)
	GetPicksByUserFunc    func(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) ([]pickdb.Pick, error)
	GetPicksByRoundFunc   func(ctx context.Context, db bun.IDB, userID string, leagueID, roundID uuid.UUID) ([]pickdb.Pick, error)
	GetPicksByLeaguesFunc func(ctx context.Context, db bun.IDB, leagueIDs []uuid.UUID) ([]pickdb.Pick, error)
}

func NewFakePickRepo() *FakePickRepo {
	return &FakePickRepo{trace: []string{}}
}

func (f *FakePickRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePickRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakePickRepo) CreateSubmission(ctx context.Context, db bun.IDB, submission *pickdb.PickSubmission) error {
	f.record("CreateSubmission")
	if f.CreateSubmissionFunc != nil {
		return f.CreateSubmissionFunc(ctx, db, submission)
	}
	return nil
}

func (f *FakePickRepo) InsertPicks(ctx context.Context, db bun.IDB, picks []pickdb.Pick) error {
	f.record("InsertPicks")
	if f.InsertPicksFunc != nil {
		return f.InsertPicksFunc(ctx, db, picks)
	}
	return nil
}

func (f *FakePickRepo) HasSubmission(ctx context.Context, db bun.IDB, userID string, leagueID, roundID uuid.UUID) (bool, error) {
	f.record("HasSubmission")
	if f.HasSubmissionFunc != nil {
		return f.HasSubmissionFunc(ctx, db, userID, leagueID, roundID)
	}
	return false, nil
}

func (f *FakePickRepo) GetUsedPlayers(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) ([]uuid.UUID, error) {
	f.record("GetUsedPlayers")
	if f.GetUsedPlayersFunc != nil {
		return f.GetUsedPlayersFunc(ctx, db, userID, leagueID)
	}
	return nil, nil
}

func (f *FakePickRepo) GetPicksByUser(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) ([]pickdb.Pick, error) {
	f.record("GetPicksByUser")
	if f.GetPicksByUserFunc != nil {
		return f.GetPicksByUserFunc(ctx, db, userID, leagueID)
	}
	return nil, nil
}

func (f *FakePickRepo) GetPicksByRound(ctx context.Context, db bun.IDB, userID string, leagueID, roundID uuid.UUID) ([]pickdb.Pick, error) {
	f.record("GetPicksByRound")
	if f.GetPicksByRoundFunc != nil {
		return f.GetPicksByRoundFunc(ctx, db, userID, leagueID, roundID)
	}
	return nil, nil
}

func (f *FakePickRepo) GetPicksByLeagues(ctx context.Context, db bun.IDB, leagueIDs []uuid.UUID) ([]pickdb.Pick, error) {
	f.record("GetPicksByLeagues")
	if f.GetPicksByLeaguesFunc != nil {
		return f.GetPicksByLeaguesFunc(ctx, db, leagueIDs)
	}
	return nil, nil
}

var _ pickdb.Repository = (*FakePickRepo)(nil)

// ------------------------
// Fake collaborators
// ------------------------

type FakeLeagues struct {
	leagues map[uuid.UUID]*leaguedb.League
	members map[string]bool
	err     error
}

func (f *FakeLeagues) GetLeague(ctx context.Context, db bun.IDB, id uuid.UUID) (*leaguedb.League, error) {
	l, ok := f.leagues[id]
	if !ok {
		return nil, leaguedb.ErrNotFound
	}
	return l, nil
}

func (f *FakeLeagues) IsMember(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.members[userID+"/"+leagueID.String()], nil
}

type FakeDraw struct {
	rounds  map[uuid.UUID]*tournamentdb.Round
	players []tournamentdb.Player
}

func (f *FakeDraw) GetRound(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Round, error) {
	r, ok := f.rounds[id]
	if !ok {
		return nil, tournamentdb.ErrNotFound
	}
	return r, nil
}

func (f *FakeDraw) ListPlayers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamentdb.Player, error) {
	var out []tournamentdb.Player
	for _, p := range f.players {
		if p.TournamentID == tournamentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakeDraw) GetPlayersByIDs(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, ids []uuid.UUID) ([]tournamentdb.Player, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []tournamentdb.Player
	for _, p := range f.players {
		if p.TournamentID == tournamentID && want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type FakeStandingLookup struct {
	standings map[string]*scoringdb.Standing
	err       error
}

func (f *FakeStandingLookup) GetStanding(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) (*scoringdb.Standing, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.standings[userID+"/"+leagueID.String()]
	if !ok {
		return nil, scoringdb.ErrNotFound
	}
	return s, nil
}

var (
	_ LeagueLookup   = (*FakeLeagues)(nil)
	_ DrawLookup     = (*FakeDraw)(nil)
	_ StandingLookup = (*FakeStandingLookup)(nil)
)
