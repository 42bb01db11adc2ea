package leagueservice

import (
	"context"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake League Repo
// ------------------------

type FakeLeagueRepo struct {
	trace []string

	CreateLeagueFunc                func(ctx context.Context, db bun.IDB, league *leaguedb.League) error
	GetLeagueFunc                   func(ctx context.Context, db bun.IDB, id uuid.UUID) (*leaguedb.League, error)
	ListLeaguesFunc                 func(ctx context.Context, db bun.IDB, gender *tournamentdomain.Gender) ([]leaguedb.League, error)
	ListUserLeaguesFunc             func(ctx context.Context, db bun.IDB, userID string) ([]leaguedb.League, error)
	AddMemberFunc                   func(ctx context.Context, db bun.IDB, membership *leaguedb.Membership) error
	IsMemberFunc                    func(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) (bool, error)
	ListMembershipsByTournamentFunc func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]leaguedb.Membership, error)
}

func NewFakeLeagueRepo() *FakeLeagueRepo {
	return &FakeLeagueRepo{trace: []string{}}
}

func (f *FakeLeagueRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLeagueRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLeagueRepo) CreateLeague(ctx context.Context, db bun.IDB, league *leaguedb.League) error {
	f.record("CreateLeague")
	if f.CreateLeagueFunc != nil {
		return f.CreateLeagueFunc(ctx, db, league)
	}
	return nil
}

func (f *FakeLeagueRepo) GetLeague(ctx context.Context, db bun.IDB, id uuid.UUID) (*leaguedb.League, error) {
	f.record("GetLeague")
	if f.GetLeagueFunc != nil {
		return f.GetLeagueFunc(ctx, db, id)
	}
	return nil, leaguedb.ErrNotFound
}

func (f *FakeLeagueRepo) ListLeagues(ctx context.Context, db bun.IDB, gender *tournamentdomain.Gender) ([]leaguedb.League, error) {
	f.record("ListLeagues")
	if f.ListLeaguesFunc != nil {
		return f.ListLeaguesFunc(ctx, db, gender)
	}
	return nil, nil
}

func (f *FakeLeagueRepo) ListUserLeagues(ctx context.Context, db bun.IDB, userID string) ([]leaguedb.League, error) {
	f.record("ListUserLeagues")
	if f.ListUserLeaguesFunc != nil {
		return f.ListUserLeaguesFunc(ctx, db, userID)
	}
	return nil, nil
}

func (f *FakeLeagueRepo) AddMember(ctx context.Context, db bun.IDB, membership *leaguedb.Membership) error {
	f.record("AddMember")
	if f.AddMemberFunc != nil {
		return f.AddMemberFunc(ctx, db, membership)
	}
	return nil
}

func (f *FakeLeagueRepo) IsMember(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) (bool, error) {
	f.record("IsMember")
	if f.IsMemberFunc != nil {
		return f.IsMemberFunc(ctx, db, userID, leagueID)
	}
	return false, nil
}

func (f *FakeLeagueRepo) ListMembershipsByTournament(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]leaguedb.Membership, error) {
	f.record("ListMembershipsByTournament")
	if f.ListMembershipsByTournamentFunc != nil {
		return f.ListMembershipsByTournamentFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

var _ leaguedb.Repository = (*FakeLeagueRepo)(nil)

// ------------------------
// Fake collaborators
// ------------------------

type FakeTournamentLookup struct {
	tournaments map[uuid.UUID]*tournamentdb.Tournament
	err         error
}

func (f *FakeTournamentLookup) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Tournament, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tournaments[id]
	if !ok {
		return nil, tournamentdb.ErrNotFound
	}
	return t, nil
}

type standingKey struct {
	userID   string
	leagueID uuid.UUID
}

type FakeStandings struct {
	initialized []standingKey
	err         error
}

func (f *FakeStandings) InitStanding(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.initialized = append(f.initialized, standingKey{userID: userID, leagueID: leagueID})
	return nil
}

var (
	_ TournamentLookup     = (*FakeTournamentLookup)(nil)
	_ StandingsInitializer = (*FakeStandings)(nil)
)
