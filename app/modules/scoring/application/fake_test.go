package scoringservice

import (
	"context"
	"sort"
	"sync"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	pickdb "github.com/Black-And-White-Club/survivor-pool/app/modules/pick/infrastructure/repositories"
	scoringdb "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/repositories"
	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Standings Repo
// ------------------------

type FakeStandingsRepo struct {
	trace []string
	rows  map[uuid.UUID]map[string]scoringdb.Standing

	AcquireTournamentLockFunc func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) error
	InitStandingFunc          func(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) error
	BulkUpsertStandingsFunc   func(ctx context.Context, db bun.IDB, standings []scoringdb.Standing) error
	GetStandingsByLeagueFunc  func(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]scoringdb.Standing, error)
	GetStandingFunc           func(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) (*scoringdb.Standing, error)
}

func NewFakeStandingsRepo() *FakeStandingsRepo {
	return &FakeStandingsRepo{
		trace: []string{},
		rows:  map[uuid.UUID]map[string]scoringdb.Standing{},
	}
}

func (f *FakeStandingsRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeStandingsRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeStandingsRepo) AcquireTournamentLock(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) error {
	f.record("AcquireTournamentLock")
	if f.AcquireTournamentLockFunc != nil {
		return f.AcquireTournamentLockFunc(ctx, db, tournamentID)
	}
	return nil
}

func (f *FakeStandingsRepo) InitStanding(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) error {
	f.record("InitStanding")
	if f.InitStandingFunc != nil {
		return f.InitStandingFunc(ctx, db, userID, leagueID)
	}
	return nil
}

func (f *FakeStandingsRepo) BulkUpsertStandings(ctx context.Context, db bun.IDB, standings []scoringdb.Standing) error {
	f.record("BulkUpsertStandings")
	if f.BulkUpsertStandingsFunc != nil {
		return f.BulkUpsertStandingsFunc(ctx, db, standings)
	}
	for _, s := range standings {
		if f.rows[s.LeagueID] == nil {
			f.rows[s.LeagueID] = map[string]scoringdb.Standing{}
		}
		f.rows[s.LeagueID][s.UserID] = s
	}
	return nil
}

func (f *FakeStandingsRepo) GetStandingsByLeague(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]scoringdb.Standing, error) {
	f.record("GetStandingsByLeague")
	if f.GetStandingsByLeagueFunc != nil {
		return f.GetStandingsByLeagueFunc(ctx, db, leagueID)
	}
	var out []scoringdb.Standing
	for _, s := range f.rows[leagueID] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].Rank < *out[j].Rank })
	return out, nil
}

func (f *FakeStandingsRepo) GetStanding(ctx context.Context, db bun.IDB, userID string, leagueID uuid.UUID) (*scoringdb.Standing, error) {
	f.record("GetStanding")
	if f.GetStandingFunc != nil {
		return f.GetStandingFunc(ctx, db, userID, leagueID)
	}
	s, ok := f.rows[leagueID][userID]
	if !ok {
		return nil, scoringdb.ErrNotFound
	}
	return &s, nil
}

// standing returns the stored row of a member.
func (f *FakeStandingsRepo) standing(leagueID uuid.UUID, userID string) scoringdb.Standing {
	return f.rows[leagueID][userID]
}

var _ scoringdb.StandingsRepository = (*FakeStandingsRepo)(nil)

// ------------------------
// Fake collaborators
// ------------------------

// FakeTournamentStore keeps one bracket in memory.
type FakeTournamentStore struct {
	trace       []string
	tournaments map[uuid.UUID]*tournamentdb.Tournament
	rounds      []tournamentdb.Round
	matches     map[uuid.UUID]*tournamentdb.Match

	getTournamentErr error
	updateErr        error
}

func NewFakeTournamentStore() *FakeTournamentStore {
	return &FakeTournamentStore{
		tournaments: map[uuid.UUID]*tournamentdb.Tournament{},
		matches:     map[uuid.UUID]*tournamentdb.Match{},
	}
}

func (f *FakeTournamentStore) roundOf(id uuid.UUID) tournamentdb.Round {
	for _, r := range f.rounds {
		if r.ID == id {
			return r
		}
	}
	return tournamentdb.Round{}
}

func (f *FakeTournamentStore) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Tournament, error) {
	f.trace = append(f.trace, "GetTournament")
	if f.getTournamentErr != nil {
		return nil, f.getTournamentErr
	}
	t, ok := f.tournaments[id]
	if !ok {
		return nil, tournamentdb.ErrNotFound
	}
	return t, nil
}

func (f *FakeTournamentStore) ListTournaments(ctx context.Context, db bun.IDB, status *tournamentdomain.Status) ([]tournamentdb.Tournament, error) {
	var out []tournamentdb.Tournament
	for _, t := range f.tournaments {
		if status == nil || t.Status == *status {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeTournamentStore) ListRounds(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamentdb.Round, error) {
	var out []tournamentdb.Round
	for _, r := range f.rounds {
		if r.TournamentID == tournamentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeTournamentStore) ListMatches(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, resolved bool) ([]tournamentdb.Match, error) {
	var out []tournamentdb.Match
	for _, m := range f.matches {
		round := f.roundOf(m.RoundID)
		if round.TournamentID != tournamentID || m.Resolved() != resolved {
			continue
		}
		cp := *m
		cp.TournamentID = round.TournamentID
		cp.RoundNumber = round.RoundNumber
		out = append(out, cp)
	}
	return out, nil
}

func (f *FakeTournamentStore) GetMatchForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, tournamentdb.ErrNotFound
	}
	cp := *m
	round := f.roundOf(m.RoundID)
	cp.TournamentID = round.TournamentID
	cp.RoundNumber = round.RoundNumber
	return &cp, nil
}

func (f *FakeTournamentStore) UpdateMatchResult(ctx context.Context, db bun.IDB, match *tournamentdb.Match) error {
	f.trace = append(f.trace, "UpdateMatchResult")
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *match
	f.matches[match.ID] = &cp
	return nil
}

type FakeMembershipStore struct {
	leagues     map[uuid.UUID]*leaguedb.League
	memberships []leaguedb.Membership
}

func (f *FakeMembershipStore) GetLeague(ctx context.Context, db bun.IDB, id uuid.UUID) (*leaguedb.League, error) {
	l, ok := f.leagues[id]
	if !ok {
		return nil, leaguedb.ErrNotFound
	}
	return l, nil
}

func (f *FakeMembershipStore) ListMembershipsByTournament(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]leaguedb.Membership, error) {
	var out []leaguedb.Membership
	for _, m := range f.memberships {
		if f.leagues[m.LeagueID] != nil && f.leagues[m.LeagueID].TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out, nil
}

type FakePickStore struct {
	picks []pickdb.Pick
}

func (f *FakePickStore) GetPicksByLeagues(ctx context.Context, db bun.IDB, leagueIDs []uuid.UUID) ([]pickdb.Pick, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range leagueIDs {
		want[id] = true
	}
	var out []pickdb.Pick
	for _, p := range f.picks {
		if want[p.LeagueID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type publishedMessage struct {
	topic string
	msg   *message.Message
}

type FakePublisher struct {
	mu   sync.Mutex
	sent []publishedMessage
	err  error
}

func (f *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, m := range messages {
		f.sent = append(f.sent, publishedMessage{topic: topic, msg: m})
	}
	return nil
}

func (f *FakePublisher) topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, p := range f.sent {
		out[i] = p.topic
	}
	return out
}

var (
	_ TournamentStore = (*FakeTournamentStore)(nil)
	_ MembershipStore = (*FakeMembershipStore)(nil)
	_ PickStore       = (*FakePickStore)(nil)
	_ Publisher       = (*FakePublisher)(nil)
)
