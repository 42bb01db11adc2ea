package leagueservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/observability"
	"github.com/Black-And-White-Club/survivor-pool/pkg/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var testNow = time.Date(2027, 5, 20, 9, 0, 0, 0, time.UTC)

type harness struct {
	repo        *FakeLeagueRepo
	tournaments *FakeTournamentLookup
	standings   *FakeStandings
	svc         *LeagueService
}

func newHarness(tournamentIDs ...uuid.UUID) *harness {
	h := &harness{
		repo:        NewFakeLeagueRepo(),
		tournaments: &FakeTournamentLookup{tournaments: map[uuid.UUID]*tournamentdb.Tournament{}},
		standings:   &FakeStandings{},
	}
	for _, id := range tournamentIDs {
		h.tournaments.tournaments[id] = &tournamentdb.Tournament{ID: id}
	}
	h.svc = NewLeagueService(h.repo, h.tournaments, h.standings, clock.NewFixedClock(testNow), slog.Default(), observability.NewNoop(), nil, nil)
	return h
}

func TestCreateLeague(t *testing.T) {
	tid := uuid.New()
	desc := "  Friends and family  "
	longDesc := strings.Repeat("x", 501)

	tests := []struct {
		name      string
		req       CreateLeagueRequest
		setup     func(*harness)
		wantErrIs error
		wantErr   bool
	}{
		{
			name: "creates and auto-joins creator",
			req:  CreateLeagueRequest{Name: "Office Pool", Description: &desc, TournamentID: tid, CreatorID: "user-1"},
		},
		{
			name:      "name too short",
			req:       CreateLeagueRequest{Name: "ab", TournamentID: tid, CreatorID: "user-1"},
			wantErrIs: ErrInvalidLeague,
		},
		{
			name:      "name too long",
			req:       CreateLeagueRequest{Name: strings.Repeat("n", 51), TournamentID: tid, CreatorID: "user-1"},
			wantErrIs: ErrInvalidLeague,
		},
		{
			name:      "description too long",
			req:       CreateLeagueRequest{Name: "Office Pool", Description: &longDesc, TournamentID: tid, CreatorID: "user-1"},
			wantErrIs: ErrInvalidLeague,
		},
		{
			name:      "missing creator",
			req:       CreateLeagueRequest{Name: "Office Pool", TournamentID: tid},
			wantErrIs: ErrInvalidLeague,
		},
		{
			name:      "unknown tournament",
			req:       CreateLeagueRequest{Name: "Office Pool", TournamentID: uuid.New(), CreatorID: "user-1"},
			wantErrIs: ErrTournamentNotFound,
		},
		{
			name: "standing insert fails",
			req:  CreateLeagueRequest{Name: "Office Pool", TournamentID: tid, CreatorID: "user-1"},
			setup: func(h *harness) {
				h.standings.err = errors.New("disk full")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tid)
			if tt.setup != nil {
				tt.setup(h)
			}
			var members []*leaguedb.Membership
			h.repo.AddMemberFunc = func(ctx context.Context, db bun.IDB, m *leaguedb.Membership) error {
				members = append(members, m)
				return nil
			}

			got, err := h.svc.CreateLeague(context.Background(), tt.req)
			if tt.wantErrIs != nil || tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
					assert.NotContains(t, h.repo.Trace(), "CreateLeague")
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Office Pool", got.Name)
			require.NotNil(t, got.Description)
			assert.Equal(t, "Friends and family", *got.Description)
			assert.Equal(t, 1, got.MemberCount)
			assert.Equal(t, []string{"CreateLeague", "AddMember"}, h.repo.Trace())

			require.Len(t, members, 1)
			assert.Equal(t, "user-1", members[0].UserID)
			assert.Equal(t, got.ID, members[0].LeagueID)
			assert.Equal(t, []standingKey{{userID: "user-1", leagueID: got.ID}}, h.standings.initialized)
		})
	}
}

func TestJoinLeague(t *testing.T) {
	leagueID := uuid.New()

	tests := []struct {
		name      string
		userID    string
		exists    bool
		member    bool
		addErr    error
		wantErrIs error
		wantErr   bool
	}{
		{name: "joins", userID: "user-2", exists: true},
		{name: "league missing", userID: "user-2", wantErrIs: ErrLeagueNotFound},
		{name: "already a member", userID: "user-2", exists: true, member: true, wantErrIs: ErrAlreadyMember},
		{name: "lost race on membership", userID: "user-2", exists: true, addErr: leaguedb.ErrConflict, wantErrIs: ErrAlreadyMember},
		{name: "blank user", userID: " ", exists: true, wantErrIs: ErrInvalidLeague},
		{name: "membership insert fails", userID: "user-2", exists: true, addErr: errors.New("boom"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			if tt.exists {
				h.repo.GetLeagueFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*leaguedb.League, error) {
					return &leaguedb.League{ID: id, Name: "Office Pool", MemberCount: 3}, nil
				}
			}
			h.repo.IsMemberFunc = func(ctx context.Context, db bun.IDB, userID string, id uuid.UUID) (bool, error) {
				return tt.member, nil
			}
			h.repo.AddMemberFunc = func(ctx context.Context, db bun.IDB, m *leaguedb.Membership) error {
				return tt.addErr
			}

			got, err := h.svc.JoinLeague(context.Background(), tt.userID, leagueID)
			if tt.wantErrIs != nil || tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				assert.Empty(t, h.standings.initialized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 4, got.MemberCount)
			assert.Equal(t, []standingKey{{userID: "user-2", leagueID: leagueID}}, h.standings.initialized)
		})
	}
}

func TestReadOperations(t *testing.T) {
	h := newHarness()
	women := tournamentdomain.GenderWomen

	var gotGender *tournamentdomain.Gender
	h.repo.ListLeaguesFunc = func(ctx context.Context, db bun.IDB, gender *tournamentdomain.Gender) ([]leaguedb.League, error) {
		gotGender = gender
		return []leaguedb.League{{Name: "A"}, {Name: "B"}}, nil
	}
	h.repo.ListUserLeaguesFunc = func(ctx context.Context, db bun.IDB, userID string) ([]leaguedb.League, error) {
		return []leaguedb.League{{Name: userID}}, nil
	}

	leagues, err := h.svc.ListLeagues(context.Background(), &women)
	require.NoError(t, err)
	assert.Len(t, leagues, 2)
	assert.Equal(t, &women, gotGender)

	bad := tournamentdomain.Gender("MIXED")
	_, err = h.svc.ListLeagues(context.Background(), &bad)
	assert.ErrorIs(t, err, ErrInvalidLeague)

	mine, err := h.svc.ListUserLeagues(context.Background(), "user-9")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "user-9", mine[0].Name)

	_, err = h.svc.GetLeague(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrLeagueNotFound)
}
