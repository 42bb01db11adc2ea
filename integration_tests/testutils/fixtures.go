package testutils

import (
	"fmt"
	"testing"
	"time"

	"github.com/Black-And-White-Club/survivor-pool/app"
	leagueservice "github.com/Black-And-White-Club/survivor-pool/app/modules/league/application"
	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	pickservice "github.com/Black-And-White-Club/survivor-pool/app/modules/pick/application"
	tournamentservice "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/application"
	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Draw is an active ATP 250 tournament with eight players and a full first round.
type Draw struct {
	Tournament tournamentdb.Tournament
	Rounds     []tournamentdb.Round
	Players    []tournamentdb.Player
	// Matches pairs Players[i] with Players[i+4].
	Matches []tournamentdb.Match
}

// SeedDraw creates the draw through the tournament service. Round 1 locks a day from now.
func SeedDraw(t *testing.T, a *app.App) *Draw {
	t.Helper()
	ctx := t.Context()
	svc := a.Tournament.Service

	startsAt := time.Now().Add(24 * time.Hour).UTC()
	detail, err := svc.CreateTournament(ctx, tournamentservice.CreateTournamentRequest{
		Name:     fmt.Sprintf("%s Open", gofakeit.City()),
		Year:     2027,
		Gender:   tournamentdomain.GenderMen,
		Level:    tournamentdomain.LevelATP250,
		StartsAt: &startsAt,
	})
	require.NoError(t, err)

	_, err = svc.UpdateTournamentStatus(ctx, detail.Tournament.ID, tournamentdomain.StatusActive)
	require.NoError(t, err)

	inputs := make([]tournamentdomain.PlayerInput, 8)
	for i := range inputs {
		seed := i + 1
		inputs[i] = tournamentdomain.PlayerInput{
			Name: fmt.Sprintf("%s %d", gofakeit.LastName(), i),
			Seed: &seed,
		}
	}
	players, err := svc.AddPlayers(ctx, detail.Tournament.ID, inputs)
	require.NoError(t, err)
	require.Len(t, players, 8)

	d := &Draw{Tournament: detail.Tournament, Rounds: detail.Rounds, Players: players}
	for i := 0; i < 4; i++ {
		m, err := svc.AddMatch(ctx, d.Rounds[0].ID, players[i].ID, players[i+4].ID)
		require.NoError(t, err)
		d.Matches = append(d.Matches, *m)
	}
	return d
}

// PlayerIDs returns the ids of Players at the given positions.
func (d *Draw) PlayerIDs(idx ...int) []uuid.UUID {
	ids := make([]uuid.UUID, len(idx))
	for i, n := range idx {
		ids[i] = d.Players[n].ID
	}
	return ids
}

// SeedLeague creates a league on the draw's tournament and enrolls the creator and members.
func SeedLeague(t *testing.T, a *app.App, d *Draw, creator string, members ...string) *leaguedb.League {
	t.Helper()
	ctx := t.Context()

	league, err := a.League.Service.CreateLeague(ctx, leagueservice.CreateLeagueRequest{
		Name:         gofakeit.Company(),
		TournamentID: d.Tournament.ID,
		CreatorID:    creator,
	})
	require.NoError(t, err)
	for _, m := range members {
		_, err := a.League.Service.JoinLeague(ctx, m, league.ID)
		require.NoError(t, err)
	}
	return league
}

// Submit submits round-1 picks for userID.
func Submit(t *testing.T, a *app.App, d *Draw, leagueID uuid.UUID, userID string, idx ...int) {
	t.Helper()
	_, err := a.Pick.Service.SubmitPicks(t.Context(), pickservice.SubmitPicksRequest{
		UserID:    userID,
		LeagueID:  leagueID,
		RoundID:   d.Rounds[0].ID,
		PlayerIDs: d.PlayerIDs(idx...),
	})
	require.NoError(t, err)
}
