//go:build integration

package scoringintegrationtests

import (
	"testing"
	"time"

	"github.com/Black-And-White-Club/survivor-pool/app"
	"github.com/Black-And-White-Club/survivor-pool/app/eventbus"
	scoringservice "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/application"
	scoringevents "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/domain/events"
	"github.com/Black-And-White-Club/survivor-pool/integration_tests/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranks(t *testing.T, a *app.App, leagueID uuid.UUID) map[string]int {
	t.Helper()
	rows, err := a.Scoring.Service.GetStandings(t.Context(), leagueID)
	require.NoError(t, err)
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		require.NotNil(t, r.Rank, "user %s has no rank", r.UserID)
		out[r.UserID] = *r.Rank
	}
	return out
}

func TestRecordResult_RecomputesStandings(t *testing.T) {
	reset(t)
	a := testEnv.NewApp(t, app.Options{})
	ctx := t.Context()

	d := testutils.SeedDraw(t, a)
	league := testutils.SeedLeague(t, a, d, "alice", "bob", "carol")

	testutils.Submit(t, a, d, league.ID, "alice", 0, 1)
	testutils.Submit(t, a, d, league.ID, "bob", 4, 5)
	testutils.Submit(t, a, d, league.ID, "carol", 0, 5)

	for i, m := range d.Matches {
		_, err := a.Scoring.Service.RecordResult(ctx, scoringservice.RecordResultRequest{
			MatchID:  m.ID,
			WinnerID: d.Players[i].ID,
		})
		require.NoError(t, err)
	}

	rows, err := a.Scoring.Service.GetStandings(ctx, league.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byUser := map[string]struct {
		strikes, correct int
		eliminated       bool
	}{}
	for _, r := range rows {
		byUser[r.UserID] = struct {
			strikes, correct int
			eliminated       bool
		}{r.Strikes, r.CorrectPicks, r.Eliminated}
	}
	assert.Equal(t, 0, byUser["alice"].strikes)
	assert.Equal(t, 2, byUser["alice"].correct)
	assert.Equal(t, 1, byUser["carol"].strikes)
	assert.False(t, byUser["carol"].eliminated)
	assert.Equal(t, 2, byUser["bob"].strikes)
	assert.True(t, byUser["bob"].eliminated)

	assert.Equal(t, map[string]int{"alice": 1, "carol": 2, "bob": 3}, ranks(t, a, league.ID))
}

func TestRecordResult_RejectsSecondResult(t *testing.T) {
	reset(t)
	a := testEnv.NewApp(t, app.Options{})
	ctx := t.Context()

	d := testutils.SeedDraw(t, a)
	m := d.Matches[0]

	_, err := a.Scoring.Service.RecordResult(ctx, scoringservice.RecordResultRequest{MatchID: m.ID, WinnerID: m.Player1ID})
	require.NoError(t, err)

	_, err = a.Scoring.Service.RecordResult(ctx, scoringservice.RecordResultRequest{MatchID: m.ID, WinnerID: m.Player2ID})
	require.ErrorIs(t, err, scoringservice.ErrAlreadyResolved)

	summary, err := a.Scoring.Service.CorrectResult(ctx, scoringservice.RecordResultRequest{MatchID: m.ID, WinnerID: m.Player2ID})
	require.NoError(t, err)
	assert.True(t, summary.Corrected)
	require.NotNil(t, summary.Match.WinnerID)
	assert.Equal(t, m.Player2ID, *summary.Match.WinnerID)
}

func TestRecomputeScoring_Idempotent(t *testing.T) {
	reset(t)
	a := testEnv.NewApp(t, app.Options{})
	ctx := t.Context()

	d := testutils.SeedDraw(t, a)
	league := testutils.SeedLeague(t, a, d, "alice", "bob")
	testutils.Submit(t, a, d, league.ID, "alice", 0, 1)
	testutils.Submit(t, a, d, league.ID, "bob", 4, 1)

	_, err := a.Scoring.Service.RecordResult(ctx, scoringservice.RecordResultRequest{MatchID: d.Matches[0].ID, WinnerID: d.Players[0].ID})
	require.NoError(t, err)

	first, err := a.Scoring.Service.GetStandings(ctx, league.ID)
	require.NoError(t, err)

	_, err = a.Scoring.Service.RecomputeScoring(ctx, d.Tournament.ID)
	require.NoError(t, err)
	second, err := a.Scoring.Service.GetStandings(ctx, league.ID)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].UserID, second[i].UserID)
		assert.Equal(t, first[i].Strikes, second[i].Strikes)
		assert.Equal(t, first[i].CorrectPicks, second[i].CorrectPicks)
		assert.Equal(t, first[i].Rank, second[i].Rank)
	}
}

func TestRecordResult_PublishesStandingsUpdated(t *testing.T) {
	reset(t)
	a := testEnv.NewApp(t, app.Options{})
	require.NotNil(t, a.EventBus)
	ctx := t.Context()

	msgs, err := a.EventBus.Subscribe(ctx, scoringevents.StandingsUpdatedV1)
	require.NoError(t, err)

	d := testutils.SeedDraw(t, a)
	league := testutils.SeedLeague(t, a, d, "alice")
	testutils.Submit(t, a, d, league.ID, "alice", 0, 1)

	_, err = a.Scoring.Service.RecordResult(ctx, scoringservice.RecordResultRequest{MatchID: d.Matches[0].ID, WinnerID: d.Players[0].ID})
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		msg.Ack()
		payload, err := eventbus.Decode[scoringevents.StandingsUpdatedPayloadV1](msg)
		require.NoError(t, err)
		assert.Equal(t, d.Tournament.ID, payload.TournamentID)
		assert.Equal(t, league.ID, payload.LeagueID)
		assert.Equal(t, 1, payload.Members)
	case <-time.After(10 * time.Second):
		t.Fatal("standings update was not published")
	}
}

func TestRecomputeRequested_ConsumedByRouter(t *testing.T) {
	reset(t)
	a := testEnv.NewApp(t, app.Options{Serve: true})
	ctx := t.Context()

	d := testutils.SeedDraw(t, a)
	league := testutils.SeedLeague(t, a, d, "alice", "bob")
	testutils.Submit(t, a, d, league.ID, "alice", 0, 1)
	testutils.Submit(t, a, d, league.ID, "bob", 4, 5)

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	t.Cleanup(func() {
		if a.Router != nil {
			_ = a.Router.Close()
		}
	})

	select {
	case <-a.Router.Running():
	case <-time.After(10 * time.Second):
		t.Fatal("router did not start")
	}

	// Store a result without the service so only the consumed request can rank it.
	m := d.Matches[0]
	_, err := a.DB.NewUpdate().
		TableExpr("matches").
		Set("winner_id = ?", m.Player1ID).
		Set("result_entered_at = now()").
		Where("id = ?", m.ID).
		Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, eventbus.PublishJSON(ctx, a.EventBus, scoringevents.RecomputeRequestedV1,
		&scoringevents.RecomputeRequestedPayloadV1{TournamentID: d.Tournament.ID}))

	require.Eventually(t, func() bool {
		rows, err := a.Scoring.Service.GetStandings(ctx, league.ID)
		if err != nil || len(rows) != 2 {
			return false
		}
		return rows[0].UserID == "alice" && rows[0].Rank != nil && *rows[0].Rank == 1 && rows[1].Strikes == 1
	}, 15*time.Second, 200*time.Millisecond)
}

func TestEnqueueRecompute_RunsOnQueue(t *testing.T) {
	reset(t)
	a := testEnv.NewApp(t, app.Options{})
	require.NotNil(t, a.Scoring.Queue)
	ctx := t.Context()

	d := testutils.SeedDraw(t, a)
	league := testutils.SeedLeague(t, a, d, "alice", "bob")
	testutils.Submit(t, a, d, league.ID, "alice", 0, 1)
	testutils.Submit(t, a, d, league.ID, "bob", 4, 1)

	m := d.Matches[0]
	_, err := a.DB.NewUpdate().
		TableExpr("matches").
		Set("winner_id = ?", m.Player1ID).
		Set("result_entered_at = now()").
		Where("id = ?", m.ID).
		Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, a.Scoring.Queue.Start(ctx))

	require.NoError(t, a.Scoring.Queue.EnqueueRecompute(ctx, d.Tournament.ID, "integration"))

	require.Eventually(t, func() bool {
		rows, err := a.Scoring.Service.GetStandings(ctx, league.ID)
		if err != nil || len(rows) != 2 || rows[0].Rank == nil {
			return false
		}
		return rows[0].UserID == "alice" && *rows[0].Rank == 1 && rows[1].Strikes == 1
	}, 15*time.Second, 200*time.Millisecond)
}
