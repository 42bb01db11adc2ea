package scoringhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/survivor-pool/app/eventbus"
	scoringservice "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/application"
	scoringevents "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/domain/events"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeRecomputer struct {
	calls []uuid.UUID
	err   error
}

func (f *FakeRecomputer) RecomputeScoring(ctx context.Context, tournamentID uuid.UUID) (*scoringservice.RecomputeSummary, error) {
	f.calls = append(f.calls, tournamentID)
	if f.err != nil {
		return nil, f.err
	}
	return &scoringservice.RecomputeSummary{TournamentID: tournamentID}, nil
}

func TestHandleRecomputeRequested(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "recomputes"},
		{name: "unknown tournament is acknowledged", err: fmt.Errorf("RecomputeScoring: %w", scoringservice.ErrTournamentNotFound)},
		{name: "infrastructure failure is returned", err: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &FakeRecomputer{err: tt.err}
			h := NewScoringHandlers(fake, slog.Default())
			tid := uuid.New()

			err := h.HandleRecomputeRequested(context.Background(), &scoringevents.RecomputeRequestedPayloadV1{TournamentID: tid})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "connection refused")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, []uuid.UUID{tid}, fake.calls)
		})
	}
}

func TestWrapTyped(t *testing.T) {
	t.Run("decodes and forwards", func(t *testing.T) {
		tid := uuid.New()
		var got *scoringevents.RecomputeRequestedPayloadV1
		fn := WrapTyped("scoring.test", slog.Default(), func(_ context.Context, p *scoringevents.RecomputeRequestedPayloadV1) error {
			got = p
			return nil
		})

		msg, err := eventbus.NewMessage(context.Background(), scoringevents.RecomputeRequestedPayloadV1{TournamentID: tid, Reason: "manual"})
		require.NoError(t, err)
		require.NoError(t, fn(msg))
		require.NotNil(t, got)
		assert.Equal(t, tid, got.TournamentID)
		assert.Equal(t, "manual", got.Reason)
	})

	t.Run("drops undecodable payloads", func(t *testing.T) {
		called := false
		fn := WrapTyped("scoring.test", slog.Default(), func(context.Context, *scoringevents.RecomputeRequestedPayloadV1) error {
			called = true
			return nil
		})

		assert.NoError(t, fn(message.NewMessage("1", []byte("{not json"))))
		assert.False(t, called)
	})

	t.Run("prefixes handler errors", func(t *testing.T) {
		fn := WrapTyped("scoring.test", slog.Default(), func(context.Context, *scoringevents.RecomputeRequestedPayloadV1) error {
			return errors.New("boom")
		})

		err := fn(message.NewMessage("1", []byte(`{}`)))
		require.Error(t, err)
		assert.Equal(t, "scoring.test: boom", err.Error())
	})
}
