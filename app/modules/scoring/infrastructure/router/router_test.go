package scoringrouter

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/survivor-pool/app/eventbus"
	scoringevents "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/domain/events"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	tournamentID  uuid.UUID
	correlationID string
}

type FakeHandlers struct {
	mu    sync.Mutex
	calls []call
	// failures is the number of leading calls that fail.
	failures int
	done     chan struct{}
}

func (f *FakeHandlers) HandleRecomputeRequested(ctx context.Context, payload *scoringevents.RecomputeRequestedPayloadV1) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{tournamentID: payload.TournamentID, correlationID: attr.CorrelationID(ctx)})
	if len(f.calls) <= f.failures {
		return errors.New("transient")
	}
	close(f.done)
	return nil
}

func (f *FakeHandlers) snapshot() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func startRouter(t *testing.T, handlers *FakeHandlers, registry prometheus.Registerer) *gochannel.GoChannel {
	t.Helper()
	logger := slog.Default()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	r := NewScoringRouter(logger, router, pubSub, registry)
	r.retry.InitialInterval = time.Millisecond
	r.retry.MaxInterval = time.Millisecond
	require.NoError(t, r.Configure(context.Background(), handlers))

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = router.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = r.Close()
	})

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
	return pubSub
}

func TestScoringRouter_DeliversRecomputeRequests(t *testing.T) {
	handlers := &FakeHandlers{done: make(chan struct{})}
	pubSub := startRouter(t, handlers, prometheus.NewRegistry())
	tid := uuid.New()

	ctx := attr.WithCorrelationID(context.Background(), "corr-123")
	require.NoError(t, eventbus.PublishJSON(ctx, pubSub, scoringevents.RecomputeRequestedV1,
		scoringevents.RecomputeRequestedPayloadV1{TournamentID: tid, Reason: "manual"}))

	select {
	case <-handlers.done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
	assert.Equal(t, []call{{tournamentID: tid, correlationID: "corr-123"}}, handlers.snapshot())
}

func TestScoringRouter_RetriesFailures(t *testing.T) {
	handlers := &FakeHandlers{failures: 2, done: make(chan struct{})}
	pubSub := startRouter(t, handlers, nil)
	tid := uuid.New()

	require.NoError(t, eventbus.PublishJSON(context.Background(), pubSub, scoringevents.RecomputeRequestedV1,
		scoringevents.RecomputeRequestedPayloadV1{TournamentID: tid}))

	select {
	case <-handlers.done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler did not succeed after retries")
	}
	assert.Len(t, handlers.snapshot(), 3)
}
