package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	pickdb "github.com/Black-And-White-Club/survivor-pool/app/modules/pick/infrastructure/repositories"
	scoringservice "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/application"
	scoringhandlers "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/handlers"
	scoringqueue "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/queue"
	scoringdb "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/repositories"
	scoringrouter "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/router"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/observability"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/Black-And-White-Club/survivor-pool/config"
	"github.com/Black-And-White-Club/survivor-pool/pkg/clock"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
)

// Options selects the optional parts of the module.
type Options struct {
	// Publisher and Subscriber are nil when no event bus is configured.
	Publisher  scoringservice.Publisher
	Subscriber message.Subscriber
	Router     *message.Router
	Registry   prometheus.Registerer
	// EnableQueue starts River workers, including the periodic sweep.
	EnableQueue bool
}

// Module represents the scoring module.
type Module struct {
	Service    *scoringservice.ScoringService
	Standings  scoringdb.StandingsRepository
	Router     *scoringrouter.ScoringRouter
	Queue      *scoringqueue.Service
	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

// NewScoringModule creates a new instance of the scoring module.
func NewScoringModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	metrics observability.Metrics,
	db *bun.DB,
	tournaments tournamentdb.Repository,
	leagues leaguedb.Repository,
	picks pickdb.Repository,
	opts Options,
) (*Module, error) {
	logger.InfoContext(ctx, "scoring.NewScoringModule called")

	standings := scoringdb.NewStandingsRepo(db)
	service := scoringservice.NewScoringService(
		standings,
		tournaments,
		leagues,
		picks,
		opts.Publisher,
		cfg.Scoring.StrikesToEliminate,
		clock.RealClock{},
		logger,
		metrics,
		observability.Tracer("scoring"),
		db,
	)
	service.SetSweepRate(cfg.Scoring.SweepRate)

	m := &Module{
		Service:   service,
		Standings: standings,
		logger:    logger,
	}

	if opts.Router != nil && opts.Subscriber != nil {
		m.Router = scoringrouter.NewScoringRouter(logger, opts.Router, opts.Subscriber, opts.Registry)
		if err := m.Router.Configure(ctx, scoringhandlers.NewScoringHandlers(service, logger)); err != nil {
			return nil, fmt.Errorf("failed to configure scoring router: %w", err)
		}
	}

	if opts.EnableQueue {
		queue, err := scoringqueue.NewService(ctx, db, logger, cfg.Postgres.DSN, metrics, service, scoringqueue.Options{
			SweepInterval: cfg.Scoring.SweepInterval,
			SweepEnabled:  cfg.Scoring.SweepEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create scoring queue: %w", err)
		}
		m.Queue = queue
	}

	return m, nil
}

// Run starts the queue and blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if m.Queue != nil {
		if err := m.Queue.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Scoring queue failed to start", attr.Error(err))
			return
		}
	}

	<-ctx.Done()
	m.logger.Info("Scoring module goroutine stopped")
}

// Close stops the queue and cancels the module goroutine.
func (m *Module) Close(ctx context.Context) error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	if m.Queue != nil {
		if err := m.Queue.Stop(ctx); err != nil {
			return err
		}
	}
	m.logger.Info("Scoring module stopped")
	return nil
}
