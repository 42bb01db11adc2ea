// Package app composes the survivor pool modules into one process.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/survivor-pool/app/eventbus"
	"github.com/Black-And-White-Club/survivor-pool/app/modules/league"
	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/modules/pick"
	pickdb "github.com/Black-And-White-Club/survivor-pool/app/modules/pick/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/modules/scoring"
	scoringevents "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/domain/events"
	"github.com/Black-And-White-Club/survivor-pool/app/modules/tournament"
	tournamentservice "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/application"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/observability"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/Black-And-White-Club/survivor-pool/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const appName = "survivor-pool"

// Options selects the runtime parts NewApp builds.
type Options struct {
	// Serve builds the event router so Run can consume events.
	Serve bool
}

type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *bun.DB
	EventBus eventbus.EventBus
	Router   *message.Router
	Registry *prometheus.Registry

	Tournament *tournament.Module
	League     *league.Module
	Pick       *pick.Module
	Scoring    *scoring.Module
}

// OpenDB opens a bun handle on Postgres through pgdriver.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// NewApp connects to Postgres and, when configured, NATS, then builds every module.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	db := OpenDB(cfg.Postgres.DSN)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Registry: prometheus.NewRegistry(),
	}
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewPrometheusMetrics(a.Registry, "survivor")

	if err := a.connectEventBus(ctx, opts); err != nil {
		_ = db.Close()
		return nil, err
	}

	tournamentRepo := tournamentdb.NewRepository(db)
	leagueRepo := leaguedb.NewRepository(db)
	pickRepo := pickdb.NewRepository(db)

	scoringOpts := scoring.Options{
		Router:      a.Router,
		Registry:    a.Registry,
		EnableQueue: true,
	}
	if a.EventBus != nil {
		scoringOpts.Publisher = a.EventBus
		scoringOpts.Subscriber = a.EventBus
	}
	scoringModule, err := scoring.NewScoringModule(ctx, cfg, logger, metrics, db, tournamentRepo, leagueRepo, pickRepo, scoringOpts)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.Scoring = scoringModule

	var enqueuer tournamentservice.RecomputeEnqueuer
	if scoringModule.Queue != nil {
		enqueuer = scoringModule.Queue
	}
	a.Tournament, err = tournament.NewTournamentModule(ctx, cfg, logger, metrics, db, tournamentRepo, enqueuer)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.League = league.NewLeagueModule(logger, metrics, db, leagueRepo, tournamentRepo, scoringModule.Standings)
	a.Pick = pick.NewPickModule(logger, metrics, db, pickRepo, leagueRepo, tournamentRepo, scoringModule.Standings)

	logger.InfoContext(ctx, "Application initialized",
		attr.Bool("event_bus", a.EventBus != nil),
		attr.Bool("serve", opts.Serve),
		attr.Int("strikes_to_eliminate", cfg.Scoring.StrikesToEliminate),
	)
	return a, nil
}

func (a *App) connectEventBus(ctx context.Context, opts Options) error {
	if a.Config.NATS.URL == "" {
		a.Logger.WarnContext(ctx, "NATS_URL not set, events are disabled")
		return nil
	}

	bus, err := eventbus.NewEventBus(ctx, a.Config.NATS.URL, appName, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	if err := bus.EnsureStream(ctx, scoringevents.SurvivorStreamName, scoringevents.SurvivorStreamSubjects); err != nil {
		_ = bus.Close()
		return fmt.Errorf("failed to ensure stream: %w", err)
	}
	a.EventBus = bus

	if opts.Serve {
		router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(a.Logger))
		if err != nil {
			_ = bus.Close()
			return fmt.Errorf("failed to create message router: %w", err)
		}
		a.Router = router
	}
	return nil
}

// Run starts the event router, the scoring queue and the ops server, and blocks until ctx
// is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go a.Scoring.Run(ctx, &wg)

	if a.Router != nil {
		go func() {
			if err := a.Router.Run(ctx); err != nil {
				errCh <- fmt.Errorf("event router: %w", err)
			}
		}()
	}

	if addr := a.Config.Observability.MetricsAddress; addr != "" {
		handler := observability.NewOpsRouter(a.Registry, a.HealthChecks())
		go func() {
			if err := observability.ServeOps(ctx, addr, handler, a.Logger); err != nil {
				errCh <- fmt.Errorf("ops server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		a.Logger.Error("Component failed, shutting down", attr.Error(runErr))
		cancel()
	}
	wg.Wait()
	return runErr
}

// HealthChecks lists the dependency probes served on /healthz.
func (a *App) HealthChecks() map[string]observability.HealthCheck {
	checks := map[string]observability.HealthCheck{
		"postgres": a.DB.PingContext,
	}
	if a.EventBus != nil {
		checks["nats"] = a.EventBus.HealthCheck
	}
	if a.Scoring != nil && a.Scoring.Queue != nil {
		checks["queue"] = a.Scoring.Queue.HealthCheck
	}
	return checks
}

// Close releases every resource NewApp acquired.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Scoring != nil {
		errs = append(errs, a.Scoring.Close(ctx))
	}
	if a.Router != nil {
		errs = append(errs, a.Router.Close())
	}
	if a.EventBus != nil {
		errs = append(errs, a.EventBus.Close())
	}
	errs = append(errs, a.DB.Close())
	return errors.Join(errs...)
}
