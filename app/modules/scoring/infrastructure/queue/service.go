package scoringqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
	"github.com/uptrace/bun"
)

const component = "river"

// Metrics is the subset of observability.Metrics the queue reports to.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// QueueService schedules scoring work on River.
type QueueService interface {
	// EnqueueRecompute queues a recompute unless one for the tournament is already pending.
	EnqueueRecompute(ctx context.Context, tournamentID uuid.UUID, reason string) error
	// ListJobs returns queued and running scoring jobs, oldest first.
	ListJobs(ctx context.Context) ([]JobInfo, error)
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Options controls the periodic sweep.
type Options struct {
	SweepInterval time.Duration
	SweepEnabled  bool
}

// uniqueStates excludes completed jobs so a later request queues a fresh recompute.
var uniqueStates = []rivertype.JobState{
	rivertype.JobStateAvailable,
	rivertype.JobStatePending,
	rivertype.JobStateRetryable,
	rivertype.JobStateRunning,
	rivertype.JobStateScheduled,
}

// Service handles scoring jobs using River
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics Metrics
}

// NewService creates a River client on its own pgx pool with the scoring workers registered.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, metrics Metrics, scorer Scorer, opts Options) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_scoring_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", component)

	// River requires pgx, not database/sql
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	riverClient, err := river.NewClient(riverpgxv5.New(pool), newConfig(ctxLogger, scorer, opts))
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", component)
	metrics.RecordOperationDuration(ctx, "initialize_service", component, time.Since(start))

	ctxLogger.Info("Scoring queue service initialized",
		attr.Bool("sweep_enabled", opts.SweepEnabled),
		attr.Duration("sweep_interval", opts.SweepInterval),
	)
	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
	}, nil
}

func newConfig(logger *slog.Logger, scorer Scorer, opts Options) *river.Config {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewRecomputeWorker(logger, scorer))
	river.AddWorker(workers, NewSweepWorker(logger, scorer))

	return &river.Config{
		Logger: logger,
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 5},
			QueueScoring:       {MaxWorkers: 4},
		},
		Workers:      workers,
		PeriodicJobs: periodicJobs(opts),
	}
}

func periodicJobs(opts Options) []*river.PeriodicJob {
	if !opts.SweepEnabled || opts.SweepInterval <= 0 {
		return nil
	}
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(opts.SweepInterval),
			func() (river.JobArgs, *river.InsertOpts) {
				return SweepJob{}, &river.InsertOpts{Queue: QueueScoring}
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	}
}

func recomputeInsertOpts() *river.InsertOpts {
	return &river.InsertOpts{
		Queue: QueueScoring,
		UniqueOpts: river.UniqueOpts{
			ByArgs:  true,
			ByState: uniqueStates,
		},
	}
}

// Start starts the River client
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", component)

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", component)
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", component)
	s.metrics.RecordOperationDuration(ctx, "start_service", component, time.Since(start))
	s.logger.Info("Scoring queue service started")
	return nil
}

// Stop waits for running jobs, then closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", component)
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", component)
		return fmt.Errorf("failed to stop River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "stop_service", component)
	s.metrics.RecordOperationDuration(ctx, "stop_service", component, time.Since(start))
	s.logger.Info("Scoring queue service stopped")
	return nil
}

func (s *Service) EnqueueRecompute(ctx context.Context, tournamentID uuid.UUID, reason string) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_recompute", component)

	res, err := s.client.Insert(ctx, RecomputeJob{TournamentID: tournamentID, Reason: reason}, recomputeInsertOpts())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to enqueue recompute",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("tournament_id", tournamentID),
			attr.Error(err),
		)
		s.metrics.RecordOperationFailure(ctx, "enqueue_recompute", component)
		return fmt.Errorf("failed to enqueue recompute: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_recompute", component)
	s.metrics.RecordOperationDuration(ctx, "enqueue_recompute", component, time.Since(start))
	s.logger.InfoContext(ctx, "Recompute enqueued",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("tournament_id", tournamentID),
		attr.String("reason", reason),
		attr.Int64("job_id", res.Job.ID),
		attr.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

func (s *Service) ListJobs(ctx context.Context) ([]JobInfo, error) {
	type riverJobRow struct {
		ID          int64          `bun:"id"`
		Kind        string         `bun:"kind"`
		State       string         `bun:"state"`
		Args        map[string]any `bun:"args,type:jsonb"`
		ScheduledAt *time.Time     `bun:"scheduled_at"`
		Attempt     int16          `bun:"attempt"`
		MaxAttempts int16          `bun:"max_attempts"`
	}

	var rows []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "args", "scheduled_at", "attempt", "max_attempts").
		Where("kind IN (?)", bun.In([]string{KindRecompute, KindSweep})).
		Where("state NOT IN (?)", bun.In([]string{string(rivertype.JobStateCompleted), string(rivertype.JobStateCancelled), string(rivertype.JobStateDiscarded)})).
		Order("scheduled_at ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query scoring jobs: %w", err)
	}

	out := make([]JobInfo, len(rows))
	for i, r := range rows {
		info := JobInfo{
			ID:          r.ID,
			Kind:        r.Kind,
			State:       r.State,
			Attempt:     int(r.Attempt),
			MaxAttempts: int(r.MaxAttempts),
		}
		if r.ScheduledAt != nil {
			info.ScheduledAt = r.ScheduledAt.Format(time.RFC3339)
		}
		if id, ok := r.Args["tournament_id"].(string); ok {
			info.TournamentID = id
		}
		out[i] = info
	}
	return out, nil
}

// HealthCheck verifies the queue service is healthy
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	if err := s.pool.Ping(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "health_check", component)
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
