package scoringqueue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	scoringservice "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/application"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

const (
	recomputeTimeout = 2 * time.Minute
	sweepTimeout     = 10 * time.Minute
)

// Scorer is the part of the scoring service the workers drive.
type Scorer interface {
	RecomputeScoring(ctx context.Context, tournamentID uuid.UUID) (*scoringservice.RecomputeSummary, error)
	SweepActiveTournaments(ctx context.Context) (*scoringservice.SweepSummary, error)
}

// RecomputeWorker runs on-demand recomputes.
type RecomputeWorker struct {
	river.WorkerDefaults[RecomputeJob]
	scorer Scorer
	logger *slog.Logger
}

func NewRecomputeWorker(logger *slog.Logger, scorer Scorer) *RecomputeWorker {
	return &RecomputeWorker{scorer: scorer, logger: logger}
}

func (w *RecomputeWorker) Timeout(*river.Job[RecomputeJob]) time.Duration { return recomputeTimeout }

func (w *RecomputeWorker) Work(ctx context.Context, job *river.Job[RecomputeJob]) error {
	logger := w.logger.With(
		attr.Int64("job_id", job.ID),
		attr.UUID("tournament_id", job.Args.TournamentID),
		attr.String("reason", job.Args.Reason),
	)

	summary, err := w.scorer.RecomputeScoring(ctx, job.Args.TournamentID)
	if err != nil {
		// A missing tournament is permanent.
		if errors.Is(err, scoringservice.ErrTournamentNotFound) {
			logger.WarnContext(ctx, "Recompute job cancelled", attr.Error(err))
			return river.JobCancel(err)
		}
		logger.ErrorContext(ctx, "Recompute job failed",
			attr.Int("attempt", job.Attempt),
			attr.Error(err),
		)
		return err
	}

	logger.InfoContext(ctx, "Recompute job finished",
		attr.Int("leagues", len(summary.Leagues)),
		attr.Int("resolved_matches", summary.ResolvedMatches),
	)
	return nil
}

// SweepWorker runs the periodic sweep.
type SweepWorker struct {
	river.WorkerDefaults[SweepJob]
	scorer Scorer
	logger *slog.Logger
}

func NewSweepWorker(logger *slog.Logger, scorer Scorer) *SweepWorker {
	return &SweepWorker{scorer: scorer, logger: logger}
}

func (w *SweepWorker) Timeout(*river.Job[SweepJob]) time.Duration { return sweepTimeout }

// Work never fails on a single tournament: those failures are reported by the sweep
// and picked up again by the next run.
func (w *SweepWorker) Work(ctx context.Context, job *river.Job[SweepJob]) error {
	summary, err := w.scorer.SweepActiveTournaments(ctx)
	if err != nil {
		return err
	}
	if len(summary.Failed) > 0 {
		w.logger.WarnContext(ctx, "Sweep finished with failures",
			attr.Int64("job_id", job.ID),
			attr.Int("recomputed", summary.Recomputed),
			attr.Any("failed", summary.Failed),
		)
	}
	return nil
}
