package scoringservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	scoringdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/domain"
	scoringdb "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/observability"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/Black-And-White-Club/survivor-pool/pkg/clock"
	"github.com/Black-And-White-Club/survivor-pool/pkg/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const serviceName = "ScoringService"

var errRollback = errors.New("rollback on failure result")

// ScoringService implements the Service interface.
type ScoringService struct {
	standings   scoringdb.StandingsRepository
	tournaments TournamentStore
	leagues     MembershipStore
	picks       PickStore
	publisher   Publisher
	// strikesToEliminate applies to tournaments without their own threshold.
	strikesToEliminate int
	// sweepLimiter paces sweep recomputes; nil sweeps at full speed.
	sweepLimiter *rate.Limiter
	clock        clock.Clock
	logger       *slog.Logger
	metrics      observability.Metrics
	tracer       trace.Tracer
	db           *bun.DB
}

// NewScoringService creates a new ScoringService. A nil publisher disables events.
func NewScoringService(
	standings scoringdb.StandingsRepository,
	tournaments TournamentStore,
	leagues MembershipStore,
	picks PickStore,
	publisher Publisher,
	strikesToEliminate int,
	clk clock.Clock,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ScoringService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	if strikesToEliminate < 1 {
		strikesToEliminate = scoringdomain.DefaultStrikesToEliminate
	}
	return &ScoringService{
		standings:          standings,
		tournaments:        tournaments,
		leagues:            leagues,
		picks:              picks,
		publisher:          publisher,
		strikesToEliminate: strikesToEliminate,
		clock:              clk,
		logger:             logger,
		metrics:            metrics,
		tracer:             tracer,
		db:                 db,
	}
}

// SetSweepRate limits sweeps to perSecond tournament recomputes per second.
// Zero or less removes the limit.
func (s *ScoringService) SetSweepRate(perSecond float64) {
	if perSecond <= 0 {
		s.sweepLimiter = nil
		return
	}
	s.sweepLimiter = rate.NewLimiter(rate.Limit(perSecond), 1)
}

func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	return *result.Success, nil
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ScoringService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction. Failure results roll back.
func runInTx[S any, F any](
	s *ScoringService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr != nil {
			return txErr
		}
		if result.IsFailure() {
			return errRollback
		}
		return nil
	})
	if errors.Is(err, errRollback) {
		return result, nil
	}

	return result, err
}
