package scoringrouter

import (
	"context"
	"log/slog"
	"time"

	scoringevents "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/domain/events"
	scoringhandlers "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/handlers"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const handlerPrefix = "scoring."

// Router wires scoring handlers onto a Watermill router.
type Router interface {
	Configure(ctx context.Context, handlers scoringhandlers.Handlers) error
	Close() error
}

type ScoringRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	metricsBuilder *metrics.PrometheusMetricsBuilder
	retry          middleware.Retry
}

var _ Router = (*ScoringRouter)(nil)

// NewScoringRouter creates a new instance of the router. A nil registry disables router metrics.
func NewScoringRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	registry prometheus.Registerer,
) *ScoringRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(registry, "survivor", "scoring")
		metricsBuilder = &builder
	}

	return &ScoringRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		metricsBuilder: metricsBuilder,
		retry: middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2,
			Logger:          watermill.NewSlogLogger(logger),
		},
	}
}

// Configure sets up the middlewares and registers the scoring handlers.
func (r *ScoringRouter) Configure(ctx context.Context, handlers scoringhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for Scoring")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		correlationContext,
		r.retry.Middleware,
		middleware.Recoverer,
	)

	return r.RegisterHandlers(ctx, handlers)
}

// RegisterHandlers binds event topics to their handlers.
func (r *ScoringRouter) RegisterHandlers(ctx context.Context, handlers scoringhandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Scoring Event Handlers")

	addConsumer(r, scoringevents.RecomputeRequestedV1, handlers.HandleRecomputeRequested)
	return nil
}

func addConsumer[T any](r *ScoringRouter, topic string, handler func(context.Context, *T) error) {
	name := handlerPrefix + topic
	r.Router.AddNoPublisherHandler(
		name,
		topic,
		r.subscriber,
		scoringhandlers.WrapTyped(name, r.logger, handler),
	)
}

// correlationContext copies the message correlation id into the handler context for logging.
func correlationContext(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		if id := middleware.MessageCorrelationID(msg); id != "" {
			msg.SetContext(attr.WithCorrelationID(msg.Context(), id))
		}
		return h(msg)
	}
}

// Close stops the router and cleans up resources.
func (r *ScoringRouter) Close() error {
	return r.Router.Close()
}
