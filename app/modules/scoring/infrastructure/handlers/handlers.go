package scoringhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/survivor-pool/app/eventbus"
	scoringservice "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/application"
	scoringevents "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/domain/events"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Handlers consumes scoring events.
type Handlers interface {
	HandleRecomputeRequested(ctx context.Context, payload *scoringevents.RecomputeRequestedPayloadV1) error
}

// Recomputer is the part of the scoring service the handlers call.
type Recomputer interface {
	RecomputeScoring(ctx context.Context, tournamentID uuid.UUID) (*scoringservice.RecomputeSummary, error)
}

// ScoringHandlers handles scoring-related events.
type ScoringHandlers struct {
	scoring Recomputer
	logger  *slog.Logger
}

// NewScoringHandlers creates a new instance of ScoringHandlers.
func NewScoringHandlers(scoring Recomputer, logger *slog.Logger) *ScoringHandlers {
	return &ScoringHandlers{scoring: scoring, logger: logger}
}

var _ Handlers = (*ScoringHandlers)(nil)

// HandleRecomputeRequested rebuilds the requested tournament's standings.
// An unknown tournament is acknowledged; any other failure is returned for redelivery.
func (h *ScoringHandlers) HandleRecomputeRequested(ctx context.Context, payload *scoringevents.RecomputeRequestedPayloadV1) error {
	h.logger.InfoContext(ctx, "Received RecomputeRequested event",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("tournament_id", payload.TournamentID),
		attr.String("reason", payload.Reason),
	)

	if _, err := h.scoring.RecomputeScoring(ctx, payload.TournamentID); err != nil {
		if errors.Is(err, scoringservice.ErrTournamentNotFound) {
			h.logger.WarnContext(ctx, "Recompute requested for unknown tournament",
				attr.ExtractCorrelationID(ctx),
				attr.UUID("tournament_id", payload.TournamentID),
			)
			return nil
		}
		return fmt.Errorf("failed to recompute standings: %w", err)
	}
	return nil
}

// WrapTyped adapts a typed handler to a Watermill consumer. Undecodable payloads are logged and dropped.
func WrapTyped[T any](name string, logger *slog.Logger, handler func(context.Context, *T) error) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx := msg.Context()
		payload, err := eventbus.Decode[T](msg)
		if err != nil {
			logger.ErrorContext(ctx, "Dropping undecodable message",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", name),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			return nil
		}
		if err := handler(ctx, payload); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}
