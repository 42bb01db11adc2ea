package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tournamentservice "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/application"
	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	"github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/parsers"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/roundtime"
	"github.com/Black-And-White-Club/survivor-pool/app/observability"
	"github.com/Black-And-White-Club/survivor-pool/config"
	"github.com/Black-And-White-Club/survivor-pool/pkg/clock"
	"github.com/uptrace/bun"
)

// Module represents the tournament module.
type Module struct {
	Service    *tournamentservice.TournamentService
	Repository tournamentdb.Repository
}

// NewTournamentModule creates the tournament store and service. enqueuer may be nil.
func NewTournamentModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	metrics observability.Metrics,
	db *bun.DB,
	repo tournamentdb.Repository,
	enqueuer tournamentservice.RecomputeEnqueuer,
) (*Module, error) {
	logger.InfoContext(ctx, "tournament.NewTournamentModule called")

	presets, err := tournamentdomain.LoadPresets(cfg.Tournament.PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load level presets: %w", err)
	}

	service := tournamentservice.NewTournamentService(
		repo,
		presets,
		parsers.NewFactory(),
		roundtime.NewParser(time.UTC),
		enqueuer,
		clock.RealClock{},
		logger,
		metrics,
		observability.Tracer("tournament"),
		db,
	)
	return &Module{Service: service, Repository: repo}, nil
}
