package pick

import (
	"log/slog"

	pickservice "github.com/Black-And-White-Club/survivor-pool/app/modules/pick/application"
	pickdb "github.com/Black-And-White-Club/survivor-pool/app/modules/pick/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/observability"
	"github.com/Black-And-White-Club/survivor-pool/pkg/clock"
	"github.com/uptrace/bun"
)

// Module represents the pick module.
type Module struct {
	Service    *pickservice.PickService
	Repository pickdb.Repository
}

// NewPickModule creates the pick submission service.
func NewPickModule(
	logger *slog.Logger,
	metrics observability.Metrics,
	db *bun.DB,
	repo pickdb.Repository,
	leagues pickservice.LeagueLookup,
	draw pickservice.DrawLookup,
	standings pickservice.StandingLookup,
) *Module {
	service := pickservice.NewPickService(
		repo,
		leagues,
		draw,
		standings,
		clock.RealClock{},
		logger,
		metrics,
		observability.Tracer("pick"),
		db,
	)
	return &Module{Service: service, Repository: repo}
}
