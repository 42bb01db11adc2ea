package league

import (
	"log/slog"

	leagueservice "github.com/Black-And-White-Club/survivor-pool/app/modules/league/application"
	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/survivor-pool/app/observability"
	"github.com/Black-And-White-Club/survivor-pool/pkg/clock"
	"github.com/uptrace/bun"
)

// Module represents the league module.
type Module struct {
	Service    *leagueservice.LeagueService
	Repository leaguedb.Repository
}

// NewLeagueModule creates the league service. Joining writes the member's zeroed standing.
func NewLeagueModule(
	logger *slog.Logger,
	metrics observability.Metrics,
	db *bun.DB,
	repo leaguedb.Repository,
	tournaments leagueservice.TournamentLookup,
	standings leagueservice.StandingsInitializer,
) *Module {
	service := leagueservice.NewLeagueService(
		repo,
		tournaments,
		standings,
		clock.RealClock{},
		logger,
		metrics,
		observability.Tracer("league"),
		db,
	)
	return &Module{Service: service, Repository: repo}
}
