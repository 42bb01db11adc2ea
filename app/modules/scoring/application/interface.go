package scoringservice

import (
	"context"
	"time"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	pickdb "github.com/Black-And-White-Club/survivor-pool/app/modules/pick/infrastructure/repositories"
	scoringdb "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/repositories"
	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service scores picks, records match results and serves standings.
type Service interface {
	// RecomputeScoring rebuilds every standing of the tournament from picks and resolved matches.
	RecomputeScoring(ctx context.Context, tournamentID uuid.UUID) (*RecomputeSummary, error)
	// RecordResult stores a match result and recomputes before returning.
	RecordResult(ctx context.Context, req RecordResultRequest) (*ResultSummary, error)
	// CorrectResult overwrites the result of a resolved match and rescores.
	CorrectResult(ctx context.Context, req RecordResultRequest) (*ResultSummary, error)
	GetStandings(ctx context.Context, leagueID uuid.UUID) ([]scoringdb.Standing, error)
	// SweepActiveTournaments recomputes every ACTIVE tournament independently.
	SweepActiveTournaments(ctx context.Context) (*SweepSummary, error)
	RenderStandingsChart(ctx context.Context, leagueID uuid.UUID) ([]byte, error)
}

// RecordResultRequest is a match outcome entered by an administrator.
type RecordResultRequest struct {
	MatchID         uuid.UUID
	WinnerID        uuid.UUID
	IsWalkover      bool
	RetiredPlayerID *uuid.UUID
}

// LeagueSummary describes the standings written for one league.
type LeagueSummary struct {
	LeagueID   uuid.UUID
	Members    int
	Eliminated int
}

// RecomputeSummary describes one completed recompute.
type RecomputeSummary struct {
	TournamentID     uuid.UUID
	Threshold        int
	FinalRoundNumber int
	ResolvedMatches  int
	Leagues          []LeagueSummary
	ComputedAt       time.Time
}

// ResultSummary is the stored match and the recompute it triggered.
type ResultSummary struct {
	Match     *tournamentdb.Match
	Recompute *RecomputeSummary
	Corrected bool
}

// SweepSummary reports a sweep over active tournaments.
type SweepSummary struct {
	Recomputed int
	Failed     []uuid.UUID
}

// TournamentStore is the slice of the tournament store scoring depends on.
type TournamentStore interface {
	GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Tournament, error)
	ListTournaments(ctx context.Context, db bun.IDB, status *tournamentdomain.Status) ([]tournamentdb.Tournament, error)
	ListRounds(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamentdb.Round, error)
	ListMatches(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, resolved bool) ([]tournamentdb.Match, error)
	GetMatchForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Match, error)
	UpdateMatchResult(ctx context.Context, db bun.IDB, match *tournamentdb.Match) error
}

// MembershipStore is the slice of the league store scoring depends on.
type MembershipStore interface {
	GetLeague(ctx context.Context, db bun.IDB, id uuid.UUID) (*leaguedb.League, error)
	ListMembershipsByTournament(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]leaguedb.Membership, error)
}

// PickStore reads the picks scored by a recompute.
type PickStore interface {
	GetPicksByLeagues(ctx context.Context, db bun.IDB, leagueIDs []uuid.UUID) ([]pickdb.Pick, error)
}

// Publisher sends events after a transaction commits.
type Publisher interface {
	Publish(topic string, messages ...*message.Message) error
}
