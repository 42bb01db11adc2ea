package scoringservice

import (
	"context"

	"github.com/Black-And-White-Club/survivor-pool/app/eventbus"
	scoringevents "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/domain/events"
	"github.com/Black-And-White-Club/survivor-pool/app/observability/attr"
)

// Events are published after commit. A failed publish is logged and never undoes the write.

func (s *ScoringService) publishStandingsUpdated(ctx context.Context, summary *RecomputeSummary) {
	if s.publisher == nil || summary == nil {
		return
	}
	for _, league := range summary.Leagues {
		s.publish(ctx, scoringevents.StandingsUpdatedV1, &scoringevents.StandingsUpdatedPayloadV1{
			TournamentID: summary.TournamentID,
			LeagueID:     league.LeagueID,
			Members:      league.Members,
			Eliminated:   league.Eliminated,
			UpdatedAt:    summary.ComputedAt,
		})
	}
}

func (s *ScoringService) publishResultRecorded(ctx context.Context, summary *ResultSummary) {
	if s.publisher == nil || summary == nil || summary.Match == nil {
		return
	}
	m := summary.Match
	s.publish(ctx, scoringevents.MatchResultRecordedV1, &scoringevents.MatchResultRecordedPayloadV1{
		MatchID:         m.ID,
		TournamentID:    m.TournamentID,
		RoundNumber:     m.RoundNumber,
		WinnerID:        *m.WinnerID,
		IsWalkover:      m.IsWalkover,
		RetiredPlayerID: m.RetiredPlayerID,
		Corrected:       summary.Corrected,
	})
}

func (s *ScoringService) publish(ctx context.Context, topic string, payload any) {
	if err := eventbus.PublishJSON(ctx, s.publisher, topic, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}
