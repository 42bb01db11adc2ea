package scoringqueue

import (
	"github.com/google/uuid"
)

const (
	// QueueScoring is the dedicated River queue for scoring jobs.
	QueueScoring = "scoring"

	KindRecompute = "scoring_recompute"
	KindSweep     = "scoring_sweep"
)

// RecomputeJob rebuilds the standings of one tournament.
// Only the tournament id takes part in uniqueness, so repeated requests collapse into one job.
type RecomputeJob struct {
	TournamentID uuid.UUID `json:"tournament_id" river:"unique"`
	Reason       string    `json:"reason,omitempty"`
}

// Kind returns the job type identifier for River
func (RecomputeJob) Kind() string { return KindRecompute }

// SweepJob recomputes every ACTIVE tournament.
type SweepJob struct{}

// Kind returns the job type identifier for River
func (SweepJob) Kind() string { return KindSweep }

// JobInfo describes a queued scoring job.
type JobInfo struct {
	ID           int64  `json:"id"`
	Kind         string `json:"kind"`
	TournamentID string `json:"tournament_id,omitempty"`
	State        string `json:"state"`
	ScheduledAt  string `json:"scheduled_at"`
	Attempt      int    `json:"attempt"`
	MaxAttempts  int    `json:"max_attempts"`
}
