package domain

import "time"

// SyncOutcome is the terminal state of one organizer run.
type SyncOutcome string

const (
	SyncOutcomeSuccess     SyncOutcome = "success"
	SyncOutcomeRateLimited SyncOutcome = "rate_limited"
	SyncOutcomeFailed      SyncOutcome = "failed"
)

// SyncPhase names the stage an organizer run is in.
type SyncPhase string

const (
	SyncPhaseConfig     SyncPhase = "config"
	SyncPhaseFetching   SyncPhase = "fetching"
	SyncPhaseValidating SyncPhase = "validating"
	SyncPhaseSaving     SyncPhase = "saving"
	SyncPhaseComplete   SyncPhase = "complete"
)

// SyncResult records how one organizer run ended.
type SyncResult struct {
	OrganizerID string
	RunID       string
	Outcome     SyncOutcome
	Phase       SyncPhase
	Cause       error
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Succeeded reports whether the run ended without failure. A rate-limited
// run counts as a success.
func (r SyncResult) Succeeded() bool {
	return r.Outcome == SyncOutcomeSuccess || r.Outcome == SyncOutcomeRateLimited
}

// CauseMessage returns the failure text, or an empty string.
func (r SyncResult) CauseMessage() string {
	if r.Cause == nil {
		return ""
	}
	return r.Cause.Error()
}
