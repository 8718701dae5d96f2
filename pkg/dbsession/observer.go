package dbsession

import "time"

// Outcome describes how a scope finalized its session.
type Outcome string

const (
	// OutcomeClosed means the work succeeded and the session was closed
	// without an explicit commit by the scope.
	OutcomeClosed Outcome = "closed"
	// OutcomeCommitted means the scope committed before closing.
	OutcomeCommitted Outcome = "committed"
	// OutcomeRolledBack means the work failed and the session was rolled back.
	OutcomeRolledBack Outcome = "rolled_back"
)

// Teardown stages reported to Observer.TeardownFailed.
const (
	StageRollback = "rollback"
	StageCommit   = "commit"
	StageClose    = "close"
	StageReset    = "reset"
)

// Observer receives session lifecycle events.
// Implementations must be safe for concurrent use.
type Observer interface {
	SessionOpened(id string)
	SessionOpenFailed(err error)
	SessionFinished(id string, outcome Outcome, elapsed time.Duration)
	TeardownFailed(id, stage string, err error)
}

type nopObserver struct{}

func (nopObserver) SessionOpened(string)                          {}
func (nopObserver) SessionOpenFailed(error)                       {}
func (nopObserver) SessionFinished(string, Outcome, time.Duration) {}
func (nopObserver) TeardownFailed(string, string, error)          {}
