package scope

import "time"

// Outcome classifies how a task settled.
type Outcome int

const (
	// OutcomeSuccess means the work function returned a value and the task
	// was not cancelled; the value was (or will be) delivered.
	OutcomeSuccess Outcome = iota

	// OutcomeFailure means the work function returned an error and the task
	// was not cancelled; the error propagates to awaiting callers.
	OutcomeFailure

	// OutcomeSuppressed means the task was cancelled before it settled;
	// whatever the work function produced was discarded.
	OutcomeSuppressed
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeSuppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// Monitor receives lifecycle events from owners, groups, and tasks.
// Implementations live outside this package (see pkg/monitor for Prometheus
// and OpenTelemetry monitors); the core only calls the hooks.
//
// Hooks may be invoked concurrently and must be safe for concurrent use.
// An ownerID of 0 means the resource was created standalone, without an
// Owner.
type Monitor interface {
	// OwnerCreated is called when a new Owner is constructed.
	OwnerCreated(ownerID uint64)

	// OwnerDisposed is called once per Owner, when its disposal cascade has
	// finished.
	OwnerDisposed(ownerID uint64)

	// TaskLaunched is called when a Group accepts new work.
	TaskLaunched(ownerID, taskID uint64)

	// TaskSettled is called exactly once per task, when its work function
	// finishes. The outcome reflects the cancelled flag at settlement time.
	TaskSettled(ownerID, taskID uint64, outcome Outcome, d time.Duration)

	// ValueChanged is called after a container mutation that notified
	// observers. observers is the number of callbacks invoked.
	ValueChanged(ownerID uint64, observers int)
}
