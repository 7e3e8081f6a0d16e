package monitor

import (
	"time"

	"github.com/keel-dev/keel/pkg/scope"
)

// multi fans every hook out to a list of monitors.
type multi struct {
	monitors []scope.Monitor
}

// Multi combines several monitors into one. Nil entries are skipped; hooks
// are invoked in argument order.
func Multi(monitors ...scope.Monitor) scope.Monitor {
	kept := make([]scope.Monitor, 0, len(monitors))
	for _, m := range monitors {
		if m != nil {
			kept = append(kept, m)
		}
	}
	return &multi{monitors: kept}
}

func (m *multi) OwnerCreated(ownerID uint64) {
	for _, mon := range m.monitors {
		mon.OwnerCreated(ownerID)
	}
}

func (m *multi) OwnerDisposed(ownerID uint64) {
	for _, mon := range m.monitors {
		mon.OwnerDisposed(ownerID)
	}
}

func (m *multi) TaskLaunched(ownerID, taskID uint64) {
	for _, mon := range m.monitors {
		mon.TaskLaunched(ownerID, taskID)
	}
}

func (m *multi) TaskSettled(ownerID, taskID uint64, outcome scope.Outcome, d time.Duration) {
	for _, mon := range m.monitors {
		mon.TaskSettled(ownerID, taskID, outcome, d)
	}
}

func (m *multi) ValueChanged(ownerID uint64, observers int) {
	for _, mon := range m.monitors {
		mon.ValueChanged(ownerID, observers)
	}
}
