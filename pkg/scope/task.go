package scope

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Task is a handle to one in-flight asynchronous computation, created by
// Launch. The computation always runs to completion; Cancel never
// interrupts it. Cancellation only suppresses delivery of the eventual
// result: a cancelled task's success value is dropped and its failure is
// swallowed.
//
// The cancelled flag is consulted exactly once per delivery path, at the
// moment the result would be handed over (Await resolution or LaunchWith
// callback dispatch), after the work has already settled. This makes "stale
// result must not update state" correct even when Cancel lands a moment
// before settlement.
type Task[T any] struct {
	id uint64

	// ctxCancel cancels the context passed to the work function. This is a
	// cooperative courtesy: well-behaved work may observe it and return
	// early, but nothing depends on it.
	ctxCancel context.CancelFunc

	// cancelled is monotonic: false -> true, never reset. It is only set
	// while the task is still incomplete.
	cancelled atomic.Bool

	// completed is monotonic: set once when the work function returns,
	// regardless of cancellation.
	completed atomic.Bool

	// done is closed after result/err are stored and completed is set.
	done chan struct{}

	// result and err hold the settled outcome. Written once before done is
	// closed, read only after done is closed.
	result T
	err    error

	// onSettle lets the owning Group drop the task from its tracked set.
	onSettle func()

	started time.Time
	ownerID uint64
	mon     Monitor
	log     *zap.Logger
}

// ID returns the unique identifier for this task.
func (t *Task[T]) ID() uint64 {
	return t.id
}

// Cancel marks the task cancelled. Idempotent; calling Cancel on a
// completed task is a legal no-op and does not change the flags the task
// settled with.
func (t *Task[T]) Cancel() {
	// completed is the linearization point: a Cancel that observes the task
	// as complete arrived after delivery became possible and has no effect.
	if t.completed.Load() {
		return
	}
	if t.cancelled.CompareAndSwap(false, true) {
		t.ctxCancel()
		if t.log != nil {
			t.log.Debug("task cancelled", zap.Uint64("task", t.id), zap.Uint64("owner", t.ownerID))
		}
	}
}

// IsCancelled reports whether Cancel was called before completion.
func (t *Task[T]) IsCancelled() bool {
	return t.cancelled.Load()
}

// IsCompleted reports whether the work function has returned.
func (t *Task[T]) IsCompleted() bool {
	return t.completed.Load()
}

// IsActive reports whether the task is neither cancelled nor completed.
func (t *Task[T]) IsActive() bool {
	return !t.cancelled.Load() && !t.completed.Load()
}

// Await blocks until the work function settles, then returns its outcome:
//
//   - (value, true, nil) when the work succeeded and the task was not
//     cancelled;
//   - (zero, false, nil) when the task was cancelled: "no value", not an
//     error, even if the work failed;
//   - (zero, false, err) when the work failed and the task was not
//     cancelled;
//   - (zero, false, ctx.Err()) when the caller's own ctx ends first. The
//     task itself keeps running; Await may be called again.
//
// Await may be called from any number of goroutines; all of them observe
// the same settled outcome.
func (t *Task[T]) Await(ctx context.Context) (T, bool, error) {
	var zero T

	select {
	case <-t.done:
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}

	// Single delivery check: cancellation takes priority over error
	// propagation.
	if t.cancelled.Load() {
		return zero, false, nil
	}
	if t.err != nil {
		return zero, false, t.err
	}
	return t.result, true, nil
}

// run executes the work function and settles the task. Called on its own
// goroutine by Launch.
func (t *Task[T]) run(ctx context.Context, work func(context.Context) (T, error)) {
	result, err := work(ctx)

	t.result = result
	t.err = err
	t.completed.Store(true)
	close(t.done)

	// The context is no longer needed once the work has returned.
	t.ctxCancel()

	if t.onSettle != nil {
		t.onSettle()
	}

	outcome := OutcomeSuccess
	switch {
	case t.cancelled.Load():
		outcome = OutcomeSuppressed
		if err != nil && t.log != nil {
			// The one place a cancelled task's failure is ever mentioned.
			t.log.Debug("suppressed failure from cancelled task",
				zap.Uint64("task", t.id), zap.Uint64("owner", t.ownerID), zap.Error(err))
		}
	case err != nil:
		outcome = OutcomeFailure
	}

	if t.mon != nil {
		t.mon.TaskSettled(t.ownerID, t.id, outcome, time.Since(t.started))
	}
}
