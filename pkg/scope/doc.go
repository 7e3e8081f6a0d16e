// Package scope provides the lifecycle core for business-logic objects:
// observable value containers, cancellable tasks, task groups, and the
// Owner that ties their lifetimes together.
//
// # Core Types
//
// Value[T] is an observable value container:
//
//	count := scope.NewValue(owner, 0)
//	id := count.Observe(func() { redraw() })
//	count.Set(5)          // Notifies observers (only on change)
//	count.Update(func(n int) int { return n + 1 })
//
// Task[T] is a handle to one in-flight computation. Cancelling a task never
// interrupts the computation; it only suppresses delivery of its result:
//
//	task := scope.Run(owner, func(ctx context.Context) (int, error) {
//	    return fetchCount(ctx)
//	})
//	task.Cancel()                       // Result will be discarded
//	v, ok, err := task.Await(ctx)       // ok == false after Cancel
//
// Owner is the lifecycle root. Every container, subscription, and task
// created through an Owner is torn down by a single Dispose call, in a fixed
// order: tasks first, then subscriptions, then containers. The order
// guarantees no in-flight callback can write into an already-disposed
// container.
//
//	owner := scope.NewOwner(nil)
//	defer owner.Dispose()
//
// # Cancellation Model
//
// Cancellation is cooperative and result-suppressing, never preemptive. A
// cancelled task's work function runs to completion; its outcome (success or
// failure) is checked against the cancelled flag at the single point where
// it would be delivered, and dropped if the flag is set. A failure from a
// cancelled task is never surfaced anywhere.
//
// # Thread Safety
//
// All primitives are safe for concurrent use. Observer notification is
// synchronous within the mutating call and happens in registration order
// over a snapshot of the observer list, so observers may themselves mutate
// the container or the observer list.
package scope
