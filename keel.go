// Package keel is a lifecycle-scoped concurrency and reactive-state core
// for business-logic objects. An Owner holds observable value containers,
// runs asynchronous tasks whose results only matter while the owner is
// alive and not superseded, and releases every owned resource exactly once
// when it is disposed.
//
// This package is a thin facade over pkg/scope (containers, tasks, owners)
// and pkg/async (the Empty/Loading/Failed/Ready result state and its
// container); the subpackages can also be imported directly.
//
//	type Counter struct {
//	    *keel.Owner
//	    Count *keel.Value[int]
//	    Users *keel.AsyncValue[[]User]
//	}
//
//	func NewCounter() *Counter {
//	    owner := keel.NewOwner(nil)
//	    return &Counter{
//	        Owner: owner,
//	        Count: keel.NewValue(owner, 0),
//	        Users: keel.NewAsyncValue[[]User](owner),
//	    }
//	}
//
//	func (c *Counter) Refresh() {
//	    keel.Load(c.Owner, c.Users, fetchUsers)
//	}
//
// Calling Dispose on the embedded Owner cancels the load, tears down the
// containers, and guarantees no further observer notification.
package keel

import (
	"context"

	"github.com/keel-dev/keel/pkg/async"
	"github.com/keel-dev/keel/pkg/scope"
)

// =============================================================================
// Lifecycle core (pkg/scope)
// =============================================================================

// Owner is the lifecycle root; see scope.Owner.
type Owner = scope.Owner

// OwnerOption configures an Owner at construction time.
type OwnerOption = scope.OwnerOption

// Value is an observable value container; see scope.Value.
type Value[T any] = scope.Value[T]

// Task is a handle to one in-flight computation; see scope.Task.
type Task[T any] = scope.Task[T]

// Group owns a set of tasks with bulk cancellation; see scope.Group.
type Group = scope.Group

// Stream is an external asynchronous source; see scope.Stream.
type Stream[T any] = scope.Stream[T]

// ChanStream adapts Go channels to the Stream interface.
type ChanStream[T any] = scope.ChanStream[T]

// Subscription is a tracked stream subscription.
type Subscription = scope.Subscription

// Monitor receives lifecycle events; see scope.Monitor and pkg/monitor.
type Monitor = scope.Monitor

// Sentinel panic values for misuse of disposed resources.
var (
	ErrDisposed      = scope.ErrDisposed
	ErrGroupDisposed = scope.ErrGroupDisposed
	ErrOwnerDisposed = scope.ErrOwnerDisposed
)

// WithLogger attaches a structured logger for lifecycle events.
var WithLogger = scope.WithLogger

// WithMonitor attaches a Monitor to an Owner.
var WithMonitor = scope.WithMonitor

// NewOwner creates an Owner; a non-nil parent disposes the child with
// itself.
func NewOwner(parent *Owner, opts ...OwnerOption) *Owner {
	return scope.NewOwner(parent, opts...)
}

// NewValue creates an observable container holding initial, registered
// with owner for cascade disposal (owner may be nil for a standalone
// container).
func NewValue[T any](owner *Owner, initial T) *Value[T] {
	return scope.NewValue(owner, initial)
}

// Run launches work tied to the owner's lifetime.
func Run[T any](o *Owner, work func(context.Context) (T, error)) *Task[T] {
	return scope.Run(o, work)
}

// RunWith launches work and routes its outcome to callbacks; neither
// callback fires once the owner is disposed.
func RunWith[T any](o *Owner, work func(context.Context) (T, error), onSuccess func(T), onError func(error)) *Task[T] {
	return scope.RunWith(o, work, onSuccess, onError)
}

// SubscribeStream subscribes the owner to src; delivery stops at disposal.
func SubscribeStream[T any](o *Owner, src Stream[T], onNext func(T), onErr func(error)) *Subscription {
	return scope.SubscribeStream(o, src, onNext, onErr)
}

// Bind creates a container mirroring src, starting at initial.
func Bind[T any](o *Owner, src Stream[T], initial T) *Value[T] {
	return scope.Bind(o, src, initial)
}

// BindFunc is Bind with a transform applied to every emission.
func BindFunc[S, T any](o *Owner, src Stream[S], initial T, transform func(S) T) *Value[T] {
	return scope.BindFunc(o, src, initial, transform)
}

// =============================================================================
// Async result state (pkg/async)
// =============================================================================

// AsyncState identifies the active variant of an AsyncResult.
type AsyncState = async.State

// Async result state constants: use keel.Empty, keel.Loading, etc.
const (
	Empty   AsyncState = async.Empty   // No operation attempted, or reset
	Loading AsyncState = async.Loading // Operation in flight
	Failed  AsyncState = async.Failed  // Last operation failed
	Ready   AsyncState = async.Ready   // Last operation succeeded
)

// AsyncResult is the four-variant outcome of one async operation.
type AsyncResult[T any] = async.Result[T]

// AsyncValue is an observable container holding an AsyncResult.
type AsyncValue[T any] = async.Value[T]

// NewAsyncValue creates an async container starting Empty, registered with
// owner for cascade disposal.
func NewAsyncValue[T any](owner *Owner) *AsyncValue[T] {
	return async.NewValue[T](owner)
}

// Load sets v to Loading, runs work on the owner's task group, and routes
// the outcome to Ready or Failed, unless superseded or the owner died.
func Load[T any](o *Owner, v *AsyncValue[T], work func(context.Context) (T, error)) *Task[T] {
	return async.Load(o, v, work)
}

// BindAsync creates an async container mirroring src: Loading until the
// first emission, Ready on each emission, Failed on a source failure.
func BindAsync[T any](o *Owner, src Stream[T]) *AsyncValue[T] {
	return async.Bind(o, src)
}

// BindAsyncFunc is BindAsync with a transform applied to every emission.
func BindAsyncFunc[S, T any](o *Owner, src Stream[S], transform func(S) T) *AsyncValue[T] {
	return async.BindFunc(o, src, transform)
}
