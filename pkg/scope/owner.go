package scope

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Owner is the lifecycle root for one business-logic object. It composes a
// task Group with registries of the containers and stream subscriptions it
// created, and tears all of them down with a single Dispose call.
//
// Owners form an optional hierarchy: disposing a parent disposes its
// children first, in reverse creation order. External collaborators only
// construct an Owner, read its containers, and call Dispose exactly once
// when the owning scope ends; the Group and the registries are never
// touched directly.
type Owner struct {
	id uint64

	// parent is nil for root owners.
	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	// values are the containers created through this owner, disposed last
	// in the cascade.
	values   []disposable
	valuesMu sync.Mutex

	// subs are the tracked stream subscriptions, cancelled after tasks.
	subs   []*Subscription
	subsMu sync.Mutex

	// cleanups are manual callbacks registered via OnCleanup, run in
	// reverse order between subscription teardown and container disposal.
	cleanups   []func()
	cleanupsMu sync.Mutex

	// group holds every task launched through this owner.
	group *Group

	disposed atomic.Bool

	log *zap.Logger
	mon Monitor
}

// OwnerOption configures an Owner at construction time.
type OwnerOption func(*Owner)

// WithLogger attaches a structured logger for lifecycle events. The default
// is a no-op logger. Children inherit the parent's logger unless they set
// their own.
func WithLogger(log *zap.Logger) OwnerOption {
	return func(o *Owner) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMonitor attaches a Monitor receiving owner, task, and container
// events. Children inherit the parent's monitor unless they set their own.
func WithMonitor(mon Monitor) OwnerOption {
	return func(o *Owner) {
		o.mon = mon
	}
}

// NewOwner creates an Owner. A non-nil parent registers the new owner as a
// child, to be disposed with the parent. Panics with ErrOwnerDisposed if
// parent is already disposed.
func NewOwner(parent *Owner, opts ...OwnerOption) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		o.log = parent.log
		o.mon = parent.mon
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}

	o.group = &Group{ownerID: o.id, mon: o.mon, log: o.log}

	if parent != nil {
		parent.addChild(o)
	}

	if o.mon != nil {
		o.mon.OwnerCreated(o.id)
	}

	return o
}

// ID returns the unique identifier for this owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent owner, or nil for a root owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed returns true once Dispose has run.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// OnCleanup registers fn to run during disposal, after subscriptions are
// cancelled and before containers are disposed (so cleanups may still read
// container values). Cleanups run in reverse registration order. If the
// owner is already disposed, fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if fn == nil {
		return
	}
	if o.disposed.Load() {
		fn()
		return
	}

	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// Run launches work on the owner's task group, tying its delivery to the
// owner's lifetime: disposing the owner cancels the task and suppresses its
// result. Panics with ErrGroupDisposed if the owner is disposed.
func Run[T any](o *Owner, work func(context.Context) (T, error)) *Task[T] {
	return Launch(o.group, work)
}

// RunWith launches work and routes its outcome to callbacks, with the same
// lifetime scoping as Run: neither callback fires after the owner is
// disposed (the task is cancelled by the cascade, and cancellation
// suppresses delivery). A nil onError swallows failures.
func RunWith[T any](o *Owner, work func(context.Context) (T, error), onSuccess func(T), onError func(error)) *Task[T] {
	return LaunchWith(o.group, work, onSuccess, onError)
}

// Dispose tears down everything the owner created, exactly once, in a
// fixed order:
//
//  1. child owners, in reverse creation order;
//  2. the task group; after this no in-flight delivery can fire;
//  3. tracked stream subscriptions;
//  4. OnCleanup callbacks, in reverse registration order;
//  5. containers.
//
// Tasks and subscriptions are silenced before containers are disposed, so
// a late delivery can never write into a disposed container. Repeat calls
// are no-ops.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := o.children
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.group.Dispose()

	o.subsMu.Lock()
	subs := o.subs
	o.subs = nil
	o.subsMu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	o.valuesMu.Lock()
	values := o.values
	o.values = nil
	o.valuesMu.Unlock()

	for _, v := range values {
		v.Dispose()
	}

	o.log.Debug("owner disposed",
		zap.Uint64("owner", o.id),
		zap.Int("children", len(children)),
		zap.Int("subscriptions", len(subs)),
		zap.Int("containers", len(values)))

	if o.mon != nil {
		o.mon.OwnerDisposed(o.id)
	}
}

// adoptValue registers a container for cascade disposal.
// Panics with ErrOwnerDisposed if the owner is disposed.
func (o *Owner) adoptValue(v disposable) {
	if o.disposed.Load() {
		panic(ErrOwnerDisposed)
	}

	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()
	o.values = append(o.values, v)
}

// adoptSubscription registers a subscription for cascade teardown.
// Panics with ErrOwnerDisposed if the owner is disposed.
func (o *Owner) adoptSubscription(s *Subscription) {
	if o.disposed.Load() {
		panic(ErrOwnerDisposed)
	}

	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	o.subs = append(o.subs, s)
}

func (o *Owner) addChild(child *Owner) {
	if o.disposed.Load() {
		panic(ErrOwnerDisposed)
	}

	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}
