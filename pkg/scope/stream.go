package scope

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Stream is an external asynchronous source of values. Subscribe registers
// the two callbacks and returns a cancel function; after cancel returns,
// the source must stop delivering. The core places no other constraints on
// what a stream is.
//
// fail may be nil when the subscriber does not care about source failures.
type Stream[T any] interface {
	Subscribe(next func(T), fail func(error)) (cancel func())
}

// Subscription is a tracked subscription to an external stream, created by
// SubscribeStream. It is cancelled by the owner's disposal cascade, or
// earlier by an explicit Cancel call.
type Subscription struct {
	id     uint64
	closed atomic.Bool

	mu     sync.Mutex
	cancel func()
}

// ID returns the unique identifier for this subscription.
func (s *Subscription) ID() uint64 {
	return s.id
}

// IsCancelled returns true once the subscription has been cancelled.
func (s *Subscription) IsCancelled() bool {
	return s.closed.Load()
}

// Cancel stops delivery and unsubscribes from the source. Idempotent.
// Deliveries racing with Cancel are dropped by the closed-flag check even
// if the source has not yet honored the unsubscribe.
func (s *Subscription) Cancel() {
	if s.closed.Swap(true) {
		return
	}

	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// SubscribeStream subscribes the owner to src. onNext receives every
// emission and onErr every source failure, but only while the owner is
// live: after the owner (or the returned Subscription) is cancelled,
// deliveries are dropped, never invoked. A nil onErr drops failures.
//
// Panics with ErrOwnerDisposed if the owner is already disposed.
func SubscribeStream[T any](o *Owner, src Stream[T], onNext func(T), onErr func(error)) *Subscription {
	if o.disposed.Load() {
		panic(ErrOwnerDisposed)
	}

	sub := &Subscription{id: nextID()}

	// Deliveries re-check both flags: the unsubscribe is requested first
	// during teardown, but a source may still be mid-flight, so late
	// deliveries are filtered here.
	next := func(v T) {
		if sub.closed.Load() || o.disposed.Load() {
			return
		}
		if onNext != nil {
			onNext(v)
		}
	}
	fail := func(err error) {
		if sub.closed.Load() || o.disposed.Load() {
			return
		}
		if onErr != nil {
			onErr(err)
			return
		}
		o.log.Debug("dropped stream failure", zap.Uint64("owner", o.id),
			zap.Uint64("subscription", sub.id), zap.Error(err))
	}

	cancel := src.Subscribe(next, fail)

	sub.mu.Lock()
	sub.cancel = cancel
	sub.mu.Unlock()
	if sub.closed.Load() {
		// Cancelled while Subscribe was still registering.
		cancel()
	}

	o.adoptSubscription(sub)
	return sub
}

// Bind creates a container that mirrors src: it starts at initial and is
// set to every subsequent emission. The container and the subscription are
// both torn down by the owner's cascade. Source failures are dropped; use
// SubscribeStream directly when failures matter.
func Bind[T any](o *Owner, src Stream[T], initial T) *Value[T] {
	v := NewValue(o, initial)
	SubscribeStream(o, src, func(next T) {
		if !v.IsDisposed() {
			v.Set(next)
		}
	}, nil)
	return v
}

// BindFunc is Bind with a transform step: the container holds
// transform(emission) for every emission.
func BindFunc[S, T any](o *Owner, src Stream[S], initial T, transform func(S) T) *Value[T] {
	v := NewValue(o, initial)
	SubscribeStream(o, src, func(next S) {
		if !v.IsDisposed() {
			v.Set(transform(next))
		}
	}, nil)
	return v
}

// ChanStream adapts Go channels to the Stream interface. Values are read
// from C and failures from Errs; a nil Errs never fails. Delivery stops
// when C is closed or the subscription is cancelled.
type ChanStream[T any] struct {
	C    <-chan T
	Errs <-chan error
}

// Subscribe pumps the channels into the callbacks on a dedicated goroutine
// until cancelled or until C closes.
func (s ChanStream[T]) Subscribe(next func(T), fail func(error)) (cancel func()) {
	done := make(chan struct{})

	go func() {
		errs := s.Errs
		for {
			select {
			case v, ok := <-s.C:
				if !ok {
					return
				}
				next(v)
			case err, ok := <-errs:
				if !ok {
					// Stop selecting a closed error channel.
					errs = nil
					continue
				}
				if err != nil && fail != nil {
					fail(err)
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
