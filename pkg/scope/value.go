package scope

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// observer is one registered callback with its registration ID.
type observer struct {
	id uint64
	fn func()
}

// Value is an observable value container. It holds one value of type T and
// synchronously notifies registered observers when the value changes.
//
// Observers are invoked with no arguments and read the new value through
// Get. Notification happens in registration order over a snapshot of the
// observer list, so an observer may itself mutate the container or
// register/remove observers without corrupting the iteration.
//
// A Value created through an Owner (non-nil owner argument to NewValue) is
// disposed by that Owner's cascade. Once disposed, Set, Update, and Observe
// panic with ErrDisposed; Get and Peek keep working.
type Value[T any] struct {
	id uint64

	// value is the current contained value.
	value T
	mu    sync.RWMutex

	// subs are the registered observers, in registration order.
	subs  []observer
	subMu sync.Mutex

	// equal decides whether a new value differs from the current one.
	// If nil, defaultEquals is used.
	equal func(T, T) bool

	// disposed blocks further mutation and registration.
	disposed atomic.Bool

	// ownerID and mon carry instrumentation context; both may be zero/nil.
	ownerID uint64
	mon     Monitor
}

// NewValue creates a container holding initial. If owner is non-nil the
// container is registered for cascade disposal; otherwise disposal is the
// caller's responsibility.
//
// Panics with ErrOwnerDisposed if owner is already disposed.
func NewValue[T any](owner *Owner, initial T) *Value[T] {
	v := &Value[T]{
		id:    nextID(),
		value: initial,
	}
	if owner != nil {
		owner.adoptValue(v)
		v.ownerID = owner.id
		v.mon = owner.mon
	}
	return v
}

// ID returns the unique identifier for this container.
func (v *Value[T]) ID() uint64 {
	return v.id
}

// Get returns the current value. No side effects.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set replaces the value and synchronously notifies every observer, in
// registration order, if the new value is not equal to the current one.
// Setting an equal value never invokes any observer.
//
// Panics with ErrDisposed if the container is disposed.
func (v *Value[T]) Set(value T) {
	if v.disposed.Load() {
		panic(ErrDisposed)
	}

	v.mu.Lock()
	changed := !v.equals(v.value, value)
	if changed {
		v.value = value
	}
	v.mu.Unlock()

	if changed {
		v.notify()
	}
}

// Update applies fn to the current value and stores the result, with the
// same change-detection and notification semantics as Set. It exists so
// callers need not read-then-write.
//
// Panics with ErrDisposed if the container is disposed.
func (v *Value[T]) Update(fn func(T) T) {
	if v.disposed.Load() {
		panic(ErrDisposed)
	}

	v.mu.Lock()
	old := v.value
	next := fn(old)
	changed := !v.equals(old, next)
	if changed {
		v.value = next
	}
	v.mu.Unlock()

	if changed {
		v.notify()
	}
}

// Observe registers fn to be called after every value change and returns a
// registration ID for Unobserve. Observers are called in registration
// order.
//
// Panics with ErrDisposed if the container is disposed.
func (v *Value[T]) Observe(fn func()) uint64 {
	if v.disposed.Load() {
		panic(ErrDisposed)
	}
	if fn == nil {
		return 0
	}

	id := nextID()
	v.subMu.Lock()
	v.subs = append(v.subs, observer{id: id, fn: fn})
	v.subMu.Unlock()
	return id
}

// Unobserve removes the observer registered under id. Removing an unknown
// ID, or any ID after disposal, is a no-op.
func (v *Value[T]) Unobserve(id uint64) {
	v.subMu.Lock()
	defer v.subMu.Unlock()

	for i, o := range v.subs {
		if o.id == id {
			// Preserve registration order for the remaining observers.
			v.subs = append(v.subs[:i], v.subs[i+1:]...)
			return
		}
	}
}

// Observers returns the number of currently registered observers.
func (v *Value[T]) Observers() int {
	v.subMu.Lock()
	defer v.subMu.Unlock()
	return len(v.subs)
}

// IsDisposed returns true once Dispose has been called.
func (v *Value[T]) IsDisposed() bool {
	return v.disposed.Load()
}

// Dispose clears the observer list and blocks further mutation and
// registration. The current value stays readable. Dispose is idempotent.
func (v *Value[T]) Dispose() {
	if v.disposed.Swap(true) {
		return
	}

	// Clearing the list breaks reference cycles with observing adapters.
	v.subMu.Lock()
	v.subs = nil
	v.subMu.Unlock()
}

// WithEquals configures a custom equality function and returns the
// container. Useful where reflect.DeepEqual is too expensive or has the
// wrong semantics for T.
func (v *Value[T]) WithEquals(fn func(T, T) bool) *Value[T] {
	v.equal = fn
	return v
}

// notify invokes every observer over a snapshot of the list. No locks are
// held during the callbacks, so observers may re-enter the container.
func (v *Value[T]) notify() {
	v.subMu.Lock()
	subs := make([]observer, len(v.subs))
	copy(subs, v.subs)
	v.subMu.Unlock()

	for _, o := range subs {
		o.fn()
	}

	if v.mon != nil {
		v.mon.ValueChanged(v.ownerID, len(subs))
	}
}

func (v *Value[T]) equals(a, b T) bool {
	if v.equal != nil {
		return v.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals provides type-appropriate equality checking: == for the
// common comparable kinds, reflect.DeepEqual for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}

// disposable is the owner-facing view of a container.
type disposable interface {
	Dispose()
}
