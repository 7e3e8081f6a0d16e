package async

import (
	"context"

	"github.com/keel-dev/keel/pkg/scope"
)

// Value is an observable container specialized to hold a Result[T]. It
// embeds a scope.Value, so observation, equality-gated notification, and
// disposal behave exactly like any other container; the additions here are
// pure transition and accessor sugar.
type Value[T any] struct {
	*scope.Value[Result[T]]
}

// NewValue creates an async container starting in the Empty variant. A
// non-nil owner registers it for cascade disposal.
func NewValue[T any](owner *scope.Owner) *Value[T] {
	return &Value[T]{scope.NewValue(owner, NewEmpty[T]())}
}

// SetEmpty transitions the container to Empty.
func (v *Value[T]) SetEmpty() {
	v.Set(NewEmpty[T]())
}

// SetLoading transitions the container to Loading.
func (v *Value[T]) SetLoading() {
	v.Set(NewLoading[T]())
}

// SetReady transitions the container to Ready holding data.
func (v *Value[T]) SetReady(data T) {
	v.Set(NewReady(data))
}

// SetError transitions the container to Failed. An empty msg defaults to
// cause.Error() when a cause is given.
func (v *Value[T]) SetError(msg string, cause error) {
	v.Set(NewFailure[T](msg, cause))
}

// IsEmpty reports whether the Empty variant is active.
func (v *Value[T]) IsEmpty() bool { return v.Get().IsEmpty() }

// IsLoading reports whether the Loading variant is active.
func (v *Value[T]) IsLoading() bool { return v.Get().IsLoading() }

// HasError reports whether the Failed variant is active.
func (v *Value[T]) HasError() bool { return v.Get().IsFailed() }

// HasData reports whether the Ready variant is active.
func (v *Value[T]) HasData() bool { return v.Get().IsReady() }

// Data returns the Ready value and true, or the zero value and false.
func (v *Value[T]) Data() (T, bool) { return v.Get().Data() }

// DataOr returns the Ready value, or fallback.
func (v *Value[T]) DataOr(fallback T) T { return v.Get().DataOr(fallback) }

// ErrorMessage returns the failure message and true, or "" and false.
func (v *Value[T]) ErrorMessage() (string, bool) { return v.Get().Message() }

// Err returns the failure cause, or nil.
func (v *Value[T]) Err() error { return v.Get().Err() }

// Load is the canonical load helper: it sets v to Loading, runs work on
// the owner's task group, and routes the outcome into v: SetReady on
// success, SetError (message = the failure's description, cause = the
// failure) on an unsuppressed failure. If the owner is disposed or the
// returned task cancelled before the work settles, v is left untouched.
//
// The returned handle lets callers supersede the load: cancel it before
// (or when) issuing a replacement, and the stale outcome can never reach v.
func Load[T any](o *scope.Owner, v *Value[T], work func(context.Context) (T, error)) *scope.Task[T] {
	v.SetLoading()
	return scope.RunWith(o, work,
		func(data T) {
			if !v.IsDisposed() {
				v.SetReady(data)
			}
		},
		func(err error) {
			if !v.IsDisposed() {
				v.SetError("", err)
			}
		})
}

// Bind creates an async container mirroring src: it starts Loading, moves
// to Ready on every emission, and to Failed on a source failure. Container
// and subscription are torn down by the owner's cascade.
func Bind[T any](o *scope.Owner, src scope.Stream[T]) *Value[T] {
	v := NewValue[T](o)
	v.SetLoading()
	scope.SubscribeStream(o, src,
		func(next T) {
			if !v.IsDisposed() {
				v.SetReady(next)
			}
		},
		func(err error) {
			if !v.IsDisposed() {
				v.SetError("", err)
			}
		})
	return v
}

// BindFunc is Bind with a transform step applied to every emission.
func BindFunc[S, T any](o *scope.Owner, src scope.Stream[S], transform func(S) T) *Value[T] {
	v := NewValue[T](o)
	v.SetLoading()
	scope.SubscribeStream(o, src,
		func(next S) {
			if !v.IsDisposed() {
				v.SetReady(transform(next))
			}
		},
		func(err error) {
			if !v.IsDisposed() {
				v.SetError("", err)
			}
		})
	return v
}
