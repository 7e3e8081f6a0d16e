package async

// State identifies the active variant of a Result.
type State int

const (
	Empty   State = iota // No operation attempted yet, or explicitly reset
	Loading              // An operation is in flight
	Failed               // Last operation failed
	Ready                // Last operation succeeded; data is present
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Result is the outcome of one asynchronous operation: a tagged value with
// exactly one active variant. Results are immutable; transitions replace
// the whole value. The zero Result is Empty.
type Result[T any] struct {
	state State
	data  T
	msg   string
	cause error
}

// NewEmpty returns the Empty variant.
func NewEmpty[T any]() Result[T] {
	return Result[T]{state: Empty}
}

// NewLoading returns the Loading variant.
func NewLoading[T any]() Result[T] {
	return Result[T]{state: Loading}
}

// NewReady returns the Ready variant holding v.
func NewReady[T any](v T) Result[T] {
	return Result[T]{state: Ready, data: v}
}

// NewFailure returns the Failed variant. An empty msg defaults to
// cause.Error() when a cause is given.
func NewFailure[T any](msg string, cause error) Result[T] {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return Result[T]{state: Failed, msg: msg, cause: cause}
}

// State returns the active variant.
func (r Result[T]) State() State { return r.state }

// IsEmpty reports whether the Empty variant is active.
func (r Result[T]) IsEmpty() bool { return r.state == Empty }

// IsLoading reports whether the Loading variant is active.
func (r Result[T]) IsLoading() bool { return r.state == Loading }

// IsFailed reports whether the Failed variant is active.
func (r Result[T]) IsFailed() bool { return r.state == Failed }

// IsReady reports whether the Ready variant is active.
func (r Result[T]) IsReady() bool { return r.state == Ready }

// Data returns the Ready value and true, or the zero value and false for
// every other variant.
func (r Result[T]) Data() (T, bool) {
	if r.state == Ready {
		return r.data, true
	}
	var zero T
	return zero, false
}

// DataOr returns the Ready value, or fallback for every other variant.
func (r Result[T]) DataOr(fallback T) T {
	if r.state == Ready {
		return r.data
	}
	return fallback
}

// Message returns the failure message and true, or "" and false when the
// Failed variant is not active.
func (r Result[T]) Message() (string, bool) {
	if r.state == Failed {
		return r.msg, true
	}
	return "", false
}

// Err returns the failure cause, or nil when the Failed variant is not
// active or no cause was recorded.
func (r Result[T]) Err() error {
	if r.state == Failed {
		return r.cause
	}
	return nil
}

// Cases dispatches a Result to per-variant functions. A nil case falls back
// to Default, which is mandatory whenever any case may be nil.
type Cases[T, R any] struct {
	Empty   func() R
	Loading func() R
	Failed  func(msg string, cause error) R
	Ready   func(T) R
	Default func() R
}

// Match dispatches r to the matching case. Panics if the matching case and
// Default are both nil: a closed sum must be handled exhaustively.
func Match[T, R any](r Result[T], c Cases[T, R]) R {
	switch r.state {
	case Loading:
		if c.Loading != nil {
			return c.Loading()
		}
	case Failed:
		if c.Failed != nil {
			return c.Failed(r.msg, r.cause)
		}
	case Ready:
		if c.Ready != nil {
			return c.Ready(r.data)
		}
	default:
		if c.Empty != nil {
			return c.Empty()
		}
	}
	if c.Default == nil {
		panic("async: Match has no case for state " + r.state.String() + " and no Default")
	}
	return c.Default()
}
