// Package async models the outcome of one asynchronous operation as a
// closed four-variant state (Empty, Loading, Failed, Ready) and provides
// an observable container specialized to hold it.
//
// Result[T] is the pure data part: exactly one variant is active, and every
// transition is a total replacement. The zero Result is Empty.
//
// Value[T] is a scope.Value holding a Result[T], with transition setters
// (SetLoading, SetReady, SetError, SetEmpty) and predicates. Nothing in
// this package touches concurrency: cancellation-awareness lives in how an
// owner drives the setters, and Load wires that up for the canonical case:
//
//	users := async.NewValue[[]User](owner)
//	async.Load(owner, users, func(ctx context.Context) ([]User, error) {
//	    return api.FetchUsers(ctx)
//	})
//
// Load sets the container to Loading, runs the work on the owner's task
// group, and routes the outcome to SetReady or SetError, unless the owner
// was disposed or the task cancelled in the meantime, in which case the
// container is left untouched.
//
// No transition graph is enforced: setters may jump from any variant to any
// other (Ready back to Loading for retry-in-place, and so on).
package async
