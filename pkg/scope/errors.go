package scope

import "errors"

// ErrDisposed is the panic value raised when mutating a disposed Value or
// registering an observer on one. Reading a disposed Value is still allowed.
//
// This is always a programmer error in the calling layer: the composition
// layer disposed the Owner while something still held a write path into one
// of its containers. It is never recovered automatically.
var ErrDisposed = errors.New("scope: value is disposed")

// ErrGroupDisposed is the panic value raised by Launch on a disposed Group.
// No task is created. A disposed group stays disposed; there is no way to
// accept work again.
var ErrGroupDisposed = errors.New("scope: task group is disposed")

// ErrOwnerDisposed is the panic value raised when registering a new
// container or subscription on a disposed Owner. Resources created through
// a disposed Owner could never be torn down, so creation is refused
// outright.
var ErrOwnerDisposed = errors.New("scope: owner is disposed")
