package scope

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// canceller is the group-facing view of a task.
type canceller interface {
	Cancel()
	ID() uint64
}

// Group owns a collection of in-flight tasks and supports bulk
// cancellation. A disposed group rejects new work permanently.
//
// Owners create one Group each and dispose it as the first step of their
// cascade; a Group can also be used standalone.
type Group struct {
	mu    sync.Mutex
	tasks []canceller

	// disposed is set once by Dispose, after every tracked task has been
	// cancelled. Guarded by mu so Launch cannot slip a task past Dispose.
	disposed bool

	ownerID uint64
	mon     Monitor
	log     *zap.Logger
}

// NewGroup creates a standalone Group. Owners create their own group
// internally; use this only when managing tasks outside an Owner.
func NewGroup() *Group {
	return &Group{}
}

// Launch wraps work in a Task, registers it with the group, and starts it
// on its own goroutine. It returns the handle immediately.
//
// The context passed to work is cancelled when the task is cancelled; work
// may observe it to stop early, but is never required to. Launch panics
// with ErrGroupDisposed if the group is disposed; no task is created.
func Launch[T any](g *Group, work func(context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(context.Background())

	t := &Task[T]{
		id:        nextID(),
		ctxCancel: cancel,
		done:      make(chan struct{}),
		started:   time.Now(),
		ownerID:   g.ownerID,
		mon:       g.mon,
		log:       g.log,
	}

	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		cancel()
		panic(ErrGroupDisposed)
	}
	g.tasks = append(g.tasks, t)
	g.mu.Unlock()

	// Settled tasks no longer need tracking; cancel-after-completion is a
	// no-op anyway, and dropping them keeps long-lived groups bounded.
	t.onSettle = func() { g.forget(t.id) }

	if g.mon != nil {
		g.mon.TaskLaunched(g.ownerID, t.id)
	}

	go t.run(ctx, work)

	return t
}

// LaunchWith launches work and delivers its outcome through callbacks
// instead of an explicit Await: onSuccess receives the value if the task
// settles successfully and was not cancelled; onError receives the failure
// if the task failed and was not cancelled. A nil onError swallows the
// failure. Cancelled outcomes invoke neither callback.
//
// The returned handle can be cancelled like any other task; from the
// caller's point of view this is fire-and-forget.
func LaunchWith[T any](g *Group, work func(context.Context) (T, error), onSuccess func(T), onError func(error)) *Task[T] {
	t := Launch(g, work)

	go func() {
		v, ok, err := t.Await(context.Background())
		switch {
		case err != nil:
			if onError != nil {
				onError(err)
			}
		case ok:
			if onSuccess != nil {
				onSuccess(v)
			}
		}
		// !ok with a nil err means the task was cancelled: deliver nothing.
	}()

	return t
}

// CancelAll cancels every tracked task and clears the tracked set. Tasks
// that already completed are unaffected.
func (g *Group) CancelAll() {
	g.mu.Lock()
	tasks := g.tasks
	g.tasks = nil
	g.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
}

// Dispose cancels every tracked task and marks the group disposed.
// Subsequent Launch calls panic with ErrGroupDisposed. Idempotent.
func (g *Group) Dispose() {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		return
	}
	tasks := g.tasks
	g.tasks = nil
	g.disposed = true
	g.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}

	if g.log != nil && len(tasks) > 0 {
		g.log.Debug("task group disposed", zap.Uint64("owner", g.ownerID), zap.Int("cancelled", len(tasks)))
	}
}

// IsDisposed returns true once Dispose has been called.
func (g *Group) IsDisposed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disposed
}

// Active returns the number of currently tracked (unsettled) tasks.
func (g *Group) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tasks)
}

// forget drops a settled task from the tracked set.
func (g *Group) forget(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, t := range g.tasks {
		if t.ID() == id {
			g.tasks = append(g.tasks[:i], g.tasks[i+1:]...)
			return
		}
	}
}
