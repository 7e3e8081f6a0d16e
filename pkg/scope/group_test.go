package scope

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGroupLaunchAfterDisposePanics(t *testing.T) {
	g := NewGroup()
	g.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Launch on a disposed group should panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrGroupDisposed) {
			t.Errorf("expected ErrGroupDisposed, got %v", r)
		}
		if g.Active() != 0 {
			t.Errorf("no task may be created, got %d tracked", g.Active())
		}
	}()

	Launch(g, func(ctx context.Context) (int, error) { return 1, nil })
}

func TestGroupDisposeCancelsTrackedTasks(t *testing.T) {
	g := NewGroup()

	release := make(chan struct{})
	defer close(release)

	t1 := Launch(g, func(ctx context.Context) (int, error) { <-release; return 1, nil })
	t2 := Launch(g, func(ctx context.Context) (int, error) { <-release; return 2, nil })

	g.Dispose()

	if !g.IsDisposed() {
		t.Error("group should be disposed")
	}
	if !t1.IsCancelled() || !t2.IsCancelled() {
		t.Error("dispose should cancel every tracked task")
	}

	// Repeat disposal is a no-op.
	g.Dispose()
}

func TestGroupCancelAll(t *testing.T) {
	g := NewGroup()

	release := make(chan struct{})
	defer close(release)

	t1 := Launch(g, func(ctx context.Context) (int, error) { <-release; return 1, nil })
	t2 := Launch(g, func(ctx context.Context) (int, error) { <-release; return 2, nil })

	g.CancelAll()

	if !t1.IsCancelled() || !t2.IsCancelled() {
		t.Error("CancelAll should cancel every tracked task")
	}
	if g.Active() != 0 {
		t.Errorf("CancelAll should clear the tracked set, got %d", g.Active())
	}
	if g.IsDisposed() {
		t.Error("CancelAll must not dispose the group")
	}

	// New work is still accepted after CancelAll.
	t3 := Launch(g, func(ctx context.Context) (int, error) { return 3, nil })
	if v, ok, _ := t3.Await(context.Background()); !ok || v != 3 {
		t.Errorf("expected 3, got ok=%v v=%d", ok, v)
	}
}

func TestGroupForgetsSettledTasks(t *testing.T) {
	g := NewGroup()

	task := Launch(g, func(ctx context.Context) (int, error) { return 1, nil })
	if _, ok, _ := task.Await(context.Background()); !ok {
		t.Fatal("expected delivery")
	}

	// Settlement drops the task from tracking shortly after Await resolves.
	deadline := time.After(time.Second)
	for g.Active() != 0 {
		select {
		case <-deadline:
			t.Fatalf("settled task still tracked, %d active", g.Active())
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestLaunchWithSuccess(t *testing.T) {
	g := NewGroup()

	got := make(chan int, 1)
	LaunchWith(g, func(ctx context.Context) (int, error) {
		return 42, nil
	}, func(v int) {
		got <- v
	}, nil)

	select {
	case v := <-got:
		if v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("onSuccess never fired")
	}
}

func TestLaunchWithError(t *testing.T) {
	g := NewGroup()

	boom := errors.New("boom")
	got := make(chan error, 1)
	LaunchWith(g, func(ctx context.Context) (int, error) {
		return 0, boom
	}, func(int) {
		t.Error("onSuccess must not fire for a failure")
	}, func(err error) {
		got <- err
	})

	select {
	case err := <-got:
		if !errors.Is(err, boom) {
			t.Errorf("expected original failure, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("onError never fired")
	}
}

func TestLaunchWithCancelledInvokesNothing(t *testing.T) {
	g := NewGroup()

	release := make(chan struct{})
	fired := make(chan string, 2)
	task := LaunchWith(g, func(ctx context.Context) (int, error) {
		<-release
		return 0, errors.New("boom")
	}, func(int) {
		fired <- "success"
	}, func(error) {
		fired <- "error"
	})

	task.Cancel()
	close(release)

	select {
	case which := <-fired:
		t.Errorf("cancelled task invoked %s callback", which)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLaunchWithNilErrorHandlerSwallows(t *testing.T) {
	g := NewGroup()

	task := LaunchWith(g, func(ctx context.Context) (int, error) {
		return 0, errors.New("boom")
	}, func(int) {
		t.Error("onSuccess must not fire")
	}, nil)

	// Settles without panicking; the failure is dropped.
	if _, ok, err := task.Await(context.Background()); ok || err == nil {
		t.Errorf("Await still sees the failure, got ok=%v err=%v", ok, err)
	}
}
