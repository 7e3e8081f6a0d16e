package scope

import (
	"errors"
	"testing"
)

func TestValueBasic(t *testing.T) {
	count := NewValue(nil, 0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestValueUpdateTwice(t *testing.T) {
	count := NewValue(nil, 0)

	fired := 0
	count.Observe(func() { fired++ })

	count.Update(func(n int) int { return n + 1 })
	count.Update(func(n int) int { return n + 1 })

	if count.Get() != 2 {
		t.Errorf("expected value 2, got %d", count.Get())
	}
	if fired != 2 {
		t.Errorf("expected observer fired exactly twice, got %d", fired)
	}
}

func TestValueNoSpuriousNotification(t *testing.T) {
	count := NewValue(nil, 1)

	fired := 0
	count.Observe(func() { fired++ })

	count.Set(1)
	if fired != 0 {
		t.Errorf("setting an equal value should not notify, got %d notifications", fired)
	}

	count.Update(func(n int) int { return n })
	if fired != 0 {
		t.Errorf("identity update should not notify, got %d notifications", fired)
	}

	count.Set(2)
	if fired != 1 {
		t.Errorf("expected 1 notification after a real change, got %d", fired)
	}
}

func TestValueObserverOrder(t *testing.T) {
	v := NewValue(nil, 0)

	var order []string
	v.Observe(func() { order = append(order, "first") })
	v.Observe(func() { order = append(order, "second") })
	v.Observe(func() { order = append(order, "third") })

	v.Set(1)

	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Errorf("observers should fire in registration order, got %v", order)
	}
}

func TestValueUnobserve(t *testing.T) {
	v := NewValue(nil, 0)

	fired := 0
	id := v.Observe(func() { fired++ })

	v.Set(1)
	v.Unobserve(id)
	v.Set(2)

	if fired != 1 {
		t.Errorf("expected 1 notification before Unobserve, got %d", fired)
	}

	// Unknown ID is a no-op.
	v.Unobserve(99999)
}

func TestValueObserverReentrancy(t *testing.T) {
	v := NewValue(nil, 0)

	// An observer may itself trigger another mutation.
	v.Observe(func() {
		if v.Get() == 1 {
			v.Set(2)
		}
	})

	v.Set(1)

	if v.Get() != 2 {
		t.Errorf("reentrant mutation should land, got %d", v.Get())
	}
}

func TestValueObserverMutatesListDuringNotify(t *testing.T) {
	v := NewValue(nil, 0)

	removed := 0
	var selfID uint64
	selfID = v.Observe(func() {
		v.Unobserve(selfID)
		removed++
	})
	later := 0
	v.Observe(func() { later++ })

	v.Set(1)
	v.Set(2)

	if removed != 1 {
		t.Errorf("self-removing observer should fire once, got %d", removed)
	}
	if later != 2 {
		t.Errorf("remaining observer should fire for both changes, got %d", later)
	}
}

func TestValueDispose(t *testing.T) {
	v := NewValue(nil, 42)

	fired := 0
	v.Observe(func() { fired++ })

	v.Dispose()

	if !v.IsDisposed() {
		t.Error("value should report disposed")
	}

	// Reads still work after disposal.
	if v.Get() != 42 {
		t.Errorf("expected readable value 42 after dispose, got %d", v.Get())
	}

	if v.Observers() != 0 {
		t.Errorf("dispose should clear observers, got %d", v.Observers())
	}

	// Repeat disposal is a no-op.
	v.Dispose()
}

func TestValueDisposedMutationPanics(t *testing.T) {
	v := NewValue(nil, 0)
	v.Dispose()

	assertPanics := func(name string, fn func()) {
		t.Helper()
		defer func() {
			r := recover()
			if r == nil {
				t.Errorf("%s on disposed value should panic", name)
				return
			}
			err, ok := r.(error)
			if !ok || !errors.Is(err, ErrDisposed) {
				t.Errorf("%s should panic with ErrDisposed, got %v", name, r)
			}
		}()
		fn()
	}

	assertPanics("Set", func() { v.Set(5) })
	assertPanics("Update", func() { v.Update(func(n int) int { return n + 1 }) })
	assertPanics("Observe", func() { v.Observe(func() {}) })

	// Unobserve after dispose is a legal no-op.
	v.Unobserve(1)
}

func TestValueCustomEquals(t *testing.T) {
	type point struct{ x, y int }

	// Only compare x: changes to y alone are not "changes".
	v := NewValue(nil, point{1, 1}).WithEquals(func(a, b point) bool {
		return a.x == b.x
	})

	fired := 0
	v.Observe(func() { fired++ })

	v.Set(point{1, 2})
	if fired != 0 {
		t.Errorf("equal by custom fn should not notify, got %d", fired)
	}

	v.Set(point{2, 2})
	if fired != 1 {
		t.Errorf("expected 1 notification, got %d", fired)
	}
}

func TestValueDeepEqualForSlices(t *testing.T) {
	v := NewValue(nil, []int{1, 2})

	fired := 0
	v.Observe(func() { fired++ })

	v.Set([]int{1, 2})
	if fired != 0 {
		t.Errorf("deep-equal slice should not notify, got %d", fired)
	}

	v.Set([]int{1, 2, 3})
	if fired != 1 {
		t.Errorf("expected 1 notification, got %d", fired)
	}
}

func TestValueNilObserver(t *testing.T) {
	v := NewValue(nil, 0)
	if id := v.Observe(nil); id != 0 {
		t.Errorf("nil observer should not register, got id %d", id)
	}
	v.Set(1)
}
