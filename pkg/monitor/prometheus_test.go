package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/keel-dev/keel/pkg/scope"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestPrometheusOwnerLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	mon := Prometheus(WithRegistry(reg)).(*promMonitor)

	mon.OwnerCreated(1)
	mon.OwnerCreated(2)
	if got := gaugeValue(t, mon.ownersLive); got != 2 {
		t.Errorf("expected 2 live owners, got %v", got)
	}

	mon.OwnerDisposed(1)
	if got := gaugeValue(t, mon.ownersLive); got != 1 {
		t.Errorf("expected 1 live owner, got %v", got)
	}
}

func TestPrometheusTaskOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	mon := Prometheus(WithRegistry(reg), WithNamespace("test")).(*promMonitor)

	mon.TaskLaunched(1, 10)
	mon.TaskLaunched(1, 11)
	if got := gaugeValue(t, mon.tasksActive); got != 2 {
		t.Errorf("expected 2 active tasks, got %v", got)
	}

	mon.TaskSettled(1, 10, scope.OutcomeSuccess, 5*time.Millisecond)
	mon.TaskSettled(1, 11, scope.OutcomeSuppressed, time.Millisecond)

	if got := gaugeValue(t, mon.tasksActive); got != 0 {
		t.Errorf("expected 0 active tasks, got %v", got)
	}
	if got := counterValue(t, mon.tasksSettled.WithLabelValues("success")); got != 1 {
		t.Errorf("expected 1 success, got %v", got)
	}
	if got := counterValue(t, mon.tasksSettled.WithLabelValues("suppressed")); got != 1 {
		t.Errorf("expected 1 suppressed, got %v", got)
	}
	if got := counterValue(t, mon.tasksSettled.WithLabelValues("failure")); got != 0 {
		t.Errorf("expected 0 failures, got %v", got)
	}
}

func TestPrometheusValueChanges(t *testing.T) {
	reg := prometheus.NewRegistry()
	mon := Prometheus(WithRegistry(reg)).(*promMonitor)

	mon.ValueChanged(1, 3)
	mon.ValueChanged(1, 0)

	if got := counterValue(t, mon.valueChanges); got != 2 {
		t.Errorf("expected 2 value changes, got %v", got)
	}
	if got := counterValue(t, mon.notifications); got != 3 {
		t.Errorf("expected 3 notifications, got %v", got)
	}
}

func TestPrometheusWiredIntoOwner(t *testing.T) {
	reg := prometheus.NewRegistry()
	mon := Prometheus(WithRegistry(reg)).(*promMonitor)

	owner := scope.NewOwner(nil, scope.WithMonitor(mon))

	count := scope.NewValue(owner, 0)
	count.Observe(func() {})
	count.Set(1)

	task := scope.Run(owner, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if _, ok, _ := task.Await(context.Background()); !ok {
		t.Fatal("expected delivery")
	}

	// TaskSettled is reported on the task goroutine right after settlement.
	deadline := time.After(time.Second)
	for counterValue(t, mon.tasksSettled.WithLabelValues("success")) != 1 {
		select {
		case <-deadline:
			t.Fatal("success settlement never recorded")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if got := counterValue(t, mon.tasksLaunched); got != 1 {
		t.Errorf("expected 1 launched task, got %v", got)
	}
	if got := counterValue(t, mon.valueChanges); got != 1 {
		t.Errorf("expected 1 value change, got %v", got)
	}

	owner.Dispose()
	if got := gaugeValue(t, mon.ownersLive); got != 0 {
		t.Errorf("expected 0 live owners after dispose, got %v", got)
	}
}

func TestPrometheusRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	Prometheus(WithRegistry(reg), WithSubsystem("core"),
		WithConstLabels(prometheus.Labels{"app": "test"}),
		WithBuckets([]float64{0.1, 1}))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	// Gauges report immediately; counters/histograms appear after first use.
	if len(families) == 0 {
		t.Error("expected registered metric families")
	}
}
