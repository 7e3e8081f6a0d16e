package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/keel-dev/keel/pkg/scope"
)

// PrometheusConfig configures the Prometheus monitor.
type PrometheusConfig struct {
	// Namespace is the metrics namespace (default: "keel").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for task duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// PrometheusOption configures the Prometheus monitor.
type PrometheusOption func(*PrometheusConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) PrometheusOption {
	return func(c *PrometheusConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) PrometheusOption {
	return func(c *PrometheusConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) PrometheusOption {
	return func(c *PrometheusConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets for task duration.
func WithBuckets(buckets []float64) PrometheusOption {
	return func(c *PrometheusConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) PrometheusOption {
	return func(c *PrometheusConfig) {
		c.Registry = registry
	}
}

func defaultPrometheusConfig() PrometheusConfig {
	return PrometheusConfig{
		Namespace: "keel",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// promMonitor implements scope.Monitor over Prometheus collectors.
type promMonitor struct {
	ownersLive    prometheus.Gauge
	tasksLaunched prometheus.Counter
	tasksActive   prometheus.Gauge
	tasksSettled  *prometheus.CounterVec
	taskDuration  *prometheus.HistogramVec
	valueChanges  prometheus.Counter
	notifications prometheus.Counter
}

// Prometheus creates a monitor exporting owner/task/container metrics.
// Each call registers a fresh set of collectors, so use one monitor per
// registry; registering twice against the same registry fails inside
// promauto.
func Prometheus(opts ...PrometheusOption) scope.Monitor {
	config := defaultPrometheusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &promMonitor{
		ownersLive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "owners_live",
			Help:        "Number of owners created and not yet disposed",
			ConstLabels: config.ConstLabels,
		}),

		tasksLaunched: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tasks_launched_total",
			Help:        "Total number of tasks accepted by task groups",
			ConstLabels: config.ConstLabels,
		}),

		tasksActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tasks_active",
			Help:        "Number of launched tasks that have not settled",
			ConstLabels: config.ConstLabels,
		}),

		tasksSettled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tasks_settled_total",
			Help:        "Total number of settled tasks by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		taskDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "task_duration_seconds",
			Help:        "Task wall time from launch to settlement by outcome",
			Buckets:     config.Buckets,
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		valueChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "value_changes_total",
			Help:        "Total number of container mutations that changed the value",
			ConstLabels: config.ConstLabels,
		}),

		notifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "observer_notifications_total",
			Help:        "Total number of observer callbacks invoked",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *promMonitor) OwnerCreated(uint64) {
	m.ownersLive.Inc()
}

func (m *promMonitor) OwnerDisposed(uint64) {
	m.ownersLive.Dec()
}

func (m *promMonitor) TaskLaunched(uint64, uint64) {
	m.tasksLaunched.Inc()
	m.tasksActive.Inc()
}

func (m *promMonitor) TaskSettled(_, _ uint64, outcome scope.Outcome, d time.Duration) {
	m.tasksActive.Dec()
	m.tasksSettled.WithLabelValues(outcome.String()).Inc()
	m.taskDuration.WithLabelValues(outcome.String()).Observe(d.Seconds())
}

func (m *promMonitor) ValueChanged(_ uint64, observers int) {
	m.valueChanges.Inc()
	m.notifications.Add(float64(observers))
}
