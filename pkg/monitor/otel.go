package monitor

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/keel-dev/keel/pkg/scope"
)

// Default tracer name for keel spans.
const defaultTracerName = "keel"

// OTelConfig configures the OpenTelemetry monitor.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "keel").
	TracerName string

	// SpanName is the name used for task spans (default: "keel.task").
	SpanName string

	// Attributes are added to every task span.
	Attributes []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry monitor.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithSpanName sets the span name used for task spans.
func WithSpanName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.SpanName = name
	}
}

// WithAttributes adds constant attributes to every task span.
func WithAttributes(attrs ...attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
		SpanName:   "keel.task",
	}
}

// otelMonitor records one span per task, from launch to settlement.
type otelMonitor struct {
	config OTelConfig

	mu    sync.Mutex
	spans map[uint64]trace.Span
}

// OTel creates a monitor that starts a span when a task launches and ends
// it when the task settles, recording the outcome as the span status. The
// tracer comes from the global OpenTelemetry tracer provider; configure
// that in main() before creating owners:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OTel(opts ...OTelOption) scope.Monitor {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	config.tracer = otel.Tracer(config.TracerName)

	return &otelMonitor{
		config: config,
		spans:  make(map[uint64]trace.Span),
	}
}

func (m *otelMonitor) OwnerCreated(uint64) {}

func (m *otelMonitor) OwnerDisposed(uint64) {}

func (m *otelMonitor) TaskLaunched(ownerID, taskID uint64) {
	attrs := []attribute.KeyValue{
		attribute.Int64("keel.owner_id", int64(ownerID)),
		attribute.Int64("keel.task_id", int64(taskID)),
	}
	attrs = append(attrs, m.config.Attributes...)

	_, span := m.config.tracer.Start(
		context.Background(),
		m.config.SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(time.Now()),
	)

	m.mu.Lock()
	m.spans[taskID] = span
	m.mu.Unlock()
}

func (m *otelMonitor) TaskSettled(_, taskID uint64, outcome scope.Outcome, _ time.Duration) {
	m.mu.Lock()
	span, ok := m.spans[taskID]
	delete(m.spans, taskID)
	m.mu.Unlock()

	if !ok {
		return
	}

	span.SetAttributes(attribute.String("keel.outcome", outcome.String()))
	switch outcome {
	case scope.OutcomeFailure:
		span.SetStatus(codes.Error, "task failed")
	default:
		// Suppressed results are not errors: nothing was delivered.
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (m *otelMonitor) ValueChanged(uint64, int) {}
