package instrument

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnatoleLucet/reactivity"
)

const defaultTracerName = "reactivity"

// TracerConfig configures the OpenTelemetry observer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "reactivity").
	TracerName string

	// Provider is the tracer provider (default: the global provider).
	Provider trace.TracerProvider

	// Runs also records a span per effect run. Disabled by default, effects
	// usually run far more often than flushes.
	Runs bool
}

// TracerOption configures the OpenTelemetry observer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(provider trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = provider
	}
}

// WithRunSpans enables a span per effect run.
func WithRunSpans(enabled bool) TracerOption {
	return func(c *TracerConfig) {
		c.Runs = enabled
	}
}

// Tracer records each scheduler flush as a "reactivity.flush" span, and
// optionally each effect run as a "reactivity.run" span.
// Spans are recorded once the work completed, with its actual timestamps.
type Tracer struct {
	tracer trace.Tracer
	runs   bool
}

var _ reactivity.Observer = (*Tracer)(nil)

func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	provider := config.Provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	return &Tracer{
		tracer: provider.Tracer(config.TracerName),
		runs:   config.Runs,
	}
}

func (t *Tracer) ObserveTrigger(int) {}

func (t *Tracer) ObserveRun(stats reactivity.RunStats) {
	if !t.runs {
		return
	}

	_, span := t.tracer.Start(context.Background(), "reactivity.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int64("reactivity.derivation", int64(stats.Derivation)),
			attribute.Bool("reactivity.scheduled", stats.Scheduled),
		),
		trace.WithTimestamp(stats.Start),
	)

	if stats.Panic != nil {
		err := reactivity.PanicError{Value: stats.Panic}
		span.RecordError(&err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End(trace.WithTimestamp(stats.Start.Add(stats.Duration)))
}

func (t *Tracer) ObserveFlush(stats reactivity.FlushStats) {
	_, span := t.tracer.Start(context.Background(), "reactivity.flush",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(stats.Start),
	)

	span.SetAttributes(attribute.Int("reactivity.jobs", stats.Jobs))

	if stats.Err != nil {
		span.RecordError(stats.Err)
		span.SetStatus(codes.Error, stats.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End(trace.WithTimestamp(stats.Start.Add(stats.Duration)))
}
