// Package tracing reports a runtime's update cycle as OpenTelemetry spans:
// one span per flush with an event per watcher run, and one span per next
// tick drain.
package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnatoleLucet/reactive"
)

// Default tracer name.
const defaultTracerName = "github.com/AnatoleLucet/reactive"

type Config struct {
	// TracerName is the name of the tracer, ignored when Tracer is set.
	TracerName string

	// Tracer overrides the tracer from the global provider.
	Tracer trace.Tracer

	// Context is the parent context of every span (default: context.Background()).
	Context context.Context
}

type Option func(*Config)

func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = tracer
	}
}

func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

// Hooks implements reactive.Hooks. Like the runtime it observes, it is not
// safe for concurrent use.
type Hooks struct {
	tracer trace.Tracer
	ctx    context.Context

	// span of the flush in progress
	flush trace.Span
}

var _ reactive.Hooks = (*Hooks)(nil)

// New creates tracing hooks. The tracer comes from the global OpenTelemetry
// provider unless WithTracer is given.
func New(opts ...Option) *Hooks {
	config := Config{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&config)
	}

	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(config.TracerName)
	}

	return &Hooks{
		tracer: tracer,
		ctx:    config.Context,
	}
}

func (h *Hooks) FlushStarted(pending int) {
	_, h.flush = h.tracer.Start(h.ctx, "reactive.flush",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int("reactive.flush.pending", pending)),
	)
}

func (h *Hooks) WatcherRan(w *reactive.Watcher, elapsed time.Duration, err error) {
	if h.flush == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.Int64("reactive.watcher.id", int64(w.ID())),
		attribute.String("reactive.watcher.kind", w.Kind().String()),
		attribute.Int64("reactive.watcher.duration_us", elapsed.Microseconds()),
	}

	if err != nil {
		h.flush.RecordError(err, trace.WithAttributes(attrs...))
		return
	}

	h.flush.AddEvent("watcher.run", trace.WithAttributes(attrs...))
}

func (h *Hooks) CircularUpdate(w *reactive.Watcher, count int) {
	if h.flush == nil {
		return
	}

	h.flush.AddEvent("watcher.circular_update", trace.WithAttributes(
		attribute.Int64("reactive.watcher.id", int64(w.ID())),
		attribute.String("reactive.watcher.kind", w.Kind().String()),
		attribute.Int("reactive.watcher.count", count),
	))
	h.flush.SetStatus(codes.Error, reactive.ErrCircularUpdate.Error())
}

func (h *Hooks) FlushFinished(ran int, elapsed time.Duration) {
	if h.flush == nil {
		return
	}

	h.flush.SetAttributes(attribute.Int("reactive.flush.ran", ran))
	h.flush.End()
	h.flush = nil
}

func (h *Hooks) TickDrained(callbacks int, elapsed time.Duration) {
	end := time.Now()

	_, span := h.tracer.Start(h.ctx, "reactive.tick",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(end.Add(-elapsed)),
		trace.WithAttributes(attribute.Int("reactive.tick.callbacks", callbacks)),
	)
	span.End(trace.WithTimestamp(end))
}
