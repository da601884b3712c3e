// Package metrics exports a runtime's update cycle as Prometheus metrics.
//
//	collector := metrics.New(metrics.WithRegistry(registry))
//	rt := reactive.New(reactive.WithHooks(collector))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AnatoleLucet/reactive"
)

// Config configures the Prometheus collector.
type Config struct {
	// Namespace is the metrics namespace (default: "reactive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reactive",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector implements reactive.Hooks.
type Collector struct {
	flushesTotal       prometheus.Counter
	flushDuration      prometheus.Histogram
	flushSize          prometheus.Histogram
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	circularTotal      *prometheus.CounterVec
	tickCallbacksTotal prometheus.Counter
}

var _ reactive.Hooks = (*Collector)(nil)

// New registers the runtime metrics:
//   - reactive_flushes_total: Counter of scheduler flushes
//   - reactive_flush_duration_seconds: Histogram of flush durations
//   - reactive_flush_size: Histogram of watchers queued when a flush starts
//   - reactive_evaluations_total: Counter of watcher runs by kind and status
//   - reactive_evaluation_duration_seconds: Histogram of watcher run durations by kind
//   - reactive_circular_updates_total: Counter of circular updates by kind
//   - reactive_tick_callbacks_total: Counter of next tick callbacks run
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Collector{
		flushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flushes",
			ConstLabels: config.ConstLabels,
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		flushSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_size",
			Help:        "Number of watchers queued when a flush starts",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 10),
		}),

		evaluationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "evaluations_total",
			Help:        "Total number of watcher runs during flushes",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "status"}),

		evaluationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "evaluation_duration_seconds",
			Help:        "Watcher run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),

		circularTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "circular_updates_total",
			Help:        "Total number of watchers dropped for re-queueing themselves too often",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		tickCallbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tick_callbacks_total",
			Help:        "Total number of next tick callbacks run",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// FromConfig builds a collector from the metrics section of a runtime config.
// It returns nil when metrics are disabled.
func FromConfig(cfg reactive.MetricsConfig, opts ...Option) *Collector {
	if !cfg.Enabled {
		return nil
	}

	return New(append([]Option{
		WithNamespace(cfg.Namespace),
		WithSubsystem(cfg.Subsystem),
	}, opts...)...)
}

func (c *Collector) FlushStarted(pending int) {
	c.flushSize.Observe(float64(pending))
}

func (c *Collector) WatcherRan(w *reactive.Watcher, elapsed time.Duration, err error) {
	kind := w.Kind().String()

	status := "success"
	if err != nil {
		status = "error"
	}

	c.evaluationsTotal.WithLabelValues(kind, status).Inc()
	c.evaluationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (c *Collector) FlushFinished(ran int, elapsed time.Duration) {
	c.flushesTotal.Inc()
	c.flushDuration.Observe(elapsed.Seconds())
}

func (c *Collector) CircularUpdate(w *reactive.Watcher, count int) {
	c.circularTotal.WithLabelValues(w.Kind().String()).Inc()
}

func (c *Collector) TickDrained(callbacks int, elapsed time.Duration) {
	c.tickCallbacksTotal.Add(float64(callbacks))
}
