package instrument

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AnatoleLucet/reactivity"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactivity").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for run and flush durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reactivity",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records engine events as Prometheus metrics:
//   - reactivity_triggers_total: triggers that reached at least one subscriber
//   - reactivity_notifications_total: subscribers notified by those triggers
//   - reactivity_runs_total: effect runs by policy ("sync" or "scheduled")
//   - reactivity_run_panics_total: effect runs that panicked
//   - reactivity_run_duration_seconds: effect run duration
//   - reactivity_flushes_total: scheduler flushes by status ("ok" or "error")
//   - reactivity_flush_duration_seconds: flush duration
//   - reactivity_flush_jobs: jobs run per flush
type Metrics struct {
	triggers      prometheus.Counter
	notifications prometheus.Counter
	runs          *prometheus.CounterVec
	runPanics     prometheus.Counter
	runDuration   prometheus.Histogram
	flushes       *prometheus.CounterVec
	flushDuration prometheus.Histogram
	flushJobs     prometheus.Histogram
}

var _ reactivity.Observer = (*Metrics)(nil)

// NewMetrics registers the metrics and returns the observer. Register it with
// reactivity.AddObserver. It panics if the metrics are already registered.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		triggers: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of triggers that reached at least one subscriber",
			ConstLabels: config.ConstLabels,
		}),

		notifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of subscribers notified by triggers",
			ConstLabels: config.ConstLabels,
		}),

		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "runs_total",
			Help:        "Total number of effect runs",
			ConstLabels: config.ConstLabels,
		}, []string{"policy"}),

		runPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "run_panics_total",
			Help:        "Total number of effect runs that panicked",
			ConstLabels: config.ConstLabels,
		}),

		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "run_duration_seconds",
			Help:        "Effect run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		flushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flushes",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		flushJobs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_jobs",
			Help:        "Number of jobs run per flush",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 10), // 1 to 512
		}),
	}
}

func (m *Metrics) ObserveTrigger(subscribers int) {
	m.triggers.Inc()
	m.notifications.Add(float64(subscribers))
}

func (m *Metrics) ObserveRun(stats reactivity.RunStats) {
	policy := "sync"
	if stats.Scheduled {
		policy = "scheduled"
	}

	m.runs.WithLabelValues(policy).Inc()
	m.runDuration.Observe(stats.Duration.Seconds())

	if stats.Panic != nil {
		m.runPanics.Inc()
	}
}

func (m *Metrics) ObserveFlush(stats reactivity.FlushStats) {
	status := "ok"
	if stats.Err != nil {
		status = "error"
	}

	m.flushes.WithLabelValues(status).Inc()
	m.flushDuration.Observe(stats.Duration.Seconds())
	m.flushJobs.Observe(float64(stats.Jobs))
}
