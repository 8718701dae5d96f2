package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/dbscope/pkg/dbsession"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "dbscope"

// SessionCollector records request-scoped session lifecycle events.
// It implements dbsession.Observer.
type SessionCollector struct {
	opened     prometheus.Counter
	openFailed prometheus.Counter
	active     prometheus.Gauge
	finished   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	teardown   *prometheus.CounterVec
}

type config struct {
	namespace string
	buckets   []float64
}

// Option configures a SessionCollector.
type Option func(*config)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(c *config) {
		if ns != "" {
			c.namespace = ns
		}
	}
}

// WithBuckets overrides the session duration histogram buckets, in seconds.
func WithBuckets(buckets ...float64) Option {
	return func(c *config) {
		if len(buckets) > 0 {
			c.buckets = buckets
		}
	}
}

// NewSessionCollector creates the collector and registers it with reg.
func NewSessionCollector(reg prometheus.Registerer, opts ...Option) (*SessionCollector, error) {
	cfg := config{namespace: DefaultNamespace, buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &SessionCollector{
		opened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Subsystem: "db_session",
			Name:      "opened_total",
			Help:      "Sessions opened by request scopes.",
		}),
		openFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Subsystem: "db_session",
			Name:      "open_failures_total",
			Help:      "Scopes whose session could not be created.",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.namespace,
			Subsystem: "db_session",
			Name:      "active",
			Help:      "Sessions currently installed in a request scope.",
		}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Subsystem: "db_session",
			Name:      "finished_total",
			Help:      "Sessions finalized, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Subsystem: "db_session",
			Name:      "duration_seconds",
			Help:      "Time between opening and finalizing a session.",
			Buckets:   cfg.buckets,
		}, []string{"outcome"}),
		teardown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Subsystem: "db_session",
			Name:      "teardown_failures_total",
			Help:      "Rollback, commit, close or reset failures, by stage.",
		}, []string{"stage"}),
	}

	if reg != nil {
		for _, col := range []prometheus.Collector{c.opened, c.openFailed, c.active, c.finished, c.duration, c.teardown} {
			if err := reg.Register(col); err != nil {
				return nil, errors.Join(ErrRegister, err)
			}
		}
	}

	return c, nil
}

func (c *SessionCollector) SessionOpened(string) {
	c.opened.Inc()
	c.active.Inc()
}

func (c *SessionCollector) SessionOpenFailed(error) {
	c.openFailed.Inc()
}

func (c *SessionCollector) SessionFinished(_ string, outcome dbsession.Outcome, elapsed time.Duration) {
	c.active.Dec()
	c.finished.WithLabelValues(string(outcome)).Inc()
	c.duration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
}

func (c *SessionCollector) TeardownFailed(_, stage string, _ error) {
	c.teardown.WithLabelValues(stage).Inc()
}

var _ dbsession.Observer = (*SessionCollector)(nil)
