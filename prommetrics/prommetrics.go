// Package prommetrics exports worker pool metrics as Prometheus collectors.
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	wp "github.com/azargarov/fixedpool"
)

var _ wp.MetricsPolicy = (*Metrics)(nil)

// Metrics implements workerpool.MetricsPolicy on top of Prometheus
// counters, a gauge and a histogram.
type Metrics struct {
	queued      prometheus.Counter
	executed    prometheus.Counter
	failed      prometheus.Counter
	panicked    prometheus.Counter
	queueLength prometheus.Gauge
	runLatency  prometheus.Histogram
}

// New creates the pool collectors under namespace and registers them
// on reg. Registering the same namespace twice on one registry fails.
func New(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		queued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_queued_total",
			Help:      "Number of jobs accepted by the pool.",
		}),
		executed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_executed_total",
			Help:      "Number of jobs run by a worker, whatever the outcome.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_failed_total",
			Help:      "Number of tasks that failed after their last attempt.",
		}),
		panicked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_panicked_total",
			Help:      "Number of jobs that panicked.",
		}),
		queueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Number of jobs waiting for a worker.",
		}),
		runLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Time a job occupied its worker.",

			// 24 buckets: [50us, 100us, ..., ~420s, +Inf]
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 24),
		}),
	}

	for _, c := range []prometheus.Collector{
		m.queued,
		m.executed,
		m.failed,
		m.panicked,
		m.queueLength,
		m.runLatency,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) IncQueued() {
	m.queued.Inc()
	m.queueLength.Inc()
}

func (m *Metrics) DecQueued()   { m.queueLength.Dec() }
func (m *Metrics) IncExecuted() { m.executed.Inc() }
func (m *Metrics) IncFailed()   { m.failed.Inc() }
func (m *Metrics) IncPanicked() { m.panicked.Inc() }

func (m *Metrics) ObserveRun(d time.Duration) {
	m.runLatency.Observe(d.Seconds())
}
