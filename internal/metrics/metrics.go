// Package metrics holds the prometheus collectors of the lime runtime.
//
// Collectors are registered on an explicit prometheus.Registerer so tests
// and embedding applications can keep them off the global registry.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lime"

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
	OutcomePanicked  = "panicked"
)

// Metrics groups the runtime collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Resolutions     *prometheus.CounterVec
	Awaits          *prometheus.CounterVec
	IsolatedTasks   *prometheus.CounterVec
	IsolatedRunning prometheus.Gauge
	IsolatedWait    prometheus.Histogram
	SecretBuffers   prometheus.Gauge
}

// New creates the collectors and registers them on reg. A nil reg creates
// unregistered collectors.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "addressing",
			Name:      "resolutions_total",
			Help:      "Command URI resolutions by kind (absolute, relative) and outcome.",
		}, []string{"kind", "outcome"}),
		Awaits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cancellation",
			Name:      "awaits_total",
			Help:      "Cancellation bridge waits by outcome.",
		}, []string{"outcome"}),
		IsolatedTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "isolate",
			Name:      "tasks_total",
			Help:      "Long-running tasks by outcome.",
		}, []string{"outcome"}),
		IsolatedRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "isolate",
			Name:      "tasks_running",
			Help:      "Long-running tasks currently holding a dedicated worker.",
		}),
		IsolatedWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "isolate",
			Name:      "slot_wait_seconds",
			Help:      "Time a task waited for a dedicated worker slot.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		SecretBuffers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "secret",
			Name:      "buffers_live",
			Help:      "Secure credential buffers allocated and not yet released.",
		}),
	}

	if reg == nil {
		return m, nil
	}

	var errs []error
	for _, c := range []prometheus.Collector{
		m.Resolutions, m.Awaits, m.IsolatedTasks, m.IsolatedRunning, m.IsolatedWait, m.SecretBuffers,
	} {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveResolution counts one resolution.
func (m *Metrics) ObserveResolution(kind, outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(kind, outcome).Inc()
}

// ObserveAwait counts one bridge wait.
func (m *Metrics) ObserveAwait(outcome string) {
	if m == nil {
		return
	}
	m.Awaits.WithLabelValues(outcome).Inc()
}

// TaskStarted marks a task as holding a worker after waiting waitSeconds.
func (m *Metrics) TaskStarted(waitSeconds float64) {
	if m == nil {
		return
	}
	m.IsolatedRunning.Inc()
	m.IsolatedWait.Observe(waitSeconds)
}

// TaskFinished releases a worker and counts the outcome.
func (m *Metrics) TaskFinished(outcome string) {
	if m == nil {
		return
	}
	m.IsolatedRunning.Dec()
	m.IsolatedTasks.WithLabelValues(outcome).Inc()
}

// TaskRejected counts a task that never obtained a worker.
func (m *Metrics) TaskRejected(outcome string) {
	if m == nil {
		return
	}
	m.IsolatedTasks.WithLabelValues(outcome).Inc()
}

// BufferAllocated and BufferReleased track live secure buffers.
func (m *Metrics) BufferAllocated() {
	if m == nil {
		return
	}
	m.SecretBuffers.Inc()
}

// BufferReleased is the counterpart of BufferAllocated.
func (m *Metrics) BufferReleased() {
	if m == nil {
		return
	}
	m.SecretBuffers.Dec()
}
