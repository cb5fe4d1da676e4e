// Package metrics exposes per-run Prometheus collectors. The collectors are
// registered on a private registry so a run can dump them as a node-exporter
// textfile when it finishes.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cpulaunch"

// Metrics holds the collectors updated by the executor and processor.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	iterations   *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	unitsRunning prometheus.Gauge
}

// New creates collectors on a fresh registry.
func New() *Metrics {
	labels := []string{"task", "cpuset"}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Number of finished iterations per execution unit.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Number of iterations that exited non-zero or failed to launch.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "iteration_duration_seconds",
			Help:      "Wall-clock duration of an iteration.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, labels),
		unitsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "units_running",
			Help:      "Execution units that have not reached a terminal state.",
		}),
	}
	m.registry.MustRegister(m.iterations, m.failures, m.duration, m.unitsRunning)
	return m
}

// ObserveIteration records a finished iteration.
func (m *Metrics) ObserveIteration(taskIndex int, cpuset string, elapsed time.Duration, failed bool) {
	if m == nil {
		return
	}
	task := strconv.Itoa(taskIndex)
	m.iterations.WithLabelValues(task, cpuset).Inc()
	m.duration.WithLabelValues(task, cpuset).Observe(elapsed.Seconds())
	if failed {
		m.failures.WithLabelValues(task, cpuset).Inc()
	}
}

// UnitStarted increments the running units gauge.
func (m *Metrics) UnitStarted() {
	if m == nil {
		return
	}
	m.unitsRunning.Inc()
}

// UnitFinished decrements the running units gauge.
func (m *Metrics) UnitFinished() {
	if m == nil {
		return
	}
	m.unitsRunning.Dec()
}

// WriteFile writes the collectors in text exposition format, atomically
// replacing filename.
func (m *Metrics) WriteFile(filename string) error {
	if m == nil || filename == "" {
		return nil
	}
	return prometheus.WriteToTextfile(filename, m.registry)
}
