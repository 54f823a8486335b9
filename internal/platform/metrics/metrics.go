// Package metrics exposes reminder engine counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mentorship"

// Trigger labels.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// Recorder owns the reminder metrics and the registry they live in.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	runs           *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	remindersSent  *prometheus.CounterVec
	deliveries     *prometheus.CounterVec
	skipped        *prometheus.CounterVec
	cleanupRemoved *prometheus.CounterVec
	lastRun        prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry, including the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: reg,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "runs_total",
			Help:      "Reminder runs by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "run_duration_seconds",
			Help:      "Wall time of reminder runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"trigger"}),
		remindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "occurrences_sent_total",
			Help:      "Occurrences with at least one delivered reminder, by window in days.",
		}, []string{"window_days"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "deliveries_total",
			Help:      "Individual reminder emails by recipient role and result.",
		}, []string{"role", "result"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "skipped_total",
			Help:      "Due occurrences that were not notified, by reason.",
		}, []string{"reason"}),
		cleanupRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cleanup",
			Name:      "removed_total",
			Help:      "Rows removed by the cleanup sweep.",
		}, []string{"kind"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last reminder run finished.",
		}),
	}

	reg.MustRegister(
		r.runs,
		r.runDuration,
		r.remindersSent,
		r.deliveries,
		r.skipped,
		r.cleanupRemoved,
		r.lastRun,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RunCompleted records one finished run.
func (r *Recorder) RunCompleted(trigger string, ok bool, elapsed time.Duration, finished time.Time) {
	if r == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	r.runs.WithLabelValues(trigger, outcome).Inc()
	r.runDuration.WithLabelValues(trigger).Observe(elapsed.Seconds())
	r.lastRun.Set(float64(finished.Unix()))
}

// OccurrenceSent records an occurrence notified for a window.
func (r *Recorder) OccurrenceSent(windowDays int) {
	if r == nil {
		return
	}
	r.remindersSent.WithLabelValues(strconv.Itoa(windowDays)).Inc()
}

// Delivery records a single email attempt.
func (r *Recorder) Delivery(role string, delivered bool) {
	if r == nil {
		return
	}
	result := "delivered"
	if !delivered {
		result = "failed"
	}
	r.deliveries.WithLabelValues(role, result).Inc()
}

// Skipped records a due occurrence that was not notified.
func (r *Recorder) Skipped(reason string) {
	if r == nil {
		return
	}
	r.skipped.WithLabelValues(reason).Inc()
}

// CleanupCompleted records the rows removed by a sweep.
func (r *Recorder) CleanupCompleted(occurrences, meetings, ledgerEntries int) {
	if r == nil {
		return
	}
	r.cleanupRemoved.WithLabelValues("occurrences").Add(float64(occurrences))
	r.cleanupRemoved.WithLabelValues("meetings").Add(float64(meetings))
	r.cleanupRemoved.WithLabelValues("ledger_entries").Add(float64(ledgerEntries))
}
