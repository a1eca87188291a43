// Package metrics provides Prometheus metrics for the audit log.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the audit log's Prometheus collectors.
type Metrics struct {
	EntriesAppended prometheus.Counter
	EntriesEvicted  prometheus.Counter
	EntriesSwept    prometheus.Counter
	LogSize         prometheus.Gauge
}

// New creates and registers all audit metrics on the default registry.
// Construct at most once per process; tests pass a nil *Metrics instead.
func New() *Metrics {
	return &Metrics{
		EntriesAppended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caregate_audit_entries_appended_total",
			Help: "Total number of entries appended to the audit log.",
		}),
		EntriesEvicted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caregate_audit_entries_evicted_total",
			Help: "Total number of entries dropped to hold the capacity bound.",
		}),
		EntriesSwept: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caregate_audit_entries_swept_total",
			Help: "Total number of entries removed by retention sweeps.",
		}),
		LogSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "caregate_audit_log_entries",
			Help: "Current number of entries held in the in-memory audit log.",
		}),
	}
}

// IncAppended records one appended entry.
func (m *Metrics) IncAppended() {
	if m == nil {
		return
	}
	m.EntriesAppended.Inc()
}

// AddEvicted records entries dropped by capacity eviction.
func (m *Metrics) AddEvicted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.EntriesEvicted.Add(float64(n))
}

// AddSwept records entries removed by a retention sweep.
func (m *Metrics) AddSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.EntriesSwept.Add(float64(n))
}

// SetLogSize records the current log length.
func (m *Metrics) SetLogSize(n int) {
	if m == nil {
		return
	}
	m.LogSize.Set(float64(n))
}
