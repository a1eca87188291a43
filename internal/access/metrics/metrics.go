package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions         *prometheus.CounterVec
	Denials           *prometheus.CounterVec
	ACLLookupDuration prometheus.Histogram
	ACLFailures       prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caregate_access_decisions_total",
			Help: "Total number of access decisions evaluated",
		}, []string{"result"}),
		Denials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caregate_access_denials_total",
			Help: "Total number of access denials by reason",
		}, []string{"reason"}),
		ACLLookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "caregate_access_acl_lookup_duration_seconds",
			Help:    "Latency of capability lookups against the ACL service",
			Buckets: prometheus.DefBuckets,
		}),
		ACLFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caregate_access_acl_failures_total",
			Help: "Total number of capability lookups that failed closed",
		}),
	}
}

func (m *Metrics) IncDecision(granted bool) {
	if m == nil {
		return
	}
	result := "denied"
	if granted {
		result = "granted"
	}
	m.Decisions.WithLabelValues(result).Inc()
}

func (m *Metrics) IncDenial(reason string) {
	if m == nil {
		return
	}
	m.Denials.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveLookup(d time.Duration) {
	if m == nil {
		return
	}
	m.ACLLookupDuration.Observe(d.Seconds())
}

func (m *Metrics) IncACLFailure() {
	if m == nil {
		return
	}
	m.ACLFailures.Inc()
}
