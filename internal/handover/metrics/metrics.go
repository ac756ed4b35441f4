package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the handover lifecycle.
type Metrics struct {
	HandoversCreated *prometheus.CounterVec
	HandoverClaims   *prometheus.CounterVec
	ClaimDuration    prometheus.Histogram
	SweptRecords     prometheus.Counter
}

// New creates and registers the handover metrics.
func New() *Metrics {
	return &Metrics{
		HandoversCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "handover_links_created_total",
			Help: "Total number of handover links created",
		}, []string{"access_mode"}),
		HandoverClaims: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "handover_claims_total",
			Help: "Total number of handover claim attempts by result",
		}, []string{"result"}),
		ClaimDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "handover_claim_duration_seconds",
			Help:    "Latency of handover claim attempts",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		SweptRecords: promauto.NewCounter(prometheus.CounterOpts{
			Name: "handover_swept_records_total",
			Help: "Total number of expired handover records removed by the sweeper",
		}),
	}
}

func (m *Metrics) IncrementCreated(accessMode string) {
	m.HandoversCreated.WithLabelValues(accessMode).Inc()
}

// ObserveClaim records a claim attempt. result is one of success, not_found,
// expired, already_used, error.
func (m *Metrics) ObserveClaim(result string, seconds float64) {
	m.HandoverClaims.WithLabelValues(result).Inc()
	m.ClaimDuration.Observe(seconds)
}

func (m *Metrics) AddSwept(count int) {
	m.SweptRecords.Add(float64(count))
}
