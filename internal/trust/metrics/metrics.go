package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the trust list cache.
type Metrics struct {
	// Fetch attempts by result: "success", or the failure category
	Fetches *prometheus.CounterVec

	FetchLatency prometheus.Histogram

	// Times a stale list was served because a refresh failed
	StaleServed prometheus.Counter

	Entries prometheus.Gauge
}

// New registers the trust metrics with reg. A nil reg builds unregistered
// collectors, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "laurelid_trust_list_fetches_total",
			Help: "Trust list fetch attempts by result",
		}, []string{"result"}),

		FetchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "laurelid_trust_list_fetch_duration_seconds",
			Help:    "Duration of trust list fetches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		StaleServed: factory.NewCounter(prometheus.CounterOpts{
			Name: "laurelid_trust_list_stale_served_total",
			Help: "Lookups answered from a stale trust list after a failed refresh",
		}),

		Entries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "laurelid_trust_list_entries",
			Help: "Number of issuers in the cached trust list",
		}),
	}
}

// ObserveFetch records one fetch attempt.
func (m *Metrics) ObserveFetch(result string, d time.Duration) {
	if m != nil {
		m.Fetches.WithLabelValues(result).Inc()
		m.FetchLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncStaleServed() {
	if m != nil {
		m.StaleServed.Inc()
	}
}

func (m *Metrics) SetEntries(n int) {
	if m != nil {
		m.Entries.Set(float64(n))
	}
}
