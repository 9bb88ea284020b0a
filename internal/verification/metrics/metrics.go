package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for verification decisions.
type Metrics struct {
	// Decisions by outcome and the gate that rejected them
	Decisions *prometheus.CounterVec

	// Times the engine had to use the cached or an empty list
	TrustFallbacks *prometheus.CounterVec

	DecideLatency prometheus.Histogram
}

// New registers the verification metrics with reg. A nil reg leaves the
// collectors unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "laurelid_verification_decisions_total",
			Help: "Verification decisions by outcome and reason",
		}, []string{"outcome", "reason"}), // reason: "ok", "untrusted_issuer", "underage", "both"

		TrustFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "laurelid_verification_trust_fallbacks_total",
			Help: "Decisions made without a freshly resolved trust list",
		}, []string{"fallback"}), // fallback: "cached", "empty"

		DecideLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "laurelid_verification_decide_duration_seconds",
			Help:    "Duration of a decision including trust list resolution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
	}
}

func (m *Metrics) IncrementDecision(outcome, reason string) {
	if m != nil {
		m.Decisions.WithLabelValues(outcome, reason).Inc()
	}
}

func (m *Metrics) IncrementFallback(kind string) {
	if m != nil {
		m.TrustFallbacks.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) ObserveDecideLatency(d time.Duration) {
	if m != nil {
		m.DecideLatency.Observe(d.Seconds())
	}
}
