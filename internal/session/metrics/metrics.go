package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the scanning session.
type Metrics struct {
	// Completed cycles by channel and outcome
	Cycles *prometheus.CounterVec

	// Events rejected because a credential was already in flight
	Busy *prometheus.CounterVec

	// Events dropped by the channel filter
	Ignored *prometheus.CounterVec

	CycleLatency prometheus.Histogram
}

// New registers the session metrics with reg. A nil reg leaves the
// collectors unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "laurelid_session_cycles_total",
			Help: "Completed scan cycles by channel and outcome",
		}, []string{"channel", "outcome"}),

		Busy: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "laurelid_session_busy_rejections_total",
			Help: "Scans rejected while another credential was in flight",
		}, []string{"channel"}),

		Ignored: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "laurelid_session_ignored_events_total",
			Help: "Scans ignored for carrying no usable payload",
		}, []string{"channel"}),

		CycleLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "laurelid_session_cycle_duration_seconds",
			Help:    "Time from accepting a scan to returning to scanning",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

func (m *Metrics) ObserveCycle(channel, outcome string, d time.Duration) {
	if m != nil {
		m.Cycles.WithLabelValues(channel, outcome).Inc()
		m.CycleLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementBusy(channel string) {
	if m != nil {
		m.Busy.WithLabelValues(channel).Inc()
	}
}

func (m *Metrics) IncrementIgnored(channel string) {
	if m != nil {
		m.Ignored.WithLabelValues(channel).Inc()
	}
}
