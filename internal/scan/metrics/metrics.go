package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the scan coordinator.
type Metrics struct {
	Readings       *prometheus.CounterVec
	ProcessMs      prometheus.Histogram
	DroppedResults prometheus.Counter
}

// New creates and registers the scan metrics.
func New() *Metrics {
	return &Metrics{
		Readings: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kioskgate_scan_readings_total",
			Help: "Processed tag readings by outcome",
		}, []string{"outcome"}),
		ProcessMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kioskgate_scan_process_duration_ms",
			Help:    "Latency of processing one reading in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}),
		DroppedResults: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kioskgate_scan_results_dropped_total",
			Help: "Scan outcomes dropped because the results channel was full",
		}),
	}
}

func (m *Metrics) Reading(outcome string) {
	if m == nil {
		return
	}
	m.Readings.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveProcess(ms float64) {
	if m == nil {
		return
	}
	m.ProcessMs.Observe(ms)
}

func (m *Metrics) DroppedResult() {
	if m == nil {
		return
	}
	m.DroppedResults.Inc()
}
