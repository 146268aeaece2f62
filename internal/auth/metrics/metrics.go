package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the authenticator.
type Metrics struct {
	LoginAttempts  *prometheus.CounterVec
	LogoutAttempts *prometheus.CounterVec
	PinVerifyMs    prometheus.Histogram
}

// New creates and registers the authenticator metrics.
func New() *Metrics {
	return &Metrics{
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kioskgate_login_attempts_total",
			Help: "Login attempts by result code",
		}, []string{"result"}),
		LogoutAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kioskgate_logout_attempts_total",
			Help: "Logout attempts by result code",
		}, []string{"result"}),
		PinVerifyMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kioskgate_pin_verify_duration_ms",
			Help:    "Latency of PIN verification in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
	}
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) Logout(result string) {
	if m == nil {
		return
	}
	m.LogoutAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePinVerify(ms float64) {
	if m == nil {
		return
	}
	m.PinVerifyMs.Observe(ms)
}
