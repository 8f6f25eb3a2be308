// internal/app/system/apiclient/metrics.go
package apiclient

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records backend call counts and latency per operation.
type Metrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewMetrics registers the backend client collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aftershift",
			Subsystem: "backend",
			Name:      "calls_total",
			Help:      "Backend API calls by operation and status code (0 = transport error).",
		}, []string{"op", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aftershift",
			Subsystem: "backend",
			Name:      "call_duration_seconds",
			Help:      "Backend API call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(m.calls, m.latency)
	return m
}

func (m *Metrics) observe(op string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(op).Observe(d.Seconds())
}
