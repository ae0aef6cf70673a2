package rbslot

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is shared by every console's client; register it once.
type Metrics struct {
	Calls   *prometheus.CounterVec
	Latency *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rbslot_admin",
			Subsystem: "upstream",
			Name:      "calls_total",
			Help:      "RBSlot API calls by operation and status class.",
		}, []string{"op", "class"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rbslot_admin",
			Subsystem: "upstream",
			Name:      "call_duration_seconds",
			Help:      "RBSlot API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.Calls, m.Latency)
	}
	return m
}

func (m *Metrics) Interceptor() Interceptor {
	return InterceptorFunc(func(_ context.Context, call Call) {
		m.Calls.WithLabelValues(call.Op, statusClass(call.Status)).Inc()
		m.Latency.WithLabelValues(call.Op).Observe(call.Duration.Seconds())
	})
}

func statusClass(status int) string {
	if status == 0 {
		return "transport_error"
	}
	return strconv.Itoa(status/100) + "xx"
}
