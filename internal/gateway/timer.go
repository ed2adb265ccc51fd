package gateway

import (
	"github.com/prometheus/client_golang/prometheus"

	"auracare/internal/platform/metrics"
)

func prometheusTimer(m *metrics.Metrics, path string) func() {
	timer := prometheus.NewTimer(m.GatewayLatency.WithLabelValues(path))
	return func() { timer.ObserveDuration() }
}
