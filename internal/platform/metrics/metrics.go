package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	GatewayRequests  *prometheus.CounterVec
	GatewayLatency   *prometheus.HistogramVec
	ForcedLogouts    prometheus.Counter
	RegistrationsSub *prometheus.CounterVec
	AdminActions     *prometheus.CounterVec
}

// New creates and registers all metrics on the given registerer. Pass
// prometheus.DefaultRegisterer outside of tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GatewayRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auracare_gateway_requests_total",
			Help: "Backend calls issued by the gateway client, by path template and outcome.",
		}, []string{"path", "outcome"}),
		GatewayLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auracare_gateway_request_seconds",
			Help:    "Backend call latency in seconds, by path template.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		ForcedLogouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "auracare_forced_logouts_total",
			Help: "Sessions terminated because the backend rejected the bearer token.",
		}),
		RegistrationsSub: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auracare_registrations_submitted_total",
			Help: "Registration submissions that passed local validation, by variant.",
		}, []string{"variant"}),
		AdminActions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auracare_admin_actions_total",
			Help: "Admin review actions, by action and variant.",
		}, []string{"action", "variant"}),
	}
}
