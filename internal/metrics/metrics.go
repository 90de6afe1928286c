package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics for the registration gateway
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	WizardTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_transitions_total",
			Help: "Registration wizard transitions by step, direction and result",
		},
		[]string{"step", "direction", "result"},
	)

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_submissions_total",
			Help: "Registration submissions by outcome",
		},
		[]string{"outcome"},
	)

	PaymentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_requests_total",
			Help: "Gateway payment requests by method and result",
		},
		[]string{"method", "result"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "registration_sessions_active",
			Help: "Number of registration sessions held in memory",
		},
	)

	PlatformRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platform_request_duration_seconds",
			Help:    "Duration of platform API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)

	PaymentTrackingTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_tracking_messages_total",
			Help: "Payment tracking messages processed by status",
		},
		[]string{"status"},
	)

	LedgerPoolConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ledger_pool_connections",
			Help: "Ledger database connections by state, sampled on health checks",
		},
		[]string{"state"},
	)
)

var registerOnce sync.Once

// Register registers all metrics with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(WizardTransitionsTotal)
		prometheus.MustRegister(SubmissionsTotal)
		prometheus.MustRegister(PaymentRequestsTotal)
		prometheus.MustRegister(ActiveSessions)
		prometheus.MustRegister(PlatformRequestDuration)
		prometheus.MustRegister(PaymentTrackingTotal)
		prometheus.MustRegister(LedgerPoolConnections)
	})
}
