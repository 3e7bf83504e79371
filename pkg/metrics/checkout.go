package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CheckoutMetrics records checkout submissions and remote gateway calls.
type CheckoutMetrics struct {
	submissions     *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	breakerState    *prometheus.GaugeVec
	activeSessions  prometheus.Gauge
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_checkout_submissions_total",
		Help: "Checkout submissions by payment method and outcome.",
	}, []string{"method", "outcome"})
	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gallery_gateway_request_duration_seconds",
		Help:    "Duration of order gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
	breakerState := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gallery_gateway_breaker_state",
		Help: "Order gateway circuit breaker state (0 closed, 1 half-open, 2 open).",
	}, []string{"breaker"})
	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gallery_storefront_sessions",
		Help: "Browsing sessions currently held in memory.",
	})
	reg.MustRegister(submissions, gatewayDuration, breakerState, activeSessions)
	return &CheckoutMetrics{
		submissions:     submissions,
		gatewayDuration: gatewayDuration,
		breakerState:    breakerState,
		activeSessions:  activeSessions,
	}
}

// IncSubmission counts one checkout submit attempt.
func (c *CheckoutMetrics) IncSubmission(method string, success bool) {
	if c == nil || c.submissions == nil {
		return
	}
	c.submissions.WithLabelValues(normalizeLabel(method), outcome(success)).Inc()
}

// ObserveGatewayCall records the latency of a single gateway operation.
func (c *CheckoutMetrics) ObserveGatewayCall(operation string, duration time.Duration, success bool) {
	if c == nil || c.gatewayDuration == nil {
		return
	}
	c.gatewayDuration.WithLabelValues(normalizeLabel(operation), outcome(success)).Observe(duration.Seconds())
}

// SetBreakerState publishes the numeric breaker state.
func (c *CheckoutMetrics) SetBreakerState(name string, state int) {
	if c == nil || c.breakerState == nil {
		return
	}
	c.breakerState.WithLabelValues(normalizeLabel(name)).Set(float64(state))
}

// SetActiveSessions publishes the current number of browsing sessions.
func (c *CheckoutMetrics) SetActiveSessions(n int) {
	if c == nil || c.activeSessions == nil {
		return
	}
	c.activeSessions.Set(float64(n))
}

func outcome(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
