package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Metrics holds the client side collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	feedPages       *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
	payments        *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests sent to the storefront api by endpoint, method and outcome.",
		}, []string{"endpoint", "method", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Latency of storefront api requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "method"}),
		feedPages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_pages_loaded_total",
			Help:      "Pages applied to a feed by feed name and page kind.",
		}, []string{"feed", "kind"}),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_reconciliations_total",
			Help:      "Cart re-fetches triggered by a failed mutation.",
		}, []string{"operation"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_initiations_total",
			Help:      "Mobile money payment initiations by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.feedPages, m.reconciliations, m.payments)
	return m
}

func (m *Metrics) ObserveRequest(endpoint string, method string, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	endpoint = normalizeLabel(endpoint)
	m.requests.WithLabelValues(endpoint, method, normalizeLabel(outcome)).Inc()
	m.requestDuration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

func (m *Metrics) IncFeedPage(feed string, kind string) {
	if m == nil {
		return
	}
	m.feedPages.WithLabelValues(normalizeLabel(feed), kind).Inc()
}

func (m *Metrics) IncReconciliation(operation string) {
	if m == nil {
		return
	}
	m.reconciliations.WithLabelValues(normalizeLabel(operation)).Inc()
}

func (m *Metrics) IncPayment(outcome string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
