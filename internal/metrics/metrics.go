// Package metrics provides Prometheus metrics for the Vonage client.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for metrics.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

const namespace = "vonage_client"

// Metrics groups the client collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	// RequestsTotal counts completed requests by method and status code.
	// Transport failures use the code "error".
	RequestsTotal *prometheus.CounterVec

	// TokenRefreshTotal counts token refresh attempts by result.
	TokenRefreshTotal *prometheus.CounterVec

	// WebhookEventsTotal counts webhook payloads received by kind and result.
	WebhookEventsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg returns
// nil, which disables metrics.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of API requests by method and status code",
			},
			[]string{"method", "code"},
		),
		TokenRefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "token",
				Name:      "refresh_total",
				Help:      "Total number of token refresh attempts",
			},
			[]string{"result"},
		),
		WebhookEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "events_total",
				Help:      "Total number of webhook payloads received",
			},
			[]string{"kind", "result"},
		),
	}

	for _, c := range []prometheus.Collector{m.RequestsTotal, m.TokenRefreshTotal, m.WebhookEventsTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveRequest records a completed request. status 0 means the transport failed.
func (m *Metrics) ObserveRequest(method string, status int) {
	if m == nil {
		return
	}

	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}

	m.RequestsTotal.WithLabelValues(method, code).Inc()
}

// ObserveRefresh records a refresh attempt.
func (m *Metrics) ObserveRefresh(err error) {
	if m == nil {
		return
	}

	m.TokenRefreshTotal.WithLabelValues(result(err)).Inc()
}

// ObserveWebhook records a received webhook payload.
func (m *Metrics) ObserveWebhook(kind string, err error) {
	if m == nil {
		return
	}

	m.WebhookEventsTotal.WithLabelValues(kind, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}

	return ResultSuccess
}
