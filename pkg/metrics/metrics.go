package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests        *prometheus.CounterVec
	LatencyMS       *prometheus.HistogramVec
	SessionsCreated prometheus.Counter
	OrdersSubmitted prometheus.Counter
	WebhookEvents   *prometheus.CounterVec
}

func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shop",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	sessions := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: service,
		Name:      "checkout_sessions_created_total",
		Help:      "Checkout sessions successfully created.",
	})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: service,
		Name:      "fulfillment_orders_submitted_total",
		Help:      "Fulfillment orders successfully submitted.",
	})
	webhooks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: service,
		Name:      "webhook_events_total",
		Help:      "Webhook deliveries by outcome.",
	}, []string{"outcome"})

	prometheus.MustRegister(requests, latency, sessions, orders, webhooks)
	return &ServerMetrics{
		Requests:        requests,
		LatencyMS:       latency,
		SessionsCreated: sessions,
		OrdersSubmitted: orders,
		WebhookEvents:   webhooks,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
