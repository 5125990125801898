// Package metrics holds Prometheus instruments used across the service.  All
// collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	ConsultationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consultations_created_total",
			Help: "Bookings stored, by channel (public or managed).",
		},
		[]string{"channel"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Booking notifications by result (sent, failed, skipped).",
		},
		[]string{"result"},
	)

	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit state per dependency: 0 closed, 1 half-open, 2 open.",
		},
		[]string{"service"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		ConsultationsCreated,
		NotificationsTotal,
		BreakerState,
	)
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }
