package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mahinda_express",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by status.",
		},
		[]string{"status"},
	)

	bookingStatusChanged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mahinda_express",
			Name:      "booking_status_changed_total",
			Help:      "Count of booking status transitions.",
		},
		[]string{"to"},
	)

	paymentConfirmed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mahinda_express",
			Name:      "payment_confirmed_total",
			Help:      "Count of payments confirmed via webhook.",
		},
	)

	seatHold = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mahinda_express",
			Name:      "seat_hold_total",
			Help:      "Count of seat hold attempts by outcome.",
		},
		[]string{"outcome"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mahinda_express",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingStatusChanged, paymentConfirmed, seatHold, httpDuration)
	})
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func IncBookingStatusChanged(to string) {
	bookingStatusChanged.WithLabelValues(to).Inc()
}

func IncPaymentConfirmed() {
	paymentConfirmed.Inc()
}

func IncSeatHold(outcome string) {
	seatHold.WithLabelValues(outcome).Inc()
}

func ObserveHTTP(method, status string, seconds float64) {
	httpDuration.WithLabelValues(method, status).Observe(seconds)
}
