package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "blassa", Name: "bookings_created_total", Help: "Total booking requests accepted into PENDING"})
	RidesPublished   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "blassa", Name: "rides_published_total", Help: "Total rides published by drivers"})
	ReviewsSubmitted = promauto.NewCounter(prometheus.CounterOpts{Namespace: "blassa", Name: "reviews_submitted_total", Help: "Total reviews accepted"})
	ResendThrottled  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "blassa", Name: "resend_throttled_total", Help: "Verification resends rejected by the 60s throttle"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "blassa", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blassa",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
