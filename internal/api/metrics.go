package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	answersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flashdeck_answers_total",
			Help: "The total number of recorded answers by difficulty",
		},
		[]string{"difficulty"},
	)
	dueCards = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flashdeck_due_cards",
			Help:    "The number of cards returned per practice request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flashdeck_http_requests_total",
			Help: "The total number of handled HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flashdeck_http_request_duration_seconds",
			Help:    "Latency of handled HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
