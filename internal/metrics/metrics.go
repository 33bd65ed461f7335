package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Store metrics, labelled by backend ("memory", "redis", "postgres", "sqlite")
	MessagesSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_saved_total",
			Help: "Total messages persisted",
		},
		[]string{"backend"},
	)

	SessionsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_sessions_saved_total",
			Help: "Total session upserts",
		},
		[]string{"backend"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_store_errors_total",
			Help: "Total store operation failures",
		},
		[]string{"backend", "op"},
	)

	// Malformed cached payloads skipped during reads
	DecodeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_store_decode_failures_total",
			Help: "Total cached entries dropped due to decode errors",
		},
		[]string{"backend"},
	)
)
