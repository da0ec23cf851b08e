// Package metrics contains prometheus instrumentation of the feed engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// nolint:gochecknoglobals
var (
	// FeedRequests counts feed requests per feed variant.
	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ambrosia_feed_requests_total",
			Help: "Total number of feed requests",
		},
		[]string{"feed"},
	)

	// FeedErrors counts failed feed requests per feed variant.
	FeedErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ambrosia_feed_errors_total",
			Help: "Total number of failed feed requests",
		},
		[]string{"feed"},
	)

	// FeedRequestDuration observes end-to-end feed computation latency.
	FeedRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ambrosia_feed_request_duration_seconds",
			Help: "Duration of feed computation in seconds",
		},
		[]string{"feed"},
	)

	// FeedPoolSize observes the candidate pool size per request.
	FeedPoolSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ambrosia_feed_pool_size",
			Help:    "Candidate pool size per feed request",
			Buckets: prometheus.LinearBuckets(0, 50, 8),
		},
		[]string{"feed"},
	)
)
