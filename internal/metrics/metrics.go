package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Job feed requests by selection strategy",
		},
		[]string{"strategy"},
	)

	SavedJobRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saved_job_rejections_total",
			Help: "Rejected save-job requests by reason",
		},
		[]string{"reason"},
	)

	AssetLinks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_links_total",
			Help: "Asset link requests by outcome",
		},
		[]string{"outcome"},
	)

	Applications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applications_total",
			Help: "Job applications by outcome",
		},
		[]string{"outcome"},
	)

	FeedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_duration_seconds",
			Help:    "Time spent building a job feed page",
			Buckets: prometheus.DefBuckets,
		},
	)
)
