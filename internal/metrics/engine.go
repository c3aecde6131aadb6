package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Engine Prometheus metrics.
var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workshop",
			Name:      "recommendations_total",
			Help:      "Recommendations produced, by text source and shape family",
		},
		[]string{"source", "shape_family"},
	)

	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workshop",
			Name:      "provider_requests_total",
			Help:      "External provider calls",
		},
		[]string{"provider", "op", "status"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "workshop",
			Name:      "provider_request_duration_seconds",
			Help:      "External provider call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"provider", "op"},
	)

	ImageJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workshop",
			Name:      "image_jobs_total",
			Help:      "Image job polls by observed state",
		},
		[]string{"state"},
	)

	ImageStatusCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workshop",
			Name:      "image_status_cache_total",
			Help:      "Image status cache hits and misses",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		RecommendationsTotal,
		ProviderRequestsTotal,
		ProviderRequestDuration,
		ImageJobsTotal,
		ImageStatusCacheTotal,
	)
}

// ObserveProvider records one provider call.
func ObserveProvider(provider, op string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ProviderRequestsTotal.WithLabelValues(provider, op, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider, op).Observe(time.Since(started).Seconds())
}
