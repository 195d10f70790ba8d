package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "job_duration_seconds",
			Namespace: GardenNamespace,
			Buckets:   prometheus.DefBuckets,
			Help:      "The duration of scheduled job runs in seconds.",
		},
		[]string{"job"},
	)

	JobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "job_failures_total",
			Namespace: GardenNamespace,
			Help:      "The total number of job runs that returned an error or panicked.",
		},
		[]string{"job"},
	)
)
