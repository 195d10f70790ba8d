package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReadingsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "readings_recorded_total",
			Namespace: GardenNamespace,
			Help:      "The total number of sensor readings stored, by metric and classification.",
		},
		[]string{"metric", "abnormal"},
	)
)
