package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemindersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "reminders_created_total",
			Namespace: GardenNamespace,
			Help:      "The total number of reminders persisted, by type and source.",
		},
		[]string{"type", "source"},
	)

	RemindersDeduplicatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "reminders_deduplicated_total",
			Namespace: GardenNamespace,
			Help:      "The total number of candidate reminders answered by an existing pending reminder.",
		},
		[]string{"type"},
	)

	RemindersPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name:      "reminders_pending",
		Namespace: GardenNamespace,
		Help:      "Pending reminders as of the last daily summary.",
	})

	ActivePlantings = promauto.NewGauge(prometheus.GaugeOpts{
		Name:      "plantings_active",
		Namespace: GardenNamespace,
		Help:      "Growing planting records as of the last daily summary.",
	})

	StageTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "stage_transitions_total",
			Namespace: GardenNamespace,
			Help:      "The total number of planting stage updates written, by new stage.",
		},
		[]string{"stage"},
	)
)
