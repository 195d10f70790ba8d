package environment

import (
	"fmt"
	"strconv"

	"garden-care-backend/internal/model"
)

// Soil moisture is judged against one band for every crop.
var soilMoistureBand = model.Band{Min: 20, Max: 80, Optimal: 60}

var metricLabels = map[model.Metric]string{
	model.MetricTemperature: "temperature",
	model.MetricHumidity:    "humidity",
	model.MetricLight:       "light",
	model.MetricSoilPH:      "soil pH",
}

func formatBound(m model.Metric, v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	switch m {
	case model.MetricTemperature:
		return s + "°C"
	case model.MetricHumidity:
		return s + "%"
	case model.MetricLight:
		return s + " lux"
	}
	return s
}

// Classify judges a reading against the crops growing where it was taken.
// crops holds one entry per growing planting; entries are nil when the
// planting's crop is unknown. The first violated band wins.
func Classify(m model.Metric, value float64, crops []*model.Crop) (bool, string) {
	if len(crops) == 0 {
		return false, ""
	}

	if m == model.MetricSoilMoisture {
		switch {
		case value < soilMoistureBand.Min:
			return true, fmt.Sprintf("soil too dry, below %g%%, needs watering", soilMoistureBand.Min)
		case value > soilMoistureBand.Max:
			return true, fmt.Sprintf("soil too wet, above %g%%, check drainage", soilMoistureBand.Max)
		}
		return false, ""
	}

	label, ok := metricLabels[m]
	if !ok {
		return false, ""
	}
	for _, crop := range crops {
		if crop == nil {
			continue
		}
		band := crop.Requirements().BandFor(m)
		if band == nil {
			continue
		}
		if value < band.Min {
			return true, fmt.Sprintf("%s too low, below %s", label, formatBound(m, band.Min))
		}
		if value > band.Max {
			return true, fmt.Sprintf("%s too high, above %s", label, formatBound(m, band.Max))
		}
	}
	return false, ""
}
