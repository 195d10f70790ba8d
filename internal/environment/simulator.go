package environment

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"garden-care-backend/config"
	"garden-care-backend/internal/model"
)

// valueRange is a closed interval sampled uniformly.
type valueRange struct{ lo, hi float64 }

var randomRanges = map[model.Metric]valueRange{
	model.MetricTemperature:  {15, 30},
	model.MetricHumidity:     {50, 80},
	model.MetricSoilMoisture: {30, 70},
	model.MetricLight:        {3000, 8000},
	model.MetricSoilPH:       {6.0, 7.5},
}

var eventRanges = map[model.WeatherEvent]map[model.Metric]valueRange{
	model.WeatherRain: {
		model.MetricSoilMoisture: {75, 90},
		model.MetricLight:        {500, 2000},
		model.MetricHumidity:     {85, 95},
	},
	model.WeatherHeatWave: {
		model.MetricTemperature:  {35, 42},
		model.MetricHumidity:     {25, 40},
		model.MetricSoilMoisture: {15, 30},
	},
	model.WeatherCold: {
		model.MetricTemperature: {0, 8},
		model.MetricHumidity:    {70, 85},
	},
	model.WeatherDrought: {
		model.MetricSoilMoisture: {10, 20},
		model.MetricHumidity:     {30, 45},
	},
}

// Simulator produces synthetic sensor values. It is safe for concurrent use.
type Simulator struct {
	mu               sync.Mutex
	rng              *rand.Rand
	wateringHour     float64
	cloudProbability float64
	loc              *time.Location
}

// NewSimulator creates a simulator drawing from src. A nil src seeds from
// the runtime's random source. Daily and seasonal cycles follow
// cfg.Location, UTC when unset.
func NewSimulator(src rand.Source, cfg config.SimulationConfig) *Simulator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Simulator{
		rng:              rand.New(src),
		wateringHour:     float64(cfg.WateringHour),
		cloudProbability: cfg.CloudProbability,
		loc:              loc,
	}
}

func (s *Simulator) uniform(r valueRange) float64 {
	return r.lo + (r.hi-r.lo)*s.rng.Float64()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Realistic returns a value following seasonal and daily cycles at the given
// instant, rounded to two decimals. The cycles run on local time.
func (s *Simulator) Realistic(m model.Metric, at time.Time) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	at = at.In(s.loc)
	hour := float64(at.Hour()) + float64(at.Minute())/60
	dailySine := math.Sin((hour - 6) * math.Pi / 12)

	var v float64
	switch m {
	case model.MetricTemperature:
		season := 20 + 10*math.Sin(float64(at.YearDay()-80)*2*math.Pi/365)
		v = clamp(season+5*dailySine+s.uniform(valueRange{-1.5, 1.5}), 5, 40)
	case model.MetricHumidity:
		v = clamp(65-20*dailySine+s.uniform(valueRange{-5, 5}), 30, 95)
	case model.MetricSoilMoisture:
		sinceWatering := math.Mod(hour-s.wateringHour+24, 24)
		loss := 25 * (1 - math.Exp(-sinceWatering/12))
		v = clamp(70-loss+s.uniform(valueRange{-3, 3}), 15, 85)
	case model.MetricLight:
		if hour >= 6 && hour < 20 {
			intensity := 8000 * math.Sin((hour-6)*math.Pi/14)
			if s.rng.Float64() < s.cloudProbability {
				intensity *= s.uniform(valueRange{0.3, 0.8})
			}
			v = intensity + s.uniform(valueRange{-500, 500})
		} else {
			v = s.uniform(valueRange{0, 50})
		}
		v = clamp(v, 0, 10000)
	case model.MetricSoilPH:
		trend := 0.1 * math.Sin(float64(at.Month())*math.Pi/12)
		v = clamp(6.5+trend+s.uniform(valueRange{-0.2, 0.2}), 5.5, 8.0)
	default:
		v = s.uniform(valueRange{0, 100})
	}
	return round2(v)
}

// Random returns a flat random value in the metric's plausible range.
func (s *Simulator) Random(m model.Metric) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := randomRanges[m]
	if !ok {
		r = valueRange{0, 100}
	}
	return round2(s.uniform(r))
}

// Event returns the value a weather event forces on a metric. The second
// result is false when the event leaves the metric alone.
func (s *Simulator) Event(e model.WeatherEvent, m model.Metric) (float64, bool) {
	r, ok := eventRanges[e][m]
	if !ok {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return round2(s.uniform(r)), true
}
