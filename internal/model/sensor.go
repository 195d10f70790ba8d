package model

import "time"

// Metric is the quantity a sensor measures.
type Metric string

const (
	MetricTemperature  Metric = "temperature"
	MetricHumidity     Metric = "humidity"
	MetricSoilMoisture Metric = "soil_moisture"
	MetricLight        Metric = "light"
	MetricSoilPH       Metric = "soil_ph"
)

// Metrics lists every sensor metric in provisioning order.
var Metrics = []Metric{MetricTemperature, MetricHumidity, MetricSoilMoisture, MetricLight, MetricSoilPH}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	for _, known := range Metrics {
		if m == known {
			return true
		}
	}
	return false
}

// Unit returns the display unit of the metric.
func (m Metric) Unit() string {
	switch m {
	case MetricTemperature:
		return "°C"
	case MetricHumidity, MetricSoilMoisture:
		return "%"
	case MetricLight:
		return "lux"
	case MetricSoilPH:
		return "pH"
	}
	return ""
}

// Sensor is a (possibly virtual) device measuring one metric on a garden.
type Sensor struct {
	ID                     int64      `gorm:"primaryKey" json:"id"`
	GardenID               int64      `gorm:"not null;uniqueIndex:idx_sensor_garden_type" json:"garden_id"`
	SensorType             Metric     `gorm:"size:50;not null;uniqueIndex:idx_sensor_garden_type" json:"sensor_type"`
	DeviceID               string     `gorm:"size:100;uniqueIndex" json:"device_id"`
	Location               string     `gorm:"size:200" json:"location,omitempty"`
	Active                 bool       `gorm:"not null;default:true" json:"active"`
	ReadingIntervalSeconds int        `gorm:"default:300" json:"reading_interval_seconds"`
	LastReadingTime        *time.Time `json:"last_reading_time"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// Reading is an immutable sample of a sensor.
type Reading struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	SensorID       int64     `gorm:"not null;index:idx_reading_sensor_time,priority:1" json:"sensor_id"`
	Value          float64   `gorm:"not null" json:"value"`
	Unit           string    `gorm:"size:20" json:"unit"`
	IsAbnormal     bool      `gorm:"not null;default:false" json:"is_abnormal"`
	AbnormalReason string    `gorm:"size:200" json:"abnormal_reason,omitempty"`
	ReadingTime    time.Time `gorm:"not null;index:idx_reading_sensor_time,priority:2" json:"reading_time"`
}

// WeatherEvent is a transient condition injected into a garden's readings.
type WeatherEvent string

const (
	WeatherRain     WeatherEvent = "rain"
	WeatherHeatWave WeatherEvent = "heat_wave"
	WeatherCold     WeatherEvent = "cold"
	WeatherDrought  WeatherEvent = "drought"
)

// WeatherEvents lists every supported weather event.
var WeatherEvents = []WeatherEvent{WeatherRain, WeatherHeatWave, WeatherCold, WeatherDrought}

// Valid reports whether e is a supported weather event.
func (e WeatherEvent) Valid() bool {
	for _, known := range WeatherEvents {
		if e == known {
			return true
		}
	}
	return false
}
