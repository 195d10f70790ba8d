package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"garden-care-backend/internal/model"
	"garden-care-backend/internal/parse"
)

// GetEnvironment handles GET /api/gardens/:garden_id/environment.
func (h *Handler) GetEnvironment(c *gin.Context) {
	gardenID, ok := pathID(c, "garden_id")
	if !ok {
		return
	}
	autoSimulate, ok := queryBool(c, "auto_simulate", true)
	if !ok {
		return
	}
	status, err := h.monitor.CurrentStatus(c.Request.Context(), gardenID, autoSimulate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetEnvironmentHistory handles GET /api/gardens/:garden_id/environment/history.
func (h *Handler) GetEnvironmentHistory(c *gin.Context) {
	gardenID, ok := pathID(c, "garden_id")
	if !ok {
		return
	}
	hours, ok := queryInt(c, "hours", 24)
	if !ok {
		return
	}
	var metric *model.Metric
	if raw := c.Query("metric"); raw != "" {
		m, err := parse.ParseMetric(raw)
		if err != nil {
			h.respondError(c, err)
			return
		}
		metric = &m
	}

	history, err := h.monitor.History(c.Request.Context(), gardenID, metric, hours)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"garden_id": gardenID, "hours": hours, "readings": history})
}

// SimulateEnvironment handles POST /api/gardens/:garden_id/environment/simulate.
func (h *Handler) SimulateEnvironment(c *gin.Context) {
	gardenID, ok := pathID(c, "garden_id")
	if !ok {
		return
	}
	realistic, ok := queryBool(c, "realistic", true)
	if !ok {
		return
	}
	readings, err := h.monitor.SimulateReadings(c.Request.Context(), gardenID, realistic)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"garden_id": gardenID, "readings": readings})
}

// BackfillEnvironment handles POST /api/gardens/:garden_id/environment/backfill.
func (h *Handler) BackfillEnvironment(c *gin.Context) {
	gardenID, ok := pathID(c, "garden_id")
	if !ok {
		return
	}
	days, ok := queryInt(c, "days", 7)
	if !ok {
		return
	}
	interval, ok := queryInt(c, "interval_minutes", 30)
	if !ok {
		return
	}
	summary, err := h.monitor.GenerateHistory(c.Request.Context(), gardenID, days, interval)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CreateWeatherEvent handles POST /api/gardens/:garden_id/environment/weather-event.
func (h *Handler) CreateWeatherEvent(c *gin.Context) {
	gardenID, ok := pathID(c, "garden_id")
	if !ok {
		return
	}
	event, err := parse.ParseWeatherEvent(c.Query("event_type"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	hours, ok := queryInt(c, "duration_hours", 2)
	if !ok {
		return
	}
	res, err := h.monitor.CreateWeatherEvent(c.Request.Context(), gardenID, event, hours)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type recordReadingRequest struct {
	Value *float64 `json:"value" binding:"required"`
	Unit  string   `json:"unit"`
}

// RecordReading handles POST /api/sensors/:sensor_id/readings.
func (h *Handler) RecordReading(c *gin.Context) {
	sensorID, ok := pathID(c, "sensor_id")
	if !ok {
		return
	}
	var req recordReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reading, err := h.monitor.RecordReading(c.Request.Context(), sensorID, *req.Value, req.Unit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reading)
}
