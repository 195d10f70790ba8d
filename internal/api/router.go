package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"garden-care-backend/config"
	"garden-care-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.Observe(logger))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/crops", caching, h.GetCrops)
		api.GET("/crops/:id/stages/:stage", caching, h.GetCropStage)

		api.POST("/reminders/generate", h.GenerateReminders)
		api.GET("/reminders", h.ListReminders)
		api.GET("/reminders/statistics", h.GetReminderStatistics)
		api.GET("/reminders/:id", h.GetReminder)
		api.POST("/reminders", h.CreateReminder)
		api.POST("/reminders/:id/complete", h.CompleteReminder)
		api.POST("/reminders/:id/ignore", h.IgnoreReminder)

		api.POST("/plantings/:id/growth-stage", h.UpdateGrowthStage)

		gardens := api.Group("/gardens/:garden_id/environment")
		gardens.GET("", h.GetEnvironment)
		gardens.GET("/history", h.GetEnvironmentHistory)
		gardens.POST("/simulate", h.SimulateEnvironment)
		gardens.POST("/backfill", h.BackfillEnvironment)
		gardens.POST("/weather-event", h.CreateWeatherEvent)

		api.POST("/sensors/:sensor_id/readings", h.RecordReading)

		api.POST("/jobs/:name/run", h.RunJob)
	}

	return r
}
