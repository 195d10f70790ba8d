package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"garden-care-backend/internal/catalog"
	"garden-care-backend/internal/environment"
	"garden-care-backend/internal/model"
	"garden-care-backend/internal/mw"
	"garden-care-backend/internal/reminder"
	"garden-care-backend/internal/scheduler"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	catalog   *catalog.Catalog
	reminders *reminder.Generator
	monitor   *environment.Monitor
	scheduler *scheduler.Scheduler
	logger    zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(cat *catalog.Catalog, reminders *reminder.Generator, monitor *environment.Monitor, sched *scheduler.Scheduler, logger zerolog.Logger) *Handler {
	return &Handler{
		catalog:   cat,
		reminders: reminders,
		monitor:   monitor,
		scheduler: sched,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// respondError maps domain errors onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// userID reads the caller from the X-User-ID header.
func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.GetHeader(mw.UserHeader), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid " + mw.UserHeader + " header"})
		return 0, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

func queryBool(c *gin.Context, name string, def bool) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return false, false
	}
	return v, true
}
