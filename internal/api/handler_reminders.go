package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"garden-care-backend/internal/model"
	"garden-care-backend/internal/parse"
	"garden-care-backend/internal/reminder"
	"garden-care-backend/internal/store"
)

// GenerateReminders handles POST /api/reminders/generate for the caller.
func (h *Handler) GenerateReminders(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}
	reminders, err := h.reminders.Generate(c.Request.Context(), &user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reminders), "reminders": reminders})
}

// ListReminders handles GET /api/reminders?status=&type=&planting_id=&limit=.
func (h *Handler) ListReminders(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	var filter store.ReminderFilter
	if raw := c.Query("status"); raw != "" {
		status, err := parse.ParseReminderStatus(raw)
		if err != nil {
			h.respondError(c, err)
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("type"); raw != "" {
		t, err := parse.ParseReminderType(raw)
		if err != nil {
			h.respondError(c, err)
			return
		}
		filter.Type = &t
	}
	if c.Query("planting_id") != "" {
		id, ok := queryInt(c, "planting_id", 0)
		if !ok {
			return
		}
		plantingID := int64(id)
		filter.PlantingRecordID = &plantingID
	}
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}
	filter.Limit = limit

	reminders, err := h.reminders.List(c.Request.Context(), user, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

// GetReminder handles GET /api/reminders/:id.
func (h *Handler) GetReminder(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.reminders.Get(c.Request.Context(), id, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetReminderStatistics handles GET /api/reminders/statistics.
func (h *Handler) GetReminderStatistics(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}
	stats, err := h.reminders.Statistics(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type createReminderRequest struct {
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description"`
	ReminderType     string     `json:"reminder_type"`
	GardenID         *int64     `json:"garden_id"`
	PlantingRecordID *int64     `json:"planting_record_id"`
	RemindTime       *time.Time `json:"remind_time"`
	Priority         int        `json:"priority"`
}

// CreateReminder handles POST /api/reminders.
func (h *Handler) CreateReminder(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}
	var req createReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	manual := reminder.ManualReminder{
		UserID:           user,
		GardenID:         req.GardenID,
		PlantingRecordID: req.PlantingRecordID,
		Title:            req.Title,
		Description:      req.Description,
		Priority:         req.Priority,
	}
	if req.ReminderType != "" {
		t, err := parse.ParseReminderType(req.ReminderType)
		if err != nil {
			h.respondError(c, err)
			return
		}
		manual.Type = t
	}
	if req.RemindTime != nil {
		manual.RemindTime = *req.RemindTime
	}

	r, err := h.reminders.CreateManual(c.Request.Context(), manual)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// CompleteReminder handles POST /api/reminders/:id/complete.
func (h *Handler) CompleteReminder(c *gin.Context) {
	h.setReminderStatus(c, model.ReminderCompleted)
}

// IgnoreReminder handles POST /api/reminders/:id/ignore.
func (h *Handler) IgnoreReminder(c *gin.Context) {
	h.setReminderStatus(c, model.ReminderIgnored)
}

func (h *Handler) setReminderStatus(c *gin.Context, status model.ReminderStatus) {
	user, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var (
		done bool
		err  error
	)
	if status == model.ReminderCompleted {
		done, err = h.reminders.Complete(c.Request.Context(), id, user)
	} else {
		done, err = h.reminders.Ignore(c.Request.Context(), id, user)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !done {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "reminder not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

// UpdateGrowthStage handles POST /api/plantings/:id/growth-stage.
func (h *Handler) UpdateGrowthStage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	updated, err := h.reminders.UpdateGrowthStage(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"planting_record_id": id, "updated": updated})
}
