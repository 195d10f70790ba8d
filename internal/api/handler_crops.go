package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"garden-care-backend/internal/catalog"
	"garden-care-backend/internal/model"
	"garden-care-backend/internal/parse"
)

// GetCrops handles the GET /api/crops request.
func (h *Handler) GetCrops(c *gin.Context) {
	crops, err := h.catalog.Crops(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"crops": crops})
}

// GetCropStage handles GET /api/crops/:id/stages/:stage and returns the
// care rule of one growth stage.
func (h *Handler) GetCropStage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stage, err := parse.ParseStage(c.Param("stage"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	rules, err := h.catalog.StageRules(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	rule := catalog.RuleFor(rules, stage)
	if rule == nil {
		h.respondError(c, fmt.Errorf("crop %d has no %s stage: %w", id, stage, model.ErrNotFound))
		return
	}
	c.JSON(http.StatusOK, rule)
}
