package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RunJob handles POST /api/jobs/:name/run. The job runs synchronously and
// finishes even if the client goes away.
func (h *Handler) RunJob(c *gin.Context) {
	name := c.Param("name")
	start := time.Now()
	ctx := context.WithoutCancel(c.Request.Context())
	if err := h.scheduler.RunNow(ctx, name); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": name, "elapsed_ms": time.Since(start).Milliseconds()})
}
