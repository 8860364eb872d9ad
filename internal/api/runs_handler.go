package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/godiscover/internal/metrics"
)

// RunsHandler serves aggregate run statistics.
type RunsHandler struct {
	metrics *metrics.Metrics
}

// NewRunsHandler creates a runs handler.
func NewRunsHandler(m *metrics.Metrics) *RunsHandler {
	return &RunsHandler{metrics: m}
}

// Summary handles GET /api/v1/runs/summary
func (h *RunsHandler) Summary(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Metrics not available",
		})
		return
	}

	snapshot := h.metrics.Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"summary":        snapshot,
		"uptime_seconds": int64(time.Since(snapshot.StartTime).Seconds()),
	})
}
