package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/godiscover/internal/database"
	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/worker"
)

const (
	defaultLinkLimit   = 50
	maxLinkLimit       = 200
	recentFailureLimit = 10
)

// SourceStore is the registry surface the API reads and mutates.
type SourceStore interface {
	List(ctx context.Context) ([]*domain.Source, error)
	ListActive(ctx context.Context) ([]*domain.Source, error)
	GetByID(ctx context.Context, id string) (*domain.Source, error)
	Pause(ctx context.Context, sourceID, reason string) error
	Resume(ctx context.Context, sourceID string) error
}

// TelemetryStore exposes the per-method history for the state endpoint.
type TelemetryStore interface {
	EffectivenessBySource(ctx context.Context, sourceID string) ([]*database.MethodEffectiveness, error)
	RecentFailures(ctx context.Context, sourceID string, limit int) ([]*database.SiteFailure, error)
}

// LinkStore exposes discovered links for operator inspection.
type LinkStore interface {
	ListBySource(ctx context.Context, sourceID string, limit int) ([]*domain.DiscoveredLink, error)
	CountBySource(ctx context.Context, sourceID string) (int64, error)
}

// BatchRunner runs discovery across a batch of sources.
type BatchRunner interface {
	RunBatch(ctx context.Context, sources []*domain.Source) (worker.BatchResult, error)
}

// PauseRequest is the optional body for POST /sources/:id/pause.
type PauseRequest struct {
	Reason string `json:"reason"`
}

// SourcesHandler handles source-related HTTP requests.
type SourcesHandler struct {
	sources   SourceStore
	telemetry TelemetryStore
	links     LinkStore
	runner    BatchRunner
	runCtx    context.Context
	logger    logger.Interface
}

// NewSourcesHandler creates the sources handler from router params.
func NewSourcesHandler(p RouterParams) *SourcesHandler {
	runCtx := p.RunCtx
	if runCtx == nil {
		runCtx = context.Background()
	}
	return &SourcesHandler{
		sources:   p.Sources,
		telemetry: p.Telemetry,
		links:     p.Links,
		runner:    p.Runner,
		runCtx:    runCtx,
		logger:    p.Logger.WithComponent("api"),
	}
}

// ListSources handles GET /api/v1/sources. Pass ?active=true to restrict
// the list to enabled, unpaused sources.
func (h *SourcesHandler) ListSources(c *gin.Context) {
	var (
		sources []*domain.Source
		err     error
	)
	if c.Query("active") == "true" {
		sources, err = h.sources.ListActive(c.Request.Context())
	} else {
		sources, err = h.sources.List(c.Request.Context())
	}
	if err != nil {
		h.logger.Error("Failed to list sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve sources",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": sources,
		"total":   len(sources),
	})
}

// GetSource handles GET /api/v1/sources/:id
func (h *SourcesHandler) GetSource(c *gin.Context) {
	source, ok := h.sourceByID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, source)
}

// GetSourceState handles GET /api/v1/sources/:id/state
func (h *SourcesHandler) GetSourceState(c *gin.Context) {
	source, ok := h.sourceByID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	methods, err := h.telemetry.EffectivenessBySource(ctx, source.ID)
	if err != nil {
		h.logger.Error("Failed to load method effectiveness", "source_id", source.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve discovery state",
		})
		return
	}

	failures, err := h.telemetry.RecentFailures(ctx, source.ID, recentFailureLimit)
	if err != nil {
		h.logger.Error("Failed to load recent failures", "source_id", source.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve discovery state",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source_id":            source.ID,
		"source_name":          source.Name,
		"state":                source.DiscoveryState,
		"method_effectiveness": methods,
		"recent_failures":      failures,
	})
}

// ListSourceLinks handles GET /api/v1/sources/:id/links
func (h *SourcesHandler) ListSourceLinks(c *gin.Context) {
	source, ok := h.sourceByID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLinkLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLinkLimit
	}
	if limit > maxLinkLimit {
		limit = maxLinkLimit
	}

	ctx := c.Request.Context()

	links, err := h.links.ListBySource(ctx, source.ID, limit)
	if err != nil {
		h.logger.Error("Failed to list discovered links", "source_id", source.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve links",
		})
		return
	}

	total, err := h.links.CountBySource(ctx, source.ID)
	if err != nil {
		h.logger.Error("Failed to count discovered links", "source_id", source.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve links",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"links": links,
		"total": total,
	})
}

// PauseSource handles POST /api/v1/sources/:id/pause
func (h *SourcesHandler) PauseSource(c *gin.Context) {
	source, ok := h.sourceByID(c)
	if !ok {
		return
	}

	var req PauseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = domain.PauseReasonManual
	}

	if err := h.sources.Pause(c.Request.Context(), source.ID, reason); err != nil {
		h.logger.Error("Failed to pause source", "source_id", source.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to pause source",
		})
		return
	}

	h.logger.Info("Source paused", "source_id", source.ID, "source_name", source.Name, "reason", reason)

	c.JSON(http.StatusOK, gin.H{
		"status":    "paused",
		"source_id": source.ID,
		"reason":    reason,
	})
}

// ResumeSource handles POST /api/v1/sources/:id/resume. This is the only
// path that unpauses a source; it also resets the failure streak so the
// circuit breaker does not re-pause on the next run.
func (h *SourcesHandler) ResumeSource(c *gin.Context) {
	source, ok := h.sourceByID(c)
	if !ok {
		return
	}

	if err := h.sources.Resume(c.Request.Context(), source.ID); err != nil {
		h.logger.Error("Failed to resume source", "source_id", source.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resume source",
		})
		return
	}

	h.logger.Info("Source resumed", "source_id", source.ID, "source_name", source.Name)

	c.JSON(http.StatusOK, gin.H{
		"status":    "resumed",
		"source_id": source.ID,
	})
}

// DiscoverSource handles POST /api/v1/sources/:id/discover. The run happens
// in the background; poll the state or links endpoints for the outcome.
func (h *SourcesHandler) DiscoverSource(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Discovery runner not available",
		})
		return
	}

	source, ok := h.sourceByID(c)
	if !ok {
		return
	}

	if source.Paused {
		c.JSON(http.StatusConflict, gin.H{
			"error":         "Source is paused; resume it before running discovery",
			"paused_reason": source.PausedReason,
		})
		return
	}
	if !source.Enabled {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Source is disabled",
		})
		return
	}

	go func() {
		if _, err := h.runner.RunBatch(h.runCtx, []*domain.Source{source}); err != nil {
			h.logger.Error("Run-now discovery failed", "source_id", source.ID, "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status":      "accepted",
		"source_id":   source.ID,
		"source_name": source.Name,
	})
}

// sourceByID resolves the :id param to a source, writing the error response
// itself when the lookup fails.
func (h *SourcesHandler) sourceByID(c *gin.Context) (*domain.Source, bool) {
	id := c.Param("id")
	if id == "" || id == "undefined" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid source ID",
		})
		return nil, false
	}

	source, err := h.sources.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrSourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Source not found",
			})
		} else {
			h.logger.Error("Failed to get source", "source_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve source",
			})
		}
		return nil, false
	}

	return source, true
}
