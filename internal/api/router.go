// Package api implements the HTTP API for the discovery service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/metrics"
	"github.com/jonesrussell/godiscover/internal/worker"
)

// PoolStatus exposes the worker pool state for the health surface.
type PoolStatus interface {
	Stats() worker.PoolStats
}

// RouterParams holds the dependencies for the HTTP surface. Pool, NextSweep,
// and Runner are optional; the routes that need them degrade gracefully.
type RouterParams struct {
	Logger    logger.Interface
	Sources   SourceStore
	Telemetry TelemetryStore
	Links     LinkStore
	Metrics   *metrics.Metrics

	// Runner serves run-now requests. Nil disables POST .../discover.
	Runner BatchRunner

	// RunCtx bounds run-now discovery to the service lifetime rather
	// than the request lifetime.
	RunCtx context.Context

	// Pool reports worker pool state on /health when set.
	Pool PoolStatus

	// NextSweep reports the next scheduled sweep on /health when set.
	NextSweep func() time.Time
}

// SetupRouter creates and configures the Gin router with all routes.
func SetupRouter(p RouterParams) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(p.Logger))
	router.Use(corsMiddleware())

	router.GET("/health", healthHandler(p))

	sourcesHandler := NewSourcesHandler(p)
	runsHandler := NewRunsHandler(p.Metrics)

	v1 := router.Group("/api/v1")

	sources := v1.Group("/sources")
	sources.GET("", sourcesHandler.ListSources)
	sources.GET("/:id", sourcesHandler.GetSource)
	sources.GET("/:id/state", sourcesHandler.GetSourceState)
	sources.GET("/:id/links", sourcesHandler.ListSourceLinks)
	sources.POST("/:id/pause", sourcesHandler.PauseSource)
	sources.POST("/:id/resume", sourcesHandler.ResumeSource)
	sources.POST("/:id/discover", sourcesHandler.DiscoverSource)

	v1.GET("/runs/summary", runsHandler.Summary)

	return router
}

// healthHandler reports liveness plus pool and schedule detail when wired.
func healthHandler(p RouterParams) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := gin.H{"status": "ok"}
		if p.Pool != nil {
			resp["pool"] = p.Pool.Stats().State.String()
		}
		if p.NextSweep != nil {
			if next := p.NextSweep(); !next.IsZero() {
				resp["next_sweep"] = next.UTC().Format(time.RFC3339)
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
