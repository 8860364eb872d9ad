package bootstrap

import (
	"context"
	"net/http"

	"github.com/jonesrussell/godiscover/internal/api"
	"github.com/jonesrussell/godiscover/internal/scheduler"
)

// ServerComponents holds the HTTP server and its error channel.
type ServerComponents struct {
	Server    *http.Server
	ErrorChan <-chan error
}

// SetupHTTPServer creates and starts the HTTP API server. runCtx bounds
// run-now discovery requests to the service lifetime; sched may be nil
// for deployments without a sweep schedule.
func SetupHTTPServer(
	deps *CommandDeps,
	db *DatabaseComponents,
	dc *DiscoveryComponents,
	sched *scheduler.Scheduler,
	runCtx context.Context,
) *ServerComponents {
	params := api.RouterParams{
		Logger:    deps.Logger,
		Sources:   db.Sources,
		Telemetry: db.Telemetry,
		Links:     db.Links,
		Metrics:   dc.Metrics,
		Runner:    dc.Pool,
		RunCtx:    runCtx,
		Pool:      dc.Pool,
	}
	if sched != nil {
		params.NextSweep = sched.NextRun
	}

	server := api.NewHTTPServer(deps.Config.Server, params)

	deps.Logger.Info("Starting HTTP server", "addr", server.Addr)
	return &ServerComponents{
		Server:    server,
		ErrorChan: api.Serve(server),
	}
}
