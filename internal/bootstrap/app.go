// Package bootstrap handles application initialization and lifecycle
// management for the discovery service.
//
// The bootstrap process follows these phases:
//   - Phase 1: Config & Logger - Load configuration and create logger
//   - Phase 2: Database - Connect to PostgreSQL and create repositories
//   - Phase 3: Discovery - Assemble strategies, orchestrator, locker, and pool
//   - Phase 4: Scheduler - Start the recurring sweep schedule
//   - Phase 5: Server - Create and start the HTTP API server
//   - Phase 6: Run - Wait for interrupt signal or error
package bootstrap

import (
	"context"
	"fmt"
)

// Start initializes and starts the discovery service. It handles all
// phases of bootstrap and returns an error if any phase fails. The
// function blocks until the server is interrupted or encounters an
// error.
func Start(cfgFile string) error {
	// Phase 1: Initialize config and logger
	deps, err := NewCommandDeps(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Phase 2: Setup database (PostgreSQL) and repositories
	dbComponents, err := SetupDatabase(deps.Config)
	if err != nil {
		return fmt.Errorf("failed to setup database: %w", err)
	}
	defer dbComponents.DB.Close()

	// Phase 3: Setup the discovery engine and worker pool
	discoveryComponents, err := SetupDiscovery(deps, dbComponents)
	if err != nil {
		return fmt.Errorf("failed to setup discovery: %w", err)
	}
	if discoveryComponents.RedisClient != nil {
		defer discoveryComponents.RedisClient.Close()
	}

	// Phase 4: Setup the sweep scheduler
	sched, err := SetupScheduler(deps, dbComponents, discoveryComponents.Pool)
	if err != nil {
		return fmt.Errorf("failed to setup scheduler: %w", err)
	}

	// Phase 5: Setup HTTP server
	runCtx, cancelRuns := context.WithCancel(context.Background())
	defer cancelRuns()
	serverComponents := SetupHTTPServer(deps, dbComponents, discoveryComponents, sched, runCtx)

	// Phase 6: Run until interrupt or error
	return RunUntilInterrupt(
		deps.Logger,
		serverComponents.Server,
		sched,
		discoveryComponents.Pool,
		cancelRuns,
		serverComponents.ErrorChan,
	)
}
