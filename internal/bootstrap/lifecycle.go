package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/scheduler"
	"github.com/jonesrussell/godiscover/internal/worker"
)

const (
	signalChannelBufferSize = 1
	defaultShutdownTimeout  = 30 * time.Second
)

// RunUntilInterrupt blocks until the server errors or a shutdown signal
// arrives, then shuts everything down in order.
func RunUntilInterrupt(
	log logger.Interface,
	server *http.Server,
	sched *scheduler.Scheduler,
	pool *worker.Pool,
	cancelRuns context.CancelFunc,
	errChan <-chan error,
) error {
	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case serverErr := <-errChan:
		log.Error("Server error", "error", serverErr)
		return fmt.Errorf("server error: %w", serverErr)
	case sig := <-sigChan:
		return Shutdown(log, server, sched, pool, cancelRuns, sig)
	}
}

// Shutdown stops the services in dependency order: the scheduler first
// so no new sweeps start, then in-flight runs, then the worker pool,
// and the HTTP server last so health stays observable while runs drain.
func Shutdown(
	log logger.Interface,
	server *http.Server,
	sched *scheduler.Scheduler,
	pool *worker.Pool,
	cancelRuns context.CancelFunc,
	sig os.Signal,
) error {
	log.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if sched != nil {
		log.Info("Stopping scheduler")
		if err := sched.Stop(ctx); err != nil {
			log.Error("Failed to stop scheduler", "error", err)
		}
	}

	// Cancel run-now discovery started from the API.
	if cancelRuns != nil {
		cancelRuns()
	}

	if pool != nil {
		log.Info("Stopping worker pool")
		if err := pool.Stop(ctx); err != nil {
			log.Error("Failed to stop worker pool", "error", err)
		}
	}

	log.Info("Stopping HTTP server")
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Failed to stop server", "error", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	log.Info("Server stopped successfully")
	return nil
}
