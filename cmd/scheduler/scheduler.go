// Package scheduler implements the headless sweep command: the cron
// scheduler and worker pool without the HTTP API. Worker replicas run
// this alongside one httpd instance, coordinated by the per-source
// lock.
package scheduler

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/godiscover/internal/bootstrap"
)

const shutdownTimeout = 30 * time.Second

// Command returns the scheduler command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run scheduled discovery sweeps without the HTTP API",
		Long: `Run the cron scheduler and worker pool headless. Sweeps fire on the
configured schedule until the process is interrupted.`,
		RunE: run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	deps, err := bootstrap.NewCommandDeps(cfgFile)
	if err != nil {
		return err
	}

	dbComponents, err := bootstrap.SetupDatabase(deps.Config)
	if err != nil {
		return err
	}
	defer dbComponents.DB.Close()

	discoveryComponents, err := bootstrap.SetupDiscovery(deps, dbComponents)
	if err != nil {
		return err
	}
	if discoveryComponents.RedisClient != nil {
		defer discoveryComponents.RedisClient.Close()
	}

	sched, err := bootstrap.SetupScheduler(deps, dbComponents, discoveryComponents.Pool)
	if err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	deps.Logger.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if stopErr := sched.Stop(ctx); stopErr != nil {
		deps.Logger.Error("Failed to stop scheduler", "error", stopErr)
	}
	if stopErr := discoveryComponents.Pool.Stop(ctx); stopErr != nil {
		deps.Logger.Error("Failed to stop worker pool", "error", stopErr)
	}

	deps.Logger.Info("Scheduler stopped successfully")
	return nil
}
