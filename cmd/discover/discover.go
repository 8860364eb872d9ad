// Package discover implements the one-shot discovery command. It runs a
// single discovery batch synchronously and prints the per-source results.
package discover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/godiscover/internal/bootstrap"
	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/worker"
)

const stopTimeout = 30 * time.Second

// Command returns the discover command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "discover [source-name]",
		Short: "Run discovery once",
		Long: `Run one discovery pass. With a source name, only that source is
processed; otherwise every active source is swept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	deps, err := bootstrap.NewCommandDeps(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	dbComponents, err := bootstrap.SetupDatabase(deps.Config)
	if err != nil {
		return fmt.Errorf("failed to setup database: %w", err)
	}
	defer dbComponents.DB.Close()

	discoveryComponents, err := bootstrap.SetupDiscovery(deps, dbComponents)
	if err != nil {
		return fmt.Errorf("failed to setup discovery: %w", err)
	}
	if discoveryComponents.RedisClient != nil {
		defer discoveryComponents.RedisClient.Close()
	}
	defer stopPool(discoveryComponents.Pool, deps)

	ctx := cmd.Context()
	batch, err := loadBatch(ctx, dbComponents, args)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		deps.Logger.Info("No active sources to discover")
		return nil
	}

	result, err := discoveryComponents.Pool.RunBatch(ctx, batch)
	if err != nil {
		return fmt.Errorf("run discovery batch: %w", err)
	}

	renderResults(&result)
	deps.Logger.Info("Discovery finished",
		"sources", result.Processed,
		"skipped", result.Skipped,
		"new_links", result.NewLinks,
		"paused", result.Paused,
		"duration", result.Duration,
	)
	return nil
}

// loadBatch resolves which sources this pass covers. An explicit source
// name bypasses the active filter so the error can say why the source
// will not run.
func loadBatch(ctx context.Context, db *bootstrap.DatabaseComponents, args []string) ([]*domain.Source, error) {
	if len(args) == 0 {
		batch, err := db.Sources.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("list active sources: %w", err)
		}
		return batch, nil
	}

	source, err := db.Sources.GetByName(ctx, args[0])
	if err != nil {
		return nil, fmt.Errorf("load source %q: %w", args[0], err)
	}
	if source.Paused {
		reason := "no reason recorded"
		if source.PausedReason != nil {
			reason = *source.PausedReason
		}
		return nil, fmt.Errorf("source %q is paused (%s); resume it first", source.Name, reason)
	}
	if !source.Enabled {
		return nil, fmt.Errorf("source %q is disabled", source.Name)
	}
	return []*domain.Source{source}, nil
}

func stopPool(pool *worker.Pool, deps *bootstrap.CommandDeps) {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := pool.Stop(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		deps.Logger.Error("Failed to stop worker pool", "error", err)
	}
}

// renderResults prints one row per processed source.
func renderResults(result *worker.BatchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Source", "Outcome", "Methods", "Found", "New", "Duplicate", "Expired", "Out of Scope", "Duration"})

	for i := range result.Results {
		r := &result.Results[i]
		outcome := string(r.Outcome)
		if r.Paused {
			outcome += " (paused)"
		}
		t.AppendRow(table.Row{
			r.SourceName,
			outcome,
			joinMethods(r.MethodsAttempted),
			r.Counts.Found,
			r.Counts.New,
			r.Counts.Duplicate,
			r.Counts.Expired,
			r.Counts.OutOfScope,
			time.Duration(r.DurationMs) * time.Millisecond,
		})
	}

	t.Render()
}

func joinMethods(methods []domain.Method) string {
	if len(methods) == 0 {
		return "-"
	}
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}
