// Package sources implements the command-line interface for managing
// discovery sources. This file contains the list command that displays
// the registered sources in a formatted table.
package sources

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
)

// SourceLister is the registry read the list command needs.
type SourceLister interface {
	List(ctx context.Context) ([]*domain.Source, error)
}

// TableRenderer handles the display of source data in a table format.
type TableRenderer struct {
	logger logger.Interface
}

// NewTableRenderer creates a new TableRenderer instance.
func NewTableRenderer(log logger.Interface) *TableRenderer {
	return &TableRenderer{
		logger: log,
	}
}

// RenderTable formats and displays the sources in a table format.
func (r *TableRenderer) RenderTable(sources []*domain.Source) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Name", "URL", "Status", "Last Method", "Publish Frequency"})

	for _, source := range sources {
		t.AppendRow(table.Row{
			source.Name,
			source.URL,
			sourceStatus(source),
			lastMethod(source),
			source.PublishFrequency,
		})
	}

	t.Render()
	return nil
}

func sourceStatus(source *domain.Source) string {
	switch {
	case source.Paused:
		return "paused"
	case !source.Enabled:
		return "disabled"
	default:
		return "active"
	}
}

func lastMethod(source *domain.Source) string {
	if source.LastSuccessfulMethod == nil || *source.LastSuccessfulMethod == "" {
		return "-"
	}
	return *source.LastSuccessfulMethod
}

// Lister handles listing sources.
type Lister struct {
	sources  SourceLister
	logger   logger.Interface
	renderer *TableRenderer
}

// NewLister creates a new Lister instance.
func NewLister(sources SourceLister, log logger.Interface, renderer *TableRenderer) *Lister {
	return &Lister{
		sources:  sources,
		logger:   log,
		renderer: renderer,
	}
}

// Start begins the list operation.
func (l *Lister) Start(ctx context.Context) error {
	sources, err := l.sources.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sources: %w", err)
	}

	if len(sources) == 0 {
		l.logger.Info("No sources registered")
		return nil
	}

	return l.renderer.RenderTable(sources)
}

// newListCommand creates the list command.
func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered sources",
		Long:  `List every source in the registry with its discovery status.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, db, err := openRegistry(cmd)
			if err != nil {
				return err
			}
			defer db.DB.Close()

			renderer := NewTableRenderer(deps.Logger)
			lister := NewLister(db.Sources, deps.Logger, renderer)

			return lister.Start(cmd.Context())
		},
	}
}
