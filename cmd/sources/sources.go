// Package sources provides the sources command implementation: listing,
// pausing, resuming, and syncing the source registry.
package sources

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/godiscover/internal/bootstrap"
)

// Command returns the sources command with its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage discovery sources",
		Long:  `Manage the registered news sources and their discovery state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newListCommand(),
		newPauseCommand(),
		newResumeCommand(),
		newSyncCommand(),
	)

	return cmd
}

// openRegistry initializes dependencies and the database connection the
// sources subcommands share. The caller closes db.DB.
func openRegistry(cmd *cobra.Command) (*bootstrap.CommandDeps, *bootstrap.DatabaseComponents, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	deps, err := bootstrap.NewCommandDeps(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	db, err := bootstrap.SetupDatabase(deps.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup database: %w", err)
	}

	return deps, db, nil
}
