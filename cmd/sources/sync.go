package sources

import (
	"fmt"

	"github.com/spf13/cobra"

	internalsources "github.com/jonesrussell/godiscover/internal/sources"
)

// newSyncCommand creates the sync command.
func newSyncCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync the seed file into the source registry",
		Long: `Sync the YAML seed file into the source registry. Existing sources
are matched by name and updated in place; their discovery state is
left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, db, err := openRegistry(cmd)
			if err != nil {
				return err
			}
			defer db.DB.Close()

			seedFile := file
			if seedFile == "" {
				seedFile = deps.Config.Discovery.SourcesFile
			}

			syncer := internalsources.NewSyncer(seedFile, db.Sources, deps.Logger)
			result, err := syncer.Sync(cmd.Context())
			if err != nil {
				return fmt.Errorf("sync sources from %s: %w", seedFile, err)
			}

			deps.Logger.Info("Registry synced from seed file",
				"file", seedFile,
				"created", result.Created,
				"updated", result.Updated,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "seed file (defaults to discovery.sources_file)")

	return cmd
}
