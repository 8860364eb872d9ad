package sources

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/godiscover/internal/domain"
)

// newPauseCommand creates the pause command.
func newPauseCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "pause <name>",
		Short: "Pause discovery for a source",
		Long: `Pause discovery for a source. Paused sources are skipped by every
sweep until an operator resumes them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, db, err := openRegistry(cmd)
			if err != nil {
				return err
			}
			defer db.DB.Close()

			ctx := cmd.Context()
			source, err := db.Sources.GetByName(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load source %q: %w", args[0], err)
			}

			pauseReason := strings.TrimSpace(reason)
			if pauseReason == "" {
				pauseReason = domain.PauseReasonManual
			}

			if pauseErr := db.Sources.Pause(ctx, source.ID, pauseReason); pauseErr != nil {
				return fmt.Errorf("pause source %q: %w", source.Name, pauseErr)
			}

			deps.Logger.Info("Source paused", "source", source.Name, "reason", pauseReason)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded with the pause")

	return cmd
}
