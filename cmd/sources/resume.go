package sources

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newResumeCommand creates the resume command.
func newResumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <name>",
		Short: "Resume discovery for a paused source",
		Long: `Resume discovery for a paused source. Resuming clears the pause and
the failure streak that caused it, so the next sweep starts fresh.`,
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

			if resumeErr := db.Sources.Resume(ctx, source.ID); resumeErr != nil {
				return fmt.Errorf("resume source %q: %w", source.Name, resumeErr)
			}

			deps.Logger.Info("Source resumed", "source", source.Name)
			return nil
		},
	}
}
