// Package httpd implements the long-running discovery service command:
// the HTTP API plus the recurring sweep scheduler.
package httpd

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/godiscover/internal/bootstrap"
)

// Command returns the httpd command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Run the discovery service",
		Long: `Run the discovery service: the HTTP API for sources, state, and
run-now requests, plus the cron scheduler that sweeps all active
sources. Blocks until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			return bootstrap.Start(cfgFile)
		},
	}
}
