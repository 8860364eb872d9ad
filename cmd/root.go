// Package cmd implements the command-line interface for the discovery
// service. It provides the root command and subcommands for running
// discovery, serving the HTTP API, and managing sources.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/godiscover/cmd/discover"
	"github.com/jonesrussell/godiscover/cmd/httpd"
	cmdscheduler "github.com/jonesrussell/godiscover/cmd/scheduler"
	cmdsources "github.com/jonesrussell/godiscover/cmd/sources"
)

// version is set at build time via -ldflags "-X ...cmd.version=".
var version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// rootCmd represents the root command for the discovery CLI.
	rootCmd = &cobra.Command{
		Use:   "godiscover",
		Short: "Adaptive article discovery for news sources",
		Long: `godiscover finds new article links across registered news sources,
adapting the discovery method per source based on what has worked before.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("godiscover version %s\n", version)
		},
	})

	rootCmd.AddCommand(discover.Command())
	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(cmdscheduler.Command())
	rootCmd.AddCommand(cmdsources.Command())
}
