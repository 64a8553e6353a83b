// Package cmd defines the CLI. Running the binary with no arguments starts
// the MCP server on stdio.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cdash-mcp",
	Short: "MCP server exposing CDash CI/CD dashboards as query tools",
	Long: `cdash-mcp serves a fixed catalog of read-only query tools over the
Model Context Protocol, backed by a CDash dashboard's REST API.

Configure the target dashboard with CDASH_URL and, for private instances,
CDASH_TOKEN. Without arguments the server starts on stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
