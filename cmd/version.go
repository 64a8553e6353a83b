package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version, overridden at build time via
// -ldflags "-X github.com/cdash-mcp/cdash-mcp/cmd.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cdash-mcp %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
