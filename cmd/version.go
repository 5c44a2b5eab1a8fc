package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

// userAgent is sent on every backend request.
func userAgent() string {
	return "direktor/" + Version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of direktor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "direktor %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
