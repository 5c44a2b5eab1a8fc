package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/direktor/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize direktor configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the console and generates a direktor.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (backend %s, port %d)\n", cfgFile, cfg.BackendURL, cfg.ListenPort)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
