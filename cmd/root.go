package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "direktor",
	Short: "Web console for browsing LDAP and Active Directory domains",
	Long: `Direktor serves a web console for viewing objects in LDAP and Active
Directory. The console lists the domains configured on a direktor backend
and follows the host's dark or light colour scheme.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "direktor.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
