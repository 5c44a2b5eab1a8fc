package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/direktor/internal/domains"
	"github.com/ziadkadry99/direktor/internal/formatter"
	"github.com/ziadkadry99/direktor/internal/logger"
	"github.com/ziadkadry99/direktor/internal/progress"
	"github.com/ziadkadry99/direktor/internal/state"
)

var domainsOutput string

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the domains configured on the backend",
	Long:  `Fetches the configured domains from the backend once and prints them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		timeout, err := cfg.Timeout()
		if err != nil {
			return err
		}

		client := domains.NewClient(cfg.BackendURL,
			domains.WithTimeout(timeout),
			domains.WithHeaders(cfg.Headers),
			domains.WithLogger(logger.New("internal/domains")),
			domains.WithUserAgent(userAgent()),
		)

		reporter := progress.NewReporter(cmd.ErrOrStderr())
		reporter.Start("Fetching domains from " + cfg.BackendURL)
		env, err := client.Get(context.Background())
		if err != nil {
			reporter.Finish("")
			return fmt.Errorf("fetching domains: %w", err)
		}
		if msg, ok := env.ErrorMessage(); ok {
			reporter.Finish("")
			return fmt.Errorf("backend error: %s", msg)
		}
		reporter.Finish("")

		list := env.Domains
		if len(list) == 0 {
			list = []state.Domain{}
			fmt.Fprintln(cmd.ErrOrStderr(), "No domains configured.")
		}

		out, err := formatter.Format(domainsOutput, list)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	domainsCmd.Flags().StringVarP(&domainsOutput, "output", "o", formatter.DefaultFormat, "output format (json, json-pretty, text, yaml)")
	rootCmd.AddCommand(domainsCmd)
}
