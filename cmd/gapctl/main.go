// Command gapctl runs the analysis pipeline from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"careergap/internal/shared/config"
	"careergap/internal/shared/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "gapctl",
	Short: "Operator tools for the career gap service",
	Long:  "gapctl runs skill gap analyses, résumé parsing and roadmap generation against local files, and manages database migrations.",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cfg = config.Load()
		telemetry.Configure(cmd.ErrOrStderr(), logLevel)
	},
	SilenceUsage: true,
}

var (
	cfg      config.Config
	logLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
