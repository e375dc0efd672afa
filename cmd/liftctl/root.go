package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logPath    string
)

var rootCmd = &cobra.Command{
	Use:          "liftctl",
	Short:        "liftctl reads and writes the liftlog set log from your terminal",
	Long:         "liftctl works directly on the liftlog CSV file: routines, last working sets, per-session history, 1RM estimates, quick logging and Alpha Progression imports.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to liftlog config file")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Path to the set log CSV (overrides log.path)")
}
