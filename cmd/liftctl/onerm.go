package main

import (
	"fmt"

	"github.com/meltforce/liftlog/internal/aggregate"
	"github.com/spf13/cobra"
)

var oneRMCmd = &cobra.Command{
	Use:   "1rm <weight_kg> <reps>",
	Short: "Estimate a one-rep max (Epley)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		est, ok := aggregate.ParseOneRepMax(args[0], args[1])
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "-")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatKg(est))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(oneRMCmd)
}
