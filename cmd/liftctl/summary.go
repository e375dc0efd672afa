package main

import (
	"fmt"

	"github.com/meltforce/liftlog/internal/aggregate"
	"github.com/spf13/cobra"
)

var summaryWorkout string

var summaryCmd = &cobra.Command{
	Use:   "summary <exercise>",
	Short: "Show the working sets of the last session for an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e env) error {
			rows, err := e.rows()
			if err != nil {
				return err
			}
			var s aggregate.WorkingSetSummary
			if summaryWorkout != "" {
				s = aggregate.LastForRoutine(rows, args[0], summaryWorkout)
			} else {
				s = aggregate.LastWorkingSetSummary(rows, args[0])
			}
			out := cmd.OutOrStdout()
			if s.Empty() {
				fmt.Fprintf(out, "%s: no working sets logged\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "%s: %s kg x %s (%d sets) on %s\n",
				s.Exercise, formatKg(s.WeightKg), formatReps(s.Reps), s.SetCount,
				s.SessionEnd.Local().Format("2006-01-02"))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryWorkout, "workout", "", "Only consider sessions of this routine")
}
