package main

import (
	"fmt"

	"github.com/meltforce/liftlog/internal/aggregate"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <exercise>",
	Short: "Show per-session progression for an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e env) error {
			rows, err := e.rows()
			if err != nil {
				return err
			}
			sessions := lastN(aggregate.PerSessionAggregate(rows, args[0]), historyLimit)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "DATE\tWORKOUT\tTOP_KG\tEST_1RM\tVOLUME_KG\tREPS\tSETS")
			for _, s := range sessions {
				est := "-"
				if s.BestEst1RM != nil {
					est = formatKg(*s.BestEst1RM)
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
					s.SessionEnd.Local().Format("2006-01-02"), s.WorkoutName, formatKg(s.TopWeightKg),
					est, formatKg(s.TotalVolumeKg), s.TotalReps, s.SetCount)
			}
			return nil
		})
	},
}

func lastN[T any](s []T, n int) []T {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Only show the most recent N sessions")
}
