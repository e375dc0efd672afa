package main

import (
	"fmt"

	"github.com/meltforce/liftlog/internal/aggregate"
	"github.com/spf13/cobra"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List logged sessions with volume totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e env) error {
			rows, err := e.rows()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "DATE\tWORKOUT\tEXERCISES\tSETS\tREPS\tVOLUME_KG")
			for _, v := range lastN(aggregate.SessionVolumes(rows), sessionsLimit) {
				fmt.Fprintf(out, "%s\t%s\t%d\t%d\t%d\t%s\n",
					v.SessionEnd.Local().Format("2006-01-02 15:04"), v.WorkoutName,
					v.Exercises, v.WorkingSets, v.TotalReps, formatKg(v.TotalVolumeKg))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "Only show the most recent N sessions (0 for all)")
}
