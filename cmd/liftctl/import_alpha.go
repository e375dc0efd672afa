package main

import (
	"fmt"
	"os"

	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/spf13/cobra"
)

var importAlphaCmd = &cobra.Command{
	Use:   "import-alpha <export.csv>",
	Short: "Append an Alpha Progression CSV export to the log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		return withEnv(cmd, func(e env) error {
			res, err := alpha.NewProvider(e.store, e.log).Ingest(f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sets from %d sessions (%d already logged)\n",
				res.SetsWritten, res.SessionsReceived-res.SessionsSkipped, res.SessionsSkipped)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importAlphaCmd)
}
