package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var routinesCmd = &cobra.Command{
	Use:   "routines",
	Short: "List routines and their exercises",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e env) error {
			for _, r := range e.catalog.Routines() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Name, strings.Join(r.Exercises, ", "))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(routinesCmd)
}
