package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/session"
	"github.com/spf13/cobra"
)

var (
	logSets     []string
	logWarmups  []string
	logNotes    []string
	logDuration time.Duration
)

var logCmd = &cobra.Command{
	Use:   "log <workout>",
	Short: "Log a finished session",
	Long: `Log a finished session in one go. Each --set names an exercise of the routine:

  liftctl log Mon --set "Bench Press=60x8,8,7" --set "Pull-Ups=0+10x8,6" --warmup "Bench Press=40x10"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(logSets) == 0 {
			return fmt.Errorf("at least one --set is required")
		}
		return withEnv(cmd, func(e env) error {
			end := time.Now()
			draft := session.New(e.catalog)
			if err := draft.Begin(args[0], end.Add(-logDuration)); err != nil {
				return err
			}
			if err := applySetFlags(draft); err != nil {
				return err
			}
			rows, err := draft.Finish(end)
			if errors.Is(err, session.ErrEmptySubmission) {
				fmt.Fprintln(cmd.OutOrStdout(), "No sets with reps entered; nothing saved")
				return nil
			}
			if err != nil {
				return err
			}
			n, err := e.store.Append(rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d sets to %s (session %s)\n", n, e.store.Path(), rows[0].SessionID)
			return nil
		})
	},
}

func applySetFlags(d *session.Draft) error {
	given := map[string]bool{}
	for _, arg := range logSets {
		name, u, err := parseSetArg(arg)
		if err != nil {
			return err
		}
		if given[name] {
			return fmt.Errorf("--set for %q given twice; list all reps in one flag", name)
		}
		given[name] = true
		if err := d.Apply(name, u); err != nil {
			return err
		}
	}

	warmups := map[string][]session.Warmup{}
	var order []string
	for _, arg := range logWarmups {
		name, w, err := parseWarmupArg(arg)
		if err != nil {
			return err
		}
		if _, ok := warmups[name]; !ok {
			order = append(order, name)
		}
		warmups[name] = append(warmups[name], w)
	}
	for _, name := range order {
		ws := warmups[name]
		if err := d.Apply(name, session.Update{Warmups: &ws}); err != nil {
			return err
		}
	}

	for _, arg := range logNotes {
		name, note, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid --notes %q (expected Exercise=text)", arg)
		}
		note = strings.TrimSpace(note)
		if err := d.Apply(strings.TrimSpace(name), session.Update{Notes: &note}); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().StringArrayVar(&logSets, "set", nil, `Working sets as "Exercise=WEIGHT[+ADDED]xREPS,REPS,..."`)
	logCmd.Flags().StringArrayVar(&logWarmups, "warmup", nil, `Warm-up set as "Exercise=WEIGHTxREPS" (repeatable)`)
	logCmd.Flags().StringArrayVar(&logNotes, "notes", nil, `Notes as "Exercise=text"`)
	logCmd.Flags().DurationVar(&logDuration, "duration", time.Hour, "How long the session took; it is logged as ending now")
}
