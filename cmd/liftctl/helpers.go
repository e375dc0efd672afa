package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/logging"
	"github.com/meltforce/liftlog/internal/logstore"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
	"github.com/spf13/cobra"
)

// env is what every command needs, resolved from flags and config.
type env struct {
	store   *logstore.Store
	catalog *catalog.Catalog
	log     *slog.Logger
}

func withEnv(cmd *cobra.Command, run func(env) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	path := cfg.Log.Path
	if logPath != "" {
		path = logPath
	}
	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		if cat, err = catalog.Load(cfg.Catalog.Path); err != nil {
			return err
		}
	}
	level := slog.LevelWarn
	if l := logging.ParseLevel(cfg.Logging.Level); l > level {
		level = l
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return run(env{store: logstore.New(path), catalog: cat, log: log})
}

// rows loads the log, failing on a malformed file so the user sees why the
// history looks empty.
func (e env) rows() ([]models.SetRecord, error) {
	res := e.store.Load()
	if res.Status == logstore.StatusMalformed {
		return nil, fmt.Errorf("%s: %w", e.store.Path(), res.Err)
	}
	return res.Rows, nil
}

// parseSetArg reads "Bench Press=60x8,8,7" or, with added load,
// "Pull-Ups=0+10x8,6".
func parseSetArg(arg string) (string, session.Update, error) {
	name, load, reps, err := splitSetArg(arg)
	if err != nil {
		return "", session.Update{}, err
	}
	weight, added, err := parseLoad(load)
	if err != nil {
		return "", session.Update{}, fmt.Errorf("invalid --set %q: %w", arg, err)
	}
	var repList []int
	for _, r := range strings.Split(reps, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(r))
		if err != nil || n < 0 {
			return "", session.Update{}, fmt.Errorf("invalid --set %q: reps %q", arg, r)
		}
		repList = append(repList, n)
	}
	u := session.Update{WeightKg: &weight, Reps: repList}
	if added != 0 {
		u.AddedLoadKg = &added
	}
	return name, u, nil
}

// parseWarmupArg reads "Bench Press=40x10".
func parseWarmupArg(arg string) (string, session.Warmup, error) {
	name, load, reps, err := splitSetArg(arg)
	if err != nil {
		return "", session.Warmup{}, err
	}
	w, err := strconv.ParseFloat(load, 64)
	if err != nil {
		return "", session.Warmup{}, fmt.Errorf("invalid --warmup %q: weight %q", arg, load)
	}
	n, err := strconv.Atoi(reps)
	if err != nil {
		return "", session.Warmup{}, fmt.Errorf("invalid --warmup %q: reps %q", arg, reps)
	}
	return name, session.Warmup{WeightKg: w, Reps: n}, nil
}

func splitSetArg(arg string) (name, load, reps string, err error) {
	name, rest, ok := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", "", fmt.Errorf("invalid set %q (expected Exercise=WEIGHTxREPS)", arg)
	}
	i := strings.LastIndexAny(rest, "xX")
	if i < 0 {
		return "", "", "", fmt.Errorf("invalid set %q (expected Exercise=WEIGHTxREPS)", arg)
	}
	return name, strings.TrimSpace(rest[:i]), strings.TrimSpace(rest[i+1:]), nil
}

func parseLoad(s string) (weight, added float64, err error) {
	base, plus, hasPlus := strings.Cut(s, "+")
	if weight, err = strconv.ParseFloat(strings.TrimSpace(base), 64); err != nil {
		return 0, 0, fmt.Errorf("weight %q", base)
	}
	if hasPlus {
		if added, err = strconv.ParseFloat(strings.TrimSpace(plus), 64); err != nil {
			return 0, 0, fmt.Errorf("added load %q", plus)
		}
	}
	return weight, added, nil
}

func formatReps(reps []int) string {
	parts := make([]string, len(reps))
	for i, r := range reps {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, "/")
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
