package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/logging"
	"github.com/meltforce/liftlog/internal/logstore"
	"github.com/meltforce/liftlog/internal/mirror"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dsnFlag := flag.String("dsn", "", "PostgreSQL DSN (overrides mirror.dsn)")
	dryRun := flag.Bool("dry-run", false, "report what would be sent without touching the database")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-sync", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, closer := logging.New(logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File, Stdout: true})
	defer closer.Close()

	dsn := cfg.Mirror.DSN
	if *dsnFlag != "" {
		dsn = *dsnFlag
	}
	if dsn == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: mirror.dsn or -dsn is required (or use -dry-run)\n")
		os.Exit(1)
	}

	logPath, err := filepath.Abs(cfg.Log.Path)
	if err != nil {
		log.Error("resolving log path", "path", cfg.Log.Path, "error", err)
		os.Exit(1)
	}

	state, err := mirror.OpenStateDB(cfg.Mirror.StateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Writer stays nil in dry-run mode; the syncer never calls it then.
	var w mirror.Writer
	if !*dryRun {
		if err := mirror.RunMigrations(dsn); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		db, err := mirror.Open(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		w = db
	} else {
		log.Info("DRY RUN mode - rows will be counted but not sent")
	}

	syncer := mirror.NewSyncer(logstore.New(logPath), state, w, *dryRun, log)
	stats, err := syncer.Run(ctx)
	if err != nil {
		log.Error("sync failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}
	printStats(stats)
	log.Info("sync complete")
}

func printStats(stats *mirror.Stats) {
	fmt.Println()
	fmt.Println("=== Sync Summary ===")
	if stats.Unchanged {
		fmt.Println("  Log unchanged since last sync")
		fmt.Println()
		return
	}
	fmt.Printf("  Rows in log:      %d\n", stats.RowsTotal)
	fmt.Printf("  Rows sent:        %d\n", stats.RowsSent)
	fmt.Printf("  Rows inserted:    %d (%d already mirrored)\n", stats.RowsInserted, int64(stats.RowsSent)-stats.RowsInserted)
	if stats.FullResync {
		fmt.Println("  Log shrank since the last sync; all rows were resent")
	}
	fmt.Println()
}
