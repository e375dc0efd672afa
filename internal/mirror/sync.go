package mirror

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/meltforce/liftlog/internal/logstore"
	"github.com/meltforce/liftlog/internal/models"
)

// Writer receives rows to mirror. *DB is the production implementation.
type Writer interface {
	InsertSetRecords(ctx context.Context, rows []models.SetRecord) (int64, error)
}

var _ Writer = (*DB)(nil)

// Stats tracks sync progress.
type Stats struct {
	RowsTotal    int
	RowsSent     int
	RowsInserted int64
	Unchanged    bool
	// FullResync is set when the log shrank since the last sync and every
	// row was sent again.
	FullResync bool
}

// Syncer pushes rows appended to the set log since the last run.
type Syncer struct {
	store  *logstore.Store
	state  *StateDB
	w      Writer
	dryRun bool
	log    *slog.Logger
}

// NewSyncer creates a new Syncer.
func NewSyncer(store *logstore.Store, state *StateDB, w Writer, dryRun bool, log *slog.Logger) *Syncer {
	return &Syncer{store: store, state: state, w: w, dryRun: dryRun, log: log}
}

// Run executes one sync pass.
func (s *Syncer) Run(ctx context.Context) (*Stats, error) {
	var stats Stats
	path := s.store.Path()

	hash, err := HashFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("no set log yet", "path", path)
		stats.Unchanged = true
		return &stats, nil
	}
	if err != nil {
		return &stats, fmt.Errorf("hashing %s: %w", path, err)
	}

	prev, seen, err := s.state.Get(path)
	if err != nil {
		return &stats, err
	}
	if seen && prev.Hash == hash {
		stats.Unchanged = true
		return &stats, nil
	}

	res := s.store.Load()
	if res.Status == logstore.StatusMalformed {
		return &stats, fmt.Errorf("loading %s: %w", path, res.Err)
	}
	stats.RowsTotal = len(res.Rows)

	pending, full := plan(res.Rows, prev, seen)
	stats.RowsSent = len(pending)
	stats.FullResync = full
	if full {
		s.log.Warn("set log shrank since last sync, resending all rows", "path", path,
			"rows_synced", prev.RowsSynced, "rows_now", len(res.Rows))
	}

	if s.dryRun {
		s.log.Info("dry run", "path", path, "would_send", len(pending))
		return &stats, nil
	}

	if len(pending) > 0 {
		n, err := s.w.InsertSetRecords(ctx, pending)
		stats.RowsInserted = n
		if err != nil {
			return &stats, err
		}
	}

	if err := s.state.Mark(path, State{RowsSynced: len(res.Rows), Hash: hash}); err != nil {
		return &stats, err
	}
	return &stats, nil
}

// plan picks the rows to send. The log is append-only, so rows past the
// recorded count are new. A log shorter than recorded was rewritten by hand
// and is sent whole; the unique key drops what Postgres already has.
func plan(rows []models.SetRecord, prev State, seen bool) (pending []models.SetRecord, full bool) {
	if !seen {
		return rows, false
	}
	if prev.RowsSynced > len(rows) {
		return rows, true
	}
	return rows[prev.RowsSynced:], false
}
