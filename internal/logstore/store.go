// Package logstore persists set records to an append-only CSV file.
//
// The whole file is read on every Load and rewritten on every Append. There is
// no index; the log belongs to one user and stays small.
package logstore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/meltforce/liftlog/internal/aggregate"
	"github.com/meltforce/liftlog/internal/models"
)

// ErrMalformedLog is returned by Append when the existing file cannot be
// parsed. Appending would otherwise replace the unreadable history.
var ErrMalformedLog = errors.New("set log is malformed")

// ErrSetIndex is returned by Append when a row would repeat a set_idx of its
// session and exercise, or leave a gap in the numbering.
var ErrSetIndex = errors.New("set_idx conflict")

// Status describes what Load found on disk.
type Status int

const (
	StatusOK Status = iota
	StatusMissing
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusMalformed:
		return "malformed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText lets the status travel as a string in JSON responses.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LoadResult is the outcome of Load. Rows is never nil; it is empty when the
// file is missing or malformed. Err carries the parse failure for
// StatusMalformed.
type LoadResult struct {
	Rows   []models.SetRecord
	Status Status
	Err    error
}

// Store is a CSV-backed set log.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a store for the file at path. The file is created on the first
// non-empty Append.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads every persisted row.
func (s *Store) Load() LoadResult {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return LoadResult{Rows: []models.SetRecord{}, Status: StatusMissing}
	}
	if err != nil {
		return LoadResult{Rows: []models.SetRecord{}, Status: StatusMalformed, Err: fmt.Errorf("opening set log: %w", err)}
	}
	defer f.Close()

	rows, err := decode(bufio.NewReader(f))
	if err != nil {
		return LoadResult{Rows: []models.SetRecord{}, Status: StatusMalformed, Err: fmt.Errorf("parsing set log: %w", err)}
	}
	return LoadResult{Rows: rows, Status: StatusOK}
}

// Append writes rows after the existing ones and returns how many were
// persisted. Rows without reps are dropped; derived columns are recomputed.
// When nothing remains to write the file is left untouched. Within each
// session and exercise the set_idx values of old and new rows together must
// run 1..n without repeats, otherwise ErrSetIndex is returned.
func (s *Store) Append(rows []models.SetRecord) (int, error) {
	pending := make([]models.SetRecord, 0, len(rows))
	for _, r := range rows {
		if r.Reps <= 0 {
			continue
		}
		if err := validate(r); err != nil {
			return 0, err
		}
		pending = append(pending, aggregate.Derive(r))
	}
	if len(pending) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.Load()
	if current.Status == StatusMalformed {
		return 0, fmt.Errorf("%w: %v", ErrMalformedLog, current.Err)
	}
	if err := checkSetIdx(current.Rows, pending); err != nil {
		return 0, err
	}

	merged := make([]models.SetRecord, 0, len(current.Rows)+len(pending))
	merged = append(merged, current.Rows...)
	merged = append(merged, pending...)

	if err := s.write(merged); err != nil {
		return 0, err
	}
	return len(pending), nil
}

// write replaces the file through a temp file in the same directory.
func (s *Store) write(rows []models.SetRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".liftlog-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := encode(w, rows); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding set log: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("writing set log: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing set log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing set log: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing set log: %w", err)
	}
	return nil
}

func validate(r models.SetRecord) error {
	switch {
	case r.SessionID == "":
		return fmt.Errorf("set %q #%d: session_id is required", r.ExerciseName, r.SetIdx)
	case r.ExerciseName == "":
		return fmt.Errorf("set in session %s: exercise_name is required", r.SessionID)
	case r.SetIdx < 1:
		return fmt.Errorf("set %q: set_idx %d must be positive", r.ExerciseName, r.SetIdx)
	case r.WeightKg < 0:
		return fmt.Errorf("set %q #%d: negative weight %v", r.ExerciseName, r.SetIdx, r.WeightKg)
	}
	return nil
}

type groupKey struct {
	session  string
	exercise string
}

type setKey struct {
	groupKey
	idx int
}

// checkSetIdx verifies the groups touched by pending stay numbered 1..n once
// merged with existing.
func checkSetIdx(existing, pending []models.SetRecord) error {
	seen := make(map[setKey]bool, len(existing)+len(pending))
	count := make(map[groupKey]int)
	highest := make(map[groupKey]int)
	note := func(r models.SetRecord) bool {
		k := setKey{groupKey{r.SessionID, r.ExerciseName}, r.SetIdx}
		if seen[k] {
			return false
		}
		seen[k] = true
		count[k.groupKey]++
		highest[k.groupKey] = max(highest[k.groupKey], r.SetIdx)
		return true
	}

	for _, r := range existing {
		note(r)
	}
	touched := make(map[groupKey]bool)
	for _, r := range pending {
		if !note(r) {
			return fmt.Errorf("%w: session %s %q #%d already exists", ErrSetIndex, r.SessionID, r.ExerciseName, r.SetIdx)
		}
		touched[groupKey{r.SessionID, r.ExerciseName}] = true
	}
	for g := range touched {
		if highest[g] != count[g] {
			return fmt.Errorf("%w: session %s %q has %d sets numbered up to %d", ErrSetIndex, g.session, g.exercise, count[g], highest[g])
		}
	}
	return nil
}
