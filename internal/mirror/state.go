package mirror

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// State is what the last successful sync of a log file recorded.
type State struct {
	RowsSynced int
	Hash       string
}

// StateDB tracks how far each log file has been mirrored to avoid re-sending.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS synced_logs (
		path        TEXT PRIMARY KEY,
		rows_synced INTEGER NOT NULL,
		hash        TEXT NOT NULL,
		synced_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// Get returns the recorded state for path. ok is false when path was never synced.
func (s *StateDB) Get(path string) (st State, ok bool, err error) {
	err = s.db.QueryRow(
		`SELECT rows_synced, hash FROM synced_logs WHERE path = ?`, path,
	).Scan(&st.RowsSynced, &st.Hash)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("reading sync state for %s: %w", path, err)
	}
	return st, true, nil
}

// Mark records a successful sync of path.
func (s *StateDB) Mark(path string, st State) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO synced_logs (path, rows_synced, hash) VALUES (?, ?, ?)`,
		path, st.RowsSynced, st.Hash,
	)
	if err != nil {
		return fmt.Errorf("recording sync state for %s: %w", path, err)
	}
	return nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
