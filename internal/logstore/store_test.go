package logstore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

var (
	start = time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)
	end   = time.Date(2026, 3, 2, 18, 25, 0, 0, time.UTC)
)

func benchRow(idx int, weight float64, reps int) models.SetRecord {
	return models.SetRecord{
		SessionID:    "s-1",
		SessionStart: start,
		SessionEnd:   end,
		WorkoutName:  "Mon",
		ExerciseName: "Bench Press",
		SetIdx:       idx,
		WeightKg:     weight,
		Reps:         reps,
	}
}

func tempStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "log", "progress.csv"))
}

// TestLoadMissing verifies a store with no file loads as an empty table and
// reports StatusMissing rather than an error.
func TestLoadMissing(t *testing.T) {
	res := tempStore(t).Load()
	if res.Status != StatusMissing {
		t.Errorf("status = %v, want missing", res.Status)
	}
	if res.Rows == nil || len(res.Rows) != 0 {
		t.Errorf("rows = %v, want empty non-nil slice", res.Rows)
	}
	if res.Err != nil {
		t.Errorf("err = %v, want nil", res.Err)
	}
}

// TestLoadMalformed verifies corrupt content is swallowed into an empty table
// but the status and cause stay visible to the caller.
func TestLoadMalformed(t *testing.T) {
	s := tempStore(t)
	os.MkdirAll(filepath.Dir(s.Path()), 0o755)
	if err := os.WriteFile(s.Path(), []byte("Date,Day,Exercise\n2026-01-01,Mon,Bench\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := s.Load()
	if res.Status != StatusMalformed {
		t.Fatalf("status = %v, want malformed", res.Status)
	}
	if len(res.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(res.Rows))
	}
	if res.Err == nil {
		t.Error("expected parse error to be reported")
	}
}

// TestAppendRoundTrip verifies appended rows come back after the existing ones
// in their original order with derived columns filled in.
func TestAppendRoundTrip(t *testing.T) {
	s := tempStore(t)

	n, err := s.Append([]models.SetRecord{benchRow(1, 60, 8), benchRow(2, 60, 8)})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if n != 2 {
		t.Fatalf("written = %d, want 2", n)
	}

	second := benchRow(1, 62.5, 6)
	second.SessionID = "s-2"
	second.Notes = "felt heavy, \"grindy\""
	if _, err := s.Append([]models.SetRecord{second}); err != nil {
		t.Fatalf("append: %v", err)
	}

	res := s.Load()
	if res.Status != StatusOK {
		t.Fatalf("status = %v (%v), want ok", res.Status, res.Err)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(res.Rows))
	}
	if res.Rows[0].SetIdx != 1 || res.Rows[1].SetIdx != 2 || res.Rows[2].SessionID != "s-2" {
		t.Errorf("unexpected order: %+v", res.Rows)
	}
	if res.Rows[2].Notes != second.Notes {
		t.Errorf("notes = %q, want %q", res.Rows[2].Notes, second.Notes)
	}
	if !res.Rows[0].SessionEnd.Equal(end) {
		t.Errorf("session_end = %v, want %v", res.Rows[0].SessionEnd, end)
	}

	first := res.Rows[0]
	if first.VolumeKg != 480 {
		t.Errorf("volume_kg = %v, want 480", first.VolumeKg)
	}
	if first.TotalReps != 8 {
		t.Errorf("total_reps = %d, want 8", first.TotalReps)
	}
	if first.Est1RM == nil || *first.Est1RM != 76 {
		t.Errorf("est_1rm = %v, want 76", first.Est1RM)
	}
}

// TestAppendDropsZeroReps verifies sets without reps never reach the file.
func TestAppendDropsZeroReps(t *testing.T) {
	s := tempStore(t)
	n, err := s.Append([]models.SetRecord{benchRow(1, 60, 8), benchRow(2, 60, 0)})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if n != 1 {
		t.Errorf("written = %d, want 1", n)
	}
	if rows := s.Load().Rows; len(rows) != 1 {
		t.Errorf("rows = %d, want 1", len(rows))
	}
}

// TestAppendNothingIsNoop verifies an empty append leaves the file byte-for-byte
// unchanged and does not create a missing file.
func TestAppendNothingIsNoop(t *testing.T) {
	s := tempStore(t)
	if n, err := s.Append(nil); err != nil || n != 0 {
		t.Fatalf("append(nil) = %d, %v", n, err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Fatalf("file should not exist after empty append, stat err = %v", err)
	}

	if _, err := s.Append([]models.SetRecord{benchRow(1, 60, 8)}); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(s.Path())
	if _, err := s.Append([]models.SetRecord{benchRow(2, 60, 0)}); err != nil {
		t.Fatal(err)
	}
	after, _ := os.ReadFile(s.Path())
	if !bytes.Equal(before, after) {
		t.Error("file changed after appending zero persistable rows")
	}
}

// TestAppendRefusesMalformed verifies a corrupt log is not overwritten.
func TestAppendRefusesMalformed(t *testing.T) {
	s := tempStore(t)
	os.MkdirAll(filepath.Dir(s.Path()), 0o755)
	garbage := []byte("not,a,log\n")
	os.WriteFile(s.Path(), garbage, 0o644)

	_, err := s.Append([]models.SetRecord{benchRow(1, 60, 8)})
	if !errors.Is(err, ErrMalformedLog) {
		t.Fatalf("err = %v, want ErrMalformedLog", err)
	}
	got, _ := os.ReadFile(s.Path())
	if !bytes.Equal(got, garbage) {
		t.Error("malformed file was modified")
	}
}

// TestAppendValidates verifies rows breaking the schema are rejected.
func TestAppendValidates(t *testing.T) {
	s := tempStore(t)
	bad := benchRow(0, 60, 8)
	if _, err := s.Append([]models.SetRecord{bad}); err == nil {
		t.Error("expected error for set_idx 0")
	}
	bad = benchRow(1, -5, 8)
	if _, err := s.Append([]models.SetRecord{bad}); err == nil {
		t.Error("expected error for negative weight")
	}
}

// TestAppendRejectsSetIdxConflicts verifies a batch may not repeat a set_idx
// already logged for the same session and exercise, nor leave a gap, and that
// a rejected batch leaves the file untouched.
func TestAppendRejectsSetIdxConflicts(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Append([]models.SetRecord{benchRow(1, 60, 8), benchRow(2, 60, 8)}); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(s.Path())

	tests := []struct {
		name string
		rows []models.SetRecord
	}{
		{"repeats logged idx", []models.SetRecord{benchRow(1, 60, 6)}},
		{"repeats within batch", []models.SetRecord{benchRow(3, 60, 6), benchRow(3, 60, 5)}},
		{"gap after logged sets", []models.SetRecord{benchRow(4, 60, 6)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Append(tt.rows); !errors.Is(err, ErrSetIndex) {
				t.Errorf("err = %v, want ErrSetIndex", err)
			}
			after, _ := os.ReadFile(s.Path())
			if !bytes.Equal(before, after) {
				t.Error("rejected batch modified the file")
			}
		})
	}

	fresh := benchRow(2, 60, 8)
	fresh.SessionID = "s-2"
	if _, err := s.Append([]models.SetRecord{fresh}); !errors.Is(err, ErrSetIndex) {
		t.Errorf("new group starting at 2: err = %v, want ErrSetIndex", err)
	}

	if n, err := s.Append([]models.SetRecord{benchRow(3, 60, 6)}); err != nil || n != 1 {
		t.Errorf("continuing the numbering = %d, %v; want 1, nil", n, err)
	}
}

// TestLoadIdempotent verifies two loads without an append return the same rows.
func TestLoadIdempotent(t *testing.T) {
	s := tempStore(t)
	s.Append([]models.SetRecord{benchRow(1, 60, 8), benchRow(2, 60, 7)})

	a, b := s.Load(), s.Load()
	if len(a.Rows) != len(b.Rows) {
		t.Fatalf("len %d != %d", len(a.Rows), len(b.Rows))
	}
	for i := range a.Rows {
		if strings.Join(encodeRow(a.Rows[i]), ",") != strings.Join(encodeRow(b.Rows[i]), ",") {
			t.Errorf("row %d differs: %+v vs %+v", i, a.Rows[i], b.Rows[i])
		}
	}
}

// TestHeaderOnly verifies a file with just the header loads as an empty table.
func TestHeaderOnly(t *testing.T) {
	s := tempStore(t)
	os.MkdirAll(filepath.Dir(s.Path()), 0o755)
	os.WriteFile(s.Path(), []byte(strings.Join(models.Columns, ",")+"\n"), 0o644)

	res := s.Load()
	if res.Status != StatusOK || len(res.Rows) != 0 {
		t.Errorf("got status %v rows %d, want ok and 0", res.Status, len(res.Rows))
	}
}

// TestUnfinishedRowKeepsEmptyEnd verifies an empty session_end survives a
// round trip as the zero time.
func TestUnfinishedRowKeepsEmptyEnd(t *testing.T) {
	s := tempStore(t)
	r := benchRow(1, 60, 8)
	r.SessionEnd = time.Time{}
	s.Append([]models.SetRecord{r})

	res := s.Load()
	if len(res.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(res.Rows))
	}
	if res.Rows[0].Finished() {
		t.Errorf("session_end = %v, want zero", res.Rows[0].SessionEnd)
	}
}
