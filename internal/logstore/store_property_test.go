package logstore

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/meltforce/liftlog/internal/models"
)

// TestAppendUnionProperty verifies that for any two batches, loading after both
// appends yields batch one followed by batch two, each in its own order.
// Property: Load(Append(a); Append(b)) == a ++ b
func TestAppendUnionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	dir := t.TempDir()
	run := 0

	properties.Property("append preserves prior rows and batch order", prop.ForAll(
		func(a, b []int, note string) bool {
			run++
			s := New(filepath.Join(dir, fmt.Sprintf("log-%d.csv", run)))

			first := batch("a", a, note)
			second := batch("b", b, note)
			if _, err := s.Append(first); err != nil {
				return false
			}
			if _, err := s.Append(second); err != nil {
				return false
			}

			want := append(append([]models.SetRecord{}, first...), second...)
			got := s.Load().Rows
			if len(got) != len(want) {
				return false
			}
			for i := range want {
				if got[i].SessionID != want[i].SessionID || got[i].SetIdx != want[i].SetIdx ||
					got[i].Reps != want[i].Reps || got[i].Notes != want[i].Notes {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(1, 30)),
		gen.SliceOf(gen.IntRange(1, 30)),
		gen.OneConstOf("", "plain", "with, comma", `say "hi"`, "two\nlines", " padded "),
	))

	properties.TestingRun(t)
}

func batch(session string, reps []int, note string) []models.SetRecord {
	rows := make([]models.SetRecord, 0, len(reps))
	for i, r := range reps {
		row := benchRow(i+1, 50, r)
		row.SessionID = session
		row.Notes = note
		rows = append(rows, row)
	}
	return rows
}
