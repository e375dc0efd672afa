package session

import (
	"errors"
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/aggregate"
	"github.com/meltforce/liftlog/internal/catalog"
)

var t0 = time.Date(2026, 3, 2, 17, 30, 12, 500, time.UTC)

func openDraft(t *testing.T) *Draft {
	t.Helper()
	d := New(catalog.Default())
	if err := d.Begin("Mon", t0); err != nil {
		t.Fatalf("begin: %v", err)
	}
	return d
}

// TestIDDeterministic verifies the session ID depends only on start and workout.
func TestIDDeterministic(t *testing.T) {
	if ID(t0, "Mon") != ID(t0, "Mon") {
		t.Error("same inputs gave different IDs")
	}
	if ID(t0, "Mon") == ID(t0, "Wed") {
		t.Error("different workouts share an ID")
	}
	if ID(t0, "Mon") == ID(t0.Add(time.Minute), "Mon") {
		t.Error("different starts share an ID")
	}
}

// TestBeginTwice verifies an open session is not replaced.
func TestBeginTwice(t *testing.T) {
	d := openDraft(t)
	err := d.Begin("Wed", t0.Add(time.Hour))
	if !errors.Is(err, ErrSessionOpen) {
		t.Fatalf("err = %v, want ErrSessionOpen", err)
	}
	if d.Workout() != "Mon" {
		t.Errorf("workout = %q, want Mon", d.Workout())
	}
}

// TestBeginUnknownWorkout verifies workouts outside the catalog are rejected.
func TestBeginUnknownWorkout(t *testing.T) {
	d := New(catalog.Default())
	if err := d.Begin("Sun", t0); !errors.Is(err, ErrUnknownWorkout) {
		t.Fatalf("err = %v, want ErrUnknownWorkout", err)
	}
	if d.Open() {
		t.Error("draft should stay closed")
	}
}

// TestFinishBuildsContiguousSets verifies skipped sets are dropped and set_idx
// is renumbered from 1 within each exercise, warmups first.
func TestFinishBuildsContiguousSets(t *testing.T) {
	d := openDraft(t)
	if err := d.SetWeight("Bench Press", 60); err != nil {
		t.Fatal(err)
	}
	if err := d.SetReps("Bench Press", []int{8, 0, 7}); err != nil {
		t.Fatal(err)
	}
	warm := []Warmup{{WeightKg: 40, Reps: 10}}
	if err := d.Apply("Bench Press", Update{Warmups: &warm}); err != nil {
		t.Fatal(err)
	}
	if err := d.SetReps("EZ Curl", []int{12}); err != nil {
		t.Fatal(err)
	}

	end := t0.Add(50 * time.Minute)
	rows, err := d.Finish(end)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}

	bench := rows[:3]
	if !bench[0].IsWarmup || bench[0].SetIdx != 1 || bench[0].WeightKg != 40 {
		t.Errorf("warmup row = %+v", bench[0])
	}
	if bench[1].SetIdx != 2 || bench[1].Reps != 8 || bench[2].SetIdx != 3 || bench[2].Reps != 7 {
		t.Errorf("working rows = %+v, %+v", bench[1], bench[2])
	}
	if rows[3].ExerciseName != "EZ Curl" || rows[3].SetIdx != 1 || rows[3].WeightKg != 0 {
		t.Errorf("curl row = %+v", rows[3])
	}

	wantID := ID(t0, "Mon")
	for _, r := range rows {
		if r.SessionID != wantID {
			t.Errorf("session_id = %q, want %q", r.SessionID, wantID)
		}
		if !r.SessionEnd.Equal(end.Truncate(time.Second)) {
			t.Errorf("session_end = %v, want %v", r.SessionEnd, end)
		}
		if !r.SessionStart.Equal(t0.Truncate(time.Second)) {
			t.Errorf("session_start = %v", r.SessionStart)
		}
		if r.TotalReps != r.Reps {
			t.Errorf("total_reps = %d, want %d", r.TotalReps, r.Reps)
		}
	}
	if d.Open() {
		t.Error("draft should be closed after finish")
	}
}

// TestFinishEmpty verifies an empty submission is refused and the draft kept.
func TestFinishEmpty(t *testing.T) {
	d := openDraft(t)
	d.SetWeight("Bench Press", 60)
	d.SetReps("Bench Press", []int{0, 0})

	rows, err := d.Finish(t0.Add(time.Hour))
	if !errors.Is(err, ErrEmptySubmission) {
		t.Fatalf("err = %v, want ErrEmptySubmission", err)
	}
	if rows != nil {
		t.Errorf("rows = %v, want nil", rows)
	}
	if !d.Open() {
		t.Error("draft should stay open after an empty submission")
	}
}

// TestFinishWithoutSession verifies finishing a closed draft fails.
func TestFinishWithoutSession(t *testing.T) {
	d := New(catalog.Default())
	if _, err := d.Finish(t0); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

// TestApplyValidation verifies negative inputs and foreign exercises fail.
func TestApplyValidation(t *testing.T) {
	d := openDraft(t)
	if err := d.SetWeight("Bench Press", -1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("negative weight err = %v", err)
	}
	if err := d.SetReps("Bench Press", []int{5, -2}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("negative reps err = %v", err)
	}
	if err := d.SetReps("RDL", []int{5}); !errors.Is(err, ErrUnknownExercise) {
		t.Errorf("foreign exercise err = %v", err)
	}
	snap := d.Snapshot()
	for _, ex := range snap.Exercises {
		if ex.Touched {
			t.Errorf("%s touched by a rejected update", ex.Name)
		}
	}
}

// TestPrefill verifies untouched exercises take the last weight and scheme as a
// target without fabricating completed reps.
func TestPrefill(t *testing.T) {
	d := openDraft(t)
	d.SetWeight("EZ Curl", 30)

	d.Prefill([]aggregate.Suggestion{
		{Exercise: "Bench Press", Last: aggregate.WorkingSetSummary{WeightKg: 62.5, Reps: []int{8, 8, 6}, SetCount: 3}},
		{Exercise: "EZ Curl", Last: aggregate.WorkingSetSummary{WeightKg: 25, Reps: []int{10}, SetCount: 1}},
		{Exercise: "Pull-Ups", Last: aggregate.WorkingSetSummary{Reps: []int{}}},
	})

	snap := d.Snapshot()
	byName := map[string]Exercise{}
	for _, ex := range snap.Exercises {
		byName[ex.Name] = ex
	}
	bench := byName["Bench Press"]
	if bench.WeightKg != 62.5 || len(bench.TargetReps) != 3 || len(bench.Reps) != 3 || bench.Reps[0] != 0 {
		t.Errorf("bench = %+v", bench)
	}
	if byName["EZ Curl"].WeightKg != 30 {
		t.Errorf("touched exercise overwritten: %+v", byName["EZ Curl"])
	}
	if _, err := d.Finish(t0.Add(time.Hour)); !errors.Is(err, ErrEmptySubmission) {
		t.Errorf("prefilled draft should not be savable, err = %v", err)
	}
}

// TestResetAndSnapshot verifies reset closes the draft and the snapshot is a copy.
func TestResetAndSnapshot(t *testing.T) {
	d := openDraft(t)
	d.SetReps("Bench Press", []int{5})
	snap := d.Snapshot()
	if !snap.Open || snap.Workout != "Mon" || len(snap.Exercises) != 6 {
		t.Fatalf("snapshot = %+v", snap)
	}
	snap.Exercises[1].Reps[0] = 99
	if again := d.Snapshot(); again.Exercises[1].Reps[0] != 5 {
		t.Error("snapshot shares state with the draft")
	}

	d.Reset()
	if d.Open() {
		t.Error("draft open after reset")
	}
	if s := d.Snapshot(); s.Open || len(s.Exercises) != 0 {
		t.Errorf("closed snapshot = %+v", s)
	}
}
