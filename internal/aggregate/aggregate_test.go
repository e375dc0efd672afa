package aggregate

import (
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

func set(session string, ended time.Time, workout, exercise string, idx int, weight float64, reps int) models.SetRecord {
	return Derive(models.SetRecord{
		SessionID:    session,
		SessionStart: ended.Add(-time.Hour),
		SessionEnd:   ended,
		WorkoutName:  workout,
		ExerciseName: exercise,
		SetIdx:       idx,
		WeightKg:     weight,
		Reps:         reps,
	})
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 18, 0, 0, 0, time.UTC)
}

// TestPerSessionAggregateBenchPress verifies the single-session reduction:
// 2 x 8 at 60 kg gives 960 kg volume, 16 reps and a 76.0 kg estimate.
func TestPerSessionAggregateBenchPress(t *testing.T) {
	rows := []models.SetRecord{
		set("s1", day(2), "Mon", "Bench Press", 1, 60, 8),
		set("s1", day(2), "Mon", "Bench Press", 2, 60, 8),
	}

	got := PerSessionAggregate(rows, "Bench Press")
	if len(got) != 1 {
		t.Fatalf("sessions = %d, want 1", len(got))
	}
	a := got[0]
	if a.TopWeightKg != 60 {
		t.Errorf("top_weight = %v, want 60", a.TopWeightKg)
	}
	if a.TotalReps != 16 {
		t.Errorf("total_reps = %d, want 16", a.TotalReps)
	}
	if a.TotalVolumeKg != 960 {
		t.Errorf("total_volume = %v, want 960", a.TotalVolumeKg)
	}
	if a.BestEst1RM == nil || *a.BestEst1RM != 76.0 {
		t.Errorf("best_est_1rm = %v, want 76.0", a.BestEst1RM)
	}
	if a.SetCount != 2 {
		t.Errorf("set_count = %d, want 2", a.SetCount)
	}
}

// TestPerSessionAggregateOrderAndWarmups verifies sessions come back ascending
// by session_end regardless of log order, and warmups are excluded.
func TestPerSessionAggregateOrderAndWarmups(t *testing.T) {
	warm := set("late", day(9), "Mon", "Bench Press", 1, 40, 10)
	warm.IsWarmup = true
	rows := []models.SetRecord{
		warm,
		set("late", day(9), "Mon", "Bench Press", 1, 65, 5),
		set("early", day(2), "Mon", "Bench Press", 1, 60, 8),
		set("early", day(2), "Mon", "Split Squat", 1, 30, 10),
	}

	got := PerSessionAggregate(rows, "Bench Press")
	if len(got) != 2 {
		t.Fatalf("sessions = %d, want 2", len(got))
	}
	if got[0].SessionID != "early" || got[1].SessionID != "late" {
		t.Errorf("order = %s, %s; want early, late", got[0].SessionID, got[1].SessionID)
	}
	if got[1].TotalReps != 5 || got[1].TopWeightKg != 65 {
		t.Errorf("late session = %+v, warmup leaked in", got[1])
	}
}

// TestLastWorkingSetSummaryLatestWins verifies the later session_end decides the
// suggested weight, not log position.
func TestLastWorkingSetSummaryLatestWins(t *testing.T) {
	rows := []models.SetRecord{
		set("b", day(9), "Wed", "Romanian Deadlift", 1, 85, 8),
		set("b", day(9), "Wed", "Romanian Deadlift", 2, 85, 7),
		set("a", day(2), "Wed", "Romanian Deadlift", 1, 80, 10),
	}
	s := LastWorkingSetSummary(rows, "Romanian Deadlift")
	if s.WeightKg != 85 {
		t.Errorf("weight = %v, want 85", s.WeightKg)
	}
	if s.SetCount != 2 {
		t.Errorf("set_count = %d, want 2", s.SetCount)
	}
	if s.SessionID != "b" {
		t.Errorf("session = %q, want b", s.SessionID)
	}
}

// TestLastWorkingSetSummaryRepsInSetOrder verifies reps follow set_idx even when
// rows are stored out of order, and weight is the session maximum.
func TestLastWorkingSetSummaryRepsInSetOrder(t *testing.T) {
	rows := []models.SetRecord{
		set("a", day(2), "Mon", "EZ Curl", 3, 25, 6),
		set("a", day(2), "Mon", "EZ Curl", 1, 27.5, 10),
		set("a", day(2), "Mon", "EZ Curl", 2, 25, 8),
	}
	s := LastWorkingSetSummary(rows, "EZ Curl")
	want := []int{10, 8, 6}
	if len(s.Reps) != len(want) {
		t.Fatalf("reps = %v, want %v", s.Reps, want)
	}
	for i := range want {
		if s.Reps[i] != want[i] {
			t.Errorf("reps = %v, want %v", s.Reps, want)
			break
		}
	}
	if s.WeightKg != 27.5 {
		t.Errorf("weight = %v, want 27.5", s.WeightKg)
	}
}

// TestLastWorkingSetSummaryEmpty verifies no history yields a zero summary.
func TestLastWorkingSetSummaryEmpty(t *testing.T) {
	s := LastWorkingSetSummary(nil, "Pull-Ups")
	if !s.Empty() {
		t.Errorf("summary = %+v, want empty", s)
	}
	if s.WeightKg != 0 || len(s.Reps) != 0 {
		t.Errorf("summary = %+v, want zero weight and no reps", s)
	}
	if s.Reps == nil {
		t.Error("reps should be an empty slice, not nil")
	}
}

// TestLastWorkingSetSummaryTieIsStable verifies equal session_end values pick
// the same session on every call.
func TestLastWorkingSetSummaryTieIsStable(t *testing.T) {
	rows := []models.SetRecord{
		set("x", day(4), "Mon", "Dips", 1, 10, 8),
		set("y", day(4), "Mon", "Dips", 1, 15, 8),
	}
	first := LastWorkingSetSummary(rows, "Dips")
	for i := 0; i < 5; i++ {
		if got := LastWorkingSetSummary(rows, "Dips"); got.SessionID != first.SessionID {
			t.Fatalf("tie resolved to %q then %q", first.SessionID, got.SessionID)
		}
	}
}

// TestLastForRoutine verifies the routine filter mirrors the per-day lookup.
func TestLastForRoutine(t *testing.T) {
	rows := []models.SetRecord{
		set("mon", day(2), "Mon", "Lateral Raise", 1, 8, 15),
		set("sat", day(7), "Sat", "Lateral Raise", 1, 10, 12),
	}
	if s := LastForRoutine(rows, "Lateral Raise", "Mon"); s.WeightKg != 8 {
		t.Errorf("Mon weight = %v, want 8", s.WeightKg)
	}
	if s := LastWorkingSetSummary(rows, "Lateral Raise"); s.WeightKg != 10 {
		t.Errorf("any-routine weight = %v, want 10", s.WeightKg)
	}
	if s := LastForRoutine(rows, "Lateral Raise", "Wed"); !s.Empty() {
		t.Errorf("Wed summary = %+v, want empty", s)
	}
}

// TestSessionVolumes verifies cross-exercise totals per session.
func TestSessionVolumes(t *testing.T) {
	rows := []models.SetRecord{
		set("b", day(9), "Wed", "RDL", 1, 80, 10),
		set("a", day(2), "Mon", "Bench Press", 1, 60, 8),
		set("a", day(2), "Mon", "Bench Press", 2, 60, 8),
		set("a", day(2), "Mon", "EZ Curl", 1, 25, 10),
	}
	got := SessionVolumes(rows)
	if len(got) != 2 {
		t.Fatalf("sessions = %d, want 2", len(got))
	}
	a := got[0]
	if a.SessionID != "a" {
		t.Fatalf("first session = %q, want a", a.SessionID)
	}
	if a.Exercises != 2 || a.WorkingSets != 3 || a.TotalReps != 26 || a.TotalVolumeKg != 1210 {
		t.Errorf("session a = %+v", a)
	}
}

// TestSuggest verifies suggestions follow the requested exercise order and carry
// the best historical estimate.
func TestSuggest(t *testing.T) {
	rows := []models.SetRecord{
		set("a", day(2), "Mon", "Bench Press", 1, 70, 5),
		set("b", day(9), "Mon", "Bench Press", 1, 60, 8),
	}
	got := Suggest(rows, []string{"Split Squat", "Bench Press"})
	if len(got) != 2 || got[0].Exercise != "Split Squat" {
		t.Fatalf("suggestions = %+v", got)
	}
	if !got[0].Last.Empty() || got[0].BestEst1RM != nil {
		t.Errorf("Split Squat suggestion = %+v, want empty", got[0])
	}
	if got[1].Last.WeightKg != 60 {
		t.Errorf("last weight = %v, want 60", got[1].Last.WeightKg)
	}
	// 70 x 5 -> 81.67 beats 60 x 8 -> 76
	if got[1].BestEst1RM == nil || *got[1].BestEst1RM != 81.67 {
		t.Errorf("best est = %v, want 81.67", got[1].BestEst1RM)
	}
}

// TestExercises verifies first-seen ordering of distinct names.
func TestExercises(t *testing.T) {
	rows := []models.SetRecord{
		set("a", day(2), "Mon", "Bench Press", 1, 60, 8),
		set("a", day(2), "Mon", "EZ Curl", 1, 25, 10),
		set("a", day(2), "Mon", "Bench Press", 2, 60, 8),
	}
	got := Exercises(rows)
	if len(got) != 2 || got[0] != "Bench Press" || got[1] != "EZ Curl" {
		t.Errorf("exercises = %v", got)
	}
}
