// Package aggregate derives prefill suggestions and per-session summaries from
// the rows of the set log. Every function is pure and scans the full row set.
package aggregate

import (
	"sort"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

// WorkingSetSummary describes the most recent session of one exercise.
// The zero value means no history.
type WorkingSetSummary struct {
	Exercise   string    `json:"exercise"`
	WeightKg   float64   `json:"weight_kg"`
	Reps       []int     `json:"reps"`
	SetCount   int       `json:"set_count"`
	SessionID  string    `json:"session_id,omitempty"`
	SessionEnd time.Time `json:"session_end"`
}

// Empty reports whether the summary carries no history.
func (s WorkingSetSummary) Empty() bool {
	return s.SetCount == 0
}

// SessionAggregate is one session's reduction for a single exercise.
type SessionAggregate struct {
	SessionID     string    `json:"session_id"`
	WorkoutName   string    `json:"workout_name"`
	SessionEnd    time.Time `json:"session_end"`
	TopWeightKg   float64   `json:"top_weight_kg"`
	BestEst1RM    *float64  `json:"best_est_1rm,omitempty"`
	TotalVolumeKg float64   `json:"total_volume_kg"`
	TotalReps     int       `json:"total_reps"`
	SetCount      int       `json:"set_count"`
}

// SessionVolume is one session's working-set totals across all exercises.
type SessionVolume struct {
	SessionID     string    `json:"session_id"`
	WorkoutName   string    `json:"workout_name"`
	SessionStart  time.Time `json:"session_start"`
	SessionEnd    time.Time `json:"session_end"`
	Exercises     int       `json:"exercises"`
	WorkingSets   int       `json:"working_sets"`
	TotalReps     int       `json:"total_reps"`
	TotalVolumeKg float64   `json:"total_volume_kg"`
}

// Suggestion is the prefill data shown next to one exercise of a routine.
type Suggestion struct {
	Exercise   string            `json:"exercise"`
	Last       WorkingSetSummary `json:"last"`
	BestEst1RM *float64          `json:"best_est_1rm,omitempty"`
}

// LastWorkingSetSummary returns the weight and rep scheme of the latest session
// (by session_end) that contains working sets of exercise.
func LastWorkingSetSummary(rows []models.SetRecord, exercise string) WorkingSetSummary {
	return lastSummary(rows, exercise, func(models.SetRecord) bool { return true })
}

// LastForRoutine is LastWorkingSetSummary restricted to sessions of one routine.
func LastForRoutine(rows []models.SetRecord, exercise, workout string) WorkingSetSummary {
	return lastSummary(rows, exercise, func(r models.SetRecord) bool { return r.WorkoutName == workout })
}

func lastSummary(rows []models.SetRecord, exercise string, keep func(models.SetRecord) bool) WorkingSetSummary {
	groups, _ := groupWorking(rows, exercise, keep)
	if len(groups) == 0 {
		return WorkingSetSummary{Exercise: exercise, Reps: []int{}}
	}

	var latest []models.SetRecord
	for _, g := range groups {
		if latest == nil || newer(g[0], latest[0]) {
			latest = g
		}
	}

	sorted := make([]models.SetRecord, len(latest))
	copy(sorted, latest)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SetIdx < sorted[j].SetIdx })

	s := WorkingSetSummary{
		Exercise:   exercise,
		Reps:       make([]int, 0, len(sorted)),
		SetCount:   len(sorted),
		SessionID:  sorted[0].SessionID,
		SessionEnd: sorted[0].SessionEnd,
	}
	for _, r := range sorted {
		if r.WeightKg > s.WeightKg {
			s.WeightKg = r.WeightKg
		}
		s.Reps = append(s.Reps, r.Reps)
	}
	return s
}

// PerSessionAggregate reduces the working sets of exercise per session, ordered
// ascending by session_end.
func PerSessionAggregate(rows []models.SetRecord, exercise string) []SessionAggregate {
	groups, order := groupWorking(rows, exercise, func(models.SetRecord) bool { return true })

	result := make([]SessionAggregate, 0, len(order))
	for _, id := range order {
		g := groups[id]
		agg := SessionAggregate{
			SessionID:   id,
			WorkoutName: g[0].WorkoutName,
			SessionEnd:  g[0].SessionEnd,
			SetCount:    len(g),
		}
		var volume float64
		for _, r := range g {
			if r.WeightKg > agg.TopWeightKg {
				agg.TopWeightKg = r.WeightKg
			}
			if r.Est1RM != nil && (agg.BestEst1RM == nil || *r.Est1RM > *agg.BestEst1RM) {
				v := *r.Est1RM
				agg.BestEst1RM = &v
			}
			volume += r.VolumeKg
			agg.TotalReps += r.Reps
		}
		agg.TotalVolumeKg = round2(volume)
		result = append(result, agg)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SessionEnd.Before(result[j].SessionEnd)
	})
	return result
}

// SessionVolumes returns per-session working-set totals across every exercise,
// ordered ascending by session_end.
func SessionVolumes(rows []models.SetRecord) []SessionVolume {
	byID := make(map[string]*SessionVolume)
	exercises := make(map[string]map[string]struct{})
	var order []string

	for _, r := range rows {
		if r.IsWarmup {
			continue
		}
		v, ok := byID[r.SessionID]
		if !ok {
			v = &SessionVolume{
				SessionID:    r.SessionID,
				WorkoutName:  r.WorkoutName,
				SessionStart: r.SessionStart,
				SessionEnd:   r.SessionEnd,
			}
			byID[r.SessionID] = v
			exercises[r.SessionID] = make(map[string]struct{})
			order = append(order, r.SessionID)
		}
		exercises[r.SessionID][r.ExerciseName] = struct{}{}
		v.WorkingSets++
		v.TotalReps += r.Reps
		v.TotalVolumeKg += r.VolumeKg
	}

	result := make([]SessionVolume, 0, len(order))
	for _, id := range order {
		v := byID[id]
		v.Exercises = len(exercises[id])
		v.TotalVolumeKg = round2(v.TotalVolumeKg)
		result = append(result, *v)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SessionEnd.Before(result[j].SessionEnd)
	})
	return result
}

// Suggest builds one suggestion per exercise, in the given order.
func Suggest(rows []models.SetRecord, exercises []string) []Suggestion {
	out := make([]Suggestion, 0, len(exercises))
	for _, ex := range exercises {
		s := Suggestion{Exercise: ex, Last: LastWorkingSetSummary(rows, ex)}
		for _, agg := range PerSessionAggregate(rows, ex) {
			if agg.BestEst1RM != nil && (s.BestEst1RM == nil || *agg.BestEst1RM > *s.BestEst1RM) {
				v := *agg.BestEst1RM
				s.BestEst1RM = &v
			}
		}
		out = append(out, s)
	}
	return out
}

// Exercises lists distinct exercise names in first-seen order.
func Exercises(rows []models.SetRecord) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range rows {
		if _, ok := seen[r.ExerciseName]; ok {
			continue
		}
		seen[r.ExerciseName] = struct{}{}
		names = append(names, r.ExerciseName)
	}
	return names
}

// groupWorking groups the non-warmup rows of exercise by session_id and
// returns the groups together with their first-seen order.
func groupWorking(rows []models.SetRecord, exercise string, keep func(models.SetRecord) bool) (map[string][]models.SetRecord, []string) {
	groups := make(map[string][]models.SetRecord)
	var order []string
	for _, r := range rows {
		if r.IsWarmup || r.ExerciseName != exercise || !keep(r) {
			continue
		}
		if _, ok := groups[r.SessionID]; !ok {
			order = append(order, r.SessionID)
		}
		groups[r.SessionID] = append(groups[r.SessionID], r)
	}
	return groups, order
}

// newer orders sessions by session_end, breaking ties on session_id so the
// choice is stable across calls.
func newer(a, b models.SetRecord) bool {
	if !a.SessionEnd.Equal(b.SessionEnd) {
		return a.SessionEnd.After(b.SessionEnd)
	}
	return a.SessionID > b.SessionID
}
