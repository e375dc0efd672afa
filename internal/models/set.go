package models

import "time"

// Columns is the persisted column order of the set log. The first line of the
// log file is this header.
var Columns = []string{
	"session_id",
	"session_start",
	"session_end",
	"workout_name",
	"exercise_name",
	"set_idx",
	"is_warmup",
	"weight_kg",
	"added_load_kg",
	"reps",
	"notes",
	"est_1rm",
	"volume_kg",
	"total_reps",
}

// SetRecord is one logged set. Rows of one session share SessionID,
// SessionStart and SessionEnd.
type SetRecord struct {
	SessionID    string    `json:"session_id"`
	SessionStart time.Time `json:"session_start"`
	SessionEnd   time.Time `json:"session_end"`
	WorkoutName  string    `json:"workout_name"`
	ExerciseName string    `json:"exercise_name"`
	SetIdx       int       `json:"set_idx"`
	IsWarmup     bool      `json:"is_warmup"`
	WeightKg     float64   `json:"weight_kg"`
	AddedLoadKg  float64   `json:"added_load_kg"`
	Reps         int       `json:"reps"`
	Notes        string    `json:"notes,omitempty"`
	Est1RM       *float64  `json:"est_1rm,omitempty"`
	VolumeKg     float64   `json:"volume_kg"`
	TotalReps    int       `json:"total_reps"`
}

// Finished reports whether the row carries a session end stamp.
func (r SetRecord) Finished() bool {
	return !r.SessionEnd.IsZero()
}
