// Package session holds the in-memory draft of the workout being logged.
//
// A Draft is not safe for concurrent use; the caller owns it and serializes
// access.
package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/aggregate"
	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/models"
)

var (
	ErrSessionOpen     = errors.New("a session is already open")
	ErrNoSession       = errors.New("no session is open")
	ErrUnknownWorkout  = errors.New("unknown workout")
	ErrUnknownExercise = errors.New("exercise is not part of the open workout")
	ErrInvalidValue    = errors.New("invalid value")
	ErrEmptySubmission = errors.New("no completed sets to save")
)

// namespace scopes session IDs; changing it changes every derived ID.
var namespace = uuid.MustParse("6f1c2a8e-3d4b-5e6f-8a9b-0c1d2e3f4a5b")

// ID derives the session identifier from its start time and workout name.
// The same inputs always give the same ID.
func ID(start time.Time, workout string) string {
	key := start.UTC().Format(time.RFC3339) + "|" + workout
	return uuid.NewSHA1(namespace, []byte(key)).String()
}

// Warmup is one warmup set.
type Warmup struct {
	WeightKg float64 `json:"weight_kg"`
	Reps     int     `json:"reps"`
}

// Exercise is the pending input for one exercise. A zero entry in Reps is a
// set that was not performed.
type Exercise struct {
	Name        string   `json:"name"`
	WeightKg    float64  `json:"weight_kg"`
	AddedLoadKg float64  `json:"added_load_kg"`
	Reps        []int    `json:"reps"`
	TargetReps  []int    `json:"target_reps,omitempty"`
	Warmups     []Warmup `json:"warmups,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Touched     bool     `json:"touched"`
}

// Update changes selected fields of an exercise; nil fields are left alone.
type Update struct {
	WeightKg    *float64  `json:"weight_kg,omitempty"`
	AddedLoadKg *float64  `json:"added_load_kg,omitempty"`
	Reps        []int     `json:"reps,omitempty"`
	Warmups     *[]Warmup `json:"warmups,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
}

// Snapshot is a read-only copy of the draft for rendering.
type Snapshot struct {
	Open      bool       `json:"open"`
	Workout   string     `json:"workout,omitempty"`
	SessionID string     `json:"session_id,omitempty"`
	Start     *time.Time `json:"session_start,omitempty"`
	Exercises []Exercise `json:"exercises"`
}

// Draft is the open session, keyed by exercise name in routine order.
type Draft struct {
	catalog   *catalog.Catalog
	workout   string
	start     time.Time
	order     []string
	exercises map[string]*Exercise
}

// New returns a closed draft validated against c.
func New(c *catalog.Catalog) *Draft {
	return &Draft{catalog: c}
}

// Open reports whether a session has begun and not yet finished.
func (d *Draft) Open() bool {
	return !d.start.IsZero()
}

// Workout returns the routine of the open session.
func (d *Draft) Workout() string {
	return d.workout
}

// Exercises returns the exercise names of the open session in routine order.
func (d *Draft) Exercises() []string {
	return append([]string(nil), d.order...)
}

// Begin opens a session for workout at now. It fails with ErrSessionOpen when
// one is already open; the open session is left untouched.
func (d *Draft) Begin(workout string, now time.Time) error {
	if d.Open() {
		return fmt.Errorf("%w (%s)", ErrSessionOpen, d.workout)
	}
	names, ok := d.catalog.Exercises(workout)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownWorkout, workout)
	}
	d.workout = workout
	d.start = now.UTC().Truncate(time.Second)
	d.order = names
	d.exercises = make(map[string]*Exercise, len(names))
	for _, n := range names {
		d.exercises[n] = &Exercise{Name: n, Reps: []int{}}
	}
	return nil
}

// Apply updates one exercise of the open session.
func (d *Draft) Apply(exercise string, u Update) error {
	ex, err := d.lookup(exercise)
	if err != nil {
		return err
	}
	if u.WeightKg != nil {
		if err := checkWeight("weight_kg", *u.WeightKg); err != nil {
			return err
		}
	}
	if u.AddedLoadKg != nil && (math.IsNaN(*u.AddedLoadKg) || math.IsInf(*u.AddedLoadKg, 0)) {
		return fmt.Errorf("%w: added_load_kg %v", ErrInvalidValue, *u.AddedLoadKg)
	}
	for i, r := range u.Reps {
		if r < 0 {
			return fmt.Errorf("%w: set %d reps %d", ErrInvalidValue, i+1, r)
		}
	}
	if u.Warmups != nil {
		for i, w := range *u.Warmups {
			if w.Reps < 0 {
				return fmt.Errorf("%w: warmup %d reps %d", ErrInvalidValue, i+1, w.Reps)
			}
			if err := checkWeight(fmt.Sprintf("warmup %d weight_kg", i+1), w.WeightKg); err != nil {
				return err
			}
		}
	}

	if u.WeightKg != nil {
		ex.WeightKg = *u.WeightKg
	}
	if u.AddedLoadKg != nil {
		ex.AddedLoadKg = *u.AddedLoadKg
	}
	if u.Reps != nil {
		ex.Reps = append([]int{}, u.Reps...)
	}
	if u.Warmups != nil {
		ex.Warmups = append([]Warmup(nil), (*u.Warmups)...)
	}
	if u.Notes != nil {
		ex.Notes = *u.Notes
	}
	ex.Touched = true
	return nil
}

// SetWeight sets the working weight of exercise.
func (d *Draft) SetWeight(exercise string, kg float64) error {
	return d.Apply(exercise, Update{WeightKg: &kg})
}

// SetReps replaces the per-set reps of exercise.
func (d *Draft) SetReps(exercise string, reps []int) error {
	if reps == nil {
		reps = []int{}
	}
	return d.Apply(exercise, Update{Reps: reps})
}

// Prefill copies the last weight and rep scheme into exercises the user has
// not edited yet. Reps start at zero with the previous scheme as target, so an
// untouched set is never logged by accident.
func (d *Draft) Prefill(suggestions []aggregate.Suggestion) {
	if !d.Open() {
		return
	}
	for _, s := range suggestions {
		ex, ok := d.exercises[s.Exercise]
		if !ok || ex.Touched || s.Last.Empty() {
			continue
		}
		ex.WeightKg = s.Last.WeightKg
		ex.TargetReps = append([]int(nil), s.Last.Reps...)
		ex.Reps = make([]int, len(s.Last.Reps))
	}
}

// Finish turns completed sets into rows stamped with now as session_end and
// closes the draft. With no completed sets it returns ErrEmptySubmission and
// the draft stays open.
func (d *Draft) Finish(now time.Time) ([]models.SetRecord, error) {
	rows, err := d.Rows(now)
	if err != nil {
		return nil, err
	}
	d.Reset()
	return rows, nil
}

// Rows builds the rows Finish would return without closing the draft, so the
// caller can reset only once the rows are persisted.
func (d *Draft) Rows(now time.Time) ([]models.SetRecord, error) {
	if !d.Open() {
		return nil, ErrNoSession
	}
	end := now.UTC().Truncate(time.Second)
	if end.Before(d.start) {
		end = d.start
	}
	id := ID(d.start, d.workout)

	var rows []models.SetRecord
	for _, name := range d.order {
		ex := d.exercises[name]
		idx := 0
		add := func(weight float64, reps int, warmup bool) {
			if reps <= 0 {
				return
			}
			idx++
			rows = append(rows, aggregate.Derive(models.SetRecord{
				SessionID:    id,
				SessionStart: d.start,
				SessionEnd:   end,
				WorkoutName:  d.workout,
				ExerciseName: name,
				SetIdx:       idx,
				IsWarmup:     warmup,
				WeightKg:     weight,
				AddedLoadKg:  ex.AddedLoadKg,
				Reps:         reps,
				Notes:        ex.Notes,
			}))
		}
		for _, w := range ex.Warmups {
			add(w.WeightKg, w.Reps, true)
		}
		for _, r := range ex.Reps {
			add(ex.WeightKg, r, false)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptySubmission
	}
	return rows, nil
}

// Reset discards the open session.
func (d *Draft) Reset() {
	d.workout = ""
	d.start = time.Time{}
	d.order = nil
	d.exercises = nil
}

// Snapshot copies the draft.
func (d *Draft) Snapshot() Snapshot {
	s := Snapshot{Open: d.Open(), Exercises: []Exercise{}}
	if !s.Open {
		return s
	}
	start := d.start
	s.Workout = d.workout
	s.SessionID = ID(d.start, d.workout)
	s.Start = &start
	for _, name := range d.order {
		ex := *d.exercises[name]
		ex.Reps = append([]int{}, ex.Reps...)
		ex.TargetReps = append([]int(nil), ex.TargetReps...)
		ex.Warmups = append([]Warmup(nil), ex.Warmups...)
		s.Exercises = append(s.Exercises, ex)
	}
	return s
}

func (d *Draft) lookup(exercise string) (*Exercise, error) {
	if !d.Open() {
		return nil, ErrNoSession
	}
	ex, ok := d.exercises[exercise]
	if !ok {
		return nil, fmt.Errorf("%w: %q not in %s", ErrUnknownExercise, exercise, d.workout)
	}
	return ex, nil
}

func checkWeight(field string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s %v", ErrInvalidValue, field, v)
	}
	return nil
}
