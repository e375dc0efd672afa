package aggregate

import (
	"math"
	"strconv"
	"strings"

	"github.com/meltforce/liftlog/internal/models"
)

// EstimateOneRepMax returns the Epley-style estimate weight * (1 + reps/30),
// rounded to two decimals. A single rep (or fewer) returns the weight itself.
// The second result is false when weight is not a finite number.
func EstimateOneRepMax(weight float64, reps int) (float64, bool) {
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, false
	}
	if reps <= 1 {
		return weight, true
	}
	return round2(weight * (1 + float64(reps)/30)), true
}

// ParseOneRepMax is EstimateOneRepMax over raw form values. Non-numeric input
// yields an absent estimate rather than an error.
func ParseOneRepMax(weight, reps string) (float64, bool) {
	w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	if err != nil {
		return 0, false
	}
	r, err := parseReps(reps)
	if err != nil {
		return 0, false
	}
	return EstimateOneRepMax(w, r)
}

// parseReps accepts "8" as well as "8.0", which spreadsheets like to write.
func parseReps(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

// Derive fills the derived columns of a row: est_1rm, volume_kg and total_reps.
func Derive(r models.SetRecord) models.SetRecord {
	if est, ok := EstimateOneRepMax(r.WeightKg, r.Reps); ok {
		r.Est1RM = &est
	} else {
		r.Est1RM = nil
	}
	r.VolumeKg = round2(r.WeightKg * float64(r.Reps))
	r.TotalReps = r.Reps
	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
