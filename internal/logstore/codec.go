package logstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

const timeLayout = time.RFC3339

// decode reads a header line followed by one row per set.
func decode(r io.Reader) ([]models.SetRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(models.Columns)

	header, err := cr.Read()
	if err == io.EOF {
		return []models.SetRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !slices.Equal(header, models.Columns) {
		return nil, fmt.Errorf("unexpected header %q", strings.Join(header, ","))
	}

	rows := []models.SetRecord{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		row, err := decodeRow(rec)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeRow(rec []string) (models.SetRecord, error) {
	var (
		r   models.SetRecord
		err error
	)
	r.SessionID = rec[0]
	if r.SessionStart, err = parseTime(rec[1]); err != nil {
		return r, fmt.Errorf("session_start: %w", err)
	}
	if r.SessionEnd, err = parseTime(rec[2]); err != nil {
		return r, fmt.Errorf("session_end: %w", err)
	}
	r.WorkoutName = rec[3]
	r.ExerciseName = rec[4]
	if r.SetIdx, err = strconv.Atoi(rec[5]); err != nil {
		return r, fmt.Errorf("set_idx: %w", err)
	}
	if r.IsWarmup, err = strconv.ParseBool(rec[6]); err != nil {
		return r, fmt.Errorf("is_warmup: %w", err)
	}
	if r.WeightKg, err = strconv.ParseFloat(rec[7], 64); err != nil {
		return r, fmt.Errorf("weight_kg: %w", err)
	}
	if rec[8] != "" {
		if r.AddedLoadKg, err = strconv.ParseFloat(rec[8], 64); err != nil {
			return r, fmt.Errorf("added_load_kg: %w", err)
		}
	}
	if r.Reps, err = strconv.Atoi(rec[9]); err != nil {
		return r, fmt.Errorf("reps: %w", err)
	}
	r.Notes = rec[10]
	if rec[11] != "" {
		v, err := strconv.ParseFloat(rec[11], 64)
		if err != nil {
			return r, fmt.Errorf("est_1rm: %w", err)
		}
		r.Est1RM = &v
	}
	if r.VolumeKg, err = strconv.ParseFloat(rec[12], 64); err != nil {
		return r, fmt.Errorf("volume_kg: %w", err)
	}
	if r.TotalReps, err = strconv.Atoi(rec[13]); err != nil {
		return r, fmt.Errorf("total_reps: %w", err)
	}
	return r, nil
}

// encode writes the header and every row.
func encode(w io.Writer, rows []models.SetRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(encodeRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeRow(r models.SetRecord) []string {
	est := ""
	if r.Est1RM != nil {
		est = formatFloat(*r.Est1RM)
	}
	return []string{
		r.SessionID,
		formatTime(r.SessionStart),
		formatTime(r.SessionEnd),
		r.WorkoutName,
		r.ExerciseName,
		strconv.Itoa(r.SetIdx),
		strconv.FormatBool(r.IsWarmup),
		formatFloat(r.WeightKg),
		formatFloat(r.AddedLoadKg),
		strconv.Itoa(r.Reps),
		r.Notes,
		est,
		formatFloat(r.VolumeKg),
		strconv.Itoa(r.TotalReps),
	}
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
