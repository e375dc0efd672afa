package alpha

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/meltforce/liftlog/internal/ingest"
	"github.com/meltforce/liftlog/internal/logstore"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
)

// Provider appends Alpha Progression exports to the set log.
type Provider struct {
	store *logstore.Store
	log   *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(store *logstore.Store, log *slog.Logger) *Provider {
	return &Provider{store: store, log: log}
}

// Ingest parses an export and appends sessions the log does not have yet.
// Session IDs derive from start time and workout, so importing the same
// export twice writes nothing the second time.
func (p *Provider) Ingest(r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	current := p.store.Load()
	if current.Status == logstore.StatusMalformed {
		return nil, fmt.Errorf("%w: %v", logstore.ErrMalformedLog, current.Err)
	}
	known := make(map[string]bool)
	for _, row := range current.Rows {
		known[row.SessionID] = true
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	var pending []models.SetRecord
	for _, s := range sessions {
		rows := Rows(s)
		result.SetsReceived += len(rows)
		if len(rows) == 0 {
			continue
		}
		if known[rows[0].SessionID] {
			result.SessionsSkipped++
			p.log.Debug("session already logged", "session_id", rows[0].SessionID, "title", s.Title)
			continue
		}
		known[rows[0].SessionID] = true
		pending = append(pending, rows...)
	}

	if len(pending) == 0 {
		result.Message = "nothing new to import"
		return result, nil
	}

	n, err := p.store.Append(pending)
	if err != nil {
		return nil, fmt.Errorf("appending sets: %w", err)
	}
	result.SetsWritten = n
	p.log.Info("alpha import", "sessions", result.SessionsReceived-result.SessionsSkipped, "sets", n)
	return result, nil
}

// Rows turns one exported session into set records: per exercise the
// warm-ups first, then working sets, numbered 1..n. An exercise listed more
// than once continues its numbering. Sets without reps are dropped.
// Bodyweight-plus sets record the plus as added load.
func Rows(s Session) []models.SetRecord {
	workout := s.Workout()
	start := s.Start.UTC()
	id := session.ID(start, workout)

	var rows []models.SetRecord
	next := make(map[string]int)
	for _, ex := range s.Exercises {
		add := func(set Set, warmup bool) {
			if set.Reps <= 0 {
				return
			}
			next[ex.Name]++
			row := models.SetRecord{
				SessionID:    id,
				SessionStart: start,
				SessionEnd:   start.Add(s.Duration),
				WorkoutName:  workout,
				ExerciseName: ex.Name,
				SetIdx:       next[ex.Name],
				IsWarmup:     warmup,
				Reps:         set.Reps,
			}
			if set.BodyweightPlus {
				row.AddedLoadKg = set.WeightKg
			} else {
				row.WeightKg = set.WeightKg
			}
			if set.RIR != nil {
				row.Notes = "RIR " + strconv.FormatFloat(*set.RIR, 'f', -1, 64)
			}
			rows = append(rows, row)
		}
		for _, w := range ex.Warmups {
			add(w, true)
		}
		for _, w := range ex.Sets {
			add(w, false)
		}
	}
	return rows
}
