package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/meltforce/liftlog/internal/aggregate"
	"github.com/meltforce/liftlog/internal/logstore"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
)

func (s *Server) handleRoutines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Routines())
}

func (s *Server) handleSets(w http.ResponseWriter, r *http.Request) {
	res := s.load()
	body := map[string]any{
		"status": res.Status,
		"rows":   res.Rows,
	}
	if res.Err != nil {
		body["error"] = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSessionVolumes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, aggregate.SessionVolumes(s.load().Rows))
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	names := aggregate.Exercises(s.load().Rows)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleExerciseSummary(w http.ResponseWriter, r *http.Request) {
	name, ok := requireName(w, r)
	if !ok {
		return
	}
	rows := s.load().Rows
	if workout := r.URL.Query().Get("workout"); workout != "" {
		writeJSON(w, http.StatusOK, aggregate.LastForRoutine(rows, name, workout))
		return
	}
	writeJSON(w, http.StatusOK, aggregate.LastWorkingSetSummary(rows, name))
}

func (s *Server) handleExerciseSessions(w http.ResponseWriter, r *http.Request) {
	name, ok := requireName(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, aggregate.PerSessionAggregate(s.load().Rows, name))
}

func (s *Server) handleOneRepMax(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	est, ok := aggregate.ParseOneRepMax(q.Get("weight"), q.Get("reps"))
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"est_1rm": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"est_1rm": est})
}

func (s *Server) handleAlphaIngest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.alpha.Ingest(r.Body)
	if err != nil {
		s.log.Error("alpha ingest error", "error", err)
		status := http.StatusBadRequest
		if errors.Is(err, logstore.ErrMalformedLog) || errors.Is(err, logstore.ErrSetIndex) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	if s.metrics != nil {
		s.metrics.CounterSetsWritten.Add(float64(result.SetsWritten))
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

type sessionView struct {
	Session     session.Snapshot       `json:"session"`
	Suggestions []aggregate.Suggestion `json:"suggestions"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.view(s.load().Rows))
}

func (s *Server) handleBeginSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Workout string `json:"workout"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.draft.Begin(req.Workout, s.now()); err != nil {
		writeJSON(w, draftErrorStatus(err), map[string]string{"error": err.Error()})
		return
	}
	rows := s.load().Rows
	s.draft.Prefill(aggregate.Suggest(rows, s.draft.Exercises()))
	s.log.Info("session started", "workout", req.Workout)
	writeJSON(w, http.StatusCreated, s.view(rows))
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		session.Update
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.draft.Apply(req.Name, req.Update); err != nil {
		writeJSON(w, draftErrorStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.draft.Snapshot())
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.draft.Rows(s.now())
	if errors.Is(err, session.ErrEmptySubmission) {
		if s.metrics != nil {
			s.metrics.CounterEmptySubmissions.Inc()
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"warning":      "no sets with reps were entered; nothing saved",
			"rows_written": 0,
		})
		return
	}
	if err != nil {
		writeJSON(w, draftErrorStatus(err), map[string]string{"error": err.Error()})
		return
	}

	n, err := s.store.Append(rows)
	if err != nil {
		s.log.Error("appending session", "path", s.store.Path(), "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, logstore.ErrMalformedLog) || errors.Is(err, logstore.ErrSetIndex) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	s.draft.Reset()

	if s.metrics != nil {
		s.metrics.CounterSessionsFinished.Inc()
		s.metrics.CounterSetsWritten.Add(float64(n))
	}
	s.log.Info("session saved", "session_id", rows[0].SessionID, "workout", rows[0].WorkoutName, "rows", n)
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":   rows[0].SessionID,
		"rows_written": n,
	})
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Reset()
	writeJSON(w, http.StatusOK, s.draft.Snapshot())
}

// view pairs the draft with suggestions for its exercises. Callers hold mu.
func (s *Server) view(rows []models.SetRecord) sessionView {
	v := sessionView{Session: s.draft.Snapshot(), Suggestions: []aggregate.Suggestion{}}
	if v.Session.Open {
		v.Suggestions = aggregate.Suggest(rows, s.draft.Exercises())
	}
	return v
}

// load reads the set log, logging a malformed file instead of failing.
func (s *Server) load() logstore.LoadResult {
	res := s.store.Load()
	if res.Status == logstore.StatusMalformed {
		s.log.Warn("set log unreadable, treating as empty", "path", s.store.Path(), "error", res.Err)
	}
	if s.metrics != nil {
		s.metrics.CounterLogLoads.WithLabelValues(res.Status.String()).Inc()
	}
	return res
}

func requireName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name parameter required"})
		return "", false
	}
	return name, true
}

func draftErrorStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionOpen), errors.Is(err, session.ErrNoSession):
		return http.StatusConflict
	case errors.Is(err, session.ErrUnknownWorkout),
		errors.Is(err, session.ErrUnknownExercise),
		errors.Is(err, session.ErrInvalidValue):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
