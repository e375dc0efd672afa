package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/liftlog/internal/aggregate"
)

var toolListRoutines = mcp.NewTool("list_routines",
	mcp.WithDescription("List the workout routines and the exercises each one contains, in order."),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List every exercise name that appears in the set log."),
)

var toolGetExerciseSummary = mcp.NewTool("get_exercise_summary",
	mcp.WithDescription("Working sets from the most recent finished session for an exercise: weight, reps per set and set count. Warm-ups are excluded. An empty summary means the exercise has no logged working sets."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name, e.g. 'Bench Press'")),
	mcp.WithString("workout", mcp.Description("Restrict to sessions of this routine, e.g. 'Mon'")),
)

var toolGetExerciseProgression = mcp.NewTool("get_exercise_progression",
	mcp.WithDescription("Per-session aggregates for an exercise in chronological order: top weight, best estimated 1RM, total volume and reps."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name")),
	mcp.WithNumber("limit", mcp.Description("Only return the most recent N sessions (default: all)")),
)

var toolGetSessionVolumes = mcp.NewTool("get_session_volumes",
	mcp.WithDescription("Per-session totals across all exercises in chronological order: exercises, working sets, reps and volume in kg."),
	mcp.WithNumber("limit", mcp.Description("Only return the most recent N sessions (default: all)")),
)

var toolEstimateOneRepMax = mcp.NewTool("estimate_one_rep_max",
	mcp.WithDescription("Epley estimate of the one-rep max for a weight and rep count: weight * (1 + reps/30), or the weight itself for a single rep."),
	mcp.WithNumber("weight_kg", mcp.Required(), mcp.Description("Weight lifted in kg")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Repetitions performed")),
)

func (h *handlers) listRoutines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routines, err := h.ds.Routines(ctx)
	if err != nil {
		h.log.Error("mcp list_routines", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultJSON(routines)
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := h.ds.Exercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultJSON(names)
}

func (h *handlers) getExerciseSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise is required"), nil
	}
	summary, err := h.ds.ExerciseSummary(ctx, exercise, req.GetString("workout", ""))
	if err != nil {
		h.log.Error("mcp get_exercise_summary", "exercise", exercise, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultJSON(summary)
}

func (h *handlers) getExerciseProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise is required"), nil
	}
	sessions, err := h.ds.ExerciseSessions(ctx, exercise)
	if err != nil {
		h.log.Error("mcp get_exercise_progression", "exercise", exercise, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultJSON(tail(sessions, req.GetInt("limit", 0)))
}

func (h *handlers) getSessionVolumes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	volumes, err := h.ds.SessionVolumes(ctx)
	if err != nil {
		h.log.Error("mcp get_session_volumes", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultJSON(tail(volumes, req.GetInt("limit", 0)))
}

func (h *handlers) estimateOneRepMax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight_kg")
	if err != nil {
		return mcp.NewToolResultError("weight_kg is required"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps is required"), nil
	}
	est, ok := aggregate.EstimateOneRepMax(weight, reps)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("cannot estimate 1RM for %v kg x %d", weight, reps)), nil
	}
	return mcp.NewToolResultJSON(map[string]any{
		"weight_kg": weight,
		"reps":      reps,
		"est_1rm":   est,
	})
}

// tail keeps the last n elements; n <= 0 keeps everything.
func tail[T any](s []T, n int) []T {
	if s == nil {
		return []T{}
	}
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
