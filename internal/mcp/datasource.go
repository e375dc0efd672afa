package mcp

import (
	"context"

	"github.com/meltforce/liftlog/internal/aggregate"
	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/logstore"
	"github.com/meltforce/liftlog/internal/models"
)

// DataSource abstracts the data layer for MCP tools. Both LocalSource (the
// CSV log on disk) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Routines(ctx context.Context) ([]catalog.Routine, error)
	Exercises(ctx context.Context) ([]string, error)
	ExerciseSummary(ctx context.Context, exercise, workout string) (aggregate.WorkingSetSummary, error)
	ExerciseSessions(ctx context.Context, exercise string) ([]aggregate.SessionAggregate, error)
	SessionVolumes(ctx context.Context) ([]aggregate.SessionVolume, error)
}

// LocalSource answers queries straight from the set log.
type LocalSource struct {
	store   *logstore.Store
	catalog *catalog.Catalog
}

// Compile-time check: LocalSource satisfies DataSource.
var _ DataSource = (*LocalSource)(nil)

// NewLocalSource creates a DataSource over store and cat.
func NewLocalSource(store *logstore.Store, cat *catalog.Catalog) *LocalSource {
	return &LocalSource{store: store, catalog: cat}
}

func (l *LocalSource) Routines(_ context.Context) ([]catalog.Routine, error) {
	return l.catalog.Routines(), nil
}

func (l *LocalSource) Exercises(_ context.Context) ([]string, error) {
	rows, err := l.rows()
	if err != nil {
		return nil, err
	}
	names := aggregate.Exercises(rows)
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (l *LocalSource) ExerciseSummary(_ context.Context, exercise, workout string) (aggregate.WorkingSetSummary, error) {
	rows, err := l.rows()
	if err != nil {
		return aggregate.WorkingSetSummary{}, err
	}
	if workout != "" {
		return aggregate.LastForRoutine(rows, exercise, workout), nil
	}
	return aggregate.LastWorkingSetSummary(rows, exercise), nil
}

func (l *LocalSource) ExerciseSessions(_ context.Context, exercise string) ([]aggregate.SessionAggregate, error) {
	rows, err := l.rows()
	if err != nil {
		return nil, err
	}
	return aggregate.PerSessionAggregate(rows, exercise), nil
}

func (l *LocalSource) SessionVolumes(_ context.Context) ([]aggregate.SessionVolume, error) {
	rows, err := l.rows()
	if err != nil {
		return nil, err
	}
	return aggregate.SessionVolumes(rows), nil
}

// rows surfaces a malformed log as an error so the assistant sees it
// instead of an empty history.
func (l *LocalSource) rows() ([]models.SetRecord, error) {
	res := l.store.Load()
	if res.Status == logstore.StatusMalformed {
		return nil, res.Err
	}
	return res.Rows, nil
}
