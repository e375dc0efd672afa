// Package mirror copies the CSV set log into Postgres so it can be queried
// with SQL. The CSV file stays the source of truth; the mirror is one-way.
package mirror

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meltforce/liftlog/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// insertBatch keeps a single INSERT under Postgres' 65535 parameter limit.
const insertBatch = 1000

const setColumns = 14

// DB wraps a pgxpool.Pool and writes mirrored set records.
type DB struct {
	Pool *pgxpool.Pool
}

// Open creates a new DB with a connection pool.
func Open(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations applies all pending migrations embedded in the binary.
func RunMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("opening migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// InsertSetRecords batch-inserts rows. Rows already mirrored are skipped by
// the unique key. Returns count inserted.
func (db *DB) InsertSetRecords(ctx context.Context, rows []models.SetRecord) (int64, error) {
	var total int64
	for start := 0; start < len(rows); start += insertBatch {
		end := min(start+insertBatch, len(rows))
		query, args := insertQuery(rows[start:end])
		tag, err := db.Pool.Exec(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("inserting set records: %w", err)
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

func insertQuery(rows []models.SetRecord) (string, []any) {
	var b strings.Builder
	b.WriteString(`INSERT INTO set_records (session_id, session_start, session_end,
		workout_name, exercise_name, set_idx, is_warmup, weight_kg, added_load_kg,
		reps, notes, est_1rm, volume_kg, total_reps) VALUES `)
	args := make([]any, 0, len(rows)*setColumns)

	for i, r := range rows {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		for c := 1; c <= setColumns; c++ {
			if c > 1 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "$%d", i*setColumns+c)
		}
		b.WriteByte(')')
		args = append(args, r.SessionID, nullTime(r.SessionStart), nullTime(r.SessionEnd),
			r.WorkoutName, r.ExerciseName, r.SetIdx, r.IsWarmup, r.WeightKg, r.AddedLoadKg,
			r.Reps, r.Notes, r.Est1RM, r.VolumeKg, r.TotalReps)
	}

	b.WriteString(" ON CONFLICT DO NOTHING")
	return b.String(), args
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
