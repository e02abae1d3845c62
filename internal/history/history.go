// Package history keeps benchmark runs in a SQLite database so later runs
// can be compared against a baseline.
package history

import (
	"context"
	"database/sql"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/theflywheel/oahash/internal/bench"
)

// SignificanceThreshold is the percent change beyond which a comparison is
// flagged.
const SignificanceThreshold = 5.0

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT    NOT NULL,
	go_version TEXT    NOT NULL,
	seed       INTEGER NOT NULL,
	pattern    TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id      INTEGER NOT NULL REFERENCES runs(id),
	strategy    TEXT    NOT NULL,
	requested   INTEGER NOT NULL,
	capacity    INTEGER NOT NULL,
	fill        REAL    NOT NULL,
	keys        INTEGER NOT NULL,
	entries     INTEGER NOT NULL,
	collisions  INTEGER NOT NULL,
	load_factor REAL    NOT NULL,
	duration_ns INTEGER NOT NULL,
	table_full  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS results_run ON results(run_id);
`

// Run is one stored benchmark execution.
type Run struct {
	ID        int64
	StartedAt time.Time
	GoVersion string
	Seed      int64
	Pattern   string
	Tables    int
	Results   []bench.Result
}

// Store is a history database. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open history database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create history schema")
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores run and its results in one transaction and returns the new
// run ID.
func (s *Store) Save(ctx context.Context, run Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, go_version, seed, pattern) VALUES (?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano), run.GoVersion, run.Seed, run.Pattern)
	if err != nil {
		return 0, errors.Wrap(err, "insert run")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "run id")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results
		(run_id, strategy, requested, capacity, fill, keys, entries, collisions, load_factor, duration_ns, table_full)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "prepare result insert")
	}
	defer stmt.Close()

	for _, r := range run.Results {
		if _, err := stmt.ExecContext(ctx, id, r.Strategy, r.Requested, r.Capacity, r.Fill, r.Keys,
			r.Entries, r.Collisions, r.LoadFactor, int64(r.Duration), r.TableFull); err != nil {
			return 0, errors.Wrapf(err, "insert result %s/%d", r.Strategy, r.Capacity)
		}
	}

	return id, errors.Wrap(tx.Commit(), "commit")
}

// Runs lists up to limit runs, newest first, without their results.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.started_at, r.go_version, r.seed, r.pattern, COUNT(x.run_id)
		FROM runs r LEFT JOIN results x ON x.run_id = r.id
		GROUP BY r.id
		ORDER BY r.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			started string
		)
		if err := rows.Scan(&run.ID, &started, &run.GoVersion, &run.Seed, &run.Pattern, &run.Tables); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, errors.Wrapf(err, "run %d start time", run.ID)
		}
		runs = append(runs, run)
	}
	return runs, errors.Wrap(rows.Err(), "iterate runs")
}

// Results returns the results of a run in the order they were saved.
func (s *Store) Results(ctx context.Context, runID int64) ([]bench.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT strategy, requested, capacity, fill, keys, entries, collisions, load_factor, duration_ns, table_full
		FROM results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "query results")
	}
	defer rows.Close()

	var out []bench.Result
	for rows.Next() {
		var (
			r  bench.Result
			ns int64
		)
		if err := rows.Scan(&r.Strategy, &r.Requested, &r.Capacity, &r.Fill, &r.Keys, &r.Entries,
			&r.Collisions, &r.LoadFactor, &ns, &r.TableFull); err != nil {
			return nil, errors.Wrap(err, "scan result")
		}
		r.Duration = time.Duration(ns)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate results")
	}
	if len(out) == 0 {
		return nil, errors.Errorf("run %d has no results", runID)
	}
	return out, nil
}

// Comparison is the change of one table configuration between two runs.
type Comparison struct {
	Strategy string
	Capacity int
	Fill     float64

	BaseCollisions    int
	CurrentCollisions int
	CollisionChange   float64

	BaseDuration    time.Duration
	CurrentDuration time.Duration
	DurationChange  float64
}

// MoreCollisions reports a significant increase in collisions.
func (c Comparison) MoreCollisions() bool {
	return c.CollisionChange > SignificanceThreshold
}

// Slower reports a significant increase in insertion time.
func (c Comparison) Slower() bool {
	return c.DurationChange > SignificanceThreshold
}

// Compare matches the results of two runs by strategy, capacity and fill.
// Configurations present in only one run are skipped.
func (s *Store) Compare(ctx context.Context, baseID, currentID int64) ([]Comparison, error) {
	base, err := s.Results(ctx, baseID)
	if err != nil {
		return nil, err
	}
	current, err := s.Results(ctx, currentID)
	if err != nil {
		return nil, err
	}
	return Diff(base, current), nil
}

type configKey struct {
	strategy string
	capacity int
	fill     float64
}

// Diff compares two result sets, in the order of current.
func Diff(base, current []bench.Result) []Comparison {
	byKey := make(map[configKey]bench.Result, len(base))
	for _, r := range base {
		byKey[configKey{r.Strategy, r.Capacity, r.Fill}] = r
	}

	var out []Comparison
	for _, r := range current {
		b, ok := byKey[configKey{r.Strategy, r.Capacity, r.Fill}]
		if !ok {
			continue
		}
		out = append(out, Comparison{
			Strategy:          r.Strategy,
			Capacity:          r.Capacity,
			Fill:              r.Fill,
			BaseCollisions:    b.Collisions,
			CurrentCollisions: r.Collisions,
			CollisionChange:   percentChange(float64(b.Collisions), float64(r.Collisions)),
			BaseDuration:      b.Duration,
			CurrentDuration:   r.Duration,
			DurationChange:    percentChange(float64(b.Duration), float64(r.Duration)),
		})
	}
	return out
}

// percentChange is +Inf when a zero baseline grew.
func percentChange(base, current float64) float64 {
	if base == 0 {
		if current > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return (current - base) / base * 100
}
