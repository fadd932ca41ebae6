package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/lixenwraith/gasolve/genetic"
)

// ErrRunNotFound reports a run id absent from the store
var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed-width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps run summaries and per-generation history in SQLite
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and runs migrations
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // single writer

	s := &SQLiteStore{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Migrate creates the schema when missing
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			seed INTEGER NOT NULL,
			pool_size INTEGER NOT NULL,
			generations INTEGER NOT NULL,
			mutation_rate REAL NOT NULL,
			pairing TEXT NOT NULL,
			selection TEXT NOT NULL,
			parallelism INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			best_generation INTEGER NOT NULL,
			best_genotype TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_variant_created ON runs(variant, created_at DESC);`,
		`CREATE TABLE IF NOT EXISTS run_generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			size INTEGER NOT NULL,
			best REAL NOT NULL,
			worst REAL NOT NULL,
			mean REAL NOT NULL,
			stddev REAL NOT NULL,
			total REAL NOT NULL,
			PRIMARY KEY(run_id, generation),
			FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
		);`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			tx.Rollback()
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return tx.Commit()
}

// SaveRun inserts the run summary and its history in one transaction
func (s *SQLiteStore) SaveRun(ctx context.Context, run RunRecord) error {
	if run.ID == "" {
		return fmt.Errorf("save run: empty id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, variant, seed, pool_size, generations, mutation_rate, pairing,
			selection, parallelism, best_fitness, best_generation, best_genotype, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Variant, int64(run.Seed), run.Config.PoolSize, run.Config.Generations,
		run.Config.MutationRate, run.Config.Pairing, run.Config.Selection, run.Config.Parallelism,
		run.BestFitness, run.BestGeneration, run.BestGenotype,
		run.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_generations (run_id, generation, size, best, worst, mean, stddev, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range run.History {
		if _, err := stmt.ExecContext(ctx, run.ID, h.Generation, h.Size,
			h.Best, h.Worst, h.Mean, h.StdDev, h.Total); err != nil {
			return fmt.Errorf("insert run %s generation %d: %w", run.ID, h.Generation, err)
		}
	}

	return tx.Commit()
}

// Record implements Recorder
func (s *SQLiteStore) Record(ctx context.Context, run RunRecord) error {
	return s.SaveRun(ctx, run)
}

// ListRuns returns run summaries newest first without history. Empty variant lists all
func (s *SQLiteStore) ListRuns(ctx context.Context, variant string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, variant, seed, pool_size, generations, mutation_rate, pairing, selection,
			parallelism, best_fitness, best_generation, best_genotype, created_at
		FROM runs
		WHERE (? = '' OR variant = ?)
		ORDER BY created_at DESC, id
		LIMIT ?`, variant, variant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// LoadRun returns one run with its full history
func (s *SQLiteStore) LoadRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, variant, seed, pool_size, generations, mutation_rate, pairing, selection,
			parallelism, best_fitness, best_generation, best_genotype, created_at
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return RunRecord{}, err
	}

	run.History, err = s.LoadHistory(ctx, id)
	if err != nil {
		return RunRecord{}, err
	}
	return run, nil
}

// LoadHistory returns a run's generation statistics in generation order
func (s *SQLiteStore) LoadHistory(ctx context.Context, id string) ([]genetic.PoolStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT generation, size, best, worst, mean, stddev, total
		FROM run_generations WHERE run_id = ? ORDER BY generation`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []genetic.PoolStats
	for rows.Next() {
		var h genetic.PoolStats
		if err := rows.Scan(&h.Generation, &h.Size, &h.Best, &h.Worst, &h.Mean, &h.StdDev, &h.Total); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (RunRecord, error) {
	var (
		run     RunRecord
		seed    int64
		created string
	)
	err := r.Scan(&run.ID, &run.Variant, &seed, &run.Config.PoolSize, &run.Config.Generations,
		&run.Config.MutationRate, &run.Config.Pairing, &run.Config.Selection, &run.Config.Parallelism,
		&run.BestFitness, &run.BestGeneration, &run.BestGenotype, &created)
	if err != nil {
		return RunRecord{}, err
	}
	run.Seed = uint64(seed)
	run.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return RunRecord{}, fmt.Errorf("run %s created_at: %w", run.ID, err)
	}
	return run, nil
}
