package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloudcover/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ RunStore = (*SQLiteStore)(nil)

// SQLiteStore implements RunStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at       INTEGER NOT NULL,
	input_folder     TEXT    NOT NULL,
	output_file      TEXT    NOT NULL,
	small_files      INTEGER NOT NULL,
	large_files      INTEGER NOT NULL,
	small_rows       INTEGER NOT NULL,
	large_rows       INTEGER NOT NULL,
	merged_rows      INTEGER NOT NULL,
	index_mismatches INTEGER NOT NULL
)`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, creates the
// runs table if needed, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating runs table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// RunStore implementation
// ---------------------------------------------------------------------------

// SaveRun inserts a run into the database and sets run.ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *domain.Run) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (started_at, input_folder, output_file, small_files, large_files,
			small_rows, large_rows, merged_rows, index_mismatches)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UnixMilli(), run.InputFolder, run.OutputFile,
		run.SmallFiles, run.LargeFiles, run.SmallRows, run.LargeRows,
		run.MergedRows, run.IndexMismatches,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}
	run.ID = id
	return nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, input_folder, output_file, small_files, large_files,
			small_rows, large_rows, merged_rows, index_mismatches
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var r domain.Run
		var startedAt int64
		if err := rows.Scan(&r.ID, &startedAt, &r.InputFolder, &r.OutputFile,
			&r.SmallFiles, &r.LargeFiles, &r.SmallRows, &r.LargeRows,
			&r.MergedRows, &r.IndexMismatches); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedAt).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
