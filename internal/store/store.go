// Package store defines the optional sinks for merge output: a columnar copy
// of the merged table and a catalog of completed runs.
package store

import (
	"context"

	"cloudcover/internal/domain"
)

// MergedTableStore persists and retrieves a merged small/large table.
type MergedTableStore interface {
	// WriteMerged replaces the stored table with rows.
	WriteMerged(ctx context.Context, rows []domain.MergedRecord) error

	// ReadMerged returns the stored table in its written order.
	ReadMerged(ctx context.Context) ([]domain.MergedRecord, error)
}

// RunStore persists and retrieves merge run records.
type RunStore interface {
	// SaveRun inserts a run and sets its ID.
	SaveRun(ctx context.Context, run *domain.Run) error

	// ListRuns returns the most recent runs, newest first, up to limit.
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)
}
