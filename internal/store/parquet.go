package store

import (
	"context"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"cloudcover/internal/domain"
	"cloudcover/internal/util"
)

// Compile-time interface check.
var _ MergedTableStore = (*ParquetStore)(nil)

// ParquetStore implements MergedTableStore as a single Parquet file.
type ParquetStore struct {
	Path string
}

// NewParquetStore creates a ParquetStore writing to the given file.
func NewParquetStore(path string) *ParquetStore {
	return &ParquetStore{Path: path}
}

// ---------------------------------------------------------------------------
// Parquet record type (on-disk schema)
// ---------------------------------------------------------------------------

// MergedRow is the Parquet schema of the merged table. Column names match
// the CSV header.
type MergedRow struct {
	Date                string  `parquet:"date"`
	SystemIndex         string  `parquet:"system:index"`
	TimeStartSmall      int64   `parquet:"system:time_start_small,timestamp(millisecond)"` // Unix ms
	StartTimeRangeSmall int64   `parquet:"start_time_range_small"`
	CloudCoverSmall     float64 `parquet:"cloud_cover_small"`
	TimeStartLarge      int64   `parquet:"system:time_start_large,timestamp(millisecond)"` // Unix ms
	StartTimeRangeLarge int64   `parquet:"start_time_range_large"`
	CloudCoverLarge     float64 `parquet:"cloud_cover_large"`
}

func toRow(r domain.MergedRecord) MergedRow {
	return MergedRow{
		Date:                r.Date,
		SystemIndex:         r.SystemIndex,
		TimeStartSmall:      r.TimeStartSmall,
		StartTimeRangeSmall: r.StartTimeRangeSmall,
		CloudCoverSmall:     r.CloudCoverSmall,
		TimeStartLarge:      r.TimeStartLarge,
		StartTimeRangeLarge: r.StartTimeRangeLarge,
		CloudCoverLarge:     r.CloudCoverLarge,
	}
}

func fromRow(r MergedRow) domain.MergedRecord {
	return domain.MergedRecord{
		Date:                r.Date,
		SystemIndex:         r.SystemIndex,
		TimeStartSmall:      r.TimeStartSmall,
		StartTimeRangeSmall: r.StartTimeRangeSmall,
		CloudCoverSmall:     r.CloudCoverSmall,
		TimeStartLarge:      r.TimeStartLarge,
		StartTimeRangeLarge: r.StartTimeRangeLarge,
		CloudCoverLarge:     r.CloudCoverLarge,
	}
}

// ---------------------------------------------------------------------------
// MergedTableStore implementation
// ---------------------------------------------------------------------------

// WriteMerged writes rows to the Parquet file, replacing it atomically.
func (s *ParquetStore) WriteMerged(_ context.Context, rows []domain.MergedRecord) error {
	records := make([]MergedRow, len(rows))
	for i, r := range rows {
		records[i] = toRow(r)
	}

	err := util.WriteFileAtomic(s.Path, func(w io.Writer) error {
		return parquet.Write(w, records)
	})
	if err != nil {
		return fmt.Errorf("writing merged parquet %s: %w", s.Path, err)
	}
	return nil
}

// ReadMerged reads the merged table back from the Parquet file.
func (s *ParquetStore) ReadMerged(_ context.Context) ([]domain.MergedRecord, error) {
	records, err := parquet.ReadFile[MergedRow](s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading merged parquet %s: %w", s.Path, err)
	}

	rows := make([]domain.MergedRecord, len(records))
	for i, r := range records {
		rows[i] = fromRow(r)
	}
	return rows, nil
}
