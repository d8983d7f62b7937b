package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudcover/internal/domain"
	"cloudcover/internal/merge"
	"cloudcover/internal/store"
)

func sampleTable() []domain.MergedRecord {
	return []domain.MergedRecord{
		{Date: "2021-01-01", SystemIndex: "IDX1", TimeStartSmall: 1, StartTimeRangeSmall: 100, CloudCoverSmall: 5, TimeStartLarge: 2, StartTimeRangeLarge: 200, CloudCoverLarge: 7},
		{Date: "2021-01-06", SystemIndex: "IDX3", TimeStartSmall: 3, StartTimeRangeSmall: 0, CloudCoverSmall: 0.5, TimeStartLarge: 4, StartTimeRangeLarge: 0, CloudCoverLarge: 12},
	}
}

func TestInspectParquetAndCSV(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	pq := filepath.Join(dir, "merged.parquet")
	require.NoError(t, store.NewParquetStore(pq).WriteMerged(ctx, sampleTable()))

	csvPath := filepath.Join(dir, "merged.csv")
	require.NoError(t, merge.WriteCSV(csvPath, sampleTable()))

	for _, path := range []string{pq, csvPath} {
		var buf bytes.Buffer
		require.NoError(t, inspectCmd(ctx, []string{"-rows", "1", path}, &buf), path)

		out := buf.String()
		assert.Contains(t, out, "Head of table (1 of 2 rows)")
		assert.Contains(t, out, "IDX1")
		assert.NotContains(t, out, "IDX3", "only one preview row requested")
		assert.Contains(t, out, "cloud_cover_large")
	}
}

func TestInspectErrors(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	assert.Error(t, inspectCmd(ctx, nil, &buf))
	assert.Error(t, inspectCmd(ctx, []string{"table.json"}, &buf))
	assert.Error(t, inspectCmd(ctx, []string{filepath.Join(t.TempDir(), "absent.parquet")}, &buf))
}

func TestRunsCmd(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	rs, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, rs.SaveRun(ctx, &domain.Run{
			StartedAt:       time.Date(2025, 3, 1, 12, i, 0, 0, time.UTC),
			InputFolder:     "in",
			OutputFile:      "out-" + string(rune('a'+i)) + ".csv",
			SmallFiles:      1,
			LargeFiles:      1,
			MergedRows:      10 + i,
			IndexMismatches: i,
		}))
	}
	require.NoError(t, rs.Close())

	var buf bytes.Buffer
	require.NoError(t, runsCmd(ctx, []string{"-catalog", dbPath, "-n", "2"}, &buf))

	out := buf.String()
	assert.Contains(t, out, "out-c.csv")
	assert.Contains(t, out, "out-b.csv")
	assert.NotContains(t, out, "out-a.csv")
}

func TestRunsCmdMissingCatalog(t *testing.T) {
	var buf bytes.Buffer
	err := runsCmd(context.Background(), []string{"-catalog", filepath.Join(t.TempDir(), "absent.db")}, &buf)
	assert.Error(t, err)

	t.Setenv("CLOUDCOVER_SQLITE_PATH", "")
	err = runsCmd(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "absent.yaml")}, &buf)
	assert.ErrorContains(t, err, "no catalog configured")
}
