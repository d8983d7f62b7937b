package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudcover/internal/merge"
	"cloudcover/internal/store"
)

const header = "system:index,cloud_cover,date,start_time_range,system:time_start,total_pixels"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CLOUDCOVER_CONFIG",
		"CLOUDCOVER_INPUT_FOLDER",
		"CLOUDCOVER_OUTPUT_FILE",
		"CLOUDCOVER_PARQUET_PATH",
		"CLOUDCOVER_SQLITE_PATH",
		"LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// fixture lays out one small and one large export sharing a date.
func fixture(t *testing.T) string {
	t.Helper()
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "t32_small.csv"), header+"\nIDX1,5,2021-01-01,100,1,2e7\n")
	writeFile(t, filepath.Join(in, "t32_large.csv"), header+"\nIDX2,7,2021-01-01,200,2,2e8\n")
	return in
}

func invoke(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, args...)
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunWritesAllSinks(t *testing.T) {
	clearEnv(t)
	in := fixture(t)
	outDir := t.TempDir()
	csvPath := filepath.Join(outDir, "merged.csv")
	pqPath := filepath.Join(outDir, "merged.parquet")
	dbPath := filepath.Join(outDir, "runs.db")

	code, stdout, stderr := invoke(t,
		"--input-folder", in,
		"--output-file", csvPath,
		"--parquet-output", pqPath,
		"--catalog", dbPath,
	)
	require.Equal(t, exitOK, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Merged table saved to "+csvPath)
	assert.Contains(t, stdout, "Description:")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2021-01-01,IDX1,1,100,5,2,200,7")

	rows, err := store.NewParquetStore(pqPath).ReadMerged(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "IDX1", rows[0].SystemIndex)

	rs, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer rs.Close()
	runs, err := rs.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].MergedRows)
	assert.Equal(t, 1, runs[0].IndexMismatches)
	assert.Equal(t, in, runs[0].InputFolder)
}

func TestRunQuiet(t *testing.T) {
	clearEnv(t)
	in := fixture(t)

	code, stdout, _ := invoke(t,
		"--input-folder", in,
		"--output-file", filepath.Join(t.TempDir(), "merged.csv"),
		"--quiet",
	)
	assert.Equal(t, exitOK, code)
	assert.Empty(t, stdout)
}

func TestRunExitCodes(t *testing.T) {
	clearEnv(t)

	badName := t.TempDir()
	writeFile(t, filepath.Join(badName, "t32_small.csv"), header+"\n")
	writeFile(t, filepath.Join(badName, "t32_medium.csv"), header+"\n")

	noLarge := t.TempDir()
	writeFile(t, filepath.Join(noLarge, "t32_small.csv"), header+"\n")

	badValue := t.TempDir()
	writeFile(t, filepath.Join(badValue, "t32_small.csv"), header+"\nIDX1,cloudy,2021-01-01,100,1,2e7\n")
	writeFile(t, filepath.Join(badValue, "t32_large.csv"), header+"\n")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"--nope"}, exitUsage},
		{"positional arg", []string{"extra"}, exitUsage},
		{"invalid name", []string{"--input-folder", badName}, exitInvalidInput},
		{"empty class", []string{"--input-folder", noLarge}, exitEmptyClass},
		{"parse error", []string{"--input-folder", badValue}, exitIO},
		{"missing folder", []string{"--input-folder", filepath.Join(badName, "nope")}, exitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "merged.csv")
			code, _, _ := invoke(t, append(tt.args, "--output-file", out)...)
			assert.Equal(t, tt.want, code)
			if tt.want != exitUsage {
				_, err := os.Stat(out)
				assert.ErrorIs(t, err, os.ErrNotExist, "no output on failure")
			}
		})
	}
}

func TestRunMalformedConfig(t *testing.T) {
	clearEnv(t)
	cfg := filepath.Join(t.TempDir(), "cloudcover.yaml")
	writeFile(t, cfg, "merge: [unterminated\n")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", cfg}, &stdout, &stderr)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "failed to load config")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitInvalidInput, exitCode(fmt.Errorf("wrap: %w", &merge.InvalidInputError{File: "x.csv"})))
	assert.Equal(t, exitEmptyClass, exitCode(&merge.EmptyClassError{}))
	assert.Equal(t, exitIO, exitCode(errors.New("disk full")))
}
