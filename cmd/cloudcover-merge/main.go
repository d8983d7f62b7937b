// Merges the per-ROI cloud-cover exports in a folder into one table keyed by
// acquisition date.
//
// Usage:
//
//	go run ./cmd/cloudcover-merge --input-folder data/processed/s2_cloud_cover_tables \
//	    --output-file data/processed/s2_cloud_cover_table_small_and_large.csv
//
// Exit codes: 0 success, 1 usage or config error, 2 invalid input file name,
// 3 a ROI class has no files, 4 I/O or parse error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloudcover/internal/config"
	"cloudcover/internal/domain"
	"cloudcover/internal/merge"
	"cloudcover/internal/store"
	"cloudcover/internal/util"
)

const (
	exitOK = iota
	exitUsage
	exitInvalidInput
	exitEmptyClass
	exitIO
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, loads the configuration and performs one merge. It
// returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cloudcover-merge", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfgPath := "config/cloudcover.yaml"
	if p := os.Getenv("CLOUDCOVER_CONFIG"); p != "" {
		cfgPath = p
	}
	fs.StringVar(&cfgPath, "config", cfgPath, "path to YAML config")
	inputFolder := fs.String("input-folder", "", "folder holding the *.csv exports (overrides config)")
	outputFile := fs.String("output-file", "", "merged CSV to write (overrides config)")
	parquetOut := fs.String("parquet-output", "", "also write the merged table as Parquet (overrides config)")
	catalog := fs.String("catalog", "", "SQLite run catalog to record the run in (overrides config)")
	quiet := fs.Bool("quiet", false, "skip the preview and summary on stdout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitUsage
	}
	if *inputFolder != "" {
		cfg.Merge.InputFolder = *inputFolder
	}
	if *outputFile != "" {
		cfg.Merge.OutputFile = *outputFile
	}
	if *parquetOut != "" {
		cfg.Storage.ParquetPath = *parquetOut
	}
	if *catalog != "" {
		cfg.Storage.SQLitePath = *catalog
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return exitUsage
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, stderr)
	util.SetDefault(logger)

	opts := merge.Options{
		InputFolder: cfg.Merge.InputFolder,
		OutputFile:  cfg.Merge.OutputFile,
		Thresholds: merge.Thresholds{
			SmallMinPixels:    cfg.Merge.SmallMinPixels,
			LargeMinPixels:    cfg.Merge.LargeMinPixels,
			MaxStartTimeRange: cfg.Merge.MaxStartTimeRange,
		},
		Workers:     cfg.Merge.Workers,
		PreviewRows: cfg.Merge.PreviewRows,
		Logger:      logger,
	}
	if !*quiet {
		opts.Summary = stdout
	}

	started := time.Now().UTC()
	res, err := merge.Merge(ctx, opts)
	if err != nil {
		logger.Error("merge failed", "error", err)
		return exitCode(err)
	}

	if cfg.Storage.ParquetPath != "" {
		ps := store.NewParquetStore(cfg.Storage.ParquetPath)
		if err := ps.WriteMerged(ctx, res.Table); err != nil {
			logger.Error("parquet export failed", "error", err)
			return exitIO
		}
		logger.Info("parquet copy written", "path", cfg.Storage.ParquetPath, "rows", len(res.Table))
	}

	if cfg.Storage.SQLitePath != "" {
		if err := recordRun(ctx, cfg, started, res); err != nil {
			logger.Error("recording run failed", "error", err)
			return exitIO
		}
	}

	return exitOK
}

// recordRun appends the run to the SQLite catalog.
func recordRun(ctx context.Context, cfg *config.Config, started time.Time, res *merge.Result) error {
	rs, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		return err
	}
	defer rs.Close()

	run := &domain.Run{
		StartedAt:       started,
		InputFolder:     cfg.Merge.InputFolder,
		OutputFile:      cfg.Merge.OutputFile,
		SmallFiles:      res.SmallFiles,
		LargeFiles:      res.LargeFiles,
		SmallRows:       res.SmallRows,
		LargeRows:       res.LargeRows,
		MergedRows:      len(res.Table),
		IndexMismatches: res.IndexMismatches,
	}
	if err := rs.SaveRun(ctx, run); err != nil {
		return err
	}
	slog.Info("run recorded", "catalog", cfg.Storage.SQLitePath, "id", run.ID)
	return nil
}

// exitCode maps a merge error onto the documented exit codes.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, merge.ErrInvalidInput):
		return exitInvalidInput
	case errors.Is(err, merge.ErrEmptyClass):
		return exitEmptyClass
	default:
		return exitIO
	}
}
