// Package merge combines per-ROI cloud-cover exports into one table keyed by
// acquisition date.
//
// A run discovers the *.csv files in a folder, classifies each by the
// "small"/"large" token in its name, filters and projects the rows of every
// file, concatenates each class, inner-joins the two classes on date, and
// writes the result as one CSV.
package merge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"cloudcover/internal/domain"
	"cloudcover/internal/summary"
)

// Options configures a merge run.
type Options struct {
	InputFolder string
	OutputFile  string

	// Thresholds is the row filter. The zero value selects
	// DefaultThresholds.
	Thresholds Thresholds

	// Workers bounds the number of files decoded concurrently. Zero means 1.
	Workers int

	// Summary receives a preview of the merged table and its descriptive
	// statistics after the output is written. Nil disables the summary.
	Summary     io.Writer
	PreviewRows int

	Logger *slog.Logger
}

// Result is the merged table plus the counts gathered while building it.
type Result struct {
	Table []domain.MergedRecord

	SmallFiles int
	LargeFiles int
	SmallRows  int // after filtering
	LargeRows  int // after filtering

	// IndexMismatches counts merged rows whose large-side system:index
	// differed from the small-side index kept in the output.
	IndexMismatches int
}

// Merge runs the whole pipeline and writes opts.OutputFile. Any error aborts
// the run before the output is replaced.
func Merge(ctx context.Context, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}

	info, err := os.Stat(opts.InputFolder)
	if err != nil {
		return nil, fmt.Errorf("input folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input folder %s is not a directory", opts.InputFolder)
	}

	files, err := discover(opts.InputFolder)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, f := range files {
		if f.Class == domain.ClassSmall {
			res.SmallFiles++
		} else {
			res.LargeFiles++
		}
	}
	if res.SmallFiles == 0 {
		return nil, &EmptyClassError{Class: domain.ClassSmall, Folder: opts.InputFolder}
	}
	if res.LargeFiles == 0 {
		return nil, &EmptyClassError{Class: domain.ClassLarge, Folder: opts.InputFolder}
	}

	log.Info("discovered exports",
		"folder", opts.InputFolder,
		"small_files", res.SmallFiles,
		"large_files", res.LargeFiles,
	)

	loaded, err := loadAll(ctx, files, opts.Workers)
	if err != nil {
		return nil, err
	}

	var small, large []domain.ClassRecord
	for i, f := range files {
		kept := Filter(f.Class, loaded[i], opts.Thresholds)
		log.Debug("filtered export",
			"file", f.Path,
			"class", f.Class.String(),
			"rows", len(loaded[i]),
			"kept", len(kept),
		)
		if f.Class == domain.ClassSmall {
			small = append(small, kept...)
		} else {
			large = append(large, kept...)
		}
	}
	res.SmallRows = len(small)
	res.LargeRows = len(large)

	res.Table, res.IndexMismatches = Join(small, large)
	if res.IndexMismatches > 0 {
		log.Warn("large ROI system:index differs from small ROI index on merged rows",
			"rows", res.IndexMismatches)
	}

	if err := WriteCSV(opts.OutputFile, res.Table); err != nil {
		return nil, fmt.Errorf("writing %s: %w", opts.OutputFile, err)
	}

	log.Info("merged table written",
		"path", opts.OutputFile,
		"small_rows", res.SmallRows,
		"large_rows", res.LargeRows,
		"merged_rows", len(res.Table),
	)

	if opts.Summary != nil {
		fmt.Fprintf(opts.Summary, "Merged table saved to %s\n\n", opts.OutputFile)
		if err := summary.Print(opts.Summary, res.Table, opts.PreviewRows); err != nil {
			return res, fmt.Errorf("printing summary: %w", err)
		}
	}

	return res, nil
}

// loadAll decodes every file with at most workers files in flight. Results
// are stored by file position, so concatenation order does not depend on
// completion order. The first failure cancels the remaining reads.
func loadAll(ctx context.Context, files []sourceFile, workers int) ([][]domain.CloudCoverRecord, error) {
	if workers <= 0 {
		workers = 1
	}

	out := make([][]domain.CloudCoverRecord, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := ReadFile(f.Path)
			if err != nil {
				return err
			}
			out[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
