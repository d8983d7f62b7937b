package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"cloudcover/internal/config"
	"cloudcover/internal/domain"
	"cloudcover/internal/merge"
	"cloudcover/internal/store"
	"cloudcover/internal/summary"
)

const version = "0.1.0"

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: cloudcover-cli <command> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  version                  Print the CLI version\n")
	fmt.Fprintf(os.Stderr, "  runs [-n N] [-catalog p] List recent merge runs\n")
	fmt.Fprintf(os.Stderr, "  inspect <file>           Preview and describe a merged .csv or .parquet table\n")
	fmt.Fprintf(os.Stderr, "\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx := context.Background()
	var err error

	switch os.Args[1] {
	case "version":
		fmt.Printf("cloudcover-cli %s\n", version)

	case "runs":
		err = runsCmd(ctx, os.Args[2:], os.Stdout)

	case "inspect":
		err = inspectCmd(ctx, os.Args[2:], os.Stdout)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runsCmd lists the most recent runs recorded in the SQLite catalog.
func runsCmd(ctx context.Context, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	n := fs.Int("n", 10, "number of runs to list")
	catalog := fs.String("catalog", "", "SQLite run catalog (default: storage.sqlite_path from config)")
	cfgPath := fs.String("config", configPath(), "path to YAML config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := *catalog
	if path == "" {
		cfg, err := config.LoadOrDefault(*cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		path = cfg.Storage.SQLitePath
	}
	if path == "" {
		return fmt.Errorf("no catalog configured: pass -catalog or set storage.sqlite_path")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	rs, err := store.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer rs.Close()

	runs, err := rs.ListRuns(ctx, *n)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return nil
	}
	fmt.Fprintln(w, renderRuns(runs))
	return nil
}

// inspectCmd reads a merged table from CSV or Parquet and prints its preview
// and descriptive statistics.
func inspectCmd(ctx context.Context, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	rowsFlag := fs.Int("rows", 5, "number of preview rows")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("inspect takes exactly one file")
	}
	path := fs.Arg(0)

	var (
		rows []domain.MergedRecord
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		rows, err = store.NewParquetStore(path).ReadMerged(ctx)
	case ".csv":
		rows, err = merge.ReadMergedFile(path)
	default:
		return fmt.Errorf("unsupported file type %q (want .csv or .parquet)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n\n", path)
	return summary.Print(w, rows, *rowsFlag)
}

func configPath() string {
	if p := os.Getenv("CLOUDCOVER_CONFIG"); p != "" {
		return p
	}
	return "config/cloudcover.yaml"
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1)
)

const mismatchCol = 8

func renderRuns(runs []domain.Run) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			strconv.FormatInt(r.ID, 10),
			r.StartedAt.Local().Format(time.DateTime),
			r.InputFolder,
			strconv.Itoa(r.SmallFiles) + "/" + strconv.Itoa(r.LargeFiles),
			strconv.Itoa(r.SmallRows),
			strconv.Itoa(r.LargeRows),
			strconv.Itoa(r.MergedRows),
			r.OutputFile,
			strconv.Itoa(r.IndexMismatches),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("ID", "STARTED", "INPUT", "FILES S/L", "SMALL", "LARGE", "MERGED", "OUTPUT", "IDX MISMATCH").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == mismatchCol && rows[row][col] != "0" {
				return warnStyle
			}
			return cellStyle
		})
	return t.Render()
}
