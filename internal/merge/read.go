package merge

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"

	"cloudcover/internal/domain"
)

// sourceFile is a discovered export and its ROI class.
type sourceFile struct {
	Path  string
	Class domain.ROIClass
}

// discover lists the *.csv files directly under dir, in name order, and
// classifies each one. The first unclassifiable name aborts discovery.
func discover(dir string) ([]sourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input folder %s: %w", dir, err)
	}

	var files []sourceFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		class, ok := domain.ClassifyName(e.Name())
		if !ok {
			return nil, &InvalidInputError{File: path}
		}
		files = append(files, sourceFile{Path: path, Class: class})
	}
	return files, nil
}

// ReadFile decodes a cloud-cover export. The header must name every column
// of domain.CloudCoverRecord; extra columns are ignored. A file holding only
// a header yields no records.
func ReadFile(path string) ([]domain.CloudCoverRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := decodeAll[domain.CloudCoverRecord](f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}

// ReadMergedFile decodes a CSV previously written by WriteCSV.
func ReadMergedFile(path string) ([]domain.MergedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := decodeAll[domain.MergedRecord](f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}

func decodeAll[T any](r io.Reader) ([]T, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, err
	}
	dec.DisallowMissingColumns = true

	var records []T
	if err := dec.Decode(&records); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return records, nil
}
