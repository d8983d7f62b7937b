// Package domain defines the core record types shared across the cloudcover
// tools: the per-ROI export rows, their class-projected form, the merged
// small/large rows, and the run catalog entry.
package domain

import (
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// ROI classes
// ---------------------------------------------------------------------------

// ROIClass tags an export as belonging to the small or the large region of
// interest.
type ROIClass int

const (
	ClassSmall ROIClass = iota
	ClassLarge
)

// Classes lists every ROI class in merge order.
var Classes = []ROIClass{ClassSmall, ClassLarge}

// String returns the filename token for the class ("small" or "large").
func (c ROIClass) String() string {
	switch c {
	case ClassSmall:
		return "small"
	case ClassLarge:
		return "large"
	default:
		return "unknown"
	}
}

// Suffix returns the column suffix used for class-specific fields.
func (c ROIClass) Suffix() string {
	return "_" + c.String()
}

// ClassifyName returns the ROI class whose token appears in name. Matching is
// case-sensitive and "small" is checked first, so a name carrying both tokens
// is small. ok is false when neither token is present.
func ClassifyName(name string) (ROIClass, bool) {
	switch {
	case strings.Contains(name, ClassSmall.String()):
		return ClassSmall, true
	case strings.Contains(name, ClassLarge.String()):
		return ClassLarge, true
	default:
		return 0, false
	}
}

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

// CloudCoverRecord is one row of a per-ROI export. Columns not listed here
// (for example ".geo") are ignored when decoding.
type CloudCoverRecord struct {
	Date           string  `csv:"date"`
	SystemIndex    string  `csv:"system:index"`
	TimeStart      int64   `csv:"system:time_start"` // Unix ms
	StartTimeRange int64   `csv:"start_time_range"`  // ms
	CloudCover     float64 `csv:"cloud_cover"`       // percent
	TotalPixels    float64 `csv:"total_pixels"`      // exports may use exponent form (2e7)
}

// ClassRecord is a filtered export row projected down to the columns that
// survive into the merge. Its class is carried by the table it sits in.
type ClassRecord struct {
	Date           string
	SystemIndex    string
	TimeStart      int64
	StartTimeRange int64
	CloudCover     float64
}

// Project drops total_pixels and returns the class-projected row.
func (r CloudCoverRecord) Project() ClassRecord {
	return ClassRecord{
		Date:           r.Date,
		SystemIndex:    r.SystemIndex,
		TimeStart:      r.TimeStart,
		StartTimeRange: r.StartTimeRange,
		CloudCover:     r.CloudCover,
	}
}

// MergedRecord is one row of the consolidated table: a small-ROI row and a
// large-ROI row sharing the same date. SystemIndex comes from the small side.
type MergedRecord struct {
	Date                string  `csv:"date"`
	SystemIndex         string  `csv:"system:index"`
	TimeStartSmall      int64   `csv:"system:time_start_small"`
	StartTimeRangeSmall int64   `csv:"start_time_range_small"`
	CloudCoverSmall     float64 `csv:"cloud_cover_small"`
	TimeStartLarge      int64   `csv:"system:time_start_large"`
	StartTimeRangeLarge int64   `csv:"start_time_range_large"`
	CloudCoverLarge     float64 `csv:"cloud_cover_large"`
}

// MergedColumns is the output header, in order.
var MergedColumns = []string{
	"date",
	"system:index",
	"system:time_start_small",
	"start_time_range_small",
	"cloud_cover_small",
	"system:time_start_large",
	"start_time_range_large",
	"cloud_cover_large",
}

// NewMergedRecord combines a small-ROI row and a large-ROI row.
func NewMergedRecord(small, large ClassRecord) MergedRecord {
	return MergedRecord{
		Date:                small.Date,
		SystemIndex:         small.SystemIndex,
		TimeStartSmall:      small.TimeStart,
		StartTimeRangeSmall: small.StartTimeRange,
		CloudCoverSmall:     small.CloudCover,
		TimeStartLarge:      large.TimeStart,
		StartTimeRangeLarge: large.StartTimeRange,
		CloudCoverLarge:     large.CloudCover,
	}
}

// ---------------------------------------------------------------------------
// Run catalog
// ---------------------------------------------------------------------------

// Run records the outcome of one successful merge.
type Run struct {
	ID              int64
	StartedAt       time.Time
	InputFolder     string
	OutputFile      string
	SmallFiles      int
	LargeFiles      int
	SmallRows       int // after filtering
	LargeRows       int // after filtering
	MergedRows      int
	IndexMismatches int // merged rows whose small and large system:index differ
}
