// Package summary computes and renders a quick look at a merged table: the
// first rows and per-column descriptive statistics.
package summary

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"cloudcover/internal/domain"
)

// Column is one column of a table. Numeric columns carry Values, the rest
// carry Text.
type Column struct {
	Name    string
	Numeric bool
	Text    []string
	Values  []float64
}

// ColumnStats holds the descriptive statistics of one column. Unique, Top and
// Freq apply to text columns; the moments and quantiles apply to numeric
// columns and are NaN when undefined (for example Std of a single value).
type ColumnStats struct {
	Name    string
	Numeric bool
	Count   int

	Unique int
	Top    string // most frequent value; the first to reach that count wins ties
	Freq   int

	Mean   float64
	Std    float64 // sample standard deviation (n-1)
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// MergedColumns splits merged rows into columns, in output header order.
func MergedColumns(rows []domain.MergedRecord) []Column {
	n := len(rows)
	text := func(name string, get func(*domain.MergedRecord) string) Column {
		c := Column{Name: name, Text: make([]string, n)}
		for i := range rows {
			c.Text[i] = get(&rows[i])
		}
		return c
	}
	num := func(name string, get func(*domain.MergedRecord) float64) Column {
		c := Column{Name: name, Numeric: true, Values: make([]float64, n)}
		for i := range rows {
			c.Values[i] = get(&rows[i])
		}
		return c
	}

	return []Column{
		text("date", func(r *domain.MergedRecord) string { return r.Date }),
		text("system:index", func(r *domain.MergedRecord) string { return r.SystemIndex }),
		num("system:time_start_small", func(r *domain.MergedRecord) float64 { return float64(r.TimeStartSmall) }),
		num("start_time_range_small", func(r *domain.MergedRecord) float64 { return float64(r.StartTimeRangeSmall) }),
		num("cloud_cover_small", func(r *domain.MergedRecord) float64 { return r.CloudCoverSmall }),
		num("system:time_start_large", func(r *domain.MergedRecord) float64 { return float64(r.TimeStartLarge) }),
		num("start_time_range_large", func(r *domain.MergedRecord) float64 { return float64(r.StartTimeRangeLarge) }),
		num("cloud_cover_large", func(r *domain.MergedRecord) float64 { return r.CloudCoverLarge }),
	}
}

// Describe computes statistics for every column.
func Describe(cols []Column) []ColumnStats {
	out := make([]ColumnStats, len(cols))
	for i, c := range cols {
		if c.Numeric {
			out[i] = describeNumeric(c)
		} else {
			out[i] = describeText(c)
		}
	}
	return out
}

func describeText(c Column) ColumnStats {
	s := ColumnStats{Name: c.Name, Count: len(c.Text)}

	counts := make(map[string]int, len(c.Text))
	for _, v := range c.Text {
		counts[v]++
		if counts[v] > s.Freq {
			s.Top, s.Freq = v, counts[v]
		}
	}
	s.Unique = len(counts)
	return s
}

func describeNumeric(c Column) ColumnStats {
	s := ColumnStats{Name: c.Name, Numeric: true, Count: len(c.Values)}
	if s.Count == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	s.Mean = stat.Mean(c.Values, nil)
	s.Std = math.NaN()
	if s.Count > 1 {
		s.Std = stat.StdDev(c.Values, nil)
	}
	s.Min = floats.Min(c.Values)
	s.Max = floats.Max(c.Values)

	sorted := make([]float64, len(c.Values))
	copy(sorted, c.Values)
	sort.Float64s(sorted)
	s.Q25 = percentileSorted(sorted, 25)
	s.Median = percentileSorted(sorted, 50)
	s.Q75 = percentileSorted(sorted, 75)
	return s
}

// percentileSorted returns the p-th percentile (0-100) of an already-sorted
// slice using linear interpolation between closest ranks.
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	frac := rank - float64(lower)
	if lower >= n-1 {
		return sorted[n-1]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// FormatRecord renders a merged row as its CSV cell values.
func FormatRecord(r domain.MergedRecord) []string {
	return []string{
		r.Date,
		r.SystemIndex,
		strconv.FormatInt(r.TimeStartSmall, 10),
		strconv.FormatInt(r.StartTimeRangeSmall, 10),
		formatFloat(r.CloudCoverSmall),
		strconv.FormatInt(r.TimeStartLarge, 10),
		strconv.FormatInt(r.StartTimeRangeLarge, 10),
		formatFloat(r.CloudCoverLarge),
	}
}

// Preview returns the first n rows formatted as cell values.
func Preview(rows []domain.MergedRecord, n int) [][]string {
	n = max(0, min(n, len(rows)))
	out := make([][]string, 0, n)
	for _, r := range rows[:n] {
		out = append(out, FormatRecord(r))
	}
	return out
}
