package summary

import (
	"math"
	"strconv"
)

// statRows is the row order of the statistics table.
var statRows = []string{"count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"}

// cell returns the rendered value of statistic name for s, or "-" when the
// statistic does not apply to the column's kind.
func (s ColumnStats) cell(name string) string {
	if name == "count" {
		return strconv.Itoa(s.Count)
	}

	if !s.Numeric {
		switch name {
		case "unique":
			return strconv.Itoa(s.Unique)
		case "top":
			if s.Count == 0 {
				return "-"
			}
			return s.Top
		case "freq":
			return strconv.Itoa(s.Freq)
		}
		return "-"
	}

	switch name {
	case "mean":
		return formatStat(s.Mean)
	case "std":
		return formatStat(s.Std)
	case "min":
		return formatStat(s.Min)
	case "25%":
		return formatStat(s.Q25)
	case "50%":
		return formatStat(s.Median)
	case "75%":
		return formatStat(s.Q75)
	case "max":
		return formatStat(s.Max)
	}
	return "-"
}

// formatStat formats a statistic with six significant digits.
func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// formatFloat formats a cell value with the fewest digits that round-trip.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
