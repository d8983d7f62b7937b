package merge

import "cloudcover/internal/domain"

// Thresholds holds the per-class row filter. A row is kept when its
// total_pixels reaches the class minimum (the whole ROI footprint was
// imaged) and its start_time_range does not exceed MaxStartTimeRange.
type Thresholds struct {
	SmallMinPixels    float64
	LargeMinPixels    float64
	MaxStartTimeRange int64 // ms
}

// DefaultThresholds returns the full-footprint pixel counts of the two ROIs
// and a one minute acquisition window.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SmallMinPixels:    1.25e7,
		LargeMinPixels:    1.63e8,
		MaxStartTimeRange: 60000,
	}
}

// MinPixels returns the total_pixels minimum for class c.
func (t Thresholds) MinPixels(c domain.ROIClass) float64 {
	if c == domain.ClassLarge {
		return t.LargeMinPixels
	}
	return t.SmallMinPixels
}

// Keep reports whether r passes the filter for class c.
func (t Thresholds) Keep(c domain.ROIClass, r domain.CloudCoverRecord) bool {
	return r.TotalPixels >= t.MinPixels(c) && r.StartTimeRange <= t.MaxStartTimeRange
}

// Filter applies the class filter to records and projects the survivors.
// The result may be empty.
func Filter(c domain.ROIClass, records []domain.CloudCoverRecord, t Thresholds) []domain.ClassRecord {
	out := make([]domain.ClassRecord, 0, len(records))
	for _, r := range records {
		if t.Keep(c, r) {
			out = append(out, r.Project())
		}
	}
	return out
}
