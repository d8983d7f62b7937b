package merge

import "cloudcover/internal/domain"

// Join inner-joins the small and large tables on date. Every pairing of a
// small row and a large row with the same date is emitted, so a date with N
// small rows and M large rows yields N*M merged rows. Rows come out in small
// table order, and in large table order within one small row.
//
// mismatches counts merged rows whose two system:index values differ; only
// the small side's index is kept in the output.
func Join(small, large []domain.ClassRecord) (rows []domain.MergedRecord, mismatches int) {
	byDate := make(map[string][]int, len(large))
	for i := range large {
		byDate[large[i].Date] = append(byDate[large[i].Date], i)
	}

	rows = make([]domain.MergedRecord, 0, len(small))
	for _, s := range small {
		for _, li := range byDate[s.Date] {
			l := large[li]
			if l.SystemIndex != s.SystemIndex {
				mismatches++
			}
			rows = append(rows, domain.NewMergedRecord(s, l))
		}
	}
	return rows, mismatches
}
