package merge

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"

	"cloudcover/internal/domain"
	"cloudcover/internal/util"
)

// WriteCSV writes rows to path as CSV with a header row and no index
// column. The file is replaced atomically: a failed write never leaves a
// truncated file behind.
func WriteCSV(path string, rows []domain.MergedRecord) error {
	return util.WriteFileAtomic(path, func(w io.Writer) error {
		return EncodeCSV(w, rows)
	})
}

// EncodeCSV writes the header followed by rows to w. The header is written
// even when rows is empty.
func EncodeCSV(w io.Writer, rows []domain.MergedRecord) error {
	header, err := csvutil.Header(domain.MergedRecord{}, "csv")
	if err != nil {
		return fmt.Errorf("building header: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if len(rows) > 0 {
		enc := csvutil.NewEncoder(cw)
		enc.AutoHeader = false
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("encoding rows: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
