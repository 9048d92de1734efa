package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

func writeCSV(w io.Writer, t table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.headers); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	record := make([]string, len(t.headers))
	for i, row := range t.rows {
		for c := range record {
			record[c] = cellText(row[c])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
