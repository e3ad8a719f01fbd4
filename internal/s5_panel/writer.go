package s5_panel

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// WriteCSV writes date, ticker and the panel columns; missing values are empty
func WriteCSV(w io.Writer, p *Panel) error {
	cw := csv.NewWriter(w)

	header := append([]string{"date", "ticker"}, p.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(header))
	for _, r := range p.Rows {
		record[0] = r.Date.Format("2006-01-02")
		record[1] = r.Key
		for i, col := range p.Columns {
			v, ok := r.Values[col]
			if !ok || math.IsNaN(v) {
				record[i+2] = ""
				continue
			}
			record[i+2] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
