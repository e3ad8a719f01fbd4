package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/factorlab/internal/contracts"
)

// SheetName is the worksheet holding the feature rows
const SheetName = "features"

// XLSXSink writes one <dir>/<ticker>.xlsx workbook per table
type XLSXSink struct {
	dir string
}

// NewXLSXSink creates the output directory if needed
func NewXLSXSink(dir string) (*XLSXSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &XLSXSink{dir: dir}, nil
}

func (s *XLSXSink) Name() string { return "xlsx" }

// Path returns the workbook a ticker is written to
func (s *XLSXSink) Path(ticker string) string {
	return filepath.Join(s.dir, fileName(ticker, ".xlsx"))
}

func (s *XLSXSink) Write(ctx context.Context, table *contracts.FeatureTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkTicker(table.Ticker); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(contracts.FeatureColumns))
	for i, col := range contracts.FeatureColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range table.Rows {
		row := &table.Rows[i]
		cells := make([]interface{}, 0, len(contracts.FeatureColumns))
		cells = append(cells, row.Date.Format(dateLayout), row.AsOf.Format(dateLayout))
		for _, v := range row.Numbers() {
			cells = append(cells, v)
		}
		cells = append(cells, row.Ticker)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(s.Path(table.Ticker)); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
