package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wonny/factorlab/internal/contracts"
)

// CSVSink writes one <dir>/<ticker>.csv per table, overwriting earlier runs
type CSVSink struct {
	dir string
}

// NewCSVSink creates the output directory if needed
func NewCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &CSVSink{dir: dir}, nil
}

func (s *CSVSink) Name() string { return "csv" }

// Path returns the file a ticker is written to
func (s *CSVSink) Path(ticker string) string {
	return filepath.Join(s.dir, fileName(ticker, ".csv"))
}

func (s *CSVSink) Write(ctx context.Context, table *contracts.FeatureTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkTicker(table.Ticker); err != nil {
		return err
	}

	f, err := os.Create(s.Path(table.Ticker))
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(contracts.FeatureColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range table.Rows {
		if err := w.Write(record(&table.Rows[i])); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return f.Close()
}
