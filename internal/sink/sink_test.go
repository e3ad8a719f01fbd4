package sink

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/factorlab/internal/contracts"
)

func sampleTable() *contracts.FeatureTable {
	row := func(anchor, asof time.Time, monthly, forward float64) contracts.FeatureRow {
		return contracts.FeatureRow{
			Date: anchor, AsOf: asof, Ticker: "AAPL",
			LogSize: 8.5, PB: 1.5, Momentum: 0.1, Issuance: 0, Accruals: -0.25,
			ROA: 0.05, Assets: 0.02, DivYield: 0.01, Beta: 1.1, StdDev: 0.02,
			Turnover: 10, DebtPrice: 0.3, SalesPrice: 0.9,
			MonthlyRet: monthly, ForwardRet: forward,
		}
	}
	return &contracts.FeatureTable{
		Ticker: "AAPL",
		Rows: []contracts.FeatureRow{
			row(time.Date(2021, 1, 29, 0, 0, 0, 0, time.UTC), time.Date(2021, 1, 28, 0, 0, 0, 0, time.UTC), 0.02, -0.01),
			row(time.Date(2021, 2, 26, 0, 0, 0, 0, time.UTC), time.Date(2021, 2, 26, 0, 0, 0, 0, time.UTC), -0.01, 0.03),
		},
	}
}

func TestCSVSink(t *testing.T) {
	s, err := NewCSVSink(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), sampleTable()))

	f, err := os.Open(s.Path("AAPL"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, contracts.FeatureColumns, records[0], "no index column")
	assert.Equal(t, "2021-01-29", records[1][0])
	assert.Equal(t, "2021-01-28", records[1][1])
	assert.Equal(t, "8.5", records[1][2])
	assert.Equal(t, "-0.25", records[1][6])
	assert.Equal(t, "0.02", records[1][15], "monthly_ret")
	assert.Equal(t, "-0.01", records[1][16], "forward_ret")
	assert.Equal(t, "AAPL", records[1][17])
}

func TestCSVSink_Overwrites(t *testing.T) {
	s, err := NewCSVSink(t.TempDir())
	require.NoError(t, err)

	table := sampleTable()
	require.NoError(t, s.Write(context.Background(), table))
	table.Rows = table.Rows[:1]
	require.NoError(t, s.Write(context.Background(), table))

	f, err := os.Open(s.Path("AAPL"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSinks_TickerWithSeparator(t *testing.T) {
	dir := t.TempDir()
	csvSink, err := NewCSVSink(dir)
	require.NoError(t, err)
	xlsxSink, err := NewXLSXSink(dir)
	require.NoError(t, err)

	table := sampleTable()
	table.Ticker = "BRK/B"

	for _, s := range []interface {
		contracts.FeatureSink
		Path(string) string
	}{csvSink, xlsxSink} {
		t.Run(s.Name(), func(t *testing.T) {
			require.NoError(t, s.Write(context.Background(), table))
			assert.Equal(t, dir, filepath.Dir(s.Path("BRK/B")), "no nested directory")
			assert.FileExists(t, s.Path("BRK/B"))
		})
	}

	assert.Equal(t, filepath.Join(dir, "BRK_B.csv"), csvSink.Path("BRK/B"))
	assert.Equal(t, filepath.Join(dir, `A_B.xlsx`), xlsxSink.Path(`A\B`))
}

func TestSinks_EmptyTicker(t *testing.T) {
	s, err := NewCSVSink(t.TempDir())
	require.NoError(t, err)

	table := sampleTable()
	table.Ticker = " "
	assert.Error(t, s.Write(context.Background(), table))
}

func TestXLSXSink(t *testing.T) {
	s, err := NewXLSXSink(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), sampleTable()))

	f, err := excelize.OpenFile(s.Path("AAPL"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, contracts.FeatureColumns, rows[0])
	assert.Equal(t, "2021-02-26", rows[2][0])
	assert.Equal(t, "AAPL", rows[2][17])
}

type failingSink struct{ calls int }

func (f *failingSink) Name() string { return "failing" }

func (f *failingSink) Write(context.Context, *contracts.FeatureTable) error {
	f.calls++
	return errors.New("boom")
}

func TestMultiSink_StopsAtFirstError(t *testing.T) {
	first := &failingSink{}
	second := &failingSink{}
	m := MultiSink{first, second}

	err := m.Write(context.Background(), sampleTable())
	assert.Error(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
	assert.Equal(t, "failing,failing", m.Name())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"csv", []string{"csv"}, false},
		{"csv, XLSX,csv", []string{"csv", "xlsx"}, false},
		{"postgres,clickhouse", []string{"postgres", "clickhouse"}, false},
		{"parquet", nil, true},
		{" , ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewSinks(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	single, err := NewSinks(ctx, []string{FormatCSV}, Deps{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "csv", single.Name())

	multi, err := NewSinks(ctx, []string{FormatCSV, FormatXLSX}, Deps{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "csv,xlsx", multi.Name())

	_, err = NewSinks(ctx, []string{FormatPostgres}, Deps{Dir: dir})
	assert.Error(t, err, "pool required")

	_, err = NewSinks(ctx, []string{FormatClickHouse}, Deps{Dir: dir})
	assert.Error(t, err, "connection required")

	_, err = NewSinks(ctx, nil, Deps{Dir: dir})
	assert.Error(t, err)
}
