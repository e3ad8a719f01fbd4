package s4_table

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wonny/factorlab/internal/contracts"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// weekdays returns every Monday-Friday in [start, end]
func weekdays(start, end time.Time) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			out = append(out, d)
		}
	}
	return out
}

func adjClose(i int) float64 {
	return 100*(1+0.01*math.Sin(float64(i))) + 0.1*float64(i)
}

// syntheticPrices: wiggling closeadj, close 50, volume 1000 on every weekday
func syntheticPrices(start, end time.Time) *contracts.Series {
	dates := weekdays(start, end)
	rows := make([]contracts.Row, len(dates))
	for i, d := range dates {
		rows[i] = contracts.Row{Date: d, Values: map[string]float64{
			contracts.ColAdjClose: adjClose(i),
			contracts.ColClose:    50,
			contracts.ColVolume:   1000,
		}}
	}
	return contracts.NewSeries(contracts.PriceColumns, rows)
}

// syntheticFundamentals: constant filings every 91 days from start, 100 shares
func syntheticFundamentals(start, end time.Time) *contracts.Series {
	var rows []contracts.Row
	for d := start; !d.After(end); d = d.AddDate(0, 0, 91) {
		rows = append(rows, contracts.Row{Date: d, Values: map[string]float64{
			contracts.ColShares:       100,
			contracts.ColPB:           1.5,
			contracts.ColAssetsC:      500,
			contracts.ColCash:         100,
			contracts.ColLiabilitiesC: 200,
			contracts.ColDeprec:       10,
			contracts.ColROA:          0.05,
			contracts.ColAssets:       1000,
			contracts.ColDivYield:     0.01,
			contracts.ColDebt:         300,
			contracts.ColRevenue:      900,
		}})
	}
	return contracts.NewSeries(contracts.FundamentalColumns, rows)
}

type fakeMarket struct {
	returns *contracts.ReturnSeries
	err     error
	calls   atomic.Int32
}

func (f *fakeMarket) FetchMarketReturns(ctx context.Context) (*contracts.ReturnSeries, error) {
	f.calls.Add(1)
	return f.returns, f.err
}

func marketFrom(prices *contracts.Series) *fakeMarket {
	return &fakeMarket{returns: contracts.PctChange(prices.Dates(), prices.Column(contracts.ColAdjClose))}
}

type fakeSource struct {
	prices       map[string]*contracts.Series
	fundamentals map[string]*contracts.Series
	errs         map[string]error

	mu         sync.Mutex
	dimensions []contracts.Dimension
}

func (f *fakeSource) FetchDailyPrices(ctx context.Context, ticker string) (*contracts.Series, error) {
	if err := f.errs[ticker]; err != nil {
		return nil, err
	}
	if s, ok := f.prices[ticker]; ok {
		return s, nil
	}
	return nil, contracts.ErrNoData
}

func (f *fakeSource) FetchQuarterlyFundamentals(ctx context.Context, ticker string, dimension contracts.Dimension) (*contracts.Series, error) {
	f.mu.Lock()
	f.dimensions = append(f.dimensions, dimension)
	f.mu.Unlock()

	if s, ok := f.fundamentals[ticker]; ok {
		return s, nil
	}
	return nil, contracts.ErrNoData
}

type recordingSink struct {
	mu     sync.Mutex
	tables map[string]*contracts.FeatureTable
	err    error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Write(ctx context.Context, table *contracts.FeatureTable) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables == nil {
		s.tables = make(map[string]*contracts.FeatureTable)
	}
	s.tables[table.Ticker] = table
	return nil
}

var errConnRefused = errors.New("connection refused")
