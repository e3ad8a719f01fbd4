package s4_table

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/internal/s1_align"
	"github.com/wonny/factorlab/internal/s2_window"
	"github.com/wonny/factorlab/internal/s3_features"
	"github.com/wonny/factorlab/pkg/logger"
)

// Assembler turns one ticker's raw series into a labeled feature table
// ⭐ SSOT: 종목별 피처 테이블 조립은 여기서만
type Assembler struct {
	market       contracts.MarketReturnProvider
	prices       contracts.PriceProvider
	fundamentals contracts.FundamentalsProvider

	selector  s2_window.Selector
	extractor *s3_features.Extractor

	dimension contracts.Dimension
	maxGap    int

	// benchmark returns, shared read-only until the next refresh
	marketMu      sync.Mutex
	marketReturns *contracts.ReturnSeries

	logger *logger.Logger
}

// Option customizes an Assembler
type Option func(*Assembler)

// WithSelector overrides the window selector
func WithSelector(s s2_window.Selector) Option {
	return func(a *Assembler) { a.selector = s }
}

// WithExtractor overrides the feature extractor
func WithExtractor(e *s3_features.Extractor) Option {
	return func(a *Assembler) { a.extractor = e }
}

// WithDimension selects the fundamentals dimension (default ART)
func WithDimension(d contracts.Dimension) Option {
	return func(a *Assembler) { a.dimension = d }
}

// WithMaxGap overrides the staleness bound of the daily alignment
func WithMaxGap(n int) Option {
	return func(a *Assembler) { a.maxGap = n }
}

// NewAssembler creates an assembler over the three providers
func NewAssembler(
	market contracts.MarketReturnProvider,
	prices contracts.PriceProvider,
	fundamentals contracts.FundamentalsProvider,
	log *logger.Logger,
	opts ...Option,
) *Assembler {
	if log == nil {
		log = logger.Nop()
	}
	a := &Assembler{
		market:       market,
		prices:       prices,
		fundamentals: fundamentals,
		selector:     s2_window.NewSelector(),
		dimension:    contracts.DimensionART,
		maxGap:       s1_align.DailyMaxGap,
		logger:       log,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.extractor == nil {
		a.extractor = s3_features.NewExtractor(log)
	}
	return a
}

// MarketReturns returns the benchmark series, fetching it on first use.
// A failed fetch is not cached.
func (a *Assembler) MarketReturns(ctx context.Context) (*contracts.ReturnSeries, error) {
	a.marketMu.Lock()
	defer a.marketMu.Unlock()

	if a.marketReturns != nil {
		return a.marketReturns, nil
	}

	returns, err := a.market.FetchMarketReturns(ctx)
	if err != nil {
		return nil, fmt.Errorf("market returns: %w", err)
	}
	a.marketReturns = returns
	return returns, nil
}

// RefreshMarketReturns fetches the benchmark series again and replaces the
// cached one. Called at the start of every batch run.
func (a *Assembler) RefreshMarketReturns(ctx context.Context) (*contracts.ReturnSeries, error) {
	a.marketMu.Lock()
	defer a.marketMu.Unlock()

	returns, err := a.market.FetchMarketReturns(ctx)
	if err != nil {
		return nil, fmt.Errorf("market returns: %w", err)
	}
	a.marketReturns = returns
	return returns, nil
}

// Build runs the full per-ticker pass.
// Returns contracts.ErrNoData when the ticker has no source data or fewer
// than two complete rows survive labelling.
func (a *Assembler) Build(ctx context.Context, ticker string) (*contracts.FeatureTable, error) {
	market, err := a.MarketReturns(ctx)
	if err != nil {
		return nil, err
	}

	dataset, err := a.Dataset(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var rows []contracts.FeatureRow
	for w := range a.selector.Select(dataset) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows = append(rows, a.extractor.Extract(w, market))
	}

	rows = DropIncomplete(Label(rows))
	if len(rows) <= 1 {
		a.logger.WithTicker(ticker).Debugf("%d usable rows", len(rows))
		return nil, fmt.Errorf("%s: %w", ticker, contracts.ErrNoData)
	}

	for i := range rows {
		rows[i].Ticker = ticker
	}
	return &contracts.FeatureTable{Ticker: ticker, Rows: rows}, nil
}

// Dataset fetches prices and fundamentals and aligns them on the price calendar
func (a *Assembler) Dataset(ctx context.Context, ticker string) (*contracts.Series, error) {
	prices, err := a.prices.FetchDailyPrices(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if prices.Len() == 0 {
		return nil, fmt.Errorf("daily prices [%s]: %w", ticker, contracts.ErrNoData)
	}

	fundamentals, err := a.fundamentals.FetchQuarterlyFundamentals(ctx, ticker, a.dimension)
	if err != nil {
		return nil, err
	}
	if fundamentals.Len() == 0 {
		return nil, fmt.Errorf("fundamentals [%s]: %w", ticker, contracts.ErrNoData)
	}

	aligned := s1_align.Align(fundamentals, prices.Dates(), a.maxGap)
	return prices.Join(aligned), nil
}

// Label sets forward_ret[i] = monthly_ret[i+1] and drops the last row,
// which has no following month. The input is not modified.
func Label(rows []contracts.FeatureRow) []contracts.FeatureRow {
	if len(rows) < 2 {
		return nil
	}
	out := make([]contracts.FeatureRow, len(rows)-1)
	copy(out, rows[:len(rows)-1])
	for i := range out {
		out[i].ForwardRet = rows[i+1].MonthlyRet
	}
	return out
}

// DropIncomplete keeps the rows whose numeric fields are all finite
func DropIncomplete(rows []contracts.FeatureRow) []contracts.FeatureRow {
	out := make([]contracts.FeatureRow, 0, len(rows))
	for _, r := range rows {
		if r.Complete() {
			out = append(out, r)
		}
	}
	return out
}

// IsSkip reports whether err means "nothing to persist" rather than a failure
func IsSkip(err error) bool {
	return errors.Is(err, contracts.ErrNoData)
}
