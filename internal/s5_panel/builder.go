package s5_panel

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/internal/s1_align"
	"github.com/wonny/factorlab/pkg/logger"
)

// Source reads the all-ticker inputs of the panel
type Source interface {
	FetchQuarterEndPrices(ctx context.Context) ([]s1_align.KeyedRow, []time.Time, error)
	FetchAllFundamentals(ctx context.Context, dimension contracts.Dimension, columns []string) ([]s1_align.KeyedRow, error)
}

// Panel is quarter-end fundamentals joined with prices, one row per (date, ticker)
type Panel struct {
	Columns []string // fundamentals columns, then price columns
	Rows    []s1_align.KeyedRow
}

// Len returns the number of rows
func (p *Panel) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Rows)
}

// Builder assembles the quarterly cross-section of every ticker
// ⭐ SSOT: 전 종목 분기 패널 조립은 여기서만
type Builder struct {
	source    Source
	dimension contracts.Dimension
	maxGap    int
	logger    *logger.Logger
}

// NewBuilder creates a builder over ARQ fundamentals with PeriodicMaxGap
func NewBuilder(source Source, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		source:    source,
		dimension: contracts.DimensionARQ,
		maxGap:    s1_align.PeriodicMaxGap,
		logger:    log,
	}
}

// WithMaxGap overrides the staleness bound, counted in quarter-end periods
func (b *Builder) WithMaxGap(n int) *Builder {
	b.maxGap = n
	return b
}

// Build aligns every ticker's filings onto the quarter-end calendar and
// left-joins the quarter-end prices. Rows without a usable filing are absent.
func (b *Builder) Build(ctx context.Context, columns []string) (*Panel, error) {
	prices, calendar, err := b.source.FetchQuarterEndPrices(ctx)
	if err != nil {
		return nil, err
	}
	if len(calendar) == 0 {
		return nil, fmt.Errorf("quarter-end prices: %w", contracts.ErrNoData)
	}

	filings, err := b.source.FetchAllFundamentals(ctx, b.dimension, columns)
	if err != nil {
		return nil, err
	}

	aligned := s1_align.AlignByKey(columns, filings, calendar, b.maxGap)

	type key struct {
		date   time.Time
		ticker string
	}
	byKey := make(map[key]map[string]float64, len(prices))
	for _, p := range prices {
		k := key{p.Date, p.Key}
		if _, dup := byKey[k]; !dup {
			byKey[k] = p.Values
		}
	}

	for i := range aligned {
		values := aligned[i].Values
		quote := byKey[key{aligned[i].Date, aligned[i].Key}]
		for _, col := range contracts.PriceColumns {
			if v, ok := quote[col]; ok {
				values[col] = v
			} else {
				values[col] = contracts.Missing()
			}
		}
	}

	b.logger.WithFields(map[string]interface{}{
		"quarters": len(calendar),
		"filings":  len(filings),
		"rows":     len(aligned),
	}).Info("panel built")

	cols := append(append([]string{}, columns...), contracts.PriceColumns...)
	return &Panel{Columns: cols, Rows: aligned}, nil
}
