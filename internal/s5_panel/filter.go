package s5_panel

import (
	"fmt"
	"slices"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/internal/s1_align"
)

// Columns the filter reads besides close
const (
	ColShareFactor = "sharefactor"
	ColSharesBas   = "sharesbas"
	ColMarketCap   = "market_cap"
)

// Thresholds bound the sensible part of the cross-section
type Thresholds struct {
	MinClose     float64
	MaxClose     float64
	MinMarketCap float64 // exclusive
}

// DefaultThresholds: 5 <= close <= 250, market cap above 10M
func DefaultThresholds() Thresholds {
	return Thresholds{MinClose: 5, MaxClose: 250, MinMarketCap: 10_000_000}
}

// Filter keeps rows with sharefactor == 1, close within bounds, market cap
// (sharesbas × close) above the minimum and no missing value. The result
// gains a market_cap column.
func Filter(p *Panel, th Thresholds) (*Panel, error) {
	for _, col := range []string{ColShareFactor, ColSharesBas} {
		if !slices.Contains(p.Columns, col) {
			return nil, fmt.Errorf("panel filter requires column %q", col)
		}
	}

	cols := p.Columns
	if !slices.Contains(cols, ColMarketCap) {
		cols = append(append([]string{}, cols...), ColMarketCap)
	}

	out := &Panel{Columns: cols}
	for _, r := range p.Rows {
		v := r.Values
		closePrice := v[contracts.ColClose]
		marketCap := v[ColSharesBas] * closePrice

		if v[ColShareFactor] != 1 {
			continue
		}
		if !(closePrice >= th.MinClose && closePrice <= th.MaxClose) {
			continue
		}
		if !(marketCap > th.MinMarketCap) {
			continue
		}

		values := make(map[string]float64, len(cols))
		complete := true
		for _, col := range cols {
			x, ok := v[col]
			if col == ColMarketCap {
				x, ok = marketCap, true
			}
			if !ok || contracts.IsMissing(x) {
				complete = false
				break
			}
			values[col] = x
		}
		if !complete {
			continue
		}

		out.Rows = append(out.Rows, s1_align.KeyedRow{Key: r.Key, Row: contracts.Row{Date: r.Date, Values: values}})
	}

	return out, nil
}
