package contracts

import (
	"math"
	"time"
)

// FeatureColumns is the persisted column layout of a feature table (no index column)
var FeatureColumns = []string{
	"date", "asof",
	"logsize", "pb", "momentum", "issuance", "accruals", "roa", "assets",
	"divyield", "beta", "stddev", "turnover", "debt_price", "sales_price",
	"monthly_ret", "forward_ret", "ticker",
}

// FeatureRow is the reduction of one trailing window
// ⭐ SSOT: 윈도우 1개 → 피처 1행
type FeatureRow struct {
	Date   time.Time // anchor (month-end business day)
	AsOf   time.Time // last observation inside the window
	Ticker string

	LogSize    float64
	PB         float64
	Momentum   float64
	Issuance   float64
	Accruals   float64
	ROA        float64
	Assets     float64
	DivYield   float64
	Beta       float64
	StdDev     float64
	Turnover   float64
	DebtPrice  float64
	SalesPrice float64

	MonthlyRet float64
	ForwardRet float64
}

// Numbers returns the numeric fields in FeatureColumns order
func (r *FeatureRow) Numbers() []float64 {
	return []float64{
		r.LogSize, r.PB, r.Momentum, r.Issuance, r.Accruals, r.ROA, r.Assets,
		r.DivYield, r.Beta, r.StdDev, r.Turnover, r.DebtPrice, r.SalesPrice,
		r.MonthlyRet, r.ForwardRet,
	}
}

// Complete reports whether every numeric field is finite
func (r *FeatureRow) Complete() bool {
	for _, v := range r.Numbers() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FeatureTable is the labeled, complete feature rows of one ticker ordered by anchor date
type FeatureTable struct {
	Ticker string
	RunID  string // batch run that produced the table, empty outside a run
	Rows   []FeatureRow
}

// Len returns the number of rows
func (t *FeatureTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
