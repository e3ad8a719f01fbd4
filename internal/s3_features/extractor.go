package s3_features

import (
	"math"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/internal/s2_window"
	"github.com/wonny/factorlab/pkg/logger"
)

const (
	DefaultMomentumLookback = 42 // -12 to -2 month proxy, in trading days
	DefaultMonthlyLookback  = 21
)

// Extractor reduces a window to one FeatureRow
// ⭐ SSOT: 팩터 피처 계산은 여기서만
type Extractor struct {
	MomentumLookback int
	MonthlyLookback  int

	logger *logger.Logger
}

// NewExtractor creates an extractor with the default lookbacks
func NewExtractor(log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{
		MomentumLookback: DefaultMomentumLookback,
		MonthlyLookback:  DefaultMonthlyLookback,
		logger:           log,
	}
}

// Extract computes the factor features of one window.
// Fields that cannot be computed are NaN; incomplete rows are dropped by the
// table assembler, never here.
func (e *Extractor) Extract(w s2_window.Window, market *contracts.ReturnSeries) contracts.FeatureRow {
	data := w.Data
	row := contracts.FeatureRow{Date: w.Anchor}

	n := data.Len()
	if n == 0 {
		return missingRow(row)
	}
	first, last := 0, n-1
	row.AsOf = data.Date(last)

	at := func(col string, i int) float64 {
		return data.Value(i, col)
	}

	adj := data.Column(contracts.ColAdjClose)
	if adj == nil {
		adj = make([]float64, n)
		for i := range adj {
			adj[i] = math.NaN()
		}
	}

	closeEnd := at(contracts.ColClose, last)
	sharesEnd := at(contracts.ColShares, last)
	marketCap := closeEnd * sharesEnd

	// log of market capitalization
	row.LogSize = math.Log(marketCap)
	row.PB = at(contracts.ColPB, last)
	row.Momentum = trailingReturn(adj, e.MomentumLookback)
	// log growth in outstanding shares
	row.Issuance = logGrowth(at(contracts.ColShares, first), sharesEnd)
	// growth in non-cash working capital
	row.Accruals = workingCapital(data, last)/workingCapital(data, first) - 1
	row.ROA = at(contracts.ColROA, last)
	row.Assets = logGrowth(at(contracts.ColAssets, first), at(contracts.ColAssets, last))
	row.DivYield = at(contracts.ColDivYield, last)

	returns := contracts.PctChange(data.Dates(), adj)
	beta, ok := CalcBeta(returns, market)
	if !ok {
		e.logger.WithField("anchor", w.Anchor.Format("2006-01-02")).
			Debug("Market returns do not exist for some days in stock data, beta skipped")
	}
	row.Beta = beta
	row.StdDev = populationStdDev(returns.Returns)
	row.Turnover = turnover(data)

	row.DebtPrice = at(contracts.ColDebt, last) / marketCap
	row.SalesPrice = at(contracts.ColRevenue, last) / marketCap
	row.MonthlyRet = trailingReturn(adj, e.MonthlyLookback)
	row.ForwardRet = math.NaN()

	return row
}

// workingCapital is current assets - cash - current liabilities at row i
func workingCapital(data *contracts.Series, i int) float64 {
	return data.Value(i, contracts.ColAssetsC) -
		data.Value(i, contracts.ColCash) -
		data.Value(i, contracts.ColLiabilitiesC)
}

// turnover is the mean daily volume / shares over rows where both exist
func turnover(data *contracts.Series) float64 {
	ratios := make([]float64, data.Len())
	for i := range ratios {
		ratios[i] = data.Value(i, contracts.ColVolume) / data.Value(i, contracts.ColShares)
	}
	return nanMean(ratios)
}

func missingRow(row contracts.FeatureRow) contracts.FeatureRow {
	nan := math.NaN()
	row.LogSize, row.PB, row.Momentum, row.Issuance, row.Accruals = nan, nan, nan, nan, nan
	row.ROA, row.Assets, row.DivYield, row.Beta, row.StdDev = nan, nan, nan, nan, nan
	row.Turnover, row.DebtPrice, row.SalesPrice = nan, nan, nan
	row.MonthlyRet, row.ForwardRet = nan, nan
	return row
}
