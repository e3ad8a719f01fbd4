package s3_features

import (
	"math"

	"github.com/wonny/factorlab/internal/contracts"
)

// CalcBeta regresses stock returns on market returns over the stock's dates.
// ⭐ SSOT: 베타 계산은 여기서만
//
// Market returns are restricted to exactly the stock return dates. If any
// date has no market return the result is (NaN, false); a trading calendar
// mismatch is common and must not abort the row.
func CalcBeta(stock, market *contracts.ReturnSeries) (float64, bool) {
	if stock.Len() == 0 {
		return math.NaN(), false
	}

	aligned := make([]float64, stock.Len())
	for i, d := range stock.Dates {
		r, ok := market.Get(d)
		if !ok {
			return math.NaN(), false
		}
		aligned[i] = r
	}

	ms := mean(stock.Returns)
	mm := mean(aligned)

	var cov, variance float64
	for i, rs := range stock.Returns {
		dm := aligned[i] - mm
		cov += (rs - ms) * dm
		variance += dm * dm
	}

	return cov / variance, true
}
