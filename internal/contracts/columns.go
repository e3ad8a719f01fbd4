package contracts

// Price columns (data.prices)
const (
	ColAdjClose = "closeadj"
	ColClose    = "close"
	ColVolume   = "volume"
)

// Fundamental columns (data.fundamentals), named as the pipeline uses them
const (
	ColShares       = "shares"
	ColPB           = "pb"
	ColAssetsC      = "assetsc"
	ColCash         = "cash"
	ColLiabilitiesC = "liabilitiesc"
	ColDeprec       = "deprec"
	ColROA          = "roa"
	ColAssets       = "assets"
	ColDivYield     = "divyield"
	ColDebt         = "debt"
	ColRevenue      = "revenue"
)

// PriceColumns lists the per-ticker price fields in query order
var PriceColumns = []string{ColAdjClose, ColClose, ColVolume}

// FundamentalColumns lists the per-ticker fundamental fields in query order
var FundamentalColumns = []string{
	ColShares, ColPB, ColAssetsC, ColCash, ColLiabilitiesC, ColDeprec,
	ColROA, ColAssets, ColDivYield, ColDebt, ColRevenue,
}

// Dimension selects the disclosure type of a fundamentals record
type Dimension string

const (
	DimensionARQ Dimension = "ARQ" // as-reported quarterly
	DimensionART Dimension = "ART" // as-reported trailing twelve months
	DimensionMRQ Dimension = "MRQ" // most-recent-reported quarterly (restated)
	DimensionMRT Dimension = "MRT" // most-recent-reported trailing twelve months
)

// Valid reports whether d is a known dimension tag
func (d Dimension) Valid() bool {
	switch d {
	case DimensionARQ, DimensionART, DimensionMRQ, DimensionMRT:
		return true
	}
	return false
}
