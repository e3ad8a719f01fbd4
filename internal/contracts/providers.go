package contracts

import "context"

// ⭐ SSOT: 데이터 제공자 / 출력 인터페이스 정의는 여기서만

// MarketReturnProvider supplies the benchmark daily return series
type MarketReturnProvider interface {
	FetchMarketReturns(ctx context.Context) (*ReturnSeries, error)
}

// PriceProvider supplies a ticker's daily closeadj / close / volume series
type PriceProvider interface {
	FetchDailyPrices(ctx context.Context, ticker string) (*Series, error)
}

// FundamentalsProvider supplies a ticker's irregularly dated fundamentals
type FundamentalsProvider interface {
	FetchQuarterlyFundamentals(ctx context.Context, ticker string, dimension Dimension) (*Series, error)
}

// FeatureSink persists a finished feature table
type FeatureSink interface {
	Name() string
	Write(ctx context.Context, table *FeatureTable) error
}
