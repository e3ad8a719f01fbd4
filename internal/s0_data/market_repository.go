package s0_data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/pkg/logger"
	"github.com/wonny/factorlab/pkg/redis"
)

// MarketRepository implements contracts.MarketReturnProvider for one benchmark ticker
// ⭐ SSOT: 벤치마크 수익률은 여기서만
type MarketRepository struct {
	pool      *pgxpool.Pool
	benchmark string
	cache     *redis.Cache
	ttl       time.Duration
	logger    *logger.Logger
}

// NewMarketRepository creates a benchmark return provider.
// cache may be nil (no caching).
func NewMarketRepository(pool *pgxpool.Pool, benchmark string, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *MarketRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &MarketRepository{
		pool:      pool,
		benchmark: benchmark,
		cache:     cache,
		ttl:       ttl,
		logger:    log,
	}
}

var _ contracts.MarketReturnProvider = (*MarketRepository)(nil)

// Benchmark returns the benchmark ticker
func (r *MarketRepository) Benchmark() string {
	return r.benchmark
}

// FetchMarketReturns returns the benchmark's daily percentage changes in
// ascending date order, first (undefined) change dropped.
func (r *MarketRepository) FetchMarketReturns(ctx context.Context) (*contracts.ReturnSeries, error) {
	key := redis.MarketReturnsKey(r.benchmark)

	if r.cache != nil {
		var cached contracts.ReturnSeries
		found, err := r.cache.Get(ctx, key, &cached)
		if err != nil {
			r.logger.WithError(err).Warn("Market return cache read failed")
		}
		if found && cached.Len() > 0 {
			r.logger.WithField("benchmark", r.benchmark).Debug("Market returns served from cache")
			return &cached, nil
		}
	}

	prices, err := r.fetchBenchmarkPrices(ctx)
	if err != nil {
		return nil, err
	}

	returns := contracts.PctChange(prices.Dates(), prices.Column(contracts.ColAdjClose))

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, returns, r.ttl); err != nil {
			r.logger.WithError(err).Warn("Market return cache write failed")
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"benchmark": r.benchmark,
		"returns":   returns.Len(),
	}).Info("Market returns loaded")

	return returns, nil
}

func (r *MarketRepository) fetchBenchmarkPrices(ctx context.Context) (*contracts.Series, error) {
	query := `
		SELECT date, closeadj::float8
		FROM prices
		WHERE ticker = $1
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, r.benchmark)
	if err != nil {
		return nil, contracts.NewFetchError("benchmark prices", r.benchmark, err)
	}
	defer rows.Close()

	var records []contracts.Row
	for rows.Next() {
		var date time.Time
		var closeAdj *float64
		if err := rows.Scan(&date, &closeAdj); err != nil {
			return nil, contracts.NewFetchError("benchmark prices", r.benchmark, fmt.Errorf("scan: %w", err))
		}
		records = append(records, contracts.Row{
			Date:   date,
			Values: map[string]float64{contracts.ColAdjClose: orMissing(closeAdj)},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, contracts.NewFetchError("benchmark prices", r.benchmark, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("benchmark prices [%s]: %w", r.benchmark, contracts.ErrNoData)
	}

	return contracts.NewSeries([]string{contracts.ColAdjClose}, records), nil
}
