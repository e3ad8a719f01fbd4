package s0_data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/factorlab/internal/contracts"
)

// PriceRepository implements contracts.PriceProvider
// ⭐ SSOT: 가격 데이터 조회는 여기서만
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

var _ contracts.PriceProvider = (*PriceRepository)(nil)

// FetchDailyPrices returns a ticker's closeadj / close / volume by trading date.
// Duplicate dates collapse to the first row; NULL becomes missing.
func (r *PriceRepository) FetchDailyPrices(ctx context.Context, ticker string) (*contracts.Series, error) {
	query := `
		SELECT date, closeadj::float8, close::float8, volume::float8
		FROM prices
		WHERE ticker = $1
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, contracts.NewFetchError("daily prices", ticker, err)
	}
	defer rows.Close()

	var records []contracts.Row
	for rows.Next() {
		var date time.Time
		var closeAdj, closePrice, volume *float64
		if err := rows.Scan(&date, &closeAdj, &closePrice, &volume); err != nil {
			return nil, contracts.NewFetchError("daily prices", ticker, fmt.Errorf("scan: %w", err))
		}
		records = append(records, contracts.Row{
			Date: date,
			Values: map[string]float64{
				contracts.ColAdjClose: orMissing(closeAdj),
				contracts.ColClose:    orMissing(closePrice),
				contracts.ColVolume:   orMissing(volume),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, contracts.NewFetchError("daily prices", ticker, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("daily prices [%s]: %w", ticker, contracts.ErrNoData)
	}

	return contracts.NewSeries(contracts.PriceColumns, records), nil
}

// orMissing maps SQL NULL to the canonical missing value
func orMissing(v *float64) float64 {
	if v == nil {
		return contracts.Missing()
	}
	return *v
}
