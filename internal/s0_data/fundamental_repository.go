package s0_data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/factorlab/internal/contracts"
)

// FundamentalRepository implements contracts.FundamentalsProvider
// ⭐ SSOT: 재무 데이터 조회는 여기서만
type FundamentalRepository struct {
	pool *pgxpool.Pool
}

// NewFundamentalRepository creates a new fundamentals repository
func NewFundamentalRepository(pool *pgxpool.Pool) *FundamentalRepository {
	return &FundamentalRepository{pool: pool}
}

var _ contracts.FundamentalsProvider = (*FundamentalRepository)(nil)

// FetchQuarterlyFundamentals returns a ticker's disclosures for one dimension,
// keyed by datekey. Duplicate datekeys collapse to the first row.
func (r *FundamentalRepository) FetchQuarterlyFundamentals(ctx context.Context, ticker string, dimension contracts.Dimension) (*contracts.Series, error) {
	if !dimension.Valid() {
		return nil, fmt.Errorf("unknown dimension %q", dimension)
	}

	query := `
		SELECT datekey::date,
		       sharesbas::float8, pb::float8, assetsc::float8, cashneq::float8,
		       liabilitiesc::float8, depamor::float8, roa::float8, assets::float8,
		       divyield::float8, debt::float8, revenue::float8
		FROM fundamentals
		WHERE ticker = $1 AND dimension = $2
		ORDER BY datekey ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, string(dimension))
	if err != nil {
		return nil, contracts.NewFetchError("fundamentals", ticker, err)
	}
	defer rows.Close()

	var records []contracts.Row
	for rows.Next() {
		var date time.Time
		fields := make([]*float64, len(contracts.FundamentalColumns))
		dest := make([]any, 0, len(fields)+1)
		dest = append(dest, &date)
		for i := range fields {
			dest = append(dest, &fields[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, contracts.NewFetchError("fundamentals", ticker, fmt.Errorf("scan: %w", err))
		}

		values := make(map[string]float64, len(fields))
		for i, col := range contracts.FundamentalColumns {
			values[col] = orMissing(fields[i])
		}
		records = append(records, contracts.Row{Date: date, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, contracts.NewFetchError("fundamentals", ticker, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("fundamentals [%s/%s]: %w", ticker, dimension, contracts.ErrNoData)
	}

	return contracts.NewSeries(contracts.FundamentalColumns, records), nil
}
