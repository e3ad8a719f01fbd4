package s0_data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/internal/s1_align"
)

// panelColumns maps the fundamentals columns the panel may request to their
// SQL expression. Identifiers never come from callers directly.
var panelColumns = map[string]string{
	"sharesbas":    "sharesbas::float8",
	"sharefactor":  "sharefactor::float8",
	"pb":           "pb::float8",
	"pe":           "pe::float8",
	"ps":           "ps::float8",
	"assetsc":      "assetsc::float8",
	"cashneq":      "cashneq::float8",
	"liabilitiesc": "liabilitiesc::float8",
	"depamor":      "depamor::float8",
	"roa":          "roa::float8",
	"roe":          "roe::float8",
	"assets":       "assets::float8",
	"equity":       "equity::float8",
	"divyield":     "divyield::float8",
	"debt":         "debt::float8",
	"revenue":      "revenue::float8",
	"netinc":       "netinc::float8",
	"ebitda":       "ebitda::float8",
	"marketcap":    "marketcap::float8",
}

// PanelColumnAllowed reports whether col may be requested from the panel
func PanelColumnAllowed(col string) bool {
	_, ok := panelColumns[col]
	return ok
}

// PanelRepository reads prices and fundamentals for all tickers at once
// ⭐ SSOT: 전 종목 분기 패널 조회는 여기서만
type PanelRepository struct {
	pool *pgxpool.Pool
}

// NewPanelRepository creates a new panel repository
func NewPanelRepository(pool *pgxpool.Pool) *PanelRepository {
	return &PanelRepository{pool: pool}
}

// FetchQuarterEndPrices returns every ticker's closeadj / close / volume on
// the last trading date of each calendar quarter, plus that date calendar.
// Duplicate (date, ticker) rows collapse to the first.
func (r *PanelRepository) FetchQuarterEndPrices(ctx context.Context) ([]s1_align.KeyedRow, []time.Time, error) {
	query := `
		SELECT date, ticker, closeadj::float8, close::float8, volume::float8
		FROM prices
		WHERE date IN (
			SELECT MAX(date)
			FROM prices
			WHERE frequency = 'DAILY'
			GROUP BY EXTRACT(QUARTER FROM date), EXTRACT(YEAR FROM date)
		)
		ORDER BY date ASC, ticker ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, nil, contracts.NewFetchError("quarter-end prices", "", err)
	}
	defer rows.Close()

	type key struct {
		date   time.Time
		ticker string
	}
	seen := make(map[key]struct{})

	var out []s1_align.KeyedRow
	var calendar []time.Time
	for rows.Next() {
		var date time.Time
		var ticker string
		var closeAdj, closePrice, volume *float64
		if err := rows.Scan(&date, &ticker, &closeAdj, &closePrice, &volume); err != nil {
			return nil, nil, contracts.NewFetchError("quarter-end prices", "", fmt.Errorf("scan: %w", err))
		}

		date = contracts.Day(date)
		k := key{date, ticker}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		if n := len(calendar); n == 0 || !calendar[n-1].Equal(date) {
			calendar = append(calendar, date)
		}

		out = append(out, s1_align.KeyedRow{
			Key: ticker,
			Row: contracts.Row{
				Date: date,
				Values: map[string]float64{
					contracts.ColAdjClose: orMissing(closeAdj),
					contracts.ColClose:    orMissing(closePrice),
					contracts.ColVolume:   orMissing(volume),
				},
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, contracts.NewFetchError("quarter-end prices", "", err)
	}

	return out, calendar, nil
}

// FetchAllFundamentals returns the requested columns for every ticker and
// one dimension, ordered by datekey. Unknown columns are rejected.
func (r *PanelRepository) FetchAllFundamentals(ctx context.Context, dimension contracts.Dimension, columns []string) ([]s1_align.KeyedRow, error) {
	if !dimension.Valid() {
		return nil, fmt.Errorf("unknown dimension %q", dimension)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no fundamentals columns requested")
	}

	exprs := make([]string, len(columns))
	for i, col := range columns {
		expr, ok := panelColumns[col]
		if !ok {
			return nil, fmt.Errorf("fundamentals column %q is not allowed", col)
		}
		exprs[i] = expr
	}

	query := fmt.Sprintf(`
		SELECT datekey::date, ticker, %s
		FROM fundamentals
		WHERE dimension = $1
		ORDER BY datekey ASC
	`, strings.Join(exprs, ", "))

	rows, err := r.pool.Query(ctx, query, string(dimension))
	if err != nil {
		return nil, contracts.NewFetchError("fundamentals panel", "", err)
	}
	defer rows.Close()

	var out []s1_align.KeyedRow
	for rows.Next() {
		var date time.Time
		var ticker string
		fields := make([]*float64, len(columns))
		dest := make([]any, 0, len(columns)+2)
		dest = append(dest, &date, &ticker)
		for i := range fields {
			dest = append(dest, &fields[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, contracts.NewFetchError("fundamentals panel", "", fmt.Errorf("scan: %w", err))
		}

		values := make(map[string]float64, len(columns))
		for i, col := range columns {
			values[col] = orMissing(fields[i])
		}
		out = append(out, s1_align.KeyedRow{Key: ticker, Row: contracts.Row{Date: date, Values: values}})
	}
	if err := rows.Err(); err != nil {
		return nil, contracts.NewFetchError("fundamentals panel", "", err)
	}

	return out, nil
}
