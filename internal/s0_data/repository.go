package s0_data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/factorlab/internal/contracts"
)

// Repository holds source-wide queries (ticker universe, coverage)
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Pool returns the underlying database pool
func (r *Repository) Pool() *pgxpool.Pool {
	return r.db
}

// ListTickers returns the distinct tickers that have fundamentals for dimension
func (r *Repository) ListTickers(ctx context.Context, dimension contracts.Dimension) ([]string, error) {
	query := `
		SELECT DISTINCT ticker
		FROM fundamentals
		WHERE dimension = $1
		ORDER BY ticker
	`

	rows, err := r.db.Query(ctx, query, string(dimension))
	if err != nil {
		return nil, contracts.NewFetchError("tickers", "", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, contracts.NewFetchError("tickers", "", fmt.Errorf("scan: %w", err))
		}
		tickers = append(tickers, ticker)
	}
	if err := rows.Err(); err != nil {
		return nil, contracts.NewFetchError("tickers", "", err)
	}

	return tickers, nil
}

// TableCoverage summarizes one source table
type TableCoverage struct {
	Table   string
	Rows    int64
	Tickers int
	MinDate *time.Time
	MaxDate *time.Time
}

// Coverage returns row counts and date ranges of the prices and fundamentals tables
func (r *Repository) Coverage(ctx context.Context) ([]TableCoverage, error) {
	queries := []struct {
		table string
		query string
	}{
		{"prices", `SELECT COUNT(*), COUNT(DISTINCT ticker), MIN(date), MAX(date) FROM prices`},
		{"fundamentals", `SELECT COUNT(*), COUNT(DISTINCT ticker), MIN(datekey::date), MAX(datekey::date) FROM fundamentals`},
	}

	out := make([]TableCoverage, 0, len(queries))
	for _, q := range queries {
		c := TableCoverage{Table: q.table}
		if err := r.db.QueryRow(ctx, q.query).Scan(&c.Rows, &c.Tickers, &c.MinDate, &c.MaxDate); err != nil {
			return nil, contracts.NewFetchError("coverage", q.table, err)
		}
		out = append(out, c)
	}

	return out, nil
}
