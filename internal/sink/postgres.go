package sink

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/factorlab/internal/contracts"
)

// PostgresSink upserts rows into features.factor_rows keyed by (ticker, anchor_date).
// Rows are tagged with the table's run id.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink creates a sink over pool
func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

func (s *PostgresSink) Name() string { return "postgres" }

const upsertFactorRow = `
	INSERT INTO features.factor_rows
		(ticker, anchor_date, asof_date,
		 logsize, pb, momentum, issuance, accruals, roa, assets,
		 divyield, beta, stddev, turnover, debt_price, sales_price,
		 monthly_ret, forward_ret, run_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	        $11, $12, $13, $14, $15, $16, $17, $18, $19)
	ON CONFLICT (ticker, anchor_date) DO UPDATE SET
		asof_date = EXCLUDED.asof_date,
		logsize = EXCLUDED.logsize,
		pb = EXCLUDED.pb,
		momentum = EXCLUDED.momentum,
		issuance = EXCLUDED.issuance,
		accruals = EXCLUDED.accruals,
		roa = EXCLUDED.roa,
		assets = EXCLUDED.assets,
		divyield = EXCLUDED.divyield,
		beta = EXCLUDED.beta,
		stddev = EXCLUDED.stddev,
		turnover = EXCLUDED.turnover,
		debt_price = EXCLUDED.debt_price,
		sales_price = EXCLUDED.sales_price,
		monthly_ret = EXCLUDED.monthly_ret,
		forward_ret = EXCLUDED.forward_ret,
		run_id = EXCLUDED.run_id,
		updated_at = NOW()`

func (s *PostgresSink) Write(ctx context.Context, table *contracts.FeatureTable) error {
	if table.Len() == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range table.Rows {
		r := &table.Rows[i]
		batch.Queue(upsertFactorRow,
			table.Ticker, r.Date, r.AsOf,
			r.LogSize, r.PB, r.Momentum, r.Issuance, r.Accruals, r.ROA, r.Assets,
			r.DivYield, r.Beta, r.StdDev, r.Turnover, r.DebtPrice, r.SalesPrice,
			r.MonthlyRet, r.ForwardRet, table.RunID)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range table.Rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert %s row %d: %w", table.Ticker, i, err)
		}
	}

	return br.Close()
}
