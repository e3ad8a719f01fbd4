package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/pkg/clickhouse"
)

// factorRowsDDL keeps the latest insert per (ticker, date) after merges
const factorRowsDDL = `
	CREATE TABLE IF NOT EXISTS factor_rows (
		ticker      String,
		date        Date,
		asof        Date,
		logsize     Float64,
		pb          Float64,
		momentum    Float64,
		issuance    Float64,
		accruals    Float64,
		roa         Float64,
		assets      Float64,
		divyield    Float64,
		beta        Float64,
		stddev      Float64,
		turnover    Float64,
		debt_price  Float64,
		sales_price Float64,
		monthly_ret Float64,
		forward_ret Float64,
		run_id      String,
		inserted_at DateTime64(3)
	) ENGINE = ReplacingMergeTree(inserted_at)
	ORDER BY (ticker, date)`

// ClickHouseSink batch-inserts rows into factor_rows, tagged with the table's run id
type ClickHouseSink struct {
	conn *clickhouse.Conn
}

// NewClickHouseSink creates the table if missing
func NewClickHouseSink(ctx context.Context, conn *clickhouse.Conn) (*ClickHouseSink, error) {
	if err := conn.Exec(ctx, factorRowsDDL); err != nil {
		return nil, fmt.Errorf("create factor_rows: %w", err)
	}
	return &ClickHouseSink{conn: conn}, nil
}

func (s *ClickHouseSink) Name() string { return "clickhouse" }

func (s *ClickHouseSink) Write(ctx context.Context, table *contracts.FeatureTable) error {
	if table.Len() == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO factor_rows (
			ticker, date, asof,
			logsize, pb, momentum, issuance, accruals, roa, assets,
			divyield, beta, stddev, turnover, debt_price, sales_price,
			monthly_ret, forward_ret, run_id, inserted_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	now := time.Now().UTC()
	for i := range table.Rows {
		r := &table.Rows[i]
		err = batch.Append(
			table.Ticker, r.Date, r.AsOf,
			r.LogSize, r.PB, r.Momentum, r.Issuance, r.Accruals, r.ROA, r.Assets,
			r.DivYield, r.Beta, r.StdDev, r.Turnover, r.DebtPrice, r.SalesPrice,
			r.MonthlyRet, r.ForwardRet, table.RunID, now,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}
