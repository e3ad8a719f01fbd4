package s4_table

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/pkg/logger"
)

// RunConfig holds run-level settings of a batch
type RunConfig struct {
	RunID         string  // fixed id for every run, empty = new id per run
	Workers       int     // concurrent ticker passes, 1 = sequential
	QueriesPerSec float64 // ticker passes started per second, 0 = unlimited
}

// RunSummary reports the outcome of a batch
type RunSummary struct {
	RunID    string
	Total    int
	Written  int
	Skipped  int
	Failed   int
	Duration time.Duration
}

// Runner drives the assembler over many tickers and hands tables to the sinks
// ⭐ SSOT: 배치 실행 (종목 루프) 은 여기서만
type Runner struct {
	assembler *Assembler
	sink      contracts.FeatureSink
	config    RunConfig
	logger    *logger.Logger
}

// NewRunner creates a runner. sink may be nil for a dry run.
func NewRunner(assembler *Assembler, sink contracts.FeatureSink, config RunConfig, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Runner{
		assembler: assembler,
		sink:      sink,
		config:    config,
		logger:    log,
	}
}

// Run processes tickers in order. A failing ticker is logged and counted,
// never aborting the others. Only a missing benchmark or a cancelled
// context ends the run early.
func (r *Runner) Run(ctx context.Context, tickers []string) (*RunSummary, error) {
	start := time.Now()
	runID := r.config.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	summary := &RunSummary{RunID: runID, Total: len(tickers)}
	log := r.logger.WithRun(summary.RunID)

	// every run sees the benchmark as of its own start
	if _, err := r.assembler.RefreshMarketReturns(ctx); err != nil {
		return summary, fmt.Errorf("benchmark: %w", err)
	}

	var limiter *rate.Limiter
	if r.config.QueriesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.config.QueriesPerSec), 1)
	}

	var written, skipped, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)

	for _, ticker := range tickers {
		if limiter != nil {
			if err := limiter.Wait(gctx); err != nil {
				break
			}
		}
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			tlog := log.WithTicker(ticker)

			switch err := r.runOne(gctx, runID, ticker); {
			case err == nil:
				written.Add(1)
				tlog.Info(ticker + " done")
			case IsSkip(err):
				skipped.Add(1)
				tlog.WithError(err).Debug("skipped")
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				failed.Add(1)
				tlog.WithError(err).Error("ticker failed")
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	summary.Written = int(written.Load())
	summary.Skipped = int(skipped.Load())
	summary.Failed = int(failed.Load())
	summary.Duration = time.Since(start)

	log.WithFields(map[string]interface{}{
		"total":    summary.Total,
		"written":  summary.Written,
		"skipped":  summary.Skipped,
		"failed":   summary.Failed,
		"duration": summary.Duration.String(),
	}).Info("feature batch finished")

	return summary, err
}

func (r *Runner) runOne(ctx context.Context, runID, ticker string) error {
	table, err := r.assembler.Build(ctx, ticker)
	if err != nil {
		return err
	}
	table.RunID = runID
	if r.sink == nil {
		return nil
	}
	if err := r.sink.Write(ctx, table); err != nil {
		return fmt.Errorf("write %s to %s: %w", ticker, r.sink.Name(), err)
	}
	return nil
}
