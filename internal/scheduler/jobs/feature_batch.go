package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/internal/s4_table"
	"github.com/wonny/factorlab/pkg/logger"
)

// DefaultFeatureBatchSchedule runs after the month-end close, 06:00 on the 1st
const DefaultFeatureBatchSchedule = "0 0 6 1 * *"

// TickerLister returns the universe of a batch
type TickerLister interface {
	ListTickers(ctx context.Context, dimension contracts.Dimension) ([]string, error)
}

// BatchRunner runs the per-ticker pipeline over a ticker list
type BatchRunner interface {
	Run(ctx context.Context, tickers []string) (*s4_table.RunSummary, error)
}

// FeatureBatchJob rebuilds every ticker's feature table
// ⭐ SSOT: 피처 배치 스케줄은 이 Job에서만
type FeatureBatchJob struct {
	lister    TickerLister
	runner    BatchRunner
	dimension contracts.Dimension
	schedule  string
	logger    *logger.Logger
}

// NewFeatureBatchJob creates a new feature batch job; an empty schedule uses the default
func NewFeatureBatchJob(lister TickerLister, runner BatchRunner, dimension contracts.Dimension, schedule string, log *logger.Logger) *FeatureBatchJob {
	if schedule == "" {
		schedule = DefaultFeatureBatchSchedule
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FeatureBatchJob{
		lister:    lister,
		runner:    runner,
		dimension: dimension,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *FeatureBatchJob) Name() string {
	return "feature_batch"
}

// Schedule returns the cron schedule (with seconds)
func (j *FeatureBatchJob) Schedule() string {
	return j.schedule
}

// Run lists the tickers and runs the batch over all of them.
// Per-ticker failures are counted in the summary, not returned.
func (j *FeatureBatchJob) Run(ctx context.Context) error {
	tickers, err := j.lister.ListTickers(ctx, j.dimension)
	if err != nil {
		return fmt.Errorf("list tickers: %w", err)
	}
	if len(tickers) == 0 {
		return fmt.Errorf("list tickers: %w", contracts.ErrNoData)
	}

	j.logger.WithField("tickers", len(tickers)).Info("Starting scheduled feature batch")

	summary, err := j.runner.Run(ctx, tickers)
	if err != nil {
		return fmt.Errorf("feature batch: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":  summary.RunID,
		"written": summary.Written,
		"skipped": summary.Skipped,
		"failed":  summary.Failed,
	}).Info("Scheduled feature batch finished")

	return nil
}
