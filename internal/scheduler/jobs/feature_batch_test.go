package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/internal/s4_table"
)

type fakeLister struct {
	tickers []string
	err     error
	got     contracts.Dimension
}

func (f *fakeLister) ListTickers(_ context.Context, d contracts.Dimension) ([]string, error) {
	f.got = d
	return f.tickers, f.err
}

type fakeRunner struct {
	got []string
	err error
}

func (f *fakeRunner) Run(_ context.Context, tickers []string) (*s4_table.RunSummary, error) {
	f.got = tickers
	return &s4_table.RunSummary{RunID: "run", Total: len(tickers), Written: len(tickers)}, f.err
}

func TestFeatureBatchJob(t *testing.T) {
	lister := &fakeLister{tickers: []string{"AAPL", "MSFT"}}
	runner := &fakeRunner{}
	job := NewFeatureBatchJob(lister, runner, contracts.DimensionARQ, "", nil)

	assert.Equal(t, "feature_batch", job.Name())
	assert.Equal(t, DefaultFeatureBatchSchedule, job.Schedule())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, contracts.DimensionARQ, lister.got)
	assert.Equal(t, []string{"AAPL", "MSFT"}, runner.got)
}

func TestFeatureBatchJob_Errors(t *testing.T) {
	t.Run("lister fails", func(t *testing.T) {
		job := NewFeatureBatchJob(&fakeLister{err: errors.New("down")}, &fakeRunner{}, contracts.DimensionARQ, "", nil)
		assert.Error(t, job.Run(context.Background()))
	})

	t.Run("no tickers", func(t *testing.T) {
		job := NewFeatureBatchJob(&fakeLister{}, &fakeRunner{}, contracts.DimensionARQ, "", nil)
		assert.ErrorIs(t, job.Run(context.Background()), contracts.ErrNoData)
	})

	t.Run("runner fails", func(t *testing.T) {
		runner := &fakeRunner{err: contracts.ErrNoData}
		job := NewFeatureBatchJob(&fakeLister{tickers: []string{"AAPL"}}, runner, contracts.DimensionARQ, "@monthly", nil)
		assert.Equal(t, "@monthly", job.Schedule())
		assert.ErrorIs(t, job.Run(context.Background()), contracts.ErrNoData)
	})
}
