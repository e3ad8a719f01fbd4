package s3_features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopulationStdDev(t *testing.T) {
	assert.InDelta(t, math.Sqrt(1.25), populationStdDev([]float64{1, 2, 3, 4}), 1e-12)
	assert.Equal(t, 0.0, populationStdDev([]float64{5, 5, 5}))
	assert.True(t, math.IsNaN(populationStdDev(nil)))
}

func TestNanMean(t *testing.T) {
	nan := math.NaN()

	assert.Equal(t, 2.0, nanMean([]float64{1, nan, 3}))
	assert.True(t, math.IsNaN(nanMean([]float64{nan, nan})))
	assert.True(t, math.IsInf(nanMean([]float64{1, math.Inf(1)}), 1))
}

func TestTrailingReturn(t *testing.T) {
	values := []float64{100, 105, 110, 120}

	assert.InDelta(t, 0.2, trailingReturn(values, 3), 1e-12)
	assert.InDelta(t, 120.0/110-1, trailingReturn(values, 1), 1e-12)
	assert.True(t, math.IsNaN(trailingReturn(values, 4)), "needs lookback+1 observations")
	assert.True(t, math.IsNaN(trailingReturn(nil, 1)))
}
