package contracts

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPctChange(t *testing.T) {
	dates := []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)}
	r := PctChange(dates, []float64{100, 110, 99})

	require.Equal(t, 2, r.Len(), "first undefined return dropped")
	assert.Equal(t, day(2024, 1, 2), r.Dates[0])
	assert.InDelta(t, 0.10, r.Returns[0], 1e-12)
	assert.InDelta(t, -0.10, r.Returns[1], 1e-12)
}

func TestPctChange_PadsMissing(t *testing.T) {
	nan := math.NaN()
	dates := []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3), day(2024, 1, 4), day(2024, 1, 5)}
	r := PctChange(dates, []float64{nan, 100, nan, 120, 90})

	require.Equal(t, 3, r.Len())
	assert.Equal(t, []time.Time{day(2024, 1, 3), day(2024, 1, 4), day(2024, 1, 5)}, r.Dates)
	assert.InDelta(t, 0.0, r.Returns[0], 1e-12, "missing price padded from previous")
	assert.InDelta(t, 0.2, r.Returns[1], 1e-12)
	assert.InDelta(t, -0.25, r.Returns[2], 1e-12)
}

func TestReturnSeries_Get(t *testing.T) {
	r := &ReturnSeries{
		Dates:   []time.Time{day(2024, 1, 2), day(2024, 1, 4)},
		Returns: []float64{0.01, -0.02},
	}

	v, ok := r.Get(day(2024, 1, 4))
	assert.True(t, ok)
	assert.Equal(t, -0.02, v)

	_, ok = r.Get(day(2024, 1, 3))
	assert.False(t, ok)

	var nilSeries *ReturnSeries
	_, ok = nilSeries.Get(day(2024, 1, 2))
	assert.False(t, ok)
}
