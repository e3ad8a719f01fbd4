package contracts

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewSeries_SortsAndCollapsesDuplicates(t *testing.T) {
	rows := []Row{
		{Date: day(2024, 1, 3), Values: map[string]float64{"x": 3}},
		{Date: day(2024, 1, 1), Values: map[string]float64{"x": 1}},
		{Date: day(2024, 1, 2), Values: map[string]float64{"x": 2}},
		{Date: day(2024, 1, 2), Values: map[string]float64{"x": 99}},
	}

	s := NewSeries([]string{"x"}, rows)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)}, s.Dates())
	assert.Equal(t, []float64{1, 2, 3}, s.Column("x"), "first record of a duplicate date is kept")
}

func TestNewSeries_MissingColumnsAreNaN(t *testing.T) {
	s := NewSeries([]string{"x", "y"}, []Row{
		{Date: day(2024, 1, 1), Values: map[string]float64{"x": 0}},
	})

	assert.Equal(t, 0.0, s.Value(0, "x"), "zero is a real value")
	assert.True(t, math.IsNaN(s.Value(0, "y")))
	assert.True(t, math.IsNaN(s.Value(0, "unknown")))
}

func TestNewSeries_TruncatesToDay(t *testing.T) {
	s := NewSeries([]string{"x"}, []Row{
		{Date: time.Date(2024, 1, 1, 16, 30, 0, 0, time.UTC), Values: map[string]float64{"x": 1}},
		{Date: day(2024, 1, 1), Values: map[string]float64{"x": 2}},
	})

	require.Equal(t, 1, s.Len())
	assert.Equal(t, day(2024, 1, 1), s.Date(0))
}

func TestSeries_SliceInclusive(t *testing.T) {
	var rows []Row
	for d := 1; d <= 10; d++ {
		rows = append(rows, Row{Date: day(2024, 3, d), Values: map[string]float64{"x": float64(d)}})
	}
	s := NewSeries([]string{"x"}, rows)

	w := s.Slice(day(2024, 3, 3), day(2024, 3, 6))
	assert.Equal(t, 4, w.Len())
	assert.Equal(t, []float64{3, 4, 5, 6}, w.Column("x"))

	assert.Equal(t, 0, s.Slice(day(2024, 4, 1), day(2024, 4, 30)).Len())
	assert.Equal(t, 0, s.Slice(day(2024, 3, 6), day(2024, 3, 3)).Len())
	assert.Equal(t, 10, s.Slice(day(2024, 1, 1), day(2024, 12, 31)).Len())
}

func TestSeries_Index(t *testing.T) {
	s := NewSeries([]string{"x"}, []Row{
		{Date: day(2024, 1, 10)},
		{Date: day(2024, 1, 20)},
	})

	assert.Equal(t, -1, s.Index(day(2024, 1, 9)))
	assert.Equal(t, 0, s.Index(day(2024, 1, 10)))
	assert.Equal(t, 0, s.Index(day(2024, 1, 19)))
	assert.Equal(t, 1, s.Index(day(2025, 1, 1)))
}

func TestSeries_Join(t *testing.T) {
	left := NewSeries([]string{"a"}, []Row{
		{Date: day(2024, 1, 1), Values: map[string]float64{"a": 1}},
		{Date: day(2024, 1, 2), Values: map[string]float64{"a": 2}},
	})
	right := NewSeries([]string{"a", "b"}, []Row{
		{Date: day(2024, 1, 2), Values: map[string]float64{"a": 100, "b": 20}},
		{Date: day(2024, 1, 5), Values: map[string]float64{"a": 100, "b": 50}},
	})

	joined := left.Join(right)

	assert.Equal(t, []string{"a", "b"}, joined.Columns())
	assert.Equal(t, []float64{1, 2}, joined.Column("a"), "existing columns are not overwritten")
	assert.True(t, math.IsNaN(joined.Value(0, "b")))
	assert.Equal(t, 20.0, joined.Value(1, "b"))
}

func TestSeries_EmptyAndNil(t *testing.T) {
	var nilSeries *Series
	assert.Equal(t, 0, nilSeries.Len())

	empty := NewSeries([]string{"x"}, nil)
	assert.Equal(t, 0, empty.Len())
	assert.True(t, empty.First().IsZero())
	assert.True(t, empty.Last().IsZero())
}
