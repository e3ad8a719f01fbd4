package s1_align

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/factorlab/internal/contracts"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// weekdays returns n consecutive weekdays starting at start
func weekdays(start time.Time, n int) []time.Time {
	var out []time.Time
	for d := start; len(out) < n; d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			out = append(out, d)
		}
	}
	return out
}

func fundamentals(rows ...contracts.Row) *contracts.Series {
	return contracts.NewSeries([]string{"shares", "pb"}, rows)
}

func TestAlign_ForwardFill(t *testing.T) {
	cal := weekdays(day(2024, 1, 1), 10) // Jan 1..Jan 12
	fund := fundamentals(
		contracts.Row{Date: day(2024, 1, 3), Values: map[string]float64{"shares": 100, "pb": 1.5}},
		contracts.Row{Date: day(2024, 1, 9), Values: map[string]float64{"shares": 110, "pb": 1.7}},
	)

	aligned := Align(fund, cal, DailyMaxGap)

	require.Equal(t, len(cal), aligned.Len())
	assert.True(t, math.IsNaN(aligned.Value(0, "shares")), "no observation yet")
	assert.True(t, math.IsNaN(aligned.Value(1, "shares")))
	assert.Equal(t, 100.0, aligned.Value(2, "shares"), "exact match")
	assert.Equal(t, 100.0, aligned.Value(5, "shares"), "carried across the weekend")
	assert.Equal(t, 110.0, aligned.Value(6, "shares"))
	assert.Equal(t, 1.7, aligned.Value(9, "pb"))
}

func TestAlign_StalenessBound(t *testing.T) {
	cal := weekdays(day(2024, 1, 1), 10)
	fund := fundamentals(
		contracts.Row{Date: day(2024, 1, 1), Values: map[string]float64{"shares": 100, "pb": 1}},
	)

	aligned := Align(fund, cal, 3)

	for j := 0; j <= 3; j++ {
		assert.Equal(t, 100.0, aligned.Value(j, "shares"), "gap %d within bound", j)
	}
	for j := 4; j < len(cal); j++ {
		assert.True(t, math.IsNaN(aligned.Value(j, "shares")), "gap %d exceeds bound", j)
	}
}

func TestAlign_NeverCarriesPastMaxGap(t *testing.T) {
	cal := weekdays(day(2020, 1, 1), 800)

	// quarterly filings with a missed year in the middle
	var rows []contracts.Row
	for _, d := range []time.Time{day(2020, 1, 15), day(2020, 4, 15), day(2020, 7, 15), day(2021, 10, 15), day(2022, 1, 14)} {
		rows = append(rows, contracts.Row{Date: d, Values: map[string]float64{"shares": float64(d.Month()), "pb": 1}})
	}
	fund := fundamentals(rows...)

	for _, maxGap := range []int{5, 63, DailyMaxGap} {
		aligned := Align(fund, cal, maxGap)
		for j, target := range cal {
			if math.IsNaN(aligned.Value(j, "shares")) {
				continue
			}
			i := fund.Index(target)
			require.GreaterOrEqual(t, i, 0)
			assert.LessOrEqual(t, Gap(cal, fund.Date(i), j), maxGap, "maxGap=%d target=%s", maxGap, target)
		}
	}
}

func TestAlign_OffCalendarObservation(t *testing.T) {
	// filing on a Saturday counts from the next trading day
	cal := weekdays(day(2024, 1, 1), 10)
	fund := fundamentals(
		contracts.Row{Date: day(2024, 1, 6), Values: map[string]float64{"shares": 100, "pb": 1}},
	)

	aligned := Align(fund, cal, 1)

	assert.True(t, math.IsNaN(aligned.Value(4, "shares")), "Jan 5 precedes the filing")
	assert.Equal(t, 100.0, aligned.Value(5, "shares"), "Jan 8 is gap 1")
	assert.True(t, math.IsNaN(aligned.Value(6, "shares")), "Jan 9 is gap 2")
}

func TestAlign_MissingFieldsStayMissing(t *testing.T) {
	cal := weekdays(day(2024, 1, 1), 3)
	fund := fundamentals(
		contracts.Row{Date: day(2024, 1, 1), Values: map[string]float64{"shares": 100, "pb": 2}},
		contracts.Row{Date: day(2024, 1, 2), Values: map[string]float64{"shares": 120}},
	)

	aligned := Align(fund, cal, DailyMaxGap)

	assert.Equal(t, 120.0, aligned.Value(2, "shares"))
	assert.True(t, math.IsNaN(aligned.Value(2, "pb")), "rows are carried whole")
}

func TestAlign_Empty(t *testing.T) {
	cal := weekdays(day(2024, 1, 1), 3)

	aligned := Align(fundamentals(), cal, DailyMaxGap)
	assert.Equal(t, 3, aligned.Len())
	assert.True(t, math.IsNaN(aligned.Value(0, "pb")))

	assert.Equal(t, 0, Align(fundamentals(), nil, DailyMaxGap).Len())
}

func TestGap(t *testing.T) {
	cal := []time.Time{day(2024, 1, 31), day(2024, 2, 29), day(2024, 3, 29)}

	assert.Equal(t, 0, Gap(cal, day(2024, 1, 31), 0))
	assert.Equal(t, 1, Gap(cal, day(2024, 1, 31), 1))
	assert.Equal(t, 2, Gap(cal, day(2024, 1, 15), 1))
	assert.Equal(t, 3, Gap(cal, day(2023, 12, 31), 2))
}

func TestAlignByKey(t *testing.T) {
	cal := []time.Time{day(2024, 3, 28), day(2024, 6, 28), day(2024, 9, 30)}
	rows := []KeyedRow{
		{Key: "B", Row: contracts.Row{Date: day(2024, 2, 1), Values: map[string]float64{"shares": 2}}},
		{Key: "A", Row: contracts.Row{Date: day(2024, 5, 1), Values: map[string]float64{"shares": 1}}},
		{Key: "A", Row: contracts.Row{Date: day(2024, 5, 1), Values: map[string]float64{"shares": 999}}},
	}

	out := AlignByKey([]string{"shares"}, rows, cal, 2)

	require.Len(t, out, 4)
	assert.Equal(t, "B", out[0].Key)
	assert.Equal(t, day(2024, 3, 28), out[0].Date)

	assert.Equal(t, "A", out[1].Key)
	assert.Equal(t, day(2024, 6, 28), out[1].Date)
	assert.Equal(t, 1.0, out[1].Values["shares"], "duplicate (key, date) keeps the first")

	assert.Equal(t, "B", out[2].Key, "B at gap 2 on the second quarter end")
	assert.Equal(t, "A", out[3].Key)
	assert.Equal(t, day(2024, 9, 30), out[3].Date)
}
