package s1_align

import (
	"sort"
	"time"

	"github.com/wonny/factorlab/internal/contracts"
)

// Staleness bounds, counted in steps of the target calendar.
// The two units differ and must not be mixed up.
const (
	// DailyMaxGap bounds fundamentals carried over a daily price calendar (trading days)
	DailyMaxGap = 252

	// PeriodicMaxGap bounds fundamentals carried over a month/quarter-end calendar (periods)
	PeriodicMaxGap = 12
)

// Align reindexes fundamentals onto calendar with a bounded forward fill.
// ⭐ SSOT: 재무 데이터 → 가격 캘린더 정렬은 여기서만
//
// Each calendar date takes the whole row of the latest observation dated on
// or before it. The gap is the number of calendar dates after the observation
// date up to and including the target (an exact match has gap 0); when it
// exceeds maxGap every column is missing for that date.
func Align(fundamentals *contracts.Series, calendar []time.Time, maxGap int) *contracts.Series {
	columns := fundamentals.Columns()
	cal := normalize(calendar)
	rows := make([]contracts.Row, len(cal))

	for j, target := range cal {
		rows[j] = contracts.Row{Date: target}

		i := fundamentals.Index(target)
		if i < 0 {
			continue
		}
		if Gap(cal, fundamentals.Date(i), j) > maxGap {
			continue
		}

		values := make(map[string]float64, len(columns))
		for _, col := range columns {
			values[col] = fundamentals.Value(i, col)
		}
		rows[j].Values = values
	}

	return contracts.NewSeries(columns, rows)
}

// Gap counts the calendar dates in (observed, calendar[j]]
func Gap(calendar []time.Time, observed time.Time, j int) int {
	k := sort.Search(len(calendar), func(i int) bool {
		return calendar[i].After(observed)
	})
	if j < k {
		return 0
	}
	return j - k + 1
}

// normalize truncates to dates, sorts and removes duplicates
func normalize(calendar []time.Time) []time.Time {
	out := make([]time.Time, 0, len(calendar))
	for _, d := range calendar {
		out = append(out, contracts.Day(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })

	uniq := out[:0]
	for i, d := range out {
		if i > 0 && d.Equal(out[i-1]) {
			continue
		}
		uniq = append(uniq, d)
	}
	return uniq
}

// KeyedRow is a (key, date) observation, e.g. one ticker's filing
type KeyedRow struct {
	Key string
	contracts.Row
}

// AlignByKey groups rows by key and aligns each group onto calendar
// independently. Output is sorted by (date, key); dates where a key has
// no value at all are omitted.
func AlignByKey(columns []string, rows []KeyedRow, calendar []time.Time, maxGap int) []KeyedRow {
	groups := make(map[string][]contracts.Row)
	for _, r := range rows {
		groups[r.Key] = append(groups[r.Key], r.Row)
	}

	var out []KeyedRow
	for key, group := range groups {
		aligned := Align(contracts.NewSeries(columns, group), calendar, maxGap)
		for i := 0; i < aligned.Len(); i++ {
			row := aligned.Row(i)
			if allMissing(row.Values) {
				continue
			}
			out = append(out, KeyedRow{Key: key, Row: row})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Key < out[j].Key
	})

	return out
}

func allMissing(values map[string]float64) bool {
	for _, v := range values {
		if !contracts.IsMissing(v) {
			return false
		}
	}
	return true
}
