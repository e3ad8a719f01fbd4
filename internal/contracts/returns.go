package contracts

import (
	"sort"
	"time"
)

// ReturnSeries holds day-over-day percentage changes keyed by date
type ReturnSeries struct {
	Dates   []time.Time `json:"dates"`
	Returns []float64   `json:"returns"`
}

// Len returns the number of returns
func (r *ReturnSeries) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Dates)
}

// Get returns the return on date, if present
func (r *ReturnSeries) Get(date time.Time) (float64, bool) {
	if r == nil {
		return 0, false
	}
	date = Day(date)
	i := sort.Search(len(r.Dates), func(i int) bool {
		return !r.Dates[i].Before(date)
	})
	if i < len(r.Dates) && r.Dates[i].Equal(date) {
		return r.Returns[i], true
	}
	return 0, false
}

// PctChange computes value[i]/value[i-1] - 1 over an ascending date index.
// Missing values are padded with the last valid value first; the leading
// undefined changes are dropped.
func PctChange(dates []time.Time, values []float64) *ReturnSeries {
	out := &ReturnSeries{
		Dates:   make([]time.Time, 0, len(dates)),
		Returns: make([]float64, 0, len(dates)),
	}

	prev := Missing()
	for i, v := range values {
		if IsMissing(v) {
			v = prev
		}
		if !IsMissing(prev) && !IsMissing(v) {
			out.Dates = append(out.Dates, Day(dates[i]))
			out.Returns = append(out.Returns, v/prev-1)
		}
		prev = v
	}

	return out
}
