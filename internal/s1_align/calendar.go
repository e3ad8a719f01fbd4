package s1_align

import (
	"time"

	"github.com/wonny/factorlab/internal/contracts"
)

// MonthEndBusinessDays returns the last weekday of every month that falls
// within [start, end]. Exchange holidays are not considered.
func MonthEndBusinessDays(start, end time.Time) []time.Time {
	start, end = contracts.Day(start), contracts.Day(end)
	if end.Before(start) {
		return nil
	}

	var out []time.Time
	month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !month.After(end) {
		d := lastBusinessDay(month.Year(), month.Month())
		if !d.Before(start) && !d.After(end) {
			out = append(out, d)
		}
		month = month.AddDate(0, 1, 0)
	}
	return out
}

func lastBusinessDay(year int, month time.Month) time.Time {
	d := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
