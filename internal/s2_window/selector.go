package s2_window

import (
	"iter"
	"time"

	"github.com/wonny/factorlab/internal/contracts"
	"github.com/wonny/factorlab/internal/s1_align"
)

const (
	DefaultDays            = 365
	DefaultMinObservations = 250
)

// Window is a trailing slice of an aligned dataset ending at Anchor
type Window struct {
	Anchor time.Time
	Data   *contracts.Series
}

// Len returns the number of observations in the window
func (w Window) Len() int {
	return w.Data.Len()
}

// Selector cuts trailing windows at month-end business days
// ⭐ SSOT: 롤링 윈도우 선택은 여기서만
type Selector struct {
	Days            int // calendar days before the anchor (inclusive bounds)
	MinObservations int // a window needs strictly more rows than this
}

// NewSelector returns the 365-day / >250-observation selector
func NewSelector() Selector {
	return Selector{Days: DefaultDays, MinObservations: DefaultMinObservations}
}

// Anchors returns the month-end business days spanning the dataset
func (s Selector) Anchors(dataset *contracts.Series) []time.Time {
	if dataset.Len() == 0 {
		return nil
	}
	return s1_align.MonthEndBusinessDays(dataset.First(), dataset.Last())
}

// Select lazily yields one window per anchor, in anchor order, skipping
// windows with too little history. Each call starts a new pass.
func (s Selector) Select(dataset *contracts.Series) iter.Seq[Window] {
	return func(yield func(Window) bool) {
		for _, anchor := range s.Anchors(dataset) {
			data := dataset.Slice(anchor.AddDate(0, 0, -s.Days), anchor)
			if data.Len() <= s.MinObservations {
				continue
			}
			if !yield(Window{Anchor: anchor, Data: data}) {
				return
			}
		}
	}
}
