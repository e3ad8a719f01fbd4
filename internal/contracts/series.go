package contracts

import (
	"math"
	"sort"
	"time"
)

// Missing returns the canonical missing value (NaN). Zero is a real value.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing value or otherwise non-finite
func IsMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Day truncates t to its UTC calendar date
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Row is one dated observation handed to NewSeries.
// Columns absent from Values are missing.
type Row struct {
	Date   time.Time
	Values map[string]float64
}

// Series is a date-indexed, column-oriented table.
// ⭐ SSOT: 날짜 인덱스는 항상 엄격하게 증가 (중복 없음)
type Series struct {
	dates   []time.Time
	columns []string
	data    map[string][]float64
}

// NewSeries builds a Series from rows in any order.
// Rows are sorted by date (stable) and duplicate dates collapse to the first row seen.
func NewSeries(columns []string, rows []Row) *Series {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	for i := range sorted {
		sorted[i].Date = Day(sorted[i].Date)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	s := &Series{
		columns: append([]string(nil), columns...),
		data:    make(map[string][]float64, len(columns)),
	}
	for _, col := range columns {
		s.data[col] = make([]float64, 0, len(sorted))
	}

	for i, r := range sorted {
		if i > 0 && r.Date.Equal(sorted[i-1].Date) {
			continue
		}
		s.dates = append(s.dates, r.Date)
		for _, col := range columns {
			v, ok := r.Values[col]
			if !ok {
				v = Missing()
			}
			s.data[col] = append(s.data[col], v)
		}
	}

	return s
}

// Len returns the number of observations
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dates)
}

// Dates returns the date index. Callers must not modify it.
func (s *Series) Dates() []time.Time {
	return s.dates
}

// Date returns the i-th date
func (s *Series) Date(i int) time.Time {
	return s.dates[i]
}

// First returns the earliest date (zero time when empty)
func (s *Series) First() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.dates[0]
}

// Last returns the latest date (zero time when empty)
func (s *Series) Last() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.dates[len(s.dates)-1]
}

// Columns returns the column names in declaration order
func (s *Series) Columns() []string {
	return s.columns
}

// HasColumn reports whether col exists
func (s *Series) HasColumn(col string) bool {
	_, ok := s.data[col]
	return ok
}

// Column returns the values of col (nil if unknown). Callers must not modify it.
func (s *Series) Column(col string) []float64 {
	return s.data[col]
}

// Value returns the value at row i for col; missing if col is unknown
func (s *Series) Value(i int, col string) float64 {
	values, ok := s.data[col]
	if !ok {
		return Missing()
	}
	return values[i]
}

// Row returns the i-th observation as a Row
func (s *Series) Row(i int) Row {
	r := Row{Date: s.dates[i], Values: make(map[string]float64, len(s.columns))}
	for _, col := range s.columns {
		r.Values[col] = s.data[col][i]
	}
	return r
}

// Index returns the position of the last date <= t, or -1
func (s *Series) Index(t time.Time) int {
	t = Day(t)
	return sort.Search(len(s.dates), func(i int) bool {
		return s.dates[i].After(t)
	}) - 1
}

// Slice returns the observations with from <= date <= to.
// The result shares storage with s.
func (s *Series) Slice(from, to time.Time) *Series {
	from, to = Day(from), Day(to)
	lo := sort.Search(len(s.dates), func(i int) bool {
		return !s.dates[i].Before(from)
	})
	hi := sort.Search(len(s.dates), func(i int) bool {
		return s.dates[i].After(to)
	})
	if hi < lo {
		hi = lo
	}
	return s.window(lo, hi)
}

// window returns rows [lo, hi) as a view
func (s *Series) window(lo, hi int) *Series {
	out := &Series{
		dates:   s.dates[lo:hi:hi],
		columns: s.columns,
		data:    make(map[string][]float64, len(s.columns)),
	}
	for _, col := range s.columns {
		out.data[col] = s.data[col][lo:hi:hi]
	}
	return out
}

// Join left-joins other onto s by date. Columns of other that already
// exist in s are ignored; dates absent from other yield missing values.
func (s *Series) Join(other *Series) *Series {
	out := &Series{
		dates:   s.dates,
		columns: append([]string(nil), s.columns...),
		data:    make(map[string][]float64, len(s.columns)+len(other.columns)),
	}
	for _, col := range s.columns {
		out.data[col] = s.data[col]
	}

	pos := make([]int, len(s.dates))
	for i, d := range s.dates {
		j := other.Index(d)
		if j >= 0 && other.dates[j].Equal(d) {
			pos[i] = j
		} else {
			pos[i] = -1
		}
	}

	for _, col := range other.columns {
		if _, exists := out.data[col]; exists {
			continue
		}
		values := make([]float64, len(s.dates))
		src := other.data[col]
		for i, j := range pos {
			if j < 0 {
				values[i] = Missing()
			} else {
				values[i] = src[j]
			}
		}
		out.columns = append(out.columns, col)
		out.data[col] = values
	}

	return out
}
