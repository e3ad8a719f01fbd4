package s3_features

import "math"

// mean of all values; NaN when empty
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev uses ddof=0
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// nanMean averages the non-NaN values; NaN when there are none.
// Infinities are kept so a zero share count still poisons the row.
func nanMean(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// trailingReturn is values[last]/values[last-lookback] - 1, NaN when the
// series is too short for the lookback
func trailingReturn(values []float64, lookback int) float64 {
	last := len(values) - 1
	if lookback < 1 || last-lookback < 0 {
		return math.NaN()
	}
	return values[last]/values[last-lookback] - 1
}

// logGrowth is ln(end) - ln(start)
func logGrowth(start, end float64) float64 {
	return math.Log(end) - math.Log(start)
}
