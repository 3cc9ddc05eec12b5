package features

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// rollingColumns holds one column per rolling statistic for a single window
// width.
type rollingColumns struct {
	Sum    []float64
	Mean   []float64
	Median []float64
	Min    []float64
	Max    []float64
	Std    []float64
	Q25    []float64
	Q75    []float64
	Slope  []float64
}

// rollingWindow computes the as-of rolling statistics of values for one
// window width. The window ending at position i covers [max(0, i-w+1), i],
// so it includes the current value and shrinks at the start of the series
// instead of emitting missing values. Slope needs at least two points and
// is zero before that.
func rollingWindow(values []float64, window int) rollingColumns {
	n := len(values)
	rc := rollingColumns{
		Sum:    make([]float64, n),
		Mean:   make([]float64, n),
		Median: make([]float64, n),
		Min:    make([]float64, n),
		Max:    make([]float64, n),
		Std:    make([]float64, n),
		Q25:    make([]float64, n),
		Q75:    make([]float64, n),
		Slope:  make([]float64, n),
	}
	idx := make([]float64, window)
	for i := range idx {
		idx[i] = float64(i)
	}
	buf := make([]float64, 0, window)
	for i := 0; i < n; i++ {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		win := values[lo : i+1]
		buf = append(buf[:0], win...)
		sort.Float64s(buf)

		s := summarizeSorted(win, buf)
		rc.Sum[i] = s.Sum
		rc.Mean[i] = s.Mean
		rc.Median[i] = s.Median
		rc.Min[i] = s.Min
		rc.Max[i] = s.Max
		rc.Std[i] = s.Std
		rc.Q25[i] = s.Q25
		rc.Q75[i] = s.Q75
		rc.Slope[i] = slope(idx[:len(win)], win)
	}
	return rc
}

// slope returns the least-squares linear-regression slope of y against x.
// Fewer than two points, or a degenerate fit, yield zero.
func slope(x, y []float64) float64 {
	if len(y) < 2 {
		return 0
	}
	_, beta := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0
	}
	return beta
}

// RollingMean returns the as-of rolling mean of values for one window
// width, with the same shrinking-window behavior as rollingWindow. The
// pipeline uses it for the family-level aggregate columns.
func RollingMean(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		out[i] = stat.Mean(values[lo:i+1], nil)
	}
	return out
}
