package features

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// summary holds the metric set shared by the rolling and historical feature
// families. Std is the population standard deviation.
type summary struct {
	Sum    float64
	Mean   float64
	Median float64
	Max    float64
	Min    float64
	Std    float64
	Q25    float64
	Q75    float64
}

// summarize computes the metric set over vals. vals must be non-empty and
// is not modified.
func summarize(vals []float64) summary {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return summarizeSorted(vals, sorted)
}

// summarizeSorted is summarize for callers that already hold a sorted copy
// of vals.
func summarizeSorted(vals, sorted []float64) summary {
	return summary{
		Sum:    floats.Sum(vals),
		Mean:   stat.Mean(vals, nil),
		Median: quantile(sorted, 0.5),
		Max:    sorted[len(sorted)-1],
		Min:    sorted[0],
		Std:    stat.PopStdDev(vals, nil),
		Q25:    quantile(sorted, 0.25),
		Q75:    quantile(sorted, 0.75),
	}
}

// quantile returns the p-quantile of a sorted, non-empty slice using linear
// interpolation between closest ranks (the R-7 estimator).
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
