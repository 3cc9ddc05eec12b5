package features

import "math"

// shift returns values displaced k periods forward. The first k entries are
// missing. k must be non-negative.
func shift(values []float64, k int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if i < k {
			out[i] = math.NaN()
		} else {
			out[i] = values[i-k]
		}
	}
	return out
}

// diff1 returns the one-period difference of values. The first entry is
// missing, and differences against a missing previous value stay missing.
func diff1(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if i == 0 {
			out[i] = math.NaN()
		} else {
			out[i] = values[i] - values[i-1]
		}
	}
	return out
}

// pctChange returns the one-period relative change of values. Any entry
// that is not finite (missing inputs, division by zero) becomes zero.
func pctChange(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		v := math.NaN()
		if i > 0 {
			v = (values[i] - values[i-1]) / values[i-1]
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		out[i] = v
	}
	return out
}

// ema returns the exponentially weighted moving average of values for the
// given span with no bias adjustment: alpha = 2/(span+1), seeded with the
// first value.
func ema(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (1-alpha)*out[i-1] + alpha*values[i]
	}
	return out
}
