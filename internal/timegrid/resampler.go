// Package timegrid reconstructs dense fixed-frequency series from
// irregularly logged observations. Counts falling into the same grid bucket
// are summed; gaps between buckets carry the last known value forward, and
// gaps before the first observation are zero.
package timegrid

import (
	"math"
	"time"

	apperrors "callcast/internal/errors"
	"callcast/pkg/contracts/domain"
)

// Resampler buckets observations onto a grid with a fixed step.
type Resampler struct {
	freq time.Duration
}

// New returns a Resampler for the given grid step.
func New(freq time.Duration) *Resampler {
	return &Resampler{freq: freq}
}

// Freq returns the grid step.
func (r *Resampler) Freq() time.Duration {
	return r.freq
}

// Resample aggregates one group's observations onto the grid spanning the
// group's first to last bucket. The returned set marks the buckets that
// held at least one observation; every other grid value is imputed. Groups
// without observations yield an EmptySeriesError.
func (r *Resampler) Resample(obs []domain.Observation, key domain.GroupKey) (domain.Series, domain.ObservedSet, error) {
	if len(obs) == 0 {
		return domain.Series{}, nil, apperrors.NewEmptySeriesError(key.Entity, key.Family)
	}

	buckets := r.Buckets(obs)
	var first, last time.Time
	started := false
	for b := range buckets {
		if !started || b.Before(first) {
			first = b
		}
		if !started || b.After(last) {
			last = b
		}
		started = true
	}

	n := int(last.Sub(first)/r.freq) + 1
	times := make([]time.Time, n)
	values := make([]float64, n)
	observed := make(domain.ObservedSet, len(buckets))
	lastKnown := math.NaN()
	for i := 0; i < n; i++ {
		t := first.Add(time.Duration(i) * r.freq)
		times[i] = t
		if v, ok := buckets[t]; ok {
			values[i] = v
			lastKnown = v
			observed.Add(t)
		} else if math.IsNaN(lastKnown) {
			values[i] = 0
		} else {
			values[i] = lastKnown
		}
	}
	return domain.Series{Times: times, Values: values}, observed, nil
}

// Buckets sums observation counts per grid bucket without reindexing onto a
// dense grid. The pipeline uses it for the family-wide series that backs
// the family rolling means.
func (r *Resampler) Buckets(obs []domain.Observation) map[time.Time]float64 {
	buckets := make(map[time.Time]float64)
	for _, o := range obs {
		buckets[o.Time.Truncate(r.freq)] += o.Count
	}
	return buckets
}

// AlignBuckets projects bucket sums onto an arbitrary grid index: exact
// bucket matches take the bucket value, gaps carry the previous matched
// value forward, and leading gaps are zero.
func AlignBuckets(buckets map[time.Time]float64, times []time.Time) []float64 {
	out := make([]float64, len(times))
	last := math.NaN()
	for i, t := range times {
		if v, ok := buckets[t]; ok {
			last = v
		}
		if math.IsNaN(last) {
			out[i] = 0
		} else {
			out[i] = last
		}
	}
	return out
}
