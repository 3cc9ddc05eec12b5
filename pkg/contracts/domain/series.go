package domain

import (
	"time"
)

// Series is one (entity, family) call-volume series on a fixed-frequency
// grid. Times and Values are parallel; spacing between consecutive Times is
// constant. In the resampled stage Values may contain NaN for grid buckets
// with no raw data; in the filled stage every value is concrete.
type Series struct {
	Times  []time.Time
	Values []float64
}

// Len returns the number of grid points.
func (s Series) Len() int {
	return len(s.Times)
}

// Freq returns the grid spacing, or zero for series shorter than two points.
func (s Series) Freq() time.Duration {
	if len(s.Times) < 2 {
		return 0
	}
	return s.Times[1].Sub(s.Times[0])
}

// ObservedSet records which grid timestamps had at least one raw record in
// their bucket. Grid points outside the set carry imputed values.
type ObservedSet map[time.Time]struct{}

// Has reports whether ts was originally observed.
func (o ObservedSet) Has(ts time.Time) bool {
	_, ok := o[ts]
	return ok
}

// Add marks ts as observed.
func (o ObservedSet) Add(ts time.Time) {
	o[ts] = struct{}{}
}
