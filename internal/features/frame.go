package features

import (
	"fmt"
	"math"
	"time"
)

// Frame is a fixed-length table of named float64 columns sharing one time
// index. Columns keep insertion order so the output schema is stable from
// run to run. Missing values are represented as NaN until FillMissing runs.
type Frame struct {
	times []time.Time
	order []string
	cols  map[string][]float64
}

// NewFrame returns an empty frame indexed by times.
func NewFrame(times []time.Time) *Frame {
	return &Frame{
		times: times,
		cols:  make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.times)
}

// Times returns the frame's time index. Callers must not modify it.
func (f *Frame) Times() []time.Time {
	return f.times
}

// Columns returns the column names in insertion order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Has reports whether the frame holds a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns the values of the named column, or nil if absent. Callers
// must not modify the returned slice.
func (f *Frame) Column(name string) []float64 {
	return f.cols[name]
}

// Set adds or replaces a column. The frame takes ownership of values, which
// must hold exactly Len entries.
func (f *Frame) Set(name string, values []float64) {
	if len(values) != len(f.times) {
		panic(fmt.Sprintf("features: column %q has %d values, frame has %d rows",
			name, len(values), len(f.times)))
	}
	if _, ok := f.cols[name]; !ok {
		f.order = append(f.order, name)
	}
	f.cols[name] = values
}

// SetConst adds or replaces a column where every row carries the same value.
func (f *Frame) SetConst(name string, value float64) {
	col := make([]float64, len(f.times))
	for i := range col {
		col[i] = value
	}
	f.Set(name, col)
}

// FillMissing forward-fills every column and sets any still-missing leading
// entries to zero. It is the final pass before a frame leaves the builder.
func (f *Frame) FillMissing() {
	for _, name := range f.order {
		col := f.cols[name]
		last := math.NaN()
		for i, v := range col {
			if math.IsNaN(v) {
				if math.IsNaN(last) {
					col[i] = 0
				} else {
					col[i] = last
				}
			} else {
				last = v
			}
		}
	}
}
